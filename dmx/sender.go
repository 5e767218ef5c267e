package dmx

import (
	"sync"
	"time"

	"github.com/arloliu/go-dmx/hal"
	"github.com/arloliu/go-dmx/logger"
)

// Sender transmits DMX512 packets on one serial port.
//
// A Sender keeps a 513-slot output buffer. Once started with Begin it
// repeatedly sends BREAK, MAB and the first PacketSize slots of the buffer,
// paced by the refresh rate. Buffer writes, configuration changes and
// interrupt handling all share one critical section; each packet is sent
// from a snapshot taken when its BREAK starts, so a packet never mixes the
// results of two writes and timing changes apply from the next packet.
//
// All methods are safe for concurrent use, except that Begin and End must
// not race with each other on the same Sender.
type Sender struct {
	cfg      *SenderConfig
	logger   logger.Logger
	port     hal.Port
	index    int
	handler  hal.SendHandler
	family   hal.Family
	registry *Registry

	mu    sync.Mutex
	began bool
	state XmitState

	outputBuf  [MaxPacketSize]byte
	xmitBuf    [MaxPacketSize]byte
	xmitIndex  int
	xmitSize   int
	packetSize int

	timing timing // as configured
	cur    timing // snapshot for the packet in flight

	refreshRate  float64
	breakToBreak time.Duration
	breakStart   time.Time

	paused        bool
	resumeCounter int
	transmitting  bool
	doneFunc      DoneFunc

	timer   oneShot
	sched   scheduler
	metrics SenderMetrics
}

// NewSender creates a sender for port using cfg.
//
// The port's interrupt vector is bound to the configured registry. A port
// whose index has no transmitter in the configured family gets no handler:
// the sender can still be configured and written to, but Begin and End do
// nothing.
func NewSender(port hal.Port, cfg *SenderConfig) (*Sender, error) {
	if port == nil {
		return nil, ErrPortNil
	}
	if cfg == nil {
		return nil, ErrConfigNil
	}

	s := &Sender{
		cfg:         cfg,
		port:        port,
		index:       port.Index(),
		family:      cfg.family,
		registry:    cfg.registry,
		packetSize:  cfg.packetSize,
		refreshRate: cfg.refreshRate,
		state:       StateIdle,
	}
	s.sched.s = s
	s.logger = cfg.logger.With("port", s.index, "family", cfg.family.Name)

	s.timing.setBreakTime(cfg.breakTime, cfg.family)
	s.timing.setMABTime(cfg.mabTime, cfg.family)
	s.timing.breakBaud = cfg.breakBaud
	s.timing.breakFormat = cfg.breakFormat
	s.timing.useTimer = cfg.breakUseTimer
	s.breakToBreak = breakToBreakTime(cfg.refreshRate)

	if validPortIndex(s.index) {
		s.handler = cfg.family.NewSendHandler(port)
	}
	if s.handler == nil {
		s.logger.Warn("dmx: no transmitter for port, sender is inert")
		return s, nil
	}
	s.handler.BreakSerialParamsChanged(cfg.breakBaud, cfg.breakFormat)
	s.registry.Bind(port)

	return s, nil
}

// Begin starts transmission. If another sender owns the same port index in
// the registry, that sender is stopped first. Calling Begin on a started
// sender has no effect.
func (s *Sender) Begin() {
	s.mu.Lock()
	if s.began || s.handler == nil {
		s.mu.Unlock()
		return
	}
	s.began = true
	s.metrics.reset()
	s.transmitting = false
	s.state = StateIdle
	s.breakStart = time.Time{}
	s.mu.Unlock()

	// The previous owner must release the shared port before it is set up
	// again.
	if prev := s.registry.claim(s); prev != nil && prev != s {
		prev.metrics.incEvictionCount()
		prev.End()
		s.logger.Info("dmx: evicted previous sender from port")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.began {
		return
	}
	s.handler.Start()
	s.rearm()
	s.logger.Debug("dmx: sender started",
		"refresh_rate", s.refreshRate, "packet_size", s.packetSize, "break_use_timer", s.timing.useTimer)
}

// End stops transmission immediately, abandoning any packet in flight, and
// releases the port. Calling End on a stopped sender has no effect.
func (s *Sender) End() {
	s.mu.Lock()
	if !s.began {
		s.mu.Unlock()
		return
	}
	s.began = false
	s.handler.End()
	s.cancelTimer()
	s.transmitting = false
	s.state = StateIdle
	s.xmitIndex = 0
	s.mu.Unlock()

	s.registry.release(s)
	s.logger.Debug("dmx: sender stopped", "packets", s.metrics.PacketCount.Load())
}

// Close stops the sender. It implements io.Closer.
func (s *Sender) Close() error {
	s.End()
	return nil
}

// IsStarted reports whether the sender has been started and not stopped or
// evicted since.
func (s *Sender) IsStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.began
}

// State returns the current state of the transmit state machine.
func (s *Sender) State() XmitState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// PacketCount returns the number of packets fully sent since the last Begin.
func (s *Sender) PacketCount() uint64 {
	return s.metrics.PacketCount.Load()
}

// GetMetrics returns the sender's metrics.
func (s *Sender) GetMetrics() *SenderMetrics {
	return &s.metrics
}

// PortIndex returns the index of the sender's port.
func (s *Sender) PortIndex() int {
	return s.index
}

// Config returns the configuration the sender was created with.
func (s *Sender) Config() *SenderConfig {
	return s.cfg
}
