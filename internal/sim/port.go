// Package sim provides a simulated serial transmitter implementing hal.Port.
//
// A Port runs its own hardware goroutine that shifts bytes out of the
// transmit FIFO, records them as frames, and invokes the installed interrupt
// vector while an enabled transmit source is asserted. The vector is never
// invoked concurrently with itself, matching a non re-entrant interrupt.
package sim

import (
	"sync"
	"time"

	"github.com/arloliu/go-dmx/hal"
	"github.com/arloliu/go-dmx/internal/pool"
	"github.com/arloliu/go-dmx/internal/queue"
)

// FrameKind identifies a recorded line event.
type FrameKind uint8

const (
	// FrameByte is one byte shifted out of the transmitter.
	FrameByte FrameKind = iota
	// FrameBreak is the line held low by SetBreak.
	FrameBreak
)

// Frame is one event observed on the simulated transmit line.
type Frame struct {
	Kind     FrameKind
	Data     byte
	Baud     uint32
	Format   hal.Format
	At       time.Time
	Duration time.Duration // FrameBreak only
}

const defaultMaxFrames = 1 << 16

// PortOption configures a Port.
type PortOption func(*Port)

// WithFIFODepth sets the transmit buffer depth. A depth of 1 models a plain
// data register.
func WithFIFODepth(depth int) PortOption {
	return func(p *Port) {
		if depth > 0 {
			p.depth = depth
		}
	}
}

// WithByteTime sets how long each byte takes to shift out. Zero shifts
// bytes as fast as the hardware goroutine runs.
func WithByteTime(d time.Duration) PortOption {
	return func(p *Port) { p.byteTime = d }
}

// WithMaxFrames bounds the number of recorded frames; the oldest half is
// discarded when the bound is reached.
func WithMaxFrames(n int) PortOption {
	return func(p *Port) {
		if n > 0 {
			p.maxFrames = n
		}
	}
}

// Port is a simulated serial transmitter.
type Port struct {
	index     int
	depth     int
	byteTime  time.Duration
	maxFrames int

	mu         sync.Mutex
	baud       uint32
	format     hal.Format
	txEnabled  bool
	fifo       queue.Queue[byte]
	txIRQ      hal.TxIRQ
	irqEnabled bool
	vector     func()
	shifting   bool
	breakOn    bool
	breakStart time.Time
	frames     []Frame
	irqCount   uint64

	kick      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

var _ hal.Port = (*Port)(nil)

// NewPort creates a simulated port with the given index and starts its
// hardware goroutine. Call Close to stop it.
func NewPort(index int, opts ...PortOption) *Port {
	p := &Port{
		index:     index,
		depth:     1,
		maxFrames: defaultMaxFrames,
		kick:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.fifo = queue.NewRingQueue[byte](p.depth)

	p.wg.Add(1)
	go p.run()

	return p
}

// Close stops the hardware goroutine. It is safe to call more than once.
func (p *Port) Close() error {
	p.closeOnce.Do(func() { close(p.done) })
	p.wg.Wait()

	return nil
}

// Index implements hal.Port.
func (p *Port) Index() int { return p.index }

// FIFODepth implements hal.Port.
func (p *Port) FIFODepth() int { return p.depth }

// Configure implements hal.Port.
func (p *Port) Configure(baud uint32, format hal.Format) {
	p.mu.Lock()
	p.baud = baud
	p.format = format
	p.mu.Unlock()
}

// EnableTx implements hal.Port. Disabling the transmitter does not discard
// queued bytes; they are sent once it is enabled again.
func (p *Port) EnableTx(enabled bool) {
	p.mu.Lock()
	p.txEnabled = enabled
	p.mu.Unlock()
	p.notify()
}

// TxFree implements hal.Port.
func (p *Port) TxFree() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.fifo.Free()
}

// TxComplete implements hal.Port.
func (p *Port) TxComplete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.fifo.IsEmpty() && !p.shifting
}

// WriteData implements hal.Port. Writes to a full FIFO are dropped, as an
// overrun would be on real hardware.
func (p *Port) WriteData(b byte) {
	p.mu.Lock()
	p.fifo.Enqueue(b)
	p.mu.Unlock()
	p.notify()
}

// SetTxIRQ implements hal.Port.
func (p *Port) SetTxIRQ(mask hal.TxIRQ) {
	p.mu.Lock()
	p.txIRQ = mask
	p.mu.Unlock()
	p.notify()
}

// TxIRQ implements hal.Port.
func (p *Port) TxIRQ() hal.TxIRQ {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.txIRQ
}

// SetIRQEnabled implements hal.Port.
func (p *Port) SetIRQEnabled(enabled bool) {
	p.mu.Lock()
	p.irqEnabled = enabled
	p.mu.Unlock()
	p.notify()
}

// SetBreak implements hal.Port.
func (p *Port) SetBreak(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if on == p.breakOn {
		return
	}
	p.breakOn = on

	now := time.Now()
	if on {
		p.breakStart = now
		return
	}
	p.record(Frame{
		Kind:     FrameBreak,
		Baud:     p.baud,
		Format:   p.format,
		At:       p.breakStart,
		Duration: now.Sub(p.breakStart),
	})
}

// SetVector implements hal.Port.
func (p *Port) SetVector(vector func()) {
	p.mu.Lock()
	p.vector = vector
	p.mu.Unlock()
	p.notify()
}

// Frames returns a copy of the recorded frames.
func (p *Port) Frames() []Frame {
	p.mu.Lock()
	defer p.mu.Unlock()

	frames := make([]Frame, len(p.frames))
	copy(frames, p.frames)

	return frames
}

// ResetFrames discards the recorded frames.
func (p *Port) ResetFrames() {
	p.mu.Lock()
	p.frames = p.frames[:0]
	p.mu.Unlock()
}

// IRQCount returns how many times the vector has been invoked.
func (p *Port) IRQCount() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.irqCount
}

// Interrupt invokes the vector once from the caller's goroutine, whether or
// not a source is asserted. It models a spurious interrupt.
func (p *Port) Interrupt() {
	p.mu.Lock()
	vector := p.vector
	p.mu.Unlock()

	if vector != nil {
		vector()
	}
}

func (p *Port) notify() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// record must be called with p.mu held.
func (p *Port) record(f Frame) {
	if len(p.frames) >= p.maxFrames {
		half := len(p.frames) / 2
		p.frames = append(p.frames[:0], p.frames[half:]...)
	}
	p.frames = append(p.frames, f)
}

// asserted must be called with p.mu held.
func (p *Port) asserted() bool {
	if !p.irqEnabled || p.vector == nil {
		return false
	}
	if p.txIRQ&hal.TxIRQEmpty != 0 && p.fifo.Free() > 0 {
		return true
	}

	return p.txIRQ&hal.TxIRQComplete != 0 && p.fifo.IsEmpty() && !p.shifting
}

func (p *Port) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.done:
			return
		default:
		}

		if p.shift() {
			if p.byteTime > 0 && !pool.Wait(p.byteTime, p.done) {
				return
			}
			p.mu.Lock()
			p.shifting = false
			p.mu.Unlock()
		}

		p.mu.Lock()
		fire := p.asserted()
		vector := p.vector
		pending := p.txEnabled && !p.fifo.IsEmpty()
		if fire {
			p.irqCount++
		}
		p.mu.Unlock()

		if fire {
			vector()
			continue
		}
		if pending {
			continue
		}

		select {
		case <-p.kick:
		case <-p.done:
			return
		}
	}
}

// shift moves one byte from the FIFO onto the line.
func (p *Port) shift() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.txEnabled {
		return false
	}
	b, ok := p.fifo.Dequeue()
	if !ok {
		return false
	}
	p.shifting = true
	p.record(Frame{
		Kind:   FrameByte,
		Data:   b,
		Baud:   p.baud,
		Format: p.format,
		At:     time.Now(),
	})

	return true
}
