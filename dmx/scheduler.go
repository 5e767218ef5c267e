package dmx

import (
	"time"

	"github.com/arloliu/go-dmx/hal"
	"github.com/arloliu/go-dmx/internal/pool"
)

// XmitState is the state of the transmit state machine.
type XmitState uint32

const (
	// StateIdle means no packet is in flight.
	StateIdle XmitState = iota
	// StateBreak means a BREAK is on the line.
	StateBreak
	// StateMAB means the Mark-After-Break is on the line (timer mode only).
	StateMAB
	// StateData means slots are being handed to the hardware.
	StateData
	// StateCompleting means the last slot has been queued and the engine is
	// waiting for the hardware to finish shifting it out.
	StateCompleting
)

// String returns string representation of the state.
func (st XmitState) String() string {
	switch st {
	case StateIdle:
		return "idle"
	case StateBreak:
		return "break"
	case StateMAB:
		return "mab"
	case StateData:
		return "data"
	case StateCompleting:
		return "completing"
	default:
		return "unknown"
	}
}

// scheduler adapts a Sender to the hal.TxEvents and hal.ByteSource
// interfaces without exporting those methods on Sender. Every method runs
// with the Sender's critical section held.
type scheduler struct {
	s *Sender
}

var (
	_ hal.TxEvents   = (*scheduler)(nil)
	_ hal.ByteSource = (*scheduler)(nil)
)

// NextByte hands out the next slot of the packet snapshot.
func (sc *scheduler) NextByte() (byte, bool) {
	s := sc.s
	if s.xmitIndex >= s.xmitSize {
		return 0, false
	}
	b := s.xmitBuf[s.xmitIndex]
	s.xmitIndex++

	return b, true
}

func (sc *scheduler) OnTxEmpty() {
	s := sc.s

	switch s.state {
	case StateBreak:
		if s.cur.useTimer {
			s.spurious()
			return
		}
		if s.handler.PushBytes(&breakByte{}) == 0 {
			return
		}
		s.handler.SetCompleting()

	case StateData:
		s.handler.PushBytes(sc)
		if s.xmitIndex >= s.xmitSize {
			s.state = StateCompleting
			s.handler.SetCompleting()
		}

	default:
		s.spurious()
	}
}

func (sc *scheduler) OnTxComplete() {
	s := sc.s

	switch s.state {
	case StateBreak:
		if s.cur.useTimer {
			s.spurious()
			return
		}
		// The BREAK byte has fully left the shift register.
		s.handler.ConfigureSlots()
		s.state = StateData
		s.handler.SetActive()

	case StateCompleting:
		s.handler.SetInactive()
		s.completePacket()
		s.rearm()

	default:
		s.spurious()
	}
}

// breakByte yields a single 0x00, the BREAK placeholder in serial-framing mode.
type breakByte struct {
	sent bool
}

func (b *breakByte) NextByte() (byte, bool) {
	if b.sent {
		return 0, false
	}
	b.sent = true

	return 0, true
}

// handleIRQ is the interrupt entry point reached through the registry.
func (s *Sender) handleIRQ() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.began {
		return
	}
	s.handler.HandleIRQ(&s.sched)
}

// spurious records an interrupt that arrived in a state that does not expect
// it. Outside a packet the transmit sources are masked again.
func (s *Sender) spurious() {
	s.metrics.incSpuriousIRQCount()
	if s.state == StateIdle {
		s.handler.SetInactive()
	}
}

// startBreak begins a packet: it snapshots the slots and timing, then puts a
// BREAK on the line. Must be called with s.mu held and s.state == StateIdle.
func (s *Sender) startBreak() {
	s.cur = s.timing
	s.xmitSize = s.packetSize
	copy(s.xmitBuf[:s.xmitSize], s.outputBuf[:s.xmitSize])
	s.xmitIndex = 0

	s.transmitting = true
	s.breakStart = time.Now()
	s.state = StateBreak
	s.metrics.incBreakCount()

	if s.cur.useTimer {
		s.handler.SetInactive()
		s.handler.SetBreakLine(true)
		s.armTimer(s.cur.adjustedBreak, s.onBreakTimer)

		return
	}

	s.handler.ConfigureBreak()
	s.handler.SetActive()
}

func (s *Sender) onBreakTimer() {
	if s.state != StateBreak {
		return
	}
	s.handler.SetBreakLine(false)
	s.state = StateMAB
	s.armTimer(s.cur.adjustedMAB, s.onMABTimer)
}

func (s *Sender) onMABTimer() {
	if s.state != StateMAB {
		return
	}
	s.state = StateData
	s.handler.SetActive()
}

// completePacket finishes the packet in flight. Must be called with s.mu held.
func (s *Sender) completePacket() {
	s.metrics.incPacketCount()
	s.metrics.addSlotCount(s.xmitSize)
	s.xmitIndex = 0
	s.transmitting = false
	s.state = StateIdle

	if s.resumeCounter > 0 {
		s.resumeCounter--
		if s.resumeCounter == 0 {
			s.paused = true
		}
	}

	if s.paused && s.doneFunc != nil {
		s.doneFunc(s)
	}
}

// --- one-shot timer ---

// oneShot tracks the single timer a Sender may have armed: the BREAK or MAB
// timer while a packet starts, or the pacing timer while idle.
type oneShot struct {
	gen  uint64
	stop chan struct{}
}

// armTimer runs fn with s.mu held after d, unless the timer is cancelled or
// re-armed first. Must be called with s.mu held.
func (s *Sender) armTimer(d time.Duration, fn func()) {
	s.cancelTimer()

	gen := s.timer.gen
	stop := make(chan struct{})
	s.timer.stop = stop

	go func() {
		if !pool.Wait(d, stop) {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		if s.timer.gen != gen || !s.began {
			return
		}
		s.timer.stop = nil
		fn()
	}()
}

// cancelTimer stops any armed timer. A timer goroutine that already woke up
// sees the changed generation and does nothing. Must be called with s.mu held.
func (s *Sender) cancelTimer() {
	s.timer.gen++
	if s.timer.stop != nil {
		close(s.timer.stop)
		s.timer.stop = nil
	}
}
