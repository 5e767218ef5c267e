package dmx

import (
	"time"

	"github.com/arloliu/go-dmx/hal"
)

// timing holds the BREAK and MAB parameters of a Sender. A copy is taken at
// the start of every packet so that changes only affect the next packet.
type timing struct {
	breakTime     time.Duration
	mabTime       time.Duration
	adjustedBreak time.Duration
	adjustedMAB   time.Duration

	breakBaud   uint32
	breakFormat hal.Format
	useTimer    bool
}

func (t *timing) setBreakTime(d time.Duration, family hal.Family) {
	t.breakTime = d
	t.adjustedBreak = d + family.BreakAdjust
}

func (t *timing) setMABTime(d time.Duration, family hal.Family) {
	t.mabTime = d
	if d < family.MABAdjust {
		t.adjustedMAB = 0
	} else {
		t.adjustedMAB = d - family.MABAdjust
	}
}

// effectiveBreak returns the BREAK time that will appear on the line.
func (t *timing) effectiveBreak() time.Duration {
	if t.useTimer {
		return t.breakTime
	}

	bits, ok := t.breakFormat.BreakBits()
	if !ok {
		return DefaultBreakTime
	}

	return bitTimes(bits, t.breakBaud)
}

// effectiveMAB returns the MAB time that will appear on the line.
func (t *timing) effectiveMAB() time.Duration {
	if t.useTimer {
		return t.mabTime
	}

	bits, ok := t.breakFormat.MABBits()
	if !ok {
		return DefaultMABTime
	}

	return bitTimes(bits, t.breakBaud)
}

// bitTimes converts a bit count at baud into whole microseconds.
func bitTimes(bits, baud uint32) time.Duration {
	if baud == 0 {
		return 0
	}

	return time.Duration(uint64(bits)*1_000_000/uint64(baud)) * time.Microsecond
}

// SetBreakTime sets the BREAK time used in timer mode. The timer is armed
// with the requested time plus the family's BREAK correction.
// The new value applies from the next packet.
func (s *Sender) SetBreakTime(d time.Duration) error {
	if d < 0 {
		return ErrInvalidTiming
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.timing.setBreakTime(d, s.family)

	return nil
}

// BreakTime returns the BREAK time. In timer mode this is the requested
// time; in serial-framing mode it is derived from the BREAK baud rate and
// format.
func (s *Sender) BreakTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.timing.effectiveBreak()
}

// AdjustedBreakTime returns the timer value used for BREAK in timer mode.
func (s *Sender) AdjustedBreakTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.timing.adjustedBreak
}

// SetMABTime sets the MAB time used in timer mode. The timer is armed with
// the requested time minus the family's MAB correction, floored at zero.
// The new value applies from the next packet.
func (s *Sender) SetMABTime(d time.Duration) error {
	if d < 0 {
		return ErrInvalidTiming
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.timing.setMABTime(d, s.family)

	return nil
}

// MABTime returns the MAB time. See BreakTime.
func (s *Sender) MABTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.timing.effectiveMAB()
}

// AdjustedMABTime returns the timer value used for MAB in timer mode.
func (s *Sender) AdjustedMABTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.timing.adjustedMAB
}

// SetBreakSerialParams sets the baud rate and format used to generate a
// BREAK in serial-framing mode. It fails with ErrInvalidBreakParams, leaving
// the previous parameters in place, when baud is zero, the TX inversion bit
// is set, or the family does not support the format.
func (s *Sender) SetBreakSerialParams(baud uint32, format hal.Format) error {
	if baud == 0 || !s.family.SupportsBreakFormat(format) {
		return ErrInvalidBreakParams
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.timing.breakBaud = baud
	s.timing.breakFormat = format
	if s.handler != nil {
		s.handler.BreakSerialParamsChanged(baud, format)
	}

	return nil
}

// BreakSerialBaud returns the BREAK baud rate.
func (s *Sender) BreakSerialBaud() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.timing.breakBaud
}

// BreakSerialFormat returns the BREAK serial format.
func (s *Sender) BreakSerialFormat() hal.Format {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.timing.breakFormat
}

// SetBreakUseTimer selects timer mode (true) or serial-framing mode (false)
// for BREAK and MAB generation, starting with the next packet.
func (s *Sender) SetBreakUseTimer(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.timing.useTimer = enabled
}

// IsBreakUseTimer reports whether timer mode is selected.
func (s *Sender) IsBreakUseTimer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.timing.useTimer
}
