package dmx

import (
	"math"
	"time"
)

// SetRefreshRate sets the packet rate in Hz. NaN and negative rates are
// rejected with ErrInvalidRate and leave the rate unchanged.
//
// A rate of 0 stops automatic retransmission: the packet in flight finishes
// and further packets are only sent with Trigger. math.Inf(1) sends packets
// back to back. A finite rate spaces BREAK starts 1e6/rate microseconds
// apart, independent of packet size.
//
// Moving from 0 to a nonzero rate restarts a begun sender so that pacing
// starts from a clean state.
func (s *Sender) SetRefreshRate(rate float64) error {
	if math.IsNaN(rate) || rate < 0 {
		return ErrInvalidRate
	}

	s.mu.Lock()
	restart := rate != 0 && s.refreshRate == 0 && s.began
	s.refreshRate = rate
	s.breakToBreak = breakToBreakTime(rate)
	if !restart && s.began && s.state == StateIdle {
		// Only the pacing timer can be armed while idle.
		s.cancelTimer()
		s.rearm()
	}
	s.mu.Unlock()

	if restart {
		s.logger.Debug("dmx: restart sender for new refresh rate", "rate", rate)
		s.End()
		s.Begin()
	}

	return nil
}

// RefreshRate returns the packet rate in Hz.
func (s *Sender) RefreshRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.refreshRate
}

// BreakToBreakTime returns the interval between consecutive BREAK starts.
// The second return value is false when the rate is 0 or infinite, in which
// case there is no fixed interval.
func (s *Sender) BreakToBreakTime() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.breakToBreak, s.breakToBreak > 0
}

func breakToBreakTime(rate float64) time.Duration {
	if rate == 0 || math.IsInf(rate, 1) {
		return 0
	}

	return time.Duration(1_000_000/rate) * time.Microsecond
}

// Trigger sends one packet now. It is the way to transmit when the refresh
// rate is 0, and may also be used to send a packet early at other rates.
// Trigger fails with ErrNotStarted before Begin and with ErrBusy while a
// packet is in flight.
func (s *Sender) Trigger() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.began {
		return ErrNotStarted
	}
	if s.transmitting || s.state != StateIdle {
		return ErrBusy
	}

	s.cancelTimer()
	s.startBreak()

	return nil
}

// rearm schedules the next BREAK after a packet completes or transmission
// is resumed. Must be called with s.mu held.
func (s *Sender) rearm() {
	if !s.began || s.paused || s.state != StateIdle || s.refreshRate == 0 {
		return
	}

	if s.breakToBreak == 0 {
		s.startBreak()
		return
	}

	wait := s.breakToBreak - time.Since(s.breakStart)
	if wait <= 0 {
		s.startBreak()
		return
	}
	s.armTimer(wait, s.rearm)
}
