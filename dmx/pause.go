package dmx

// DoneFunc is called when a packet completes while the sender is paused,
// including the packet that ends a ResumeFor run.
//
// It runs inside the sender's critical section, in interrupt context. It
// must not block and must not call methods of the same Sender.
type DoneFunc func(s *Sender)

// Pause stops transmission after the packet in flight, if any, completes.
func (s *Sender) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused = true
	if s.state == StateIdle {
		s.cancelTimer()
	}
}

// IsPaused reports whether the sender is paused.
func (s *Sender) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.paused
}

// Resume resumes transmission indefinitely. The done function is kept.
func (s *Sender) Resume() {
	_ = s.resumeFor(0, nil, false)
}

// ResumeFor resumes transmission for n packets, after which the sender
// pauses again and calls the current done function. n == 0 resumes
// indefinitely. A negative n fails with ErrInvalidResumeCount.
func (s *Sender) ResumeFor(n int) error {
	return s.resumeFor(n, nil, false)
}

// ResumeForFunc is like ResumeFor but also replaces the done function;
// a nil fn removes it.
func (s *Sender) ResumeForFunc(n int, fn DoneFunc) error {
	return s.resumeFor(n, fn, true)
}

func (s *Sender) resumeFor(n int, fn DoneFunc, setFn bool) error {
	if n < 0 {
		return ErrInvalidResumeCount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.resumeCounter = n
	if setFn {
		s.doneFunc = fn
	}
	if s.paused {
		s.paused = false
		if s.began && !s.transmitting {
			s.rearm()
		}
	}

	return nil
}

// IsTransmitting reports whether the sender is sending or will keep sending
// packets on its own. While paused, or with a refresh rate of 0, it reports
// only whether a packet is still in flight.
func (s *Sender) IsTransmitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.transmitting || (s.began && !s.paused && s.refreshRate != 0)
}
