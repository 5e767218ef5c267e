package dmx

import "github.com/arloliu/go-dmx/internal/util"

// Slot indices address the 513-byte packet directly: index 0 is the start
// code and indices 1 through 512 are the channels.

// validRange reports whether n slots starting at start fit in a packet.
// It never computes start+n, so large n cannot overflow.
func validRange(start, n int) bool {
	return start >= 0 && start < MaxPacketSize && n >= 0 && n <= MaxPacketSize-start
}

// Set sets one slot.
func (s *Sender) Set(channel int, value byte) error {
	if !validRange(channel, 1) {
		return ErrInvalidChannel
	}

	s.mu.Lock()
	s.outputBuf[channel] = value
	s.mu.Unlock()

	return nil
}

// Set16 sets two consecutive slots to a 16-bit value, high byte first.
func (s *Sender) Set16(channel int, value uint16) error {
	if !validRange(channel, 2) {
		return ErrInvalidChannel
	}

	s.mu.Lock()
	s.outputBuf[channel] = byte(value >> 8)
	s.outputBuf[channel+1] = byte(value)
	s.mu.Unlock()

	return nil
}

// SetRange copies values into consecutive slots starting at startChannel.
// An empty values slice succeeds when startChannel is a valid slot.
func (s *Sender) SetRange(startChannel int, values []byte) error {
	if !validRange(startChannel, len(values)) {
		return ErrInvalidChannel
	}
	if len(values) == 0 {
		return nil
	}

	s.mu.Lock()
	copy(s.outputBuf[startChannel:], values)
	s.mu.Unlock()

	return nil
}

// SetRange16 writes 16-bit values, high byte first, into consecutive slot
// pairs starting at startChannel.
func (s *Sender) SetRange16(startChannel int, values []uint16) error {
	if !validRange(startChannel, 0) || len(values) > (MaxPacketSize-startChannel)/2 {
		return ErrInvalidChannel
	}
	if len(values) == 0 {
		return nil
	}

	s.mu.Lock()
	i := startChannel
	for _, v := range values {
		s.outputBuf[i] = byte(v >> 8)
		s.outputBuf[i+1] = byte(v)
		i += 2
	}
	s.mu.Unlock()

	return nil
}

// Get returns the value of one slot.
func (s *Sender) Get(channel int) (byte, error) {
	if !validRange(channel, 1) {
		return 0, ErrInvalidChannel
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.outputBuf[channel], nil
}

// Channels returns a copy of all MaxPacketSize slots, start code included.
func (s *Sender) Channels() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return util.CloneSlice(s.outputBuf[:], 0)
}

// Clear sets every slot, including the start code, to zero.
func (s *Sender) Clear() {
	s.mu.Lock()
	s.outputBuf = [MaxPacketSize]byte{}
	s.mu.Unlock()
}

// SetPacketSize sets the number of slots sent per packet, including the
// start code. It applies from the next packet.
func (s *Sender) SetPacketSize(size int) error {
	if size < MinPacketSize || size > MaxPacketSize {
		return ErrInvalidPacketSize
	}

	s.mu.Lock()
	s.packetSize = size
	s.mu.Unlock()

	return nil
}

// PacketSize returns the number of slots sent per packet.
func (s *Sender) PacketSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.packetSize
}
