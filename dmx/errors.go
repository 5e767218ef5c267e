package dmx

import "errors"

// Sentinel errors returned by Sender configuration and control methods.
// A call that returns one of these leaves the Sender unchanged.
var (
	ErrPortNil            = errors.New("dmx: port is nil")
	ErrConfigNil          = errors.New("dmx: sender config is nil")
	ErrInvalidChannel     = errors.New("dmx: channel range out of bounds")
	ErrInvalidRate        = errors.New("dmx: refresh rate must be a non-negative number")
	ErrInvalidTiming      = errors.New("dmx: timing must not be negative")
	ErrInvalidBreakParams = errors.New("dmx: unsupported BREAK baud rate or format")
	ErrInvalidResumeCount = errors.New("dmx: resume count must not be negative")
	ErrInvalidPacketSize  = errors.New("dmx: packet size out of range")
	ErrNotStarted         = errors.New("dmx: sender not started")
	ErrBusy               = errors.New("dmx: packet in flight")
)
