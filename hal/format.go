package hal

import (
	"fmt"
	"strings"
)

// Format is a serial frame format: data bits, parity and stop bits, plus
// optional signal inversion modifier bits.
type Format uint32

// Base serial formats.
const (
	Format8N1 Format = iota
	Format8N2
	Format8E1
	Format8O1
	Format8E2
	Format8O2
	Format7E1
	Format7O1
	Format9N1
	Format9E1
	Format9O1
)

// Modifier bits that may be combined with a base format.
const (
	// FormatRXInv inverts the receive signal.
	FormatRXInv Format = 0x10
	// FormatTXInv inverts the transmit signal. It is never valid for BREAK
	// generation because an inverted BREAK is a mark.
	FormatTXInv Format = 0x20

	formatModifierMask = FormatRXInv | FormatTXInv
)

// DMX512 slot framing.
const (
	SlotsBaud   uint32 = 250000
	SlotsFormat        = Format8N2
)

var formatNames = map[Format]string{
	Format8N1: "8N1",
	Format8N2: "8N2",
	Format8E1: "8E1",
	Format8O1: "8O1",
	Format8E2: "8E2",
	Format8O2: "8O2",
	Format7E1: "7E1",
	Format7O1: "7O1",
	Format9N1: "9N1",
	Format9E1: "9E1",
	Format9O1: "9O1",
}

// Base returns the format with the inversion modifier bits cleared.
func (f Format) Base() Format { return f &^ formatModifierMask }

// IsTXInverted reports whether the TX inversion bit is set.
func (f Format) IsTXInverted() bool { return f&FormatTXInv != 0 }

// IsRXInverted reports whether the RX inversion bit is set.
func (f Format) IsRXInverted() bool { return f&FormatRXInv != 0 }

// IsValid reports whether the base format is a known format.
func (f Format) IsValid() bool {
	_, ok := formatNames[f.Base()]
	return ok
}

// IsNineBit reports whether the base format uses 9 data bits.
func (f Format) IsNineBit() bool {
	switch f.Base() {
	case Format9N1, Format9E1, Format9O1:
		return true
	default:
		return false
	}
}

// IsExtended reports whether the base format is one of the two-stop-bit
// parity formats that only some families support.
func (f Format) IsExtended() bool {
	switch f.Base() {
	case Format8E2, Format8O2:
		return true
	default:
		return false
	}
}

// BreakBits returns the number of bit periods the line stays low when a 0x00
// byte is sent in this format: the start bit, the data bits, and a parity
// bit when the parity of zero is 0. The second return value is false for
// unknown formats.
func (f Format) BreakBits() (uint32, bool) {
	switch f.Base() {
	case Format7E1, Format8N1, Format8O1, Format8N2, Format8O2:
		return 9, true
	case Format8E1, Format8E2:
		return 10, true
	case Format7O1:
		return 8, true
	case Format9N1, Format9O1:
		return 10, true
	case Format9E1:
		return 11, true
	default:
		return 0, false
	}
}

// MABBits returns the number of bit periods the line stays high after a 0x00
// byte in this format, before the next start bit. The second return value is
// false for unknown formats.
func (f Format) MABBits() (uint32, bool) {
	switch f.Base() {
	case Format7E1, Format8N1, Format8E1, Format9N1, Format9E1:
		return 1, true
	case Format7O1, Format8O1, Format8N2, Format8E2, Format9O1:
		return 2, true
	case Format8O2:
		return 3, true
	default:
		return 0, false
	}
}

// String returns the conventional name of the format, e.g. "8N1" or
// "8E1+txinv".
func (f Format) String() string {
	name, ok := formatNames[f.Base()]
	if !ok {
		name = fmt.Sprintf("format(%d)", uint32(f.Base()))
	}
	if f.IsRXInverted() {
		name += "+rxinv"
	}
	if f.IsTXInverted() {
		name += "+txinv"
	}

	return name
}

// ParseFormat parses a format name such as "8N1" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}

	return 0, fmt.Errorf("hal: unknown serial format %q", s)
}
