package hal

import (
	"strings"
	"time"
)

// PortKind identifies how a port buffers outgoing bytes.
type PortKind uint8

const (
	// PortNone means the chip has no port at that index.
	PortNone PortKind = iota
	// PortUART is a port with a single transmit data register.
	PortUART
	// PortFIFO is a port with a multi-byte transmit FIFO.
	PortFIFO
)

// String returns the name of the port kind.
func (k PortKind) String() string {
	switch k {
	case PortUART:
		return "uart"
	case PortFIFO:
		return "fifo"
	default:
		return "none"
	}
}

// Family describes a chip family as seen by the transmit engine.
type Family struct {
	// Name is a human readable name used in logs.
	Name string
	// BreakAdjust is added to a requested BREAK time to get the timer value.
	BreakAdjust time.Duration
	// MABAdjust is subtracted from a requested MAB time to get the timer
	// value, flooring at zero.
	MABAdjust time.Duration
	// ExtFormats enables the 8E2 and 8O2 formats for BREAK generation.
	ExtFormats bool
	// NineBit enables the 9-bit formats for BREAK generation.
	NineBit bool
	// Ports lists the buffering style of each port, indexed by port index.
	Ports []PortKind
}

// Chip families. The adjust values were measured for a 180us BREAK and a
// 20us MAB.
var (
	FamilyMK20DX = Family{
		Name:        "MK20DX",
		BreakAdjust: 1 * time.Microsecond,
		MABAdjust:   7 * time.Microsecond,
		Ports:       []PortKind{PortFIFO, PortFIFO, PortUART},
	}
	FamilyMKL26Z = Family{
		Name:        "MKL26Z",
		BreakAdjust: 5 * time.Microsecond,
		MABAdjust:   12 * time.Microsecond,
		ExtFormats:  true,
		Ports:       []PortKind{PortUART, PortUART, PortUART},
	}
	FamilyMK64FX = Family{
		Name:        "MK64FX",
		BreakAdjust: 1 * time.Microsecond,
		MABAdjust:   5 * time.Microsecond,
		ExtFormats:  true,
		Ports:       []PortKind{PortFIFO, PortFIFO, PortUART, PortUART, PortUART, PortUART},
	}
	FamilyMK66FX = Family{
		Name:        "MK66FX",
		BreakAdjust: 1 * time.Microsecond,
		MABAdjust:   4 * time.Microsecond,
		ExtFormats:  true,
		Ports:       []PortKind{PortFIFO, PortFIFO, PortUART, PortUART, PortUART, PortFIFO},
	}
	FamilyIMXRT1062 = Family{
		Name:        "IMXRT1062",
		BreakAdjust: 0,
		MABAdjust:   1 * time.Microsecond,
		ExtFormats:  true,
		Ports: []PortKind{
			PortFIFO, PortFIFO, PortFIFO, PortFIFO,
			PortFIFO, PortFIFO, PortFIFO, PortFIFO,
		},
	}
	// FamilyGeneric has no timing corrections and eight byte-register ports.
	FamilyGeneric = Family{
		Name: "generic",
		Ports: []PortKind{
			PortUART, PortUART, PortUART, PortUART,
			PortUART, PortUART, PortUART, PortUART,
		},
	}
)

// PortKind returns the buffering style of the port at index, or PortNone if
// the chip has no such port.
func (f Family) PortKind(index int) PortKind {
	if index < 0 || index >= len(f.Ports) {
		return PortNone
	}

	return f.Ports[index]
}

// SupportsBreakFormat reports whether format can be used to generate a BREAK
// on this family. Formats with the TX inversion bit are never supported.
func (f Family) SupportsBreakFormat(format Format) bool {
	if format.IsTXInverted() || !format.IsValid() {
		return false
	}
	if format.IsExtended() && !f.ExtFormats {
		return false
	}
	if format.IsNineBit() && !f.NineBit {
		return false
	}

	return true
}

// NewSendHandler returns the handler variant for port, or nil when the
// family has no port at the port's index.
func (f Family) NewSendHandler(port Port) SendHandler {
	if port == nil {
		return nil
	}

	switch f.PortKind(port.Index()) {
	case PortUART:
		return NewUARTSendHandler(port)
	case PortFIFO:
		return NewFIFOSendHandler(port)
	default:
		return nil
	}
}

// Families lists the known chip families.
var Families = []Family{
	FamilyMK20DX, FamilyMKL26Z, FamilyMK64FX, FamilyMK66FX, FamilyIMXRT1062, FamilyGeneric,
}

// FamilyByName looks up a family by its Name, ignoring case.
func FamilyByName(name string) (Family, bool) {
	for _, f := range Families {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}

	return Family{}, false
}
