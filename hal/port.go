package hal

// TxIRQ is a mask of transmit interrupt sources.
type TxIRQ uint8

const (
	// TxIRQEmpty fires while the transmit data register or FIFO has room.
	TxIRQEmpty TxIRQ = 1 << iota
	// TxIRQComplete fires once the shift register has drained and the line
	// is idle.
	TxIRQComplete

	// TxIRQNone masks all transmit interrupt sources.
	TxIRQNone TxIRQ = 0
)

// String returns a short description of the mask.
func (m TxIRQ) String() string {
	switch m {
	case TxIRQNone:
		return "none"
	case TxIRQEmpty:
		return "empty"
	case TxIRQComplete:
		return "complete"
	case TxIRQEmpty | TxIRQComplete:
		return "empty|complete"
	default:
		return "invalid"
	}
}

// Port is the register-level view of one serial transmitter.
//
// Implementations are expected to be safe for use from both the application
// and the interrupt vector. The vector installed with SetVector is invoked
// from the port's interrupt context whenever an enabled source in the TxIRQ
// mask is asserted and interrupts are enabled; it must not be invoked
// re-entrantly for the same port.
type Port interface {
	// Index returns the physical port index, used to select the registry slot.
	Index() int
	// FIFODepth returns the transmit buffer depth in bytes (1 for a plain
	// data register).
	FIFODepth() int

	// Configure sets the baud rate and frame format of the transmitter.
	Configure(baud uint32, format Format)
	// EnableTx enables or disables the transmitter.
	EnableTx(enabled bool)

	// TxFree returns the number of bytes that can be written without
	// overflowing the transmit buffer.
	TxFree() int
	// TxComplete reports whether all written bytes have left the shift
	// register.
	TxComplete() bool
	// WriteData writes one byte into the transmit buffer.
	WriteData(b byte)

	// SetTxIRQ sets the enabled transmit interrupt sources.
	SetTxIRQ(mask TxIRQ)
	// TxIRQ returns the enabled transmit interrupt sources.
	TxIRQ() TxIRQ
	// SetIRQEnabled enables or disables the port's interrupt at the
	// controller level. Sources asserted while disabled stay pending.
	SetIRQEnabled(enabled bool)

	// SetBreak holds the transmit line low while on is true.
	SetBreak(on bool)

	// SetVector installs the interrupt vector. A nil vector detaches it.
	SetVector(vector func())
}
