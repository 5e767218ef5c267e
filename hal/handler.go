package hal

// ByteSource supplies the bytes of the packet being transmitted.
type ByteSource interface {
	// NextByte returns the next byte to send, or false when the packet has
	// been fully handed to the hardware.
	NextByte() (byte, bool)
}

// TxEvents receives the transmit events decoded by a SendHandler from its
// port's interrupt.
type TxEvents interface {
	// OnTxEmpty is called when the transmit buffer can accept data and the
	// empty source is enabled.
	OnTxEmpty()
	// OnTxComplete is called when transmission has physically completed and
	// the complete source is enabled.
	OnTxComplete()
}

// SendHandler is the capability the transmit engine needs from one
// peripheral family. All methods except HandleIRQ are called with the
// engine's critical section held; HandleIRQ is called from interrupt context
// with the same critical section held.
type SendHandler interface {
	// Start configures the port for slot transmission and enables its
	// transmitter and interrupt.
	Start()
	// End masks the port's interrupts and disables the transmitter.
	End()
	// SetIRQsEnabled enables or disables the port's interrupt.
	SetIRQsEnabled(enabled bool)

	// SetActive enables the transmit-empty interrupt.
	SetActive()
	// SetCompleting enables only the transmit-complete interrupt.
	SetCompleting()
	// SetInactive masks both transmit interrupt sources.
	SetInactive()

	// PushBytes moves bytes from src into the transmit buffer and returns
	// how many were written.
	PushBytes(src ByteSource) int
	// SetBreakLine holds or releases the transmit line for timer-driven
	// BREAK generation.
	SetBreakLine(on bool)

	// ConfigureBreak switches the port to the BREAK baud rate and format.
	ConfigureBreak()
	// ConfigureSlots switches the port back to the slot baud rate and format.
	ConfigureSlots()
	// BreakSerialParamsChanged records new BREAK baud rate and format.
	BreakSerialParamsChanged(baud uint32, format Format)

	// HandleIRQ decodes the port's interrupt status and reports events to ev.
	HandleIRQ(ev TxEvents)
}

// handlerBase holds the state shared by both handler variants.
type handlerBase struct {
	port        Port
	breakBaud   uint32
	breakFormat Format
}

func (h *handlerBase) Start() {
	h.port.SetTxIRQ(TxIRQNone)
	h.port.Configure(SlotsBaud, SlotsFormat)
	h.port.EnableTx(true)
	h.port.SetIRQEnabled(true)
}

func (h *handlerBase) End() {
	// Mask first so no new interrupt is raised while the port shuts down.
	h.port.SetIRQEnabled(false)
	h.port.SetTxIRQ(TxIRQNone)
	h.port.SetBreak(false)
	h.port.EnableTx(false)
}

func (h *handlerBase) SetIRQsEnabled(enabled bool) {
	h.port.SetIRQEnabled(enabled)
}

func (h *handlerBase) SetActive() { h.port.SetTxIRQ(TxIRQEmpty) }

func (h *handlerBase) SetCompleting() { h.port.SetTxIRQ(TxIRQComplete) }

func (h *handlerBase) SetInactive() { h.port.SetTxIRQ(TxIRQNone) }

func (h *handlerBase) SetBreakLine(on bool) { h.port.SetBreak(on) }

func (h *handlerBase) BreakSerialParamsChanged(baud uint32, format Format) {
	h.breakBaud = baud
	h.breakFormat = format
}

// dispatch reports the asserted and enabled sources to ev. The empty source
// is checked first so that a handler can queue the last byte and arm the
// complete source within a single interrupt.
func (h *handlerBase) dispatch(ev TxEvents, emptyReady func() bool) {
	if h.port.TxIRQ()&TxIRQEmpty != 0 && emptyReady() {
		ev.OnTxEmpty()
	}
	if h.port.TxIRQ()&TxIRQComplete != 0 && h.port.TxComplete() {
		ev.OnTxComplete()
	}
}
