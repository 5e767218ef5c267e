package hal

// UARTSendHandler drives a peripheral with a single transmit data register.
// Every transmit-empty interrupt moves exactly one byte.
type UARTSendHandler struct {
	handlerBase
}

var _ SendHandler = (*UARTSendHandler)(nil)

// NewUARTSendHandler creates a handler for a byte-register port.
func NewUARTSendHandler(port Port) *UARTSendHandler {
	return &UARTSendHandler{handlerBase{port: port}}
}

// PushBytes writes at most one byte.
func (h *UARTSendHandler) PushBytes(src ByteSource) int {
	if h.port.TxFree() == 0 {
		return 0
	}
	b, ok := src.NextByte()
	if !ok {
		return 0
	}
	h.port.WriteData(b)

	return 1
}

// ConfigureBreak reprograms the baud rate divisor and format in place; the
// byte-register family accepts this while the transmitter is enabled.
func (h *UARTSendHandler) ConfigureBreak() {
	h.port.Configure(h.breakBaud, h.breakFormat)
}

// ConfigureSlots restores slot framing.
func (h *UARTSendHandler) ConfigureSlots() {
	h.port.Configure(SlotsBaud, SlotsFormat)
}

// HandleIRQ reports transmit events; the data register is ready whenever it
// can accept a byte.
func (h *UARTSendHandler) HandleIRQ(ev TxEvents) {
	h.dispatch(ev, func() bool { return h.port.TxFree() > 0 })
}
