package hal

// FIFOSendHandler drives a peripheral with a multi-byte transmit FIFO. The
// transmit-empty condition is a watermark: the handler only refills once at
// least half of the FIFO is free, then fills it completely.
type FIFOSendHandler struct {
	handlerBase
	watermark int
}

var _ SendHandler = (*FIFOSendHandler)(nil)

// NewFIFOSendHandler creates a handler for a FIFO port.
func NewFIFOSendHandler(port Port) *FIFOSendHandler {
	watermark := port.FIFODepth() / 2
	if watermark < 1 {
		watermark = 1
	}

	return &FIFOSendHandler{
		handlerBase: handlerBase{port: port},
		watermark:   watermark,
	}
}

// PushBytes fills the FIFO.
func (h *FIFOSendHandler) PushBytes(src ByteSource) int {
	n := 0
	for h.port.TxFree() > 0 {
		b, ok := src.NextByte()
		if !ok {
			break
		}
		h.port.WriteData(b)
		n++
	}

	return n
}

// ConfigureBreak reprograms the port for BREAK generation. The FIFO family
// only latches a new baud rate while the transmitter is disabled.
func (h *FIFOSendHandler) ConfigureBreak() {
	h.reconfigure(h.breakBaud, h.breakFormat)
}

// ConfigureSlots restores slot framing.
func (h *FIFOSendHandler) ConfigureSlots() {
	h.reconfigure(SlotsBaud, SlotsFormat)
}

func (h *FIFOSendHandler) reconfigure(baud uint32, format Format) {
	h.port.EnableTx(false)
	h.port.Configure(baud, format)
	h.port.EnableTx(true)
}

// HandleIRQ reports transmit events using the FIFO watermark.
func (h *FIFOSendHandler) HandleIRQ(ev TxEvents) {
	h.dispatch(ev, func() bool { return h.port.TxFree() >= h.watermark })
}
