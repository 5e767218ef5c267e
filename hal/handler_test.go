package hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePort is a register model that never shifts on its own; tests drain it
// explicitly.
type fakePort struct {
	index      int
	depth      int
	baud       uint32
	format     Format
	txEnabled  bool
	fifo       []byte
	sent       []byte
	txIRQ      TxIRQ
	irqEnabled bool
	breakOn    bool
	vector     func()

	// configured records every Configure call with the transmitter state at
	// that moment.
	configured []configureCall
}

type configureCall struct {
	baud      uint32
	format    Format
	txEnabled bool
}

func newFakePort(index, depth int) *fakePort {
	return &fakePort{index: index, depth: depth}
}

func (p *fakePort) Index() int     { return p.index }
func (p *fakePort) FIFODepth() int { return p.depth }
func (p *fakePort) Configure(baud uint32, format Format) {
	p.baud, p.format = baud, format
	p.configured = append(p.configured, configureCall{baud, format, p.txEnabled})
}
func (p *fakePort) EnableTx(enabled bool) { p.txEnabled = enabled }
func (p *fakePort) TxFree() int           { return p.depth - len(p.fifo) }
func (p *fakePort) TxComplete() bool      { return len(p.fifo) == 0 }
func (p *fakePort) WriteData(b byte) {
	if len(p.fifo) < p.depth {
		p.fifo = append(p.fifo, b)
	}
}
func (p *fakePort) SetTxIRQ(mask TxIRQ)        { p.txIRQ = mask }
func (p *fakePort) TxIRQ() TxIRQ               { return p.txIRQ }
func (p *fakePort) SetIRQEnabled(enabled bool) { p.irqEnabled = enabled }
func (p *fakePort) SetBreak(on bool)           { p.breakOn = on }
func (p *fakePort) SetVector(vector func())    { p.vector = vector }

func (p *fakePort) drain(n int) {
	if n > len(p.fifo) {
		n = len(p.fifo)
	}
	p.sent = append(p.sent, p.fifo[:n]...)
	p.fifo = p.fifo[n:]
}

type sliceSource struct {
	data []byte
}

func (s *sliceSource) NextByte() (byte, bool) {
	if len(s.data) == 0 {
		return 0, false
	}
	b := s.data[0]
	s.data = s.data[1:]

	return b, true
}

type eventRecorder struct {
	events  []string
	onEmpty func()
}

func (r *eventRecorder) OnTxEmpty() {
	r.events = append(r.events, "empty")
	if r.onEmpty != nil {
		r.onEmpty()
	}
}

func (r *eventRecorder) OnTxComplete() { r.events = append(r.events, "complete") }

func TestHandler_StartEnd(t *testing.T) {
	require := require.New(t)

	p := newFakePort(0, 1)
	p.txIRQ = TxIRQEmpty
	h := NewUARTSendHandler(p)

	h.Start()
	require.True(p.txEnabled)
	require.True(p.irqEnabled)
	require.Equal(TxIRQNone, p.txIRQ)
	require.Equal(SlotsBaud, p.baud)
	require.Equal(SlotsFormat, p.format)

	h.SetActive()
	require.Equal(TxIRQEmpty, p.txIRQ)
	h.SetCompleting()
	require.Equal(TxIRQComplete, p.txIRQ)
	h.SetBreakLine(true)
	require.True(p.breakOn)

	h.End()
	require.False(p.txEnabled)
	require.False(p.irqEnabled)
	require.False(p.breakOn)
	require.Equal(TxIRQNone, p.txIRQ)
}

func TestUARTSendHandler_PushBytes(t *testing.T) {
	assert := assert.New(t)

	p := newFakePort(0, 1)
	h := NewUARTSendHandler(p)
	src := &sliceSource{data: []byte{1, 2, 3}}

	assert.Equal(1, h.PushBytes(src))
	assert.Equal(0, h.PushBytes(src), "data register full")
	p.drain(1)
	assert.Equal(1, h.PushBytes(src))
	p.drain(1)
	assert.Equal(1, h.PushBytes(src))
	p.drain(1)
	assert.Equal(0, h.PushBytes(src), "source exhausted")
	assert.Equal([]byte{1, 2, 3}, p.sent)
}

func TestFIFOSendHandler_PushBytes(t *testing.T) {
	assert := assert.New(t)

	p := newFakePort(0, 8)
	h := NewFIFOSendHandler(p)
	assert.Equal(4, h.watermark)

	src := &sliceSource{data: make([]byte, 20)}
	assert.Equal(8, h.PushBytes(src))
	p.drain(3)
	assert.Equal(3, h.PushBytes(src))
	p.drain(8)
	assert.Equal(8, h.PushBytes(src))
	p.drain(8)
	assert.Equal(1, h.PushBytes(src))
	assert.Equal(19, len(p.sent))

	assert.Equal(1, NewFIFOSendHandler(newFakePort(0, 1)).watermark)
}

func TestSendHandler_ConfigureBreak(t *testing.T) {
	t.Run("UART reconfigures in place", func(t *testing.T) {
		p := newFakePort(0, 1)
		h := NewUARTSendHandler(p)
		h.Start()
		h.BreakSerialParamsChanged(50000, Format8N1)

		h.ConfigureBreak()
		require.Equal(t, uint32(50000), p.baud)
		require.Equal(t, Format8N1, p.format)
		require.True(t, p.configured[len(p.configured)-1].txEnabled)

		h.ConfigureSlots()
		require.Equal(t, SlotsBaud, p.baud)
		require.Equal(t, SlotsFormat, p.format)
	})

	t.Run("FIFO reconfigures with transmitter disabled", func(t *testing.T) {
		p := newFakePort(0, 8)
		h := NewFIFOSendHandler(p)
		h.Start()
		h.BreakSerialParamsChanged(100000, Format8E2)

		h.ConfigureBreak()
		last := p.configured[len(p.configured)-1]
		require.Equal(t, configureCall{100000, Format8E2, false}, last)
		require.True(t, p.txEnabled)

		h.ConfigureSlots()
		last = p.configured[len(p.configured)-1]
		require.Equal(t, configureCall{SlotsBaud, SlotsFormat, false}, last)
		require.True(t, p.txEnabled)
	})
}

func TestSendHandler_HandleIRQ(t *testing.T) {
	t.Run("masked sources are ignored", func(t *testing.T) {
		p := newFakePort(0, 1)
		h := NewUARTSendHandler(p)
		rec := &eventRecorder{}

		h.HandleIRQ(rec)
		assert.Empty(t, rec.events)
	})

	t.Run("empty then complete in one interrupt", func(t *testing.T) {
		p := newFakePort(0, 1)
		h := NewUARTSendHandler(p)
		rec := &eventRecorder{}
		rec.onEmpty = func() { h.SetCompleting() }

		h.SetActive()
		h.HandleIRQ(rec)
		assert.Equal(t, []string{"empty", "complete"}, rec.events)
	})

	t.Run("complete waits for the buffer to drain", func(t *testing.T) {
		p := newFakePort(0, 1)
		h := NewUARTSendHandler(p)
		rec := &eventRecorder{}
		p.WriteData(0xff)

		h.SetCompleting()
		h.HandleIRQ(rec)
		assert.Empty(t, rec.events)

		p.drain(1)
		h.HandleIRQ(rec)
		assert.Equal(t, []string{"complete"}, rec.events)
	})

	t.Run("FIFO watermark", func(t *testing.T) {
		p := newFakePort(0, 8)
		h := NewFIFOSendHandler(p)
		rec := &eventRecorder{}
		h.SetActive()
		h.PushBytes(&sliceSource{data: make([]byte, 8)})

		p.drain(3)
		h.HandleIRQ(rec)
		assert.Empty(t, rec.events, "below watermark")

		p.drain(1)
		h.HandleIRQ(rec)
		assert.Equal(t, []string{"empty"}, rec.events)
	})
}
