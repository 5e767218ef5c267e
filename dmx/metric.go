package dmx

import (
	"sync/atomic"
)

// SenderMetrics contains atomic metrics for a Sender.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type SenderMetrics struct {
	// PacketCount indicates the number of packets fully transmitted since Begin.
	PacketCount atomic.Uint64
	// BreakCount indicates the number of BREAKs started since Begin.
	BreakCount atomic.Uint64
	// SlotCount indicates the number of slots, start codes included, sent since Begin.
	SlotCount atomic.Uint64
	// SpuriousIRQCount indicates the number of interrupts that arrived in a
	// state that did not expect them.
	SpuriousIRQCount atomic.Uint64
	// EvictionCount indicates how many times this sender lost its port to
	// another sender.
	EvictionCount atomic.Uint64
}

func (m *SenderMetrics) incPacketCount() {
	m.PacketCount.Add(1)
}

func (m *SenderMetrics) incBreakCount() {
	m.BreakCount.Add(1)
}

func (m *SenderMetrics) addSlotCount(n int) {
	m.SlotCount.Add(uint64(n))
}

func (m *SenderMetrics) incSpuriousIRQCount() {
	m.SpuriousIRQCount.Add(1)
}

func (m *SenderMetrics) incEvictionCount() {
	m.EvictionCount.Add(1)
}

// reset clears the per-run counters. EvictionCount is kept.
func (m *SenderMetrics) reset() {
	m.PacketCount.Store(0)
	m.BreakCount.Store(0)
	m.SlotCount.Store(0)
	m.SpuriousIRQCount.Store(0)
}
