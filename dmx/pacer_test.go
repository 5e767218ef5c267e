package dmx

import (
	"math"
	"testing"
	"time"

	"github.com/arloliu/go-dmx/hal"
	"github.com/arloliu/go-dmx/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSender_SetRefreshRate(t *testing.T) {
	require := require.New(t)
	s := newTestSender(t, newSimPort(t, 0))

	require.True(math.IsInf(s.RefreshRate(), 1))
	_, ok := s.BreakToBreakTime()
	require.False(ok)

	require.NoError(s.SetRefreshRate(44))
	require.Equal(44.0, s.RefreshRate())
	b2b, ok := s.BreakToBreakTime()
	require.True(ok)
	require.Equal(22727*time.Microsecond, b2b)

	require.ErrorIs(s.SetRefreshRate(math.NaN()), ErrInvalidRate)
	require.ErrorIs(s.SetRefreshRate(-1), ErrInvalidRate)
	require.Equal(44.0, s.RefreshRate())

	require.NoError(s.SetRefreshRate(0))
	_, ok = s.BreakToBreakTime()
	require.False(ok)
}

func TestSender_PacedBreaks(t *testing.T) {
	const rate = 200 // 5ms between BREAKs
	p := newSimPort(t, 0)
	s := newTestSender(t, p, WithBreakUseTimer(true), WithRefreshRate(rate), WithPacketSize(16))

	s.Begin()
	waitPackets(t, s, 6)
	s.End()

	breaks := sim.Breaks(p.Frames())
	require.GreaterOrEqual(t, len(breaks), 6)

	b2b := time.Duration(1e6/rate) * time.Microsecond
	for i := 1; i < len(breaks); i++ {
		gap := breaks[i].At.Sub(breaks[i-1].At)
		assert.GreaterOrEqual(t, gap, b2b-time.Millisecond, "BREAK %d came early", i)
	}
}

func TestSender_TriggerWithZeroRate(t *testing.T) {
	require := require.New(t)
	p := newSimPort(t, 0)
	s := newTestSender(t, p, WithRefreshRate(0), WithPacketSize(4))

	require.ErrorIs(s.Trigger(), ErrNotStarted)

	s.Begin()
	time.Sleep(10 * time.Millisecond)
	require.Zero(s.PacketCount(), "rate 0 sends nothing on its own")
	require.False(s.IsTransmitting())

	require.NoError(s.SetRange(0, []byte{0, 1, 2, 3}))
	require.NoError(s.Trigger())
	waitPackets(t, s, 1)
	require.Eventually(func() bool { return s.State() == StateIdle }, waitFor, tick)

	require.NoError(s.Trigger())
	waitPackets(t, s, 2)

	time.Sleep(10 * time.Millisecond)
	require.Equal(uint64(2), s.PacketCount())
	require.Equal([][]byte{{0, 1, 2, 3}, {0, 1, 2, 3}}, completePackets(p, 4))
}

func TestSender_TriggerBusy(t *testing.T) {
	p := newSimPort(t, 0, sim.WithByteTime(time.Millisecond))
	s := newTestSender(t, p, WithRefreshRate(0), WithPacketSize(20))

	s.Begin()
	require.NoError(t, s.Trigger())
	assert.ErrorIs(t, s.Trigger(), ErrBusy)
	assert.True(t, s.IsTransmitting())
}

func TestSender_RefreshRateRestart(t *testing.T) {
	s := newTestSender(t, newSimPort(t, 0), WithRefreshRate(0), WithPacketSize(8))

	s.Begin()
	time.Sleep(5 * time.Millisecond)
	require.Zero(t, s.PacketCount())

	require.NoError(t, s.SetRefreshRate(math.Inf(1)))
	require.True(t, s.IsStarted())
	waitPackets(t, s, 3)
	assert.True(t, s.IsTransmitting())
}

func TestSender_RefreshRateChangeWhileIdle(t *testing.T) {
	// A long break-to-break interval leaves the sender idle with the pacing
	// timer armed; raising the rate must re-arm it.
	s := newTestSender(t, newSimPort(t, 0), WithRefreshRate(0.1), WithPacketSize(8))

	s.Begin()
	waitPackets(t, s, 1)
	time.Sleep(5 * time.Millisecond)
	require.Equal(t, uint64(1), s.PacketCount())

	require.NoError(t, s.SetRefreshRate(math.Inf(1)))
	waitPackets(t, s, 5)
}

func TestSender_FIFOPort(t *testing.T) {
	p := newSimPort(t, 0, sim.WithFIFODepth(16))
	s := newTestSender(t, p, WithFamily(hal.FamilyIMXRT1062), WithPacketSize(40))

	values := make([]byte, 40)
	for i := range values {
		values[i] = byte(i)
	}
	require.NoError(t, s.SetRange(0, values))

	s.Begin()
	waitPackets(t, s, 3)
	s.End()

	packets := completePackets(p, 40)
	require.NotEmpty(t, packets)
	for _, pkt := range packets {
		assert.Equal(t, values, pkt)
	}
}

func TestSender_ZeroRateStopsAfterPacket(t *testing.T) {
	s := newTestSender(t, newSimPort(t, 0), WithPacketSize(8))

	s.Begin()
	waitPackets(t, s, 3)

	require.NoError(t, s.SetRefreshRate(0))
	require.Eventually(t, func() bool { return !s.IsTransmitting() }, waitFor, tick)
	count := s.PacketCount()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, count, s.PacketCount())
	assert.True(t, s.IsStarted())
}
