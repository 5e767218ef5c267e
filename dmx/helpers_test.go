package dmx

import (
	"io"
	"testing"
	"time"

	"github.com/arloliu/go-dmx/hal"
	"github.com/arloliu/go-dmx/internal/sim"
	"github.com/arloliu/go-dmx/logger"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = time.Millisecond
)

func testLogger() logger.Logger {
	return logger.NewSlogWriter(io.Discard, logger.ErrorLevel, false, false)
}

func newSimPort(t *testing.T, index int, opts ...sim.PortOption) *sim.Port {
	t.Helper()

	p := sim.NewPort(index, opts...)
	t.Cleanup(func() { _ = p.Close() })

	return p
}

// newTestSender creates a sender on its own registry so that tests do not
// share port slots through the default registry.
func newTestSender(t *testing.T, port hal.Port, opts ...SenderOption) *Sender {
	t.Helper()

	opts = append([]SenderOption{WithRegistry(NewRegistry()), WithLogger(testLogger())}, opts...)
	cfg, err := NewSenderConfig(opts...)
	require.NoError(t, err)

	s, err := NewSender(port, cfg)
	require.NoError(t, err)
	t.Cleanup(s.End)

	return s
}

// completePackets returns the packets of exactly size slots recorded on p.
func completePackets(p *sim.Port, size int) [][]byte {
	var packets [][]byte
	for _, pkt := range sim.Packets(p.Frames(), hal.SlotsBaud) {
		if len(pkt) == size {
			packets = append(packets, pkt)
		}
	}

	return packets
}

func waitPackets(t *testing.T, s *Sender, n uint64) {
	t.Helper()
	require.Eventually(t, func() bool { return s.PacketCount() >= n }, waitFor, tick)
}
