package dmx

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/arloliu/go-dmx/hal"
	"github.com/arloliu/go-dmx/logger"
)

// Packet layout.
const (
	// MaxPacketSize is the size of a full DMX packet, including the start code.
	MaxPacketSize = 513
	// MinPacketSize is the smallest packet: the start code alone.
	MinPacketSize = 1
)

// Default timing. The BREAK and MAB defaults sit close to the "typical"
// values in ANSI E1.11 rather than the 92us/12us minimums.
const (
	DefaultBreakTime   = 180 * time.Microsecond
	DefaultMABTime     = 20 * time.Microsecond
	DefaultBreakBaud   = uint32(50000) // 20us bit period
	DefaultBreakFormat = hal.Format8N1 // 9 bits low, 1 bit high
)

// SenderConfig holds the configuration a Sender is created with. Every value
// except the family, registry and logger can be changed later through the
// Sender's own setters.
type SenderConfig struct {
	family   hal.Family
	registry *Registry
	logger   logger.Logger

	breakTime     time.Duration
	mabTime       time.Duration
	breakBaud     uint32
	breakFormat   hal.Format
	breakUseTimer bool

	refreshRate float64
	packetSize  int
}

// NewSenderConfig creates a sender configuration.
//
// opts are functional options applied in order; see With* functions. The
// BREAK serial parameters are validated against the final family after all
// options have been applied.
func NewSenderConfig(opts ...SenderOption) (*SenderConfig, error) {
	cfg := &SenderConfig{
		family:      hal.FamilyGeneric,
		registry:    DefaultRegistry(),
		logger:      logger.GetLogger(),
		breakTime:   DefaultBreakTime,
		mabTime:     DefaultMABTime,
		breakBaud:   DefaultBreakBaud,
		breakFormat: DefaultBreakFormat,
		refreshRate: math.Inf(1),
		packetSize:  MaxPacketSize,
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.breakBaud == 0 || !cfg.family.SupportsBreakFormat(cfg.breakFormat) {
		return nil, fmt.Errorf("%w: %d baud %s on %s",
			ErrInvalidBreakParams, cfg.breakBaud, cfg.breakFormat, cfg.family.Name)
	}

	return cfg, nil
}

// Family returns the configured chip family.
func (cfg *SenderConfig) Family() hal.Family { return cfg.family }

// Registry returns the registry senders bind their ports to.
func (cfg *SenderConfig) Registry() *Registry { return cfg.registry }

// GetLogger returns the configured logger.
func (cfg *SenderConfig) GetLogger() logger.Logger { return cfg.logger }

// BreakTime returns the initial requested BREAK time.
func (cfg *SenderConfig) BreakTime() time.Duration { return cfg.breakTime }

// MABTime returns the initial requested MAB time.
func (cfg *SenderConfig) MABTime() time.Duration { return cfg.mabTime }

// BreakSerialParams returns the initial BREAK baud rate and format.
func (cfg *SenderConfig) BreakSerialParams() (uint32, hal.Format) {
	return cfg.breakBaud, cfg.breakFormat
}

// BreakUseTimer returns whether BREAK and MAB are generated with a timer.
func (cfg *SenderConfig) BreakUseTimer() bool { return cfg.breakUseTimer }

// RefreshRate returns the initial refresh rate in Hz.
func (cfg *SenderConfig) RefreshRate() float64 { return cfg.refreshRate }

// PacketSize returns the initial packet size, including the start code.
func (cfg *SenderConfig) PacketSize() int { return cfg.packetSize }

// --- SenderOption ---

// SenderOption is a functional option for configuring a SenderConfig.
type SenderOption interface {
	apply(*SenderConfig) error
}

type senderOptFunc func(*SenderConfig) error

func (f senderOptFunc) apply(cfg *SenderConfig) error { return f(cfg) }

// WithFamily sets the chip family. It selects the timer corrections, the
// supported BREAK formats and the handler variant of each port.
// The default is hal.FamilyGeneric.
func WithFamily(family hal.Family) SenderOption {
	return senderOptFunc(func(cfg *SenderConfig) error {
		cfg.family = family
		return nil
	})
}

// WithRegistry sets the registry the sender binds its port to.
// The default is the process-wide DefaultRegistry.
func WithRegistry(r *Registry) SenderOption {
	return senderOptFunc(func(cfg *SenderConfig) error {
		if r == nil {
			return errors.New("dmx: registry must not be nil")
		}
		cfg.registry = r

		return nil
	})
}

// WithLogger sets the logger for the sender.
func WithLogger(l logger.Logger) SenderOption {
	return senderOptFunc(func(cfg *SenderConfig) error {
		if l == nil {
			return errors.New("dmx: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}

// WithBreakTime sets the requested BREAK time used in timer mode.
func WithBreakTime(d time.Duration) SenderOption {
	return senderOptFunc(func(cfg *SenderConfig) error {
		if d < 0 {
			return fmt.Errorf("%w: BREAK %v", ErrInvalidTiming, d)
		}
		cfg.breakTime = d

		return nil
	})
}

// WithMABTime sets the requested MAB time used in timer mode.
func WithMABTime(d time.Duration) SenderOption {
	return senderOptFunc(func(cfg *SenderConfig) error {
		if d < 0 {
			return fmt.Errorf("%w: MAB %v", ErrInvalidTiming, d)
		}
		cfg.mabTime = d

		return nil
	})
}

// WithBreakSerialParams sets the baud rate and format used to generate a
// BREAK in serial-framing mode.
func WithBreakSerialParams(baud uint32, format hal.Format) SenderOption {
	return senderOptFunc(func(cfg *SenderConfig) error {
		cfg.breakBaud = baud
		cfg.breakFormat = format

		return nil
	})
}

// WithBreakUseTimer selects timer mode (true) or serial-framing mode (false,
// the default) for BREAK and MAB generation.
func WithBreakUseTimer(enabled bool) SenderOption {
	return senderOptFunc(func(cfg *SenderConfig) error {
		cfg.breakUseTimer = enabled
		return nil
	})
}

// WithRefreshRate sets the packet refresh rate in Hz. Zero disables
// automatic retransmission and +Inf (the default) sends packets back to back.
func WithRefreshRate(rate float64) SenderOption {
	return senderOptFunc(func(cfg *SenderConfig) error {
		if math.IsNaN(rate) || rate < 0 {
			return fmt.Errorf("%w: %v", ErrInvalidRate, rate)
		}
		cfg.refreshRate = rate

		return nil
	})
}

// WithPacketSize sets the number of slots sent per packet, including the
// start code. Must be in [MinPacketSize, MaxPacketSize].
func WithPacketSize(size int) SenderOption {
	return senderOptFunc(func(cfg *SenderConfig) error {
		if size < MinPacketSize || size > MaxPacketSize {
			return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidPacketSize, size, MinPacketSize, MaxPacketSize)
		}
		cfg.packetSize = size

		return nil
	})
}
