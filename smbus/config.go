package smbus

import (
	"fmt"

	"github.com/arloliu/go-smbus/logger"
	"github.com/arloliu/go-smbus/transport"
	"github.com/arloliu/go-smbus/transport/i2cdev"
)

// MaxAddress is the highest 7-bit slave address.
const MaxAddress = 0x7F

// BusConfig holds the configuration used by Open.
type BusConfig struct {
	index  uint
	opener transport.Opener
	logger logger.Logger

	// initial slave address, applied by Open when hasSlave is set
	slave    uint8
	hasSlave bool

	pec bool
}

// NewBusConfig creates a configuration for adapter number index.
//
// By default the bus is opened through the Linux i2c-dev device /dev/i2c-<index>, with
// no slave selected and PEC disabled.
func NewBusConfig(index uint, opts ...BusOption) (*BusConfig, error) {
	cfg := &BusConfig{
		index:  index,
		opener: i2cdev.Opener{},
		logger: logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Index returns the adapter number.
func (cfg *BusConfig) Index() uint { return cfg.index }

// Opener returns the transport opener.
func (cfg *BusConfig) Opener() transport.Opener { return cfg.opener }

// GetLogger returns the configured logger.
func (cfg *BusConfig) GetLogger() logger.Logger { return cfg.logger }

// Slave returns the initial slave address and whether one was configured.
func (cfg *BusConfig) Slave() (uint8, bool) { return cfg.slave, cfg.hasSlave }

// PEC reports whether Open enables PEC.
func (cfg *BusConfig) PEC() bool { return cfg.pec }

// --- BusOption ---

// BusOption is a functional option for configuring a BusConfig.
type BusOption interface {
	apply(*BusConfig) error
}

type busOptFunc func(*BusConfig) error

func (f busOptFunc) apply(cfg *BusConfig) error { return f(cfg) }

// WithOpener sets the transport opener, e.g. a periphi2c.Opener or a simulated device.
func WithOpener(o transport.Opener) BusOption {
	return busOptFunc(func(cfg *BusConfig) error {
		if o == nil {
			return fmt.Errorf("%w: opener must not be nil", ErrInvalidArgument)
		}
		cfg.opener = o

		return nil
	})
}

// WithLogger sets the logger for the bus.
func WithLogger(l logger.Logger) BusOption {
	return busOptFunc(func(cfg *BusConfig) error {
		if l == nil {
			return fmt.Errorf("%w: logger must not be nil", ErrInvalidArgument)
		}
		cfg.logger = l

		return nil
	})
}

// WithSlave selects addr right after the bus is opened. addr must fit in 7 bits.
func WithSlave(addr uint8) BusOption {
	return busOptFunc(func(cfg *BusConfig) error {
		if addr > MaxAddress {
			return fmt.Errorf("%w: slave address 0x%02X exceeds 0x%02X", ErrInvalidArgument, addr, MaxAddress)
		}
		cfg.slave = addr
		cfg.hasSlave = true

		return nil
	})
}

// WithPEC enables or disables PEC right after the bus is opened.
func WithPEC(enabled bool) BusOption {
	return busOptFunc(func(cfg *BusConfig) error {
		cfg.pec = enabled
		return nil
	})
}
