package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/arloliu/go-smbus/logger"
	"github.com/arloliu/go-smbus/smbus"
	"github.com/arloliu/go-smbus/transport"
	"github.com/arloliu/go-smbus/transport/periphi2c"
	"github.com/arloliu/go-smbus/transport/sim"
)

// Registers preloaded into the simulated device, one per selftest command.
const (
	cmdReg       = 0xC0
	cmdByteData  = 0xC1
	cmdWordData  = 0xC2
	cmdDwordData = 0xC3
	cmdQwordData = 0xC4
	cmdBlockData = 0xCB
	cmdProcCall  = 0xCC
)

// newSimDevice returns a simulated slave preloaded with recognizable register values.
func newSimDevice(addr uint8) *sim.Device {
	dev := sim.New()
	dev.SetRegister(addr, cmdByteData, []byte{0x5A})
	dev.SetRegister(addr, cmdWordData, []byte{0x34, 0x12})
	dev.SetRegister(addr, cmdDwordData, []byte{0x78, 0x56, 0x34, 0x12})
	dev.SetRegister(addr, cmdQwordData, []byte{0xEF, 0xCD, 0xAB, 0x89, 0x67, 0x45, 0x23, 0x01})
	dev.SetRegister(addr, cmdBlockData, []byte("pico"))

	return dev
}

func newLogger(c *cli.Context) (logger.Logger, error) {
	level, err := logger.ParseLevel(c.String(flagLogLevel))
	if err != nil {
		return nil, err
	}
	if c.Bool(flagZap) {
		return logger.NewZap(level, os.Getenv("ENV") == "development"), nil
	}

	return logger.NewSlog(level, false), nil
}

func newOpener(c *cli.Context, addr uint8) transport.Opener {
	switch {
	case c.Bool(flagSim):
		return newSimDevice(addr).Opener()
	case c.String(flagPeriph) != "":
		return periphi2c.Opener{Name: c.String(flagPeriph)}
	default:
		return nil
	}
}

// withBus opens the configured bus, runs fn and closes the bus again.
func withBus(c *cli.Context, fn func(bus *smbus.Bus) error) (err error) {
	addr := c.Uint(flagAddr)
	if addr > smbus.MaxAddress {
		return fmt.Errorf("slave address 0x%X exceeds 7 bits", addr)
	}

	l, err := newLogger(c)
	if err != nil {
		return err
	}
	logger.SetLogger(l)
	if z, ok := l.(*logger.ZapLogger); ok {
		defer func() { _ = z.Sync() }()
	}

	opts := []smbus.BusOption{
		smbus.WithLogger(l),
		smbus.WithSlave(uint8(addr)),
		smbus.WithPEC(c.Bool(flagPEC)),
	}
	if o := newOpener(c, uint8(addr)); o != nil {
		opts = append(opts, smbus.WithOpener(o))
	}

	cfg, err := smbus.NewBusConfig(c.Uint(flagBus), opts...)
	if err != nil {
		return err
	}
	bus, err := smbus.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, bus.Close())
	}()

	return fn(bus)
}
