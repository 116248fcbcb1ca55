package smbus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-smbus/transport"
	"github.com/arloliu/go-smbus/transport/sim"
)

const testAddr = 0x17

// openSim opens a Bus on a fresh simulated device with slave testAddr selected.
func openSim(t *testing.T, devOpts []sim.Option, busOpts ...BusOption) (*Bus, *sim.Device) {
	t.Helper()

	dev := sim.New(devOpts...)
	opts := append([]BusOption{WithOpener(dev.Opener()), WithSlave(testAddr)}, busOpts...)
	cfg, err := NewBusConfig(0, opts...)
	require.NoError(t, err)

	bus, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if !bus.closed {
			_ = bus.Close()
		}
	})

	return bus, dev
}

// shortTransport shrinks the declared length of every fixed-width block read.
type shortTransport struct {
	transport.Transport
}

func (s shortTransport) Transact(kind transport.Kind, dir transport.Direction, cmd byte, data *transport.Data) error {
	if err := s.Transport.Transact(kind, dir, cmd, data); err != nil {
		return err
	}
	if kind == transport.KindI2CBlockData && dir == transport.Read {
		data.SetLen(data.Len() - 2)
	}

	return nil
}
