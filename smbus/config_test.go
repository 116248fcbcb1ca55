package smbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-smbus/logger"
	"github.com/arloliu/go-smbus/transport/i2cdev"
	"github.com/arloliu/go-smbus/transport/sim"
)

func TestNewBusConfig_Defaults(t *testing.T) {
	cfg, err := NewBusConfig(2)
	require.NoError(t, err)

	assert.Equal(t, uint(2), cfg.Index())
	assert.Equal(t, i2cdev.Opener{}, cfg.Opener())
	assert.NotNil(t, cfg.GetLogger())
	_, ok := cfg.Slave()
	assert.False(t, ok)
	assert.False(t, cfg.PEC())
}

func TestNewBusConfig_Options(t *testing.T) {
	dev := sim.New()
	l := logger.NewMockLogger()

	cfg, err := NewBusConfig(1,
		WithOpener(dev.Opener()),
		WithLogger(l),
		WithSlave(0x50),
		WithPEC(true),
	)
	require.NoError(t, err)

	assert.Same(t, l, cfg.GetLogger())
	addr, ok := cfg.Slave()
	assert.True(t, ok)
	assert.Equal(t, uint8(0x50), addr)
	assert.True(t, cfg.PEC())
}

func TestNewBusConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opt  BusOption
	}{
		{"nil opener", WithOpener(nil)},
		{"nil logger", WithLogger(nil)},
		{"wide slave", WithSlave(0x80)},
		{"max slave", WithSlave(0xFF)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewBusConfig(0, tt.opt)
			require.ErrorIs(t, err, ErrInvalidArgument)
			assert.Nil(t, cfg)
		})
	}
}
