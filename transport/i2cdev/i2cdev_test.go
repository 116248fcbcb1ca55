package i2cdev

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-smbus/transport"
)

func TestOpener_Path(t *testing.T) {
	assert.Equal(t, "/dev/i2c-0", Opener{}.path(0))
	assert.Equal(t, "/dev/i2c-12", Opener{}.path(12))
	assert.Equal(t, "/tmp/fake-i2c.3", Opener{PathFormat: "/tmp/fake-i2c.%d"}.path(3))
}

func TestOpener_MissingDevice(t *testing.T) {
	var o transport.Opener = Opener{PathFormat: t.TempDir() + "/missing-%d"}

	tr, err := o.Open(7)
	require.Error(t, err)
	assert.Nil(t, tr)
	assert.Contains(t, err.Error(), "missing-7")
}
