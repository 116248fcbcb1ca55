//go:build !linux

package i2cdev

import (
	"fmt"

	"github.com/arloliu/go-smbus/transport"
)

// Open always fails: i2c-dev character devices exist only on Linux.
func (o Opener) Open(bus uint) (transport.Transport, error) {
	return nil, fmt.Errorf("%w: i2c-dev on this platform (%s)", transport.ErrNotSupported, o.path(bus))
}
