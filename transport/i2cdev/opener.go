// Package i2cdev implements [transport.Transport] on the Linux i2c-dev character
// devices, issuing one I2C_SMBUS ioctl per transaction.
package i2cdev

import "fmt"

// DefaultPathFormat is the device node pattern used when Opener.PathFormat is empty.
const DefaultPathFormat = "/dev/i2c-%d"

// Opener opens /dev/i2c-N style device nodes.
type Opener struct {
	// PathFormat is a fmt pattern taking the bus number. Empty means DefaultPathFormat.
	PathFormat string
}

func (o Opener) path(bus uint) string {
	format := o.PathFormat
	if format == "" {
		format = DefaultPathFormat
	}

	return fmt.Sprintf(format, bus)
}
