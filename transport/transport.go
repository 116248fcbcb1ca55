// Package transport defines the raw bus-transaction primitive that the smbus engine is
// built on.
//
// A Transport performs exactly one SMBus transaction per Transact call, in the shape of
// the Linux I2C_SMBUS ioctl: a transaction kind, a direction, a command byte and a
// [Data] buffer laid out like the kernel's i2c_smbus_data union. The kind, direction and
// capability constants share their numeric values with <linux/i2c.h>, so a Linux
// implementation hands them to the kernel unchanged.
//
// Implementations live in the subpackages i2cdev (Linux /dev/i2c-N), periphi2c
// (periph.io I2C buses) and sim (an in-memory device).
package transport

import "errors"

var (
	// ErrNotSupported indicates that the transport cannot perform the requested
	// transaction kind or feature.
	ErrNotSupported = errors.New("transport: not supported")

	// ErrClosed indicates that the transport has already been closed.
	ErrClosed = errors.New("transport: closed")

	// ErrShortTransfer indicates that fewer bytes than requested were transferred.
	ErrShortTransfer = errors.New("transport: short transfer")
)

// Transport is the raw SMBus transaction primitive.
//
// Implementations are not required to be safe for concurrent use.
type Transport interface {
	// SetAddress sets the 7-bit destination address of subsequent transactions.
	SetAddress(addr uint8) error

	// Capabilities reports the functionality supported by the underlying adapter.
	Capabilities() (Caps, error)

	// EnablePEC turns packet error checking on or off for the transaction kinds the
	// transport frames itself (byte, byte data, word data, process call, block data).
	//
	// For KindI2CBlockData the checksum is handled by the caller: when PEC is enabled a
	// write carries one extra byte after the declared block length, and a read returns
	// the checksum as the last of the requested bytes. Transports must move that byte
	// over the wire unchanged.
	EnablePEC(enabled bool) error

	// Transact performs one transaction. data may be nil for KindQuick and for
	// KindByte writes, where the byte travels as the command.
	Transact(kind Kind, dir Direction, command byte, data *Data) error

	// Close releases the underlying descriptor.
	Close() error
}

// Opener acquires a Transport for a numbered bus.
type Opener interface {
	Open(bus uint) (Transport, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(bus uint) (Transport, error)

// Open calls f(bus).
func (f OpenerFunc) Open(bus uint) (Transport, error) {
	return f(bus)
}
