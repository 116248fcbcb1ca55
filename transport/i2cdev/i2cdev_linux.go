//go:build linux

package i2cdev

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/arloliu/go-smbus/pec"
	"github.com/arloliu/go-smbus/transport"
)

// ioctl requests from <linux/i2c-dev.h>
const (
	ioctlSlave = 0x0703
	ioctlFuncs = 0x0705
	ioctlPEC   = 0x0708
	ioctlSMBus = 0x0720
)

// smbusIoctlData mirrors struct i2c_smbus_ioctl_data.
type smbusIoctlData struct {
	readWrite uint8
	command   uint8
	size      uint32
	data      *transport.Data
}

// Device is an open i2c-dev character device.
type Device struct {
	fd     int
	path   string
	pec    bool
	closed bool
}

var _ transport.Transport = (*Device)(nil)

// Open opens the device node for bus.
func (o Opener) Open(bus uint) (transport.Transport, error) {
	path := o.path(bus)

	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("i2cdev: open %s: %w", path, err)
	}

	return &Device{fd: fd, path: path}, nil
}

// Path returns the device node path.
func (d *Device) Path() string {
	return d.path
}

// SetAddress issues I2C_SLAVE for addr.
func (d *Device) SetAddress(addr uint8) error {
	if d.closed {
		return transport.ErrClosed
	}
	if err := unix.IoctlSetInt(d.fd, ioctlSlave, int(addr)); err != nil {
		return fmt.Errorf("i2cdev: %s: set slave 0x%02X: %w", d.path, addr, err)
	}

	return nil
}

// Capabilities issues I2C_FUNCS and returns the adapter functionality bitmask.
func (d *Device) Capabilities() (transport.Caps, error) {
	if d.closed {
		return 0, transport.ErrClosed
	}
	funcs, err := unix.IoctlGetInt(d.fd, ioctlFuncs)
	if err != nil {
		return 0, fmt.Errorf("i2cdev: %s: query functionality: %w", d.path, err)
	}

	return transport.Caps(uint64(funcs)), nil
}

// EnablePEC issues I2C_PEC. The kernel then frames PEC for every kind except
// KindI2CBlockData, whose checksum byte the caller supplies.
func (d *Device) EnablePEC(enabled bool) error {
	if d.closed {
		return transport.ErrClosed
	}

	v := 0
	if enabled {
		v = 1
	}
	if err := unix.IoctlSetInt(d.fd, ioctlPEC, v); err != nil {
		return fmt.Errorf("i2cdev: %s: set pec %t: %w", d.path, enabled, err)
	}
	d.pec = enabled

	return nil
}

// Transact issues one I2C_SMBUS ioctl.
func (d *Device) Transact(kind transport.Kind, dir transport.Direction, cmd byte, data *transport.Data) error {
	if d.closed {
		return transport.ErrClosed
	}

	restore := includeTrailer(kind, dir, d.pec, data)
	defer restore()

	args := smbusIoctlData{
		readWrite: uint8(dir),
		command:   cmd,
		size:      uint32(kind),
		data:      data,
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), ioctlSMBus, uintptr(unsafe.Pointer(&args)))

	return classifyErrno(kind, dir, errno)
}

// includeTrailer extends the declared length of a PEC-enabled i2c block write by one
// so the caller-computed checksum byte is sent; the kernel never frames PEC for that
// kind. The returned func restores the declared length.
func includeTrailer(kind transport.Kind, dir transport.Direction, pecOn bool, data *transport.Data) func() {
	if kind != transport.KindI2CBlockData || dir != transport.Write || !pecOn || data == nil {
		return func() {}
	}

	n := data[0]
	data[0] = n + 1

	return func() { data[0] = n }
}

// classifyErrno maps an I2C_SMBUS ioctl errno onto the transport error sentinels.
func classifyErrno(kind transport.Kind, dir transport.Direction, errno unix.Errno) error {
	switch {
	case errno == 0:
		return nil
	case errors.Is(errno, unix.EBADMSG):
		return fmt.Errorf("i2cdev: %s %s: %w: %w", kind, dir, pec.ErrMismatch, errno)
	case errors.Is(errno, unix.EOPNOTSUPP):
		return fmt.Errorf("i2cdev: %s %s: %w: %w", kind, dir, transport.ErrNotSupported, errno)
	default:
		return fmt.Errorf("i2cdev: %s %s: %w", kind, dir, errno)
	}
}

// Close closes the device node.
func (d *Device) Close() error {
	if d.closed {
		return transport.ErrClosed
	}
	d.closed = true

	if err := unix.Close(d.fd); err != nil {
		return fmt.Errorf("i2cdev: close %s: %w", d.path, err)
	}

	return nil
}
