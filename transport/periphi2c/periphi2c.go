// Package periphi2c implements [transport.Transport] on top of a periph.io I2C bus.
//
// periph.io buses only expose raw I2C write-then-read transfers, so every SMBus
// transaction is emulated here, including the PEC byte, which is computed and checked
// in software. Quick commands cannot be expressed as a Tx call and are reported as
// unsupported. Block reads cannot learn the count byte before the transfer ends, so
// they read the maximum block size and trim afterwards.
package periphi2c

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/arloliu/go-smbus/internal/util"
	"github.com/arloliu/go-smbus/pec"
	"github.com/arloliu/go-smbus/transport"
)

// Caps is the functionality reported by every periph.io backed transport.
const Caps = (transport.FuncI2C | transport.FuncSMBusEmul | transport.FuncSMBusReadBlockData) &^
	transport.FuncSMBusQuick

var (
	hostOnce sync.Once
	hostErr  error
)

func initHost() error {
	hostOnce.Do(func() {
		_, hostErr = host.Init()
	})

	return hostErr
}

// Opener opens buses registered with periph.io's i2creg.
type Opener struct {
	// Name overrides the registry name. Empty means the decimal bus number.
	Name string
	// Speed, when non-zero, is applied with SetSpeed after opening.
	Speed physic.Frequency
}

// Open initializes the periph.io host drivers once and opens the named bus.
func (o Opener) Open(bus uint) (transport.Transport, error) {
	if err := initHost(); err != nil {
		return nil, fmt.Errorf("periphi2c: host init: %w", err)
	}

	name := o.Name
	if name == "" {
		name = strconv.FormatUint(uint64(bus), 10)
	}

	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("periphi2c: open %q: %w", name, err)
	}

	if o.Speed > 0 {
		if err := b.SetSpeed(o.Speed); err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("periphi2c: %s: set speed %s: %w", b, o.Speed, err)
		}
	}

	return New(b), nil
}

// Bus adapts an i2c.Bus to transport.Transport.
type Bus struct {
	bus    i2c.Bus
	addr   uint16
	pec    bool
	closed bool
}

var _ transport.Transport = (*Bus)(nil)

// New wraps bus. When bus also implements io.Closer, Close closes it.
func New(bus i2c.Bus) *Bus {
	return &Bus{bus: bus}
}

// String returns the name of the underlying bus.
func (b *Bus) String() string {
	return b.bus.String()
}

// SetAddress sets the destination of subsequent Tx calls.
func (b *Bus) SetAddress(addr uint8) error {
	if b.closed {
		return transport.ErrClosed
	}
	if addr > 0x7F {
		return fmt.Errorf("periphi2c: address 0x%02X exceeds 7 bits", addr)
	}
	b.addr = uint16(addr)

	return nil
}

// Capabilities returns Caps; periph.io buses cannot be queried.
func (b *Bus) Capabilities() (transport.Caps, error) {
	if b.closed {
		return 0, transport.ErrClosed
	}

	return Caps, nil
}

// EnablePEC switches the software PEC framing on or off.
func (b *Bus) EnablePEC(enabled bool) error {
	if b.closed {
		return transport.ErrClosed
	}
	b.pec = enabled

	return nil
}

// Close closes the underlying bus when it implements io.Closer.
func (b *Bus) Close() error {
	if b.closed {
		return transport.ErrClosed
	}
	b.closed = true

	if c, ok := b.bus.(io.Closer); ok {
		return c.Close()
	}

	return nil
}

// Transact emulates one SMBus transaction with a single Tx call.
func (b *Bus) Transact(kind transport.Kind, dir transport.Direction, cmd byte, data *transport.Data) error {
	if b.closed {
		return transport.ErrClosed
	}
	if !Caps.Supports(kind, dir) {
		return fmt.Errorf("%w: %s %s", transport.ErrNotSupported, kind, dir)
	}

	if kind.IsBlock() && dir == transport.Write && data != nil && int(data[0]) > transport.BlockMax {
		return fmt.Errorf("periphi2c: %s write declares %d bytes, limit %d", kind, data[0], transport.BlockMax)
	}

	var err error
	switch kind { //nolint:exhaustive
	case transport.KindByte:
		err = b.byteXfer(dir, cmd, data)
	case transport.KindByteData:
		err = b.dataXfer(dir, cmd, data, 1)
	case transport.KindWordData:
		err = b.dataXfer(dir, cmd, data, 2)
	case transport.KindProcCall:
		err = b.procCall(cmd, data)
	case transport.KindBlockData:
		err = b.blockXfer(dir, cmd, data)
	case transport.KindI2CBlockData:
		err = b.i2cBlockXfer(dir, cmd, data)
	default:
		return fmt.Errorf("%w: %s %s", transport.ErrNotSupported, kind, dir)
	}
	if err != nil {
		return fmt.Errorf("periphi2c: %s %s: %w", kind, dir, err)
	}

	return nil
}

func (b *Bus) addr7() uint8 {
	return uint8(b.addr)
}

// withPEC appends the write PEC of w when PEC is enabled. w[0] is the command.
func (b *Bus) withPEC(w []byte) []byte {
	if !b.pec {
		return w
	}

	return append(w, pec.WritePacket(b.addr7(), w[0], w[1:]))
}

// readLen returns n, plus one for the PEC byte when PEC is enabled.
func (b *Bus) readLen(n int) int {
	if b.pec {
		return n + 1
	}

	return n
}

func (b *Bus) byteXfer(dir transport.Direction, cmd byte, data *transport.Data) error {
	if dir == transport.Write {
		return b.bus.Tx(b.addr, b.withPEC([]byte{cmd}), nil)
	}

	r := make([]byte, b.readLen(1))
	if err := b.bus.Tx(b.addr, nil, r); err != nil {
		return err
	}
	if b.pec {
		crc := pec.Block(0, []byte{pec.ReadAddress(b.addr7()), r[0]})
		if err := pec.Verify(crc, r[1]); err != nil {
			return err
		}
	}
	data.SetByte(r[0])

	return nil
}

func (b *Bus) dataXfer(dir transport.Direction, cmd byte, data *transport.Data, n int) error {
	if dir == transport.Write {
		w := append([]byte{cmd}, data[0:n]...)
		return b.bus.Tx(b.addr, b.withPEC(w), nil)
	}

	r := make([]byte, b.readLen(n))
	if err := b.bus.Tx(b.addr, []byte{cmd}, r); err != nil {
		return err
	}
	if b.pec {
		if err := pec.Verify(pec.ReadPacket(b.addr7(), cmd, r[:n]), r[n]); err != nil {
			return err
		}
	}
	copy(data[0:n], r[:n])

	return nil
}

func (b *Bus) procCall(cmd byte, data *transport.Data) error {
	w := []byte{cmd, data[0], data[1]}
	r := make([]byte, b.readLen(2))
	if err := b.bus.Tx(b.addr, w, r); err != nil {
		return err
	}
	if b.pec {
		crc := pec.WritePacket(b.addr7(), cmd, w[1:])
		crc = pec.Single(crc, pec.ReadAddress(b.addr7()))
		crc = pec.Block(crc, r[:2])
		if err := pec.Verify(crc, r[2]); err != nil {
			return err
		}
	}
	copy(data[0:2], r[:2])

	return nil
}

func (b *Bus) blockXfer(dir transport.Direction, cmd byte, data *transport.Data) error {
	if dir == transport.Write {
		block := data.Block()
		w := make([]byte, 0, 2+len(block)+1)
		w = append(w, cmd, byte(len(block)))
		w = append(w, block...)

		return b.bus.Tx(b.addr, b.withPEC(w), nil)
	}

	r := make([]byte, b.readLen(1+transport.BlockMax))
	if err := b.bus.Tx(b.addr, []byte{cmd}, r); err != nil {
		return err
	}
	n, _ := util.ClampLen(int(r[0]), transport.BlockMax)
	if b.pec {
		if err := pec.Verify(pec.ReadPacket(b.addr7(), cmd, r[:1+n]), r[1+n]); err != nil {
			return err
		}
	}
	data[0] = r[0]
	copy(data[1:1+n], r[1:1+n])

	return nil
}

// i2cBlockXfer moves the fixed-width block verbatim; PEC bytes here belong to the caller.
func (b *Bus) i2cBlockXfer(dir transport.Direction, cmd byte, data *transport.Data) error {
	if dir == transport.Write {
		block := data.Block()
		w := make([]byte, 0, 1+len(block)+1)
		w = append(w, cmd)
		w = append(w, block...)
		if b.pec {
			w = append(w, data.Trailer())
		}

		return b.bus.Tx(b.addr, w, nil)
	}

	n := data.Len()
	r := make([]byte, n)
	if err := b.bus.Tx(b.addr, []byte{cmd}, r); err != nil {
		return err
	}
	copy(data[1:1+n], r)

	return nil
}
