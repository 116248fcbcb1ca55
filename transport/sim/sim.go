// Package sim provides an in-memory SMBus device implementing [transport.Transport].
//
// The simulated device keeps a register file per (address, command) pair and behaves as
// a loopback: whatever is written to a register is read back by the matching read
// operation. Process calls echo their request word unless a handler is installed. When
// PEC is enabled the device verifies the checksum byte trailing fixed-width block writes
// and appends one to fixed-width block reads, so the software PEC paths of the smbus
// engine run end to end.
//
// Every completed transaction is appended to a journal that tests drain with
// [Device.Journal] to observe exactly what crossed the simulated wire.
package sim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arloliu/go-smbus/internal/queue"
	"github.com/arloliu/go-smbus/internal/util"
	"github.com/arloliu/go-smbus/logger"
	"github.com/arloliu/go-smbus/pec"
	"github.com/arloliu/go-smbus/transport"
)

// DefaultCaps is the functionality reported by a simulated device unless WithCaps or
// WithoutPEC is given.
const DefaultCaps = transport.FuncI2C | transport.FuncSMBusEmul | transport.FuncSMBusReadBlockData

var (
	// ErrNoDevice is returned when no simulated device answers at the current address.
	ErrNoDevice = errors.New("sim: no device at address")

	// ErrInvalidAddress is returned by SetAddress for addresses wider than 7 bits.
	ErrInvalidAddress = errors.New("sim: invalid address")

	// ErrBlockTooLong is returned for block writes declaring more than BlockMax bytes.
	ErrBlockTooLong = errors.New("sim: block too long")
)

// Transaction is one journaled transaction as seen on the simulated wire.
type Transaction struct {
	Addr    uint8
	Kind    transport.Kind
	Dir     transport.Direction
	Command byte
	// Data holds the payload bytes of the transaction: the byte or little-endian word,
	// or the declared block bytes. For process calls it is the request word.
	Data []byte
	PEC  bool
}

type regKey struct {
	addr uint8
	cmd  byte
}

// ProcCallFunc computes the response word of a process call.
type ProcCallFunc func(addr uint8, cmd byte, req uint16) uint16

// Option configures a Device.
type Option func(*Device)

// WithCaps overrides the reported functionality bitmask.
func WithCaps(c transport.Caps) Option {
	return func(d *Device) { d.caps = c }
}

// WithoutPEC removes PEC from the reported functionality.
func WithoutPEC() Option {
	return func(d *Device) { d.caps &^= transport.FuncSMBusPEC }
}

// WithDevices limits the addresses that acknowledge transactions. Without this option
// every address answers.
func WithDevices(addrs ...uint8) Option {
	return func(d *Device) {
		d.present = make(map[uint8]struct{}, len(addrs))
		for _, a := range addrs {
			d.present[a] = struct{}{}
		}
	}
}

// WithProcCall installs the process call handler. The default echoes the request.
func WithProcCall(fn ProcCallFunc) Option {
	return func(d *Device) {
		if fn != nil {
			d.procCall = fn
		}
	}
}

// WithLogger sets the logger used for per-transaction debug output.
func WithLogger(l logger.Logger) Option {
	return func(d *Device) {
		if l != nil {
			d.logger = l
		}
	}
}

// Device is a simulated SMBus segment. The zero value is not usable; call New.
type Device struct {
	mu       sync.Mutex
	caps     transport.Caps
	addr     uint8
	pec      bool
	closed   bool
	bus      uint
	present  map[uint8]struct{}
	procCall ProcCallFunc
	logger   logger.Logger

	corruptPEC bool
	failNext   error

	regs     *xsync.MapOf[regKey, []byte]
	lastSent *xsync.MapOf[uint8, byte]
	journal  queue.Queue[Transaction]
}

var _ transport.Transport = (*Device)(nil)

// New creates a simulated device.
func New(opts ...Option) *Device {
	d := &Device{
		caps:     DefaultCaps,
		procCall: func(_ uint8, _ byte, req uint16) uint16 { return req },
		logger:   logger.GetLogger(),
		regs:     xsync.NewMapOf[regKey, []byte](),
		lastSent: xsync.NewMapOf[uint8, byte](),
		journal:  queue.NewSliceQueue[Transaction](16),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Opener returns an Opener handing out d for any bus number. Opening re-arms a closed
// device.
func (d *Device) Opener() transport.Opener {
	return transport.OpenerFunc(func(bus uint) (transport.Transport, error) {
		d.mu.Lock()
		defer d.mu.Unlock()

		d.closed = false
		d.bus = bus

		return d, nil
	})
}

// Bus returns the bus number the device was last opened as.
func (d *Device) Bus() uint {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.bus
}

// Address returns the current destination address.
func (d *Device) Address() uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.addr
}

// PECEnabled reports whether PEC is currently enabled.
func (d *Device) PECEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.pec
}

// Closed reports whether the device has been closed.
func (d *Device) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.closed
}

// Register returns a copy of the bytes stored for (addr, cmd).
func (d *Device) Register(addr uint8, cmd byte) []byte {
	v, ok := d.regs.Load(regKey{addr, cmd})
	if !ok {
		return nil
	}

	return util.CloneSlice(v, 0)
}

// SetRegister stores p for (addr, cmd). p may exceed the SMBus block limit to simulate
// a misbehaving device.
func (d *Device) SetRegister(addr uint8, cmd byte, p []byte) {
	d.regs.Store(regKey{addr, cmd}, util.CloneSlice(p, 0))
}

// CorruptPEC makes subsequent fixed-width block reads return an inverted checksum.
func (d *Device) CorruptPEC(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.corruptPEC = on
}

// FailNext makes the next Transact call return err without touching the device.
func (d *Device) FailNext(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.failNext = err
}

// Journal drains and returns the transactions completed since the last call.
func (d *Device) Journal() []Transaction {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.journal.Drain()
}

// SetAddress implements transport.Transport.
func (d *Device) SetAddress(addr uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return transport.ErrClosed
	}
	if addr > 0x7F {
		return fmt.Errorf("%w: 0x%02X", ErrInvalidAddress, addr)
	}
	d.addr = addr

	return nil
}

// Capabilities implements transport.Transport.
func (d *Device) Capabilities() (transport.Caps, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, transport.ErrClosed
	}

	return d.caps, nil
}

// EnablePEC implements transport.Transport.
func (d *Device) EnablePEC(enabled bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return transport.ErrClosed
	}
	if enabled && !d.caps.Has(transport.FuncSMBusPEC) {
		return fmt.Errorf("%w: pec", transport.ErrNotSupported)
	}
	d.pec = enabled

	return nil
}

// Close implements transport.Transport.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return transport.ErrClosed
	}
	d.closed = true

	return nil
}

// Transact implements transport.Transport.
func (d *Device) Transact(kind transport.Kind, dir transport.Direction, cmd byte, data *transport.Data) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return transport.ErrClosed
	}
	if err := d.failNext; err != nil {
		d.failNext = nil
		return err
	}
	if !d.caps.Supports(kind, dir) {
		return fmt.Errorf("%w: %s %s", transport.ErrNotSupported, kind, dir)
	}
	if d.present != nil {
		if _, ok := d.present[d.addr]; !ok {
			return fmt.Errorf("%w 0x%02X", ErrNoDevice, d.addr)
		}
	}
	if data == nil && needsData(kind, dir) {
		return fmt.Errorf("sim: %s %s requires data", kind, dir)
	}
	if kind.IsBlock() && dir == transport.Write && int(data[0]) > transport.BlockMax {
		return fmt.Errorf("%w: %s declares %d bytes", ErrBlockTooLong, kind, data[0])
	}

	tx := Transaction{Addr: d.addr, Kind: kind, Dir: dir, Command: cmd, PEC: d.pec}
	if err := d.exec(&tx, data); err != nil {
		return err
	}
	d.journal.Enqueue(tx)

	d.logger.Debug("sim transaction",
		"addr", d.addr, "kind", kind.String(), "dir", dir.String(), "cmd", cmd, "len", len(tx.Data), "pec", d.pec)

	return nil
}

func (d *Device) exec(tx *Transaction, data *transport.Data) error {
	key := regKey{d.addr, tx.Command}
	read := tx.Dir == transport.Read

	switch tx.Kind { //nolint:exhaustive
	case transport.KindQuick:
		// address phase only

	case transport.KindByte:
		if read {
			v, _ := d.lastSent.Load(d.addr)
			data.SetByte(v)
			tx.Data = []byte{v}
		} else {
			d.lastSent.Store(d.addr, tx.Command)
		}

	case transport.KindByteData:
		if read {
			data.SetByte(d.load(key, 1)[0])
		} else {
			d.regs.Store(key, []byte{data.Byte()})
		}
		tx.Data = []byte{data.Byte()}

	case transport.KindWordData:
		if read {
			copy(data[0:2], d.load(key, 2))
		} else {
			d.regs.Store(key, util.CloneSlice(data[0:2], 0))
		}
		tx.Data = util.CloneSlice(data[0:2], 0)

	case transport.KindProcCall:
		tx.Data = util.CloneSlice(data[0:2], 0)
		data.SetWord(d.procCall(d.addr, tx.Command, data.Word()))

	case transport.KindBlockData:
		if read {
			stored, _ := d.regs.Load(key)
			data.SetLen(len(stored)) // may exceed BlockMax on purpose
			copy(data[1:], stored)
			tx.Data = util.CloneSlice(stored, 0)
		} else {
			tx.Data = util.CloneSlice(data.Block(), 0)
			d.regs.Store(key, tx.Data)
		}

	case transport.KindI2CBlockData:
		return d.execI2CBlock(tx, key, data)

	default:
		return fmt.Errorf("%w: %s", transport.ErrNotSupported, tx.Kind)
	}

	return nil
}

func (d *Device) execI2CBlock(tx *Transaction, key regKey, data *transport.Data) error {
	if tx.Dir == transport.Write {
		block := data.Block()
		if d.pec {
			if err := pec.Verify(pec.WritePacket(d.addr, tx.Command, block), data.Trailer()); err != nil {
				return fmt.Errorf("sim: i2c block write: %w", err)
			}
		}
		tx.Data = util.CloneSlice(block, 0)
		d.regs.Store(key, tx.Data)

		return nil
	}

	n, _ := util.ClampLen(data.Len(), transport.BlockMax)
	payload := n
	if d.pec && payload > 0 {
		payload--
	}

	stored, _ := d.regs.Load(key)
	out := make([]byte, payload)
	copy(out, stored)
	copy(data[1:], out)
	if d.pec && n > 0 {
		crc := pec.ReadPacket(d.addr, tx.Command, out)
		if d.corruptPEC {
			crc = ^crc
		}
		data[1+payload] = crc
	}
	tx.Data = out

	return nil
}

// load returns the register bytes for key, zero-padded to at least n bytes.
func (d *Device) load(key regKey, n int) []byte {
	v, _ := d.regs.Load(key)
	if len(v) >= n {
		return v
	}

	return util.CloneSlice(v, n)
}

func needsData(kind transport.Kind, dir transport.Direction) bool {
	switch kind { //nolint:exhaustive
	case transport.KindQuick:
		return false
	case transport.KindByte:
		return dir == transport.Read
	default:
		return true
	}
}
