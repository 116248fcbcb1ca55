package smbus

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/arloliu/go-smbus/logger"
	"github.com/arloliu/go-smbus/transport"
)

// Bus is an open SMBus adapter.
type Bus struct {
	cfg     *BusConfig
	tr      transport.Transport
	addr    uint8
	pec     bool
	closed  bool
	logger  logger.Logger
	metrics BusMetrics
}

// Open opens the adapter described by cfg.
//
// When cfg selects an initial slave address or PEC, they are applied before Open
// returns; if either fails, the transport is closed again and the error returned.
func Open(cfg *BusConfig) (*Bus, error) {
	if cfg == nil {
		return nil, fmt.Errorf("smbus: open: %w: nil config", ErrInvalidArgument)
	}

	tr, err := cfg.opener.Open(cfg.index)
	if err != nil {
		return nil, fmt.Errorf("%w: open bus %d: %w", ErrIO, cfg.index, err)
	}

	b := &Bus{
		cfg:    cfg,
		tr:     tr,
		logger: cfg.logger.With("bus", cfg.index),
	}

	if addr, ok := cfg.Slave(); ok {
		if err := b.UseSlave(addr); err != nil {
			return nil, multierr.Append(err, tr.Close())
		}
	}
	if cfg.pec {
		if err := b.SetPEC(true); err != nil {
			return nil, multierr.Append(err, tr.Close())
		}
	}

	b.logger.Info("smbus bus opened", "addr", b.addr, "pec", b.pec)

	return b, nil
}

// Close releases the adapter. The Bus is unusable afterwards, and a second Close
// returns ErrInvalidHandle.
func (b *Bus) Close() error {
	if err := b.checkHandle("close"); err != nil {
		return err
	}
	b.closed = true

	err := b.tr.Close()
	b.logger.Info("smbus bus closed")
	if err != nil {
		return wrapErr("close", err)
	}

	return nil
}

// UseSlave selects the 7-bit slave address for subsequent transactions.
func (b *Bus) UseSlave(addr uint8) error {
	if err := b.checkHandle("use_slave"); err != nil {
		return err
	}
	if addr > MaxAddress {
		return fmt.Errorf("smbus: use_slave: %w: address 0x%02X exceeds 0x%02X", ErrInvalidArgument, addr, MaxAddress)
	}
	if err := b.tr.SetAddress(addr); err != nil {
		return wrapErr("use_slave", err)
	}
	b.addr = addr

	return nil
}

// SetPEC enables or disables packet error checking.
//
// Enabling queries the adapter first and fails with ErrUnsupported, leaving PEC
// disabled, when the adapter does not support it.
func (b *Bus) SetPEC(enabled bool) error {
	if err := b.checkHandle("set_pec"); err != nil {
		return err
	}

	if enabled {
		caps, err := b.tr.Capabilities()
		if err != nil {
			return wrapErr("set_pec", err)
		}
		if !caps.Has(transport.FuncSMBusPEC) {
			return fmt.Errorf("smbus: set_pec: %w: adapter reports %s", ErrUnsupported, caps)
		}
	}

	if err := b.tr.EnablePEC(enabled); err != nil {
		return wrapErr("set_pec", err)
	}
	b.pec = enabled

	return nil
}

// PEC reports whether packet error checking is enabled.
func (b *Bus) PEC() bool {
	if b == nil {
		return false
	}

	return b.pec
}

// Slave returns the current slave address.
func (b *Bus) Slave() uint8 {
	if b == nil {
		return 0
	}

	return b.addr
}

// Index returns the adapter number.
func (b *Bus) Index() uint {
	if b == nil {
		return 0
	}

	return b.cfg.index
}

// Capabilities returns the adapter functionality bitmask.
func (b *Bus) Capabilities() (transport.Caps, error) {
	if err := b.checkHandle("capabilities"); err != nil {
		return 0, err
	}

	caps, err := b.tr.Capabilities()
	if err != nil {
		return 0, wrapErr("capabilities", err)
	}

	return caps, nil
}

// Metrics returns the bus metrics. A nil Bus reports an empty set.
func (b *Bus) Metrics() *BusMetrics {
	if b == nil {
		return &BusMetrics{}
	}

	return &b.metrics
}

func (b *Bus) checkHandle(op string) error {
	if b == nil || b.closed {
		return fmt.Errorf("smbus: %s: %w", op, ErrInvalidHandle)
	}

	return nil
}

// transact runs one transaction of op in the direction given by opTable.
func (b *Bus) transact(op Operation, cmd byte, data *transport.Data) error {
	return b.transactDir(op, op.Direction(), cmd, data)
}

// transactDir runs one transaction of op in direction dir. The payload buffer is only
// handed to the transport when op's shapes carry data.
func (b *Bus) transactDir(op Operation, dir transport.Direction, cmd byte, data *transport.Data) error {
	if err := b.checkHandle(op.String()); err != nil {
		return err
	}
	if !op.hasPayload() {
		data = nil
	}

	b.metrics.incTransactionCount()
	b.logger.Debug("smbus transaction", "op", op.String(), "addr", b.addr, "cmd", cmd, "pec", b.pec)

	if err := b.tr.Transact(op.Kind(), dir, cmd, data); err != nil {
		return b.fail(op, err)
	}

	return nil
}

// fail records a failed transaction of op and classifies err.
func (b *Bus) fail(op Operation, err error) error {
	b.metrics.incErrorCount()
	if errors.Is(err, ErrChecksumMismatch) {
		b.metrics.incChecksumErrorCount()
		b.logger.Warn("smbus checksum mismatch", "op", op.String(), "addr", b.addr, "error", err)
	}

	return wrapErr(op.String(), err)
}

func (b *Bus) truncated(op Operation, declared, kept int) {
	b.metrics.incTruncatedBlockCount()
	b.logger.Warn("smbus block truncated", "op", op.String(), "addr", b.addr, "declared", declared, "kept", kept)
}
