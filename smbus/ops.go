package smbus

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/go-smbus/internal/util"
	"github.com/arloliu/go-smbus/pec"
	"github.com/arloliu/go-smbus/transport"
)

// QuickCommand sends the slave address with bit as the read/write flag (true is read).
func (b *Bus) QuickCommand(bit bool) error {
	dir := transport.Write
	if bit {
		dir = transport.Read
	}

	return b.transactDir(OpQuickCommand, dir, 0, nil)
}

// ReadReg receives one byte without a command phase.
func (b *Bus) ReadReg() (byte, error) {
	v, err := b.readValue(OpReadReg, 0)
	return byte(v), err
}

// WriteReg sends reg as a single byte.
func (b *Bus) WriteReg(reg byte) error {
	return b.transact(OpWriteReg, reg, nil)
}

// ReadByteData reads the byte register cmd.
func (b *Bus) ReadByteData(cmd byte) (byte, error) {
	v, err := b.readValue(OpReadByteData, cmd)
	return byte(v), err
}

// WriteByteData writes v to the byte register cmd.
func (b *Bus) WriteByteData(cmd, v byte) error {
	return b.writeValue(OpWriteByteData, cmd, uint64(v))
}

// ReadWordData reads the little-endian word register cmd.
func (b *Bus) ReadWordData(cmd byte) (uint16, error) {
	v, err := b.readValue(OpReadWordData, cmd)
	return uint16(v), err
}

// WriteWordData writes v little-endian to the word register cmd.
func (b *Bus) WriteWordData(cmd byte, v uint16) error {
	return b.writeValue(OpWriteWordData, cmd, uint64(v))
}

// ReadDwordData reads a 32-bit little-endian value.
// With PEC enabled the checksum is verified here and a mismatch returns zero.
func (b *Bus) ReadDwordData(cmd byte) (uint32, error) {
	v, err := b.readValue(OpReadDwordData, cmd)
	return uint32(v), err
}

// WriteDwordData writes v as a 32-bit little-endian value.
func (b *Bus) WriteDwordData(cmd byte, v uint32) error {
	return b.writeValue(OpWriteDwordData, cmd, uint64(v))
}

// ReadQwordData reads a 64-bit little-endian value.
// With PEC enabled the checksum is verified here and a mismatch returns zero.
func (b *Bus) ReadQwordData(cmd byte) (uint64, error) {
	return b.readValue(OpReadQwordData, cmd)
}

// WriteQwordData writes v as a 64-bit little-endian value.
func (b *Bus) WriteQwordData(cmd byte, v uint64) error {
	return b.writeValue(OpWriteQwordData, cmd, v)
}

// ReadBlockData reads a length-prefixed block. A device reporting more than 32 bytes is
// truncated to 32; the returned slice has the kept length.
func (b *Bus) ReadBlockData(cmd byte) ([]byte, error) {
	op := OpReadBlockData
	if err := b.expectShape(op, op.Response(), ShapeBlock); err != nil {
		return nil, err
	}

	var data transport.Data
	if err := b.transact(op, cmd, &data); err != nil {
		return nil, err
	}

	declared := int(data[0])
	n, clamped := util.ClampLen(declared, op.Width())
	if clamped {
		b.truncated(op, declared, n)
	}

	return util.CloneSlice(data[1:1+n], n), nil
}

// WriteBlockData writes at most 32 bytes of p as a length-prefixed block and returns
// the number of bytes written.
func (b *Bus) WriteBlockData(cmd byte, p []byte) (int, error) {
	op := OpWriteBlockData
	if err := b.expectShape(op, op.Request(), ShapeBlock); err != nil {
		return 0, err
	}

	var data transport.Data
	n := data.SetBlock(p[:min(len(p), op.Width())])

	if err := b.transact(op, cmd, &data); err != nil {
		return 0, err
	}
	if n < len(p) {
		b.truncated(op, len(p), n)
	}

	return n, nil
}

// ProcCall writes req to cmd and returns the word the device answers with.
func (b *Bus) ProcCall(cmd byte, req uint16) (uint16, error) {
	op := OpProcCall
	var data transport.Data
	if err := encodeValue(op, op.Request(), &data, uint64(req)); err != nil {
		return 0, b.badShape(op, err)
	}
	if err := b.transact(op, cmd, &data); err != nil {
		return 0, err
	}

	v, err := decodeValue(op, op.Response(), &data)
	if err != nil {
		return 0, b.badShape(op, err)
	}

	return uint16(v), nil
}

// readValue performs op and decodes its response according to op.Response().
func (b *Bus) readValue(op Operation, cmd byte) (uint64, error) {
	if op.Response() == ShapeFixed {
		return b.readFixed(op, cmd)
	}

	var data transport.Data
	if err := b.transact(op, cmd, &data); err != nil {
		return 0, err
	}

	v, err := decodeValue(op, op.Response(), &data)
	if err != nil {
		return 0, b.badShape(op, err)
	}

	return v, nil
}

// writeValue encodes v according to op.Request() and performs op.
func (b *Bus) writeValue(op Operation, cmd byte, v uint64) error {
	var data transport.Data
	if err := encodeValue(op, op.Request(), &data, v); err != nil {
		return b.badShape(op, err)
	}
	if op.Request() == ShapeFixed && b.PEC() {
		data.SetTrailer(pec.WritePacket(b.addr, cmd, data.Block()))
	}

	return b.transact(op, cmd, &data)
}

// readFixed reads op.Width() bytes, plus the PEC byte when enabled, and returns the
// verified little-endian value.
func (b *Bus) readFixed(op Operation, cmd byte) (uint64, error) {
	width := op.Width()
	want := width
	if b.PEC() {
		want++
	}

	var data transport.Data
	data.SetLen(want)
	if err := b.transact(op, cmd, &data); err != nil {
		return 0, err
	}

	if got := data.Len(); got < want {
		return 0, b.fail(op, fmt.Errorf("%w: %d of %d bytes", transport.ErrShortTransfer, got, want))
	}

	if b.pec {
		if err := pec.Verify(pec.ReadPacket(b.addr, cmd, data[1:1+width]), data[1+width]); err != nil {
			return 0, b.fail(op, err)
		}
	}
	data.SetLen(width)

	return decodeValue(op, ShapeFixed, &data)
}

func (b *Bus) expectShape(op Operation, got, want Shape) error {
	if got != want {
		return b.badShape(op, fmt.Errorf("shape %s, want %s", got, want))
	}

	return nil
}

func (b *Bus) badShape(op Operation, err error) error {
	return fmt.Errorf("smbus: %s: %w: %w", op, ErrInvalidArgument, err)
}

// encodeValue stores v in data in the layout of shape s.
func encodeValue(op Operation, s Shape, data *transport.Data, v uint64) error {
	switch s { //nolint:exhaustive
	case ShapeByte:
		data.SetByte(byte(v))
	case ShapeWord:
		data.SetWord(uint16(v))
	case ShapeFixed:
		var p [8]byte
		binary.LittleEndian.PutUint64(p[:], v)
		data.SetBlock(p[:op.Width()])
	default:
		return fmt.Errorf("cannot encode a value as %s", s)
	}

	return nil
}

// decodeValue reads a value laid out as shape s from data.
func decodeValue(op Operation, s Shape, data *transport.Data) (uint64, error) {
	switch s { //nolint:exhaustive
	case ShapeByte:
		return uint64(data.Byte()), nil
	case ShapeWord:
		return uint64(data.Word()), nil
	case ShapeFixed:
		var p [8]byte
		copy(p[:op.Width()], data.Block())
		return binary.LittleEndian.Uint64(p[:]), nil
	default:
		return 0, fmt.Errorf("cannot decode a value from %s", s)
	}
}
