package transport

import (
	"encoding/binary"

	"github.com/arloliu/go-smbus/internal/util"
)

// BlockMax is the maximum number of data bytes in one SMBus block transfer.
const BlockMax = 32

// DataSize is the size of [Data]: one length byte, BlockMax data bytes and one byte of
// headroom for a PEC byte.
const DataSize = BlockMax + 2

// Data is a transaction payload with the memory layout of the kernel's i2c_smbus_data
// union: the byte value at offset 0, the word value little-endian at offset 0, and for
// block kinds the length at offset 0 followed by the block bytes.
type Data [DataSize]byte

// Byte returns the byte value.
func (d *Data) Byte() byte {
	return d[0]
}

// SetByte stores the byte value.
func (d *Data) SetByte(b byte) {
	d[0] = b
}

// Word returns the little-endian word value.
func (d *Data) Word() uint16 {
	return binary.LittleEndian.Uint16(d[0:2])
}

// SetWord stores w little-endian.
func (d *Data) SetWord(w uint16) {
	binary.LittleEndian.PutUint16(d[0:2], w)
}

// Len returns the declared block length, clamped to BlockMax+1 so that a PEC-extended
// fixed-width read is still addressable.
func (d *Data) Len() int {
	n, _ := util.ClampLen(int(d[0]), BlockMax+1)
	return n
}

// SetLen stores the declared block length without touching the block bytes.
func (d *Data) SetLen(n int) {
	d[0] = byte(n)
}

// Block returns the declared block bytes, clamped to BlockMax. The slice aliases d.
func (d *Data) Block() []byte {
	n, _ := util.ClampLen(int(d[0]), BlockMax)
	return d[1 : 1+n]
}

// SetBlock copies at most BlockMax bytes of p into the block and sets the declared
// length. It returns the number of bytes stored.
func (d *Data) SetBlock(p []byte) int {
	n, _ := util.ClampLen(len(p), BlockMax)
	d[0] = byte(n)
	copy(d[1:1+n], p)

	return n
}

// Trailer returns the byte stored directly after the declared block, where a
// caller-computed PEC byte travels for KindI2CBlockData.
func (d *Data) Trailer() byte {
	n, _ := util.ClampLen(int(d[0]), BlockMax)
	return d[1+n]
}

// SetTrailer stores b directly after the declared block.
func (d *Data) SetTrailer(b byte) {
	n, _ := util.ClampLen(int(d[0]), BlockMax)
	d[1+n] = b
}
