package transport

import "fmt"

// Direction is the read/write bit of a transaction.
type Direction uint8

// Directions, numerically equal to I2C_SMBUS_WRITE and I2C_SMBUS_READ.
const (
	Write Direction = 0
	Read  Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Write:
		return "write"
	case Read:
		return "read"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// Kind is the shape of one SMBus transaction.
type Kind uint32

// Transaction kinds, numerically equal to the I2C_SMBUS_* size constants.
const (
	// KindQuick carries no data, only the read/write bit.
	KindQuick Kind = 0
	// KindByte is a send/receive byte without a command phase. On writes the byte
	// travels as the command.
	KindByte Kind = 1
	// KindByteData is a command followed by one data byte.
	KindByteData Kind = 2
	// KindWordData is a command followed by a little-endian word.
	KindWordData Kind = 3
	// KindProcCall writes a word and reads a word back in one combined transaction.
	KindProcCall Kind = 4
	// KindBlockData is a command followed by a count byte and up to 32 data bytes.
	KindBlockData Kind = 5
	// KindI2CBlockBroken is the legacy 32-byte I2C block read.
	KindI2CBlockBroken Kind = 6
	// KindBlockProcCall writes a block and reads a block back (SMBus 2.0).
	KindBlockProcCall Kind = 7
	// KindI2CBlockData moves a caller-chosen number of bytes without a count byte on
	// the wire. It backs the fixed-width dword and qword operations.
	KindI2CBlockData Kind = 8
)

var kindNames = [...]string{
	KindQuick:          "quick",
	KindByte:           "byte",
	KindByteData:       "byte_data",
	KindWordData:       "word_data",
	KindProcCall:       "proc_call",
	KindBlockData:      "block_data",
	KindI2CBlockBroken: "i2c_block_broken",
	KindBlockProcCall:  "block_proc_call",
	KindI2CBlockData:   "i2c_block_data",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("kind(%d)", uint32(k))
}

// IsBlock reports whether data for k uses the length-prefixed block layout.
func (k Kind) IsBlock() bool {
	switch k { //nolint:exhaustive
	case KindBlockData, KindI2CBlockBroken, KindBlockProcCall, KindI2CBlockData:
		return true
	default:
		return false
	}
}
