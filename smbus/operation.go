package smbus

import (
	"fmt"

	"github.com/arloliu/go-smbus/transport"
)

// Operation identifies one SMBus transaction type offered by Bus.
type Operation uint8

const (
	OpQuickCommand Operation = iota
	OpReadReg
	OpWriteReg
	OpReadByteData
	OpWriteByteData
	OpReadWordData
	OpWriteWordData
	OpReadDwordData
	OpWriteDwordData
	OpReadQwordData
	OpWriteQwordData
	OpReadBlockData
	OpWriteBlockData
	OpProcCall

	numOperations
)

// Shape describes the payload carried in one direction of an operation.
type Shape uint8

const (
	// ShapeNone carries no payload.
	ShapeNone Shape = iota
	// ShapeCommand carries a single byte in the command position.
	ShapeCommand
	// ShapeByte is a command followed by one byte.
	ShapeByte
	// ShapeWord is a command followed by a little-endian word.
	ShapeWord
	// ShapeFixed is a command followed by a fixed-length little-endian block.
	ShapeFixed
	// ShapeBlock is a command followed by a count byte and up to 32 bytes.
	ShapeBlock
)

func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "none"
	case ShapeCommand:
		return "command"
	case ShapeByte:
		return "byte"
	case ShapeWord:
		return "word"
	case ShapeFixed:
		return "fixed"
	case ShapeBlock:
		return "block"
	default:
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
}

type opSpec struct {
	name     string
	kind     transport.Kind
	dir      transport.Direction
	request  Shape
	response Shape
	width    int
}

// opTable maps each operation onto the transaction the transport performs.
// QuickCommand's direction is the caller's bit; the entry holds the write form.
var opTable = [numOperations]opSpec{
	OpQuickCommand:   {"quick_command", transport.KindQuick, transport.Write, ShapeNone, ShapeNone, 0},
	OpReadReg:        {"read_reg", transport.KindByte, transport.Read, ShapeNone, ShapeByte, 1},
	OpWriteReg:       {"write_reg", transport.KindByte, transport.Write, ShapeCommand, ShapeNone, 0},
	OpReadByteData:   {"read_byte_data", transport.KindByteData, transport.Read, ShapeNone, ShapeByte, 1},
	OpWriteByteData:  {"write_byte_data", transport.KindByteData, transport.Write, ShapeByte, ShapeNone, 1},
	OpReadWordData:   {"read_word_data", transport.KindWordData, transport.Read, ShapeNone, ShapeWord, 2},
	OpWriteWordData:  {"write_word_data", transport.KindWordData, transport.Write, ShapeWord, ShapeNone, 2},
	OpReadDwordData:  {"read_dword_data", transport.KindI2CBlockData, transport.Read, ShapeNone, ShapeFixed, 4},
	OpWriteDwordData: {"write_dword_data", transport.KindI2CBlockData, transport.Write, ShapeFixed, ShapeNone, 4},
	OpReadQwordData:  {"read_qword_data", transport.KindI2CBlockData, transport.Read, ShapeNone, ShapeFixed, 8},
	OpWriteQwordData: {"write_qword_data", transport.KindI2CBlockData, transport.Write, ShapeFixed, ShapeNone, 8},
	OpReadBlockData:  {"read_block_data", transport.KindBlockData, transport.Read, ShapeNone, ShapeBlock, transport.BlockMax},
	OpWriteBlockData: {"write_block_data", transport.KindBlockData, transport.Write, ShapeBlock, ShapeNone, transport.BlockMax},
	OpProcCall:       {"proc_call", transport.KindProcCall, transport.Write, ShapeWord, ShapeWord, 2},
}

// Operations returns every operation in declaration order.
func Operations() []Operation {
	ops := make([]Operation, numOperations)
	for i := range ops {
		ops[i] = Operation(i)
	}

	return ops
}

// hasPayload reports whether op moves bytes beyond the command position.
func (op Operation) hasPayload() bool {
	return op.Request() > ShapeCommand || op.Response() != ShapeNone
}

func (op Operation) valid() bool {
	return op < numOperations
}

func (op Operation) String() string {
	if !op.valid() {
		return fmt.Sprintf("operation(%d)", uint8(op))
	}

	return opTable[op].name
}

// Kind returns the transport transaction kind used by op.
func (op Operation) Kind() transport.Kind {
	return opTable[op].kind
}

// Direction returns the transaction direction used by op.
func (op Operation) Direction() transport.Direction {
	return opTable[op].dir
}

// Request returns the shape of the payload sent to the device.
func (op Operation) Request() Shape {
	return opTable[op].request
}

// Response returns the shape of the payload returned by the device.
func (op Operation) Response() Shape {
	return opTable[op].response
}

// Width returns the payload width in bytes; for block operations it is the maximum.
func (op Operation) Width() int {
	return opTable[op].width
}
