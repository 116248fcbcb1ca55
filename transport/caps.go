package transport

import "strings"

// Caps is an adapter functionality bitmask, numerically equal to the I2C_FUNC_* flags
// returned by the I2C_FUNCS ioctl.
type Caps uint64

const (
	FuncI2C                 Caps = 0x00000001
	FuncTenBitAddr          Caps = 0x00000002
	FuncSMBusPEC            Caps = 0x00000008
	FuncSMBusBlockProcCall  Caps = 0x00008000
	FuncSMBusQuick          Caps = 0x00010000
	FuncSMBusReadByte       Caps = 0x00020000
	FuncSMBusWriteByte      Caps = 0x00040000
	FuncSMBusReadByteData   Caps = 0x00080000
	FuncSMBusWriteByteData  Caps = 0x00100000
	FuncSMBusReadWordData   Caps = 0x00200000
	FuncSMBusWriteWordData  Caps = 0x00400000
	FuncSMBusProcCall       Caps = 0x00800000
	FuncSMBusReadBlockData  Caps = 0x01000000
	FuncSMBusWriteBlockData Caps = 0x02000000
	FuncSMBusReadI2CBlock   Caps = 0x04000000
	FuncSMBusWriteI2CBlock  Caps = 0x08000000

	// FuncSMBusEmul is the set of transactions an I2C adapter can emulate, as defined
	// by I2C_FUNC_SMBUS_EMUL in the kernel headers.
	FuncSMBusEmul = FuncSMBusQuick | FuncSMBusReadByte | FuncSMBusWriteByte |
		FuncSMBusReadByteData | FuncSMBusWriteByteData |
		FuncSMBusReadWordData | FuncSMBusWriteWordData |
		FuncSMBusProcCall | FuncSMBusWriteBlockData |
		FuncSMBusReadI2CBlock | FuncSMBusWriteI2CBlock | FuncSMBusPEC
)

var capNames = []struct {
	c    Caps
	name string
}{
	{FuncI2C, "i2c"},
	{FuncTenBitAddr, "10bit_addr"},
	{FuncSMBusPEC, "pec"},
	{FuncSMBusBlockProcCall, "block_proc_call"},
	{FuncSMBusQuick, "quick"},
	{FuncSMBusReadByte, "read_byte"},
	{FuncSMBusWriteByte, "write_byte"},
	{FuncSMBusReadByteData, "read_byte_data"},
	{FuncSMBusWriteByteData, "write_byte_data"},
	{FuncSMBusReadWordData, "read_word_data"},
	{FuncSMBusWriteWordData, "write_word_data"},
	{FuncSMBusProcCall, "proc_call"},
	{FuncSMBusReadBlockData, "read_block_data"},
	{FuncSMBusWriteBlockData, "write_block_data"},
	{FuncSMBusReadI2CBlock, "read_i2c_block"},
	{FuncSMBusWriteI2CBlock, "write_i2c_block"},
}

// Has reports whether every bit of want is set in c.
func (c Caps) Has(want Caps) bool {
	return c&want == want
}

// Supports reports whether c covers a transaction of kind k in direction dir.
func (c Caps) Supports(k Kind, dir Direction) bool {
	read := dir == Read
	switch k { //nolint:exhaustive
	case KindQuick:
		return c.Has(FuncSMBusQuick)
	case KindByte:
		return c.Has(pick(read, FuncSMBusReadByte, FuncSMBusWriteByte))
	case KindByteData:
		return c.Has(pick(read, FuncSMBusReadByteData, FuncSMBusWriteByteData))
	case KindWordData:
		return c.Has(pick(read, FuncSMBusReadWordData, FuncSMBusWriteWordData))
	case KindProcCall:
		return c.Has(FuncSMBusProcCall)
	case KindBlockData:
		return c.Has(pick(read, FuncSMBusReadBlockData, FuncSMBusWriteBlockData))
	case KindBlockProcCall:
		return c.Has(FuncSMBusBlockProcCall)
	case KindI2CBlockData, KindI2CBlockBroken:
		return c.Has(pick(read, FuncSMBusReadI2CBlock, FuncSMBusWriteI2CBlock))
	default:
		return false
	}
}

// String lists the set capability names separated by '|'.
func (c Caps) String() string {
	var names []string
	for _, n := range capNames {
		if c.Has(n.c) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}

	return strings.Join(names, "|")
}

func pick(read bool, r, w Caps) Caps {
	if read {
		return r
	}

	return w
}
