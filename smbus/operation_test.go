package smbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-smbus/transport"
)

func TestOperationTable(t *testing.T) {
	tests := []struct {
		op       Operation
		name     string
		kind     transport.Kind
		dir      transport.Direction
		request  Shape
		response Shape
		width    int
	}{
		{OpQuickCommand, "quick_command", transport.KindQuick, transport.Write, ShapeNone, ShapeNone, 0},
		{OpReadReg, "read_reg", transport.KindByte, transport.Read, ShapeNone, ShapeByte, 1},
		{OpWriteReg, "write_reg", transport.KindByte, transport.Write, ShapeCommand, ShapeNone, 0},
		{OpReadByteData, "read_byte_data", transport.KindByteData, transport.Read, ShapeNone, ShapeByte, 1},
		{OpWriteByteData, "write_byte_data", transport.KindByteData, transport.Write, ShapeByte, ShapeNone, 1},
		{OpReadWordData, "read_word_data", transport.KindWordData, transport.Read, ShapeNone, ShapeWord, 2},
		{OpWriteWordData, "write_word_data", transport.KindWordData, transport.Write, ShapeWord, ShapeNone, 2},
		{OpReadDwordData, "read_dword_data", transport.KindI2CBlockData, transport.Read, ShapeNone, ShapeFixed, 4},
		{OpWriteDwordData, "write_dword_data", transport.KindI2CBlockData, transport.Write, ShapeFixed, ShapeNone, 4},
		{OpReadQwordData, "read_qword_data", transport.KindI2CBlockData, transport.Read, ShapeNone, ShapeFixed, 8},
		{OpWriteQwordData, "write_qword_data", transport.KindI2CBlockData, transport.Write, ShapeFixed, ShapeNone, 8},
		{OpReadBlockData, "read_block_data", transport.KindBlockData, transport.Read, ShapeNone, ShapeBlock, 32},
		{OpWriteBlockData, "write_block_data", transport.KindBlockData, transport.Write, ShapeBlock, ShapeNone, 32},
		{OpProcCall, "proc_call", transport.KindProcCall, transport.Write, ShapeWord, ShapeWord, 2},
	}

	assert.Len(t, Operations(), len(tests))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.op.String())
			assert.Equal(t, tt.kind, tt.op.Kind())
			assert.Equal(t, tt.dir, tt.op.Direction())
			assert.Equal(t, tt.request, tt.op.Request())
			assert.Equal(t, tt.response, tt.op.Response())
			assert.Equal(t, tt.width, tt.op.Width())
		})
	}
}

func TestOperation_Unknown(t *testing.T) {
	assert.Equal(t, "operation(200)", Operation(200).String())
	assert.Equal(t, "shape(9)", Shape(9).String())
	assert.Equal(t, "fixed", ShapeFixed.String())
}

func TestOperationTable_DrivesTransactions(t *testing.T) {
	saved := opTable
	t.Cleanup(func() { opTable = saved })

	bus, dev := openSim(t, nil)

	t.Run("direction", func(t *testing.T) {
		opTable[OpReadByteData].dir = transport.Write

		_, err := bus.ReadByteData(0xC1)
		require.NoError(t, err)

		journal := dev.Journal()
		require.Len(t, journal, 1)
		assert.Equal(t, transport.Write, journal[0].Dir)
	})

	t.Run("response shape", func(t *testing.T) {
		opTable[OpReadByteData].response = ShapeNone

		_, err := bus.ReadByteData(0xC1)
		require.ErrorIs(t, err, ErrIO)
		assert.Empty(t, dev.Journal())
	})

	t.Run("request shape", func(t *testing.T) {
		opTable[OpWriteWordData].request = ShapeBlock

		err := bus.WriteWordData(0xC2, 0x1234)
		require.ErrorIs(t, err, ErrInvalidArgument)
		assert.Empty(t, dev.Journal())
	})

	t.Run("width", func(t *testing.T) {
		opTable[OpWriteDwordData].width = 2

		require.NoError(t, bus.WriteDwordData(0xC3, 0x04030201))
		assert.Equal(t, []byte{0x01, 0x02}, dev.Register(testAddr, 0xC3))
		dev.Journal()
	})

	t.Run("quick keeps caller bit", func(t *testing.T) {
		require.NoError(t, bus.QuickCommand(true))

		journal := dev.Journal()
		require.Len(t, journal, 1)
		assert.Equal(t, transport.Read, journal[0].Dir)
	})
}
