package smbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-smbus/pec"
	"github.com/arloliu/go-smbus/transport"
	"github.com/arloliu/go-smbus/transport/sim"
)

var pecModes = []struct {
	name string
	pec  bool
}{
	{"no pec", false},
	{"pec", true},
}

func TestBus_QuickAndReg(t *testing.T) {
	bus, dev := openSim(t, nil)

	require.NoError(t, bus.QuickCommand(true))
	require.NoError(t, bus.QuickCommand(false))
	require.NoError(t, bus.WriteReg(0xC0))
	v, err := bus.ReadReg()
	require.NoError(t, err)
	assert.Equal(t, byte(0xC0), v)

	journal := dev.Journal()
	require.Len(t, journal, 4)
	assert.Equal(t, transport.Read, journal[0].Dir)
	assert.Equal(t, transport.Write, journal[1].Dir)
	assert.Equal(t, byte(0xC0), journal[2].Command)
	assert.Equal(t, transport.KindByte, journal[3].Kind)
}

func TestBus_ByteWordLoopback(t *testing.T) {
	for _, mode := range pecModes {
		t.Run(mode.name, func(t *testing.T) {
			bus, _ := openSim(t, nil, WithPEC(mode.pec))

			require.NoError(t, bus.WriteByteData(0xC1, 0x5A))
			b, err := bus.ReadByteData(0xC1)
			require.NoError(t, err)
			assert.Equal(t, byte(0x5A), b)

			require.NoError(t, bus.WriteWordData(0xC2, 0x1234))
			w, err := bus.ReadWordData(0xC2)
			require.NoError(t, err)
			assert.Equal(t, uint16(0x1234), w)
		})
	}
}

func TestBus_DwordLoopback(t *testing.T) {
	values := []uint32{0, 1, 0x12345678, 0xDEADBEEF, 0xFFFFFFFF}

	for _, mode := range pecModes {
		t.Run(mode.name, func(t *testing.T) {
			bus, dev := openSim(t, nil, WithPEC(mode.pec))

			for _, v := range values {
				require.NoError(t, bus.WriteDwordData(0xC3, v))
				got, err := bus.ReadDwordData(0xC3)
				require.NoError(t, err)
				assert.Equal(t, v, got)
			}

			require.NoError(t, bus.WriteDwordData(0xC3, 0x04030201))
			assert.Equal(t, []byte{1, 2, 3, 4}, dev.Register(testAddr, 0xC3))

			journal := dev.Journal()
			require.NotEmpty(t, journal)
			last := journal[len(journal)-1]
			assert.Equal(t, transport.KindI2CBlockData, last.Kind)
			assert.Equal(t, mode.pec, last.PEC)
			assert.Len(t, last.Data, 4)
		})
	}
}

func TestBus_QwordLoopback(t *testing.T) {
	values := []uint64{0, 1, 0x0102030405060708, 0xFFFFFFFFFFFFFFFF}

	for _, mode := range pecModes {
		t.Run(mode.name, func(t *testing.T) {
			bus, dev := openSim(t, nil, WithPEC(mode.pec))

			for _, v := range values {
				require.NoError(t, bus.WriteQwordData(0xC4, v))
				got, err := bus.ReadQwordData(0xC4)
				require.NoError(t, err)
				assert.Equal(t, v, got)
			}

			assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, dev.Register(testAddr, 0xC4))
		})
	}
}

func TestBus_FixedChecksumMismatch(t *testing.T) {
	bus, dev := openSim(t, nil, WithPEC(true))

	require.NoError(t, bus.WriteDwordData(0xC3, 0x04030201))
	require.NoError(t, bus.WriteQwordData(0xC4, 0x0807060504030201))
	dev.CorruptPEC(true)

	d, err := bus.ReadDwordData(0xC3)
	require.ErrorIs(t, err, ErrChecksumMismatch)
	assert.Equal(t, uint32(0), d)

	q, err := bus.ReadQwordData(0xC4)
	require.ErrorIs(t, err, ErrChecksumMismatch)
	assert.Equal(t, uint64(0), q)

	m := bus.Metrics()
	assert.Equal(t, uint64(2), m.ChecksumErrorCount.Load())
	assert.Equal(t, uint64(2), m.ErrorCount.Load())

	// without PEC the corrupted trailer is never requested
	require.NoError(t, bus.SetPEC(false))
	d, err = bus.ReadDwordData(0xC3)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04030201), d)
}

func TestBus_FixedWriteCarriesPEC(t *testing.T) {
	bus, dev := openSim(t, nil, WithPEC(true))

	// the simulator rejects a fixed-width write whose trailing PEC is wrong,
	// so a successful write proves the engine appended WritePacket's checksum
	require.NoError(t, bus.WriteDwordData(0xC3, 0x04030201))
	assert.Equal(t, byte(0x98), pec.WritePacket(testAddr, 0xC3, dev.Register(testAddr, 0xC3)))
}

func TestBus_FixedShortRead(t *testing.T) {
	dev := sim.New()
	opener := transport.OpenerFunc(func(bus uint) (transport.Transport, error) {
		tr, err := dev.Opener().Open(bus)
		return shortTransport{tr}, err
	})

	cfg, err := NewBusConfig(0, WithOpener(opener), WithSlave(testAddr))
	require.NoError(t, err)
	bus, err := Open(cfg)
	require.NoError(t, err)

	_, err = bus.ReadDwordData(0xC3)
	require.ErrorIs(t, err, ErrIO)
	require.ErrorIs(t, err, transport.ErrShortTransfer)

	_, err = bus.ReadQwordData(0xC4)
	require.ErrorIs(t, err, ErrIO)
}

func TestBus_WriteBlockClamp(t *testing.T) {
	bus, dev := openSim(t, nil)

	truncated := 0
	for l := 0; l <= 200; l++ {
		p := make([]byte, l)
		for i := range p {
			p[i] = byte(i + 1)
		}

		n, err := bus.WriteBlockData(0xCB, p)
		require.NoError(t, err)

		want := min(l, transport.BlockMax)
		assert.Equal(t, want, n)
		if l > transport.BlockMax {
			truncated++
		}

		journal := dev.Journal()
		require.Len(t, journal, 1)
		assert.Len(t, journal[0].Data, want)
		assert.Equal(t, p[:want], journal[0].Data)
	}

	assert.Equal(t, uint64(truncated), bus.Metrics().TruncatedBlockCount.Load())
}

func TestBus_ReadBlock(t *testing.T) {
	bus, dev := openSim(t, nil)

	_, err := bus.WriteBlockData(0xCB, []byte{0x0A, 0x0B, 0x0C})
	require.NoError(t, err)
	p, err := bus.ReadBlockData(0xCB)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0A, 0x0B, 0x0C}, p)

	empty, err := bus.ReadBlockData(0x01)
	require.NoError(t, err)
	assert.Empty(t, empty)

	big := make([]byte, 40)
	for i := range big {
		big[i] = byte(0x80 + i)
	}
	dev.SetRegister(testAddr, 0xCB, big)

	p, err = bus.ReadBlockData(0xCB)
	require.NoError(t, err)
	assert.Equal(t, big[:transport.BlockMax], p)
	assert.Equal(t, uint64(1), bus.Metrics().TruncatedBlockCount.Load())
}

func TestBus_ProcCall(t *testing.T) {
	bus, _ := openSim(t, nil)

	resp, err := bus.ProcCall(0xCC, 0xFACE)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xFACE), resp)

	bus, _ = openSim(t, []sim.Option{sim.WithProcCall(func(_ uint8, _ byte, req uint16) uint16 {
		return ^req
	})})
	resp, err = bus.ProcCall(0xCC, 0xFACE)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0531), resp)
}
