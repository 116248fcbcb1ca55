package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ENV", "")

	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"smbustest", "--log-level", "error"}, args...))

	return out.String(), err
}

func TestSelftest_Sim(t *testing.T) {
	for _, pec := range []string{"--pec=false", "--pec"} {
		t.Run(pec, func(t *testing.T) {
			out, err := runApp(t, "--sim", pec, "selftest")
			require.NoError(t, err)

			assert.NotContains(t, out, "[ER]")
			assert.Contains(t, out, "Opened bus i2c-0\n")
			assert.Contains(t, out, "Set slave address: 0x17\n")
			assert.Contains(t, out, "[OK] READ BYTE DATA: 0x5A\n")
			assert.Contains(t, out, "[OK] READ WORD DATA: 0x1234\n")
			assert.Contains(t, out, "[OK] READ DWORD DATA: 0x12345678\n")
			assert.Contains(t, out, "[OK] READ QWORD DATA: 0x0123456789ABCDEF\n")
			assert.Contains(t, out, "[OK] READ BLOCK DATA (4): 70 69 63 6F\n")
			assert.Contains(t, out, "[OK] WRITE BLOCK DATA (4): 70 69 63 6F\n")
			assert.Contains(t, out, "[OK] PROC CALL (FACE) -> (FACE)\n")
			assert.True(t, strings.HasSuffix(out, "Closed bus i2c-0\n"))
			assert.Equal(t, 15, strings.Count(out, "[OK]"))
		})
	}
}

func TestSelftest_DefaultAction(t *testing.T) {
	out, err := runApp(t, "--sim", "--bus", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Opened bus i2c-3\n")
}

func TestSelftest_EnvConfig(t *testing.T) {
	t.Setenv("SMBUS_SIM", "true")
	t.Setenv("SMBUS_ADDR", "0x20")

	out, err := runApp(t, "selftest")
	require.NoError(t, err)
	assert.Contains(t, out, "Set slave address: 0x20\n")
	// registers are only preloaded at the configured address
	assert.Contains(t, out, "[OK] READ BLOCK DATA (4):")
}

func TestGetSet_Sim(t *testing.T) {
	tests := []struct {
		typ  string
		cmd  string
		want string
	}{
		{"byte", "0xC1", "0x5A\n"},
		{"word", "0xC2", "0x1234\n"},
		{"dword", "0xC3", "0x12345678\n"},
		{"qword", "0xC4", "0x0123456789ABCDEF\n"},
		{"block", "0xCB", "(4): 70 69 63 6F\n"},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			out, err := runApp(t, "--sim", "--pec", "get", "--type", tt.typ, tt.cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)

			_, err = runApp(t, "--sim", "set", "--type", tt.typ, tt.cmd, "0x01")
			if tt.typ == "block" {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}

	out, err := runApp(t, "--sim", "set", "--type", "block", "0xCB", "0a0b0c")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCommands_Errors(t *testing.T) {
	_, err := runApp(t, "--sim", "get", "--type", "nibble", "0x10")
	require.ErrorIs(t, err, errUsage)

	_, err = runApp(t, "--sim", "get")
	require.ErrorIs(t, err, errUsage)

	_, err = runApp(t, "--sim", "set", "--type", "byte", "0x10", "0x100")
	require.ErrorIs(t, err, errUsage)

	_, err = runApp(t, "--sim", "--addr", "0x80", "quick")
	require.Error(t, err)

	_, err = runApp(t, "--sim", "--log-level", "loud", "quick")
	require.Error(t, err)
}

func TestProcCallAndCaps(t *testing.T) {
	out, err := runApp(t, "--sim", "proc-call", "0xCC", "0x1234")
	require.NoError(t, err)
	assert.Equal(t, "0x1234\n", out)

	out, err = runApp(t, "--sim", "caps")
	require.NoError(t, err)
	assert.Contains(t, out, "pec")
	assert.Contains(t, out, "read_block_data")

	_, err = runApp(t, "--sim", "--zap", "quick", "--read")
	require.NoError(t, err)
}
