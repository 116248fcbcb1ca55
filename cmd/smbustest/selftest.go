package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/arloliu/go-smbus/smbus"
)

const procCallRequest = 0xFACE

type selftest struct {
	out    io.Writer
	steps  int
	failed int
}

func (s *selftest) report(name string, err error, format string, args ...any) {
	s.steps++
	if err != nil {
		s.failed++
		fmt.Fprintf(s.out, "[ER] %s: %v\n", name, err)

		return
	}
	fmt.Fprintf(s.out, "[OK] %s%s\n", name, fmt.Sprintf(format, args...))
}

func hexBytes(p []byte) string {
	var sb strings.Builder
	for _, b := range p {
		fmt.Fprintf(&sb, " %02X", b)
	}

	return sb.String()
}

func (s *selftest) run(bus *smbus.Bus) {
	s.report("QUICK ON", bus.QuickCommand(true), "")
	s.report("QUICK OFF", bus.QuickCommand(false), "")

	reg, err := bus.ReadReg()
	s.report("READ REG", err, ": [%02X]", reg)
	s.report("WRITE REG", bus.WriteReg(cmdReg), ": [%02X]", cmdReg)

	b, err := bus.ReadByteData(cmdByteData)
	s.report("READ BYTE DATA", err, ": 0x%02X", b)
	s.report("WRITE BYTE DATA", bus.WriteByteData(cmdByteData, b), ": 0x%02X", b)

	w, err := bus.ReadWordData(cmdWordData)
	s.report("READ WORD DATA", err, ": 0x%04X", w)
	s.report("WRITE WORD DATA", bus.WriteWordData(cmdWordData, w), ": 0x%04X", w)

	d, err := bus.ReadDwordData(cmdDwordData)
	s.report("READ DWORD DATA", err, ": 0x%08X", d)
	s.report("WRITE DWORD DATA", bus.WriteDwordData(cmdDwordData, d), ": 0x%08X", d)

	q, err := bus.ReadQwordData(cmdQwordData)
	s.report("READ QWORD DATA", err, ": 0x%016X", q)
	s.report("WRITE QWORD DATA", bus.WriteQwordData(cmdQwordData, q), ": 0x%016X", q)

	block, err := bus.ReadBlockData(cmdBlockData)
	s.report("READ BLOCK DATA", err, " (%d):%s", len(block), hexBytes(block))
	n, err := bus.WriteBlockData(cmdBlockData, block)
	s.report("WRITE BLOCK DATA", err, " (%d):%s", n, hexBytes(block[:n]))

	resp, err := bus.ProcCall(cmdProcCall, procCallRequest)
	s.report("PROC CALL", err, " (%04X) -> (%04X)", procCallRequest, resp)
}

func selftestAction(c *cli.Context) error {
	s := &selftest{out: c.App.Writer}

	var index uint
	err := withBus(c, func(bus *smbus.Bus) error {
		index = bus.Index()
		fmt.Fprintf(s.out, "Opened bus i2c-%d\n", index)
		fmt.Fprintf(s.out, "Set slave address: 0x%02X\n", bus.Slave())
		s.run(bus)

		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Closed bus i2c-%d\n", index)

	if s.failed > 0 {
		return fmt.Errorf("selftest: %d of %d steps failed", s.failed, s.steps)
	}

	return nil
}
