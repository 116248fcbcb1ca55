// Command smbustest exercises an SMBus slave through the smbus package.
//
// Without a subcommand it runs selftest, which performs every transaction type
// against slave 0x17 and reports one [OK] or [ER] line per step. The --sim flag
// swaps the adapter for an in-memory device, and --periph opens the bus through
// periph.io instead of /dev/i2c-N.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

const (
	flagBus      = "bus"
	flagAddr     = "addr"
	flagPEC      = "pec"
	flagSim      = "sim"
	flagPeriph   = "periph"
	flagLogLevel = "log-level"
	flagZap      = "zap"
	flagType     = "type"
	flagRead     = "read"

	defaultAddr = 0x17
)

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "smbustest",
		Usage:     "run SMBus transactions against a slave device",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:    flagBus,
				Usage:   "adapter number (/dev/i2c-N)",
				EnvVars: []string{"SMBUS_BUS"},
			},
			&cli.UintFlag{
				Name:    flagAddr,
				Usage:   "7-bit slave address",
				Value:   defaultAddr,
				EnvVars: []string{"SMBUS_ADDR"},
			},
			&cli.BoolFlag{
				Name:    flagPEC,
				Usage:   "enable packet error checking",
				EnvVars: []string{"SMBUS_PEC"},
			},
			&cli.BoolFlag{
				Name:    flagSim,
				Usage:   "use a simulated device instead of real hardware",
				EnvVars: []string{"SMBUS_SIM"},
			},
			&cli.StringFlag{
				Name:  flagPeriph,
				Usage: "open the named periph.io I2C bus instead of /dev/i2c-N",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "debug, info, warn, error or fatal",
				Value: "warn",
			},
			&cli.BoolFlag{
				Name:  flagZap,
				Usage: "log with zap instead of slog",
			},
		},
		Action: selftestAction,
		Commands: []*cli.Command{
			{
				Name:   "selftest",
				Usage:  "run every transaction type once",
				Action: selftestAction,
			},
			{
				Name:      "get",
				Usage:     "read a register",
				ArgsUsage: "<cmd>",
				Flags:     []cli.Flag{typeFlag()},
				Action:    getAction,
			},
			{
				Name:      "set",
				Usage:     "write a register",
				ArgsUsage: "<cmd> <value>",
				Flags:     []cli.Flag{typeFlag()},
				Action:    setAction,
			},
			{
				Name:  "quick",
				Usage: "send a quick command",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: flagRead, Usage: "set the read bit"},
				},
				Action: quickAction,
			},
			{
				Name:      "proc-call",
				Usage:     "write a word and read the answer",
				ArgsUsage: "<cmd> <word>",
				Action:    procCallAction,
			},
			{
				Name:   "caps",
				Usage:  "print the adapter functionality",
				Action: capsAction,
			},
		},
	}
}

func typeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  flagType,
		Usage: "byte, word, dword, qword or block",
		Value: "byte",
	}
}

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "smbustest:", err)
		os.Exit(1)
	}
}
