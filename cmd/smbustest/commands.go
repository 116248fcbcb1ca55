package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/arloliu/go-smbus/smbus"
)

var errUsage = errors.New("invalid arguments")

func parseUint(s string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a %d-bit number", errUsage, s, bits)
	}

	return v, nil
}

func argCommand(c *cli.Context, want int) (byte, error) {
	if c.Args().Len() != want {
		return 0, fmt.Errorf("%w: expected %d arguments, got %d", errUsage, want, c.Args().Len())
	}
	cmd, err := parseUint(c.Args().Get(0), 8)
	if err != nil {
		return 0, err
	}

	return byte(cmd), nil
}

func getAction(c *cli.Context) error {
	cmd, err := argCommand(c, 1)
	if err != nil {
		return err
	}
	out := c.App.Writer

	return withBus(c, func(bus *smbus.Bus) error {
		switch typ := c.String(flagType); typ {
		case "byte":
			v, err := bus.ReadByteData(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "0x%02X\n", v)
		case "word":
			v, err := bus.ReadWordData(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "0x%04X\n", v)
		case "dword":
			v, err := bus.ReadDwordData(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "0x%08X\n", v)
		case "qword":
			v, err := bus.ReadQwordData(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "0x%016X\n", v)
		case "block":
			p, err := bus.ReadBlockData(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "(%d):%s\n", len(p), hexBytes(p))
		default:
			return fmt.Errorf("%w: unknown type %q", errUsage, typ)
		}

		return nil
	})
}

func setAction(c *cli.Context) error {
	cmd, err := argCommand(c, 2)
	if err != nil {
		return err
	}
	arg := c.Args().Get(1)

	var write func(bus *smbus.Bus) error
	switch typ := c.String(flagType); typ {
	case "byte":
		v, err := parseUint(arg, 8)
		if err != nil {
			return err
		}
		write = func(bus *smbus.Bus) error { return bus.WriteByteData(cmd, byte(v)) }
	case "word":
		v, err := parseUint(arg, 16)
		if err != nil {
			return err
		}
		write = func(bus *smbus.Bus) error { return bus.WriteWordData(cmd, uint16(v)) }
	case "dword":
		v, err := parseUint(arg, 32)
		if err != nil {
			return err
		}
		write = func(bus *smbus.Bus) error { return bus.WriteDwordData(cmd, uint32(v)) }
	case "qword":
		v, err := parseUint(arg, 64)
		if err != nil {
			return err
		}
		write = func(bus *smbus.Bus) error { return bus.WriteQwordData(cmd, v) }
	case "block":
		p, err := hex.DecodeString(arg)
		if err != nil {
			return fmt.Errorf("%w: block value must be hex: %w", errUsage, err)
		}
		write = func(bus *smbus.Bus) error {
			n, err := bus.WriteBlockData(cmd, p)
			if err == nil && n < len(p) {
				fmt.Fprintf(c.App.Writer, "truncated to %d bytes\n", n)
			}

			return err
		}
	default:
		return fmt.Errorf("%w: unknown type %q", errUsage, typ)
	}

	return withBus(c, write)
}

func quickAction(c *cli.Context) error {
	return withBus(c, func(bus *smbus.Bus) error {
		return bus.QuickCommand(c.Bool(flagRead))
	})
}

func procCallAction(c *cli.Context) error {
	cmd, err := argCommand(c, 2)
	if err != nil {
		return err
	}
	req, err := parseUint(c.Args().Get(1), 16)
	if err != nil {
		return err
	}

	return withBus(c, func(bus *smbus.Bus) error {
		resp, err := bus.ProcCall(cmd, uint16(req))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "0x%04X\n", resp)

		return nil
	})
}

func capsAction(c *cli.Context) error {
	return withBus(c, func(bus *smbus.Bus) error {
		caps, err := bus.Capabilities()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "0x%08X %s\n", uint64(caps), caps)

		return nil
	})
}
