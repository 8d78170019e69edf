package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/evshield/cmd/evshield/console"
	"github.com/mklimuk/evshield/led"
)

var wandCmd = cli.Command{
	Name:  "wand",
	Usage: "magic wand LEDs",
	Flags: addrFlags,
	Subcommands: []*cli.Command{
		&wandLightCmd,
		&wandPatternCmd,
	},
}

var wandLightCmd = cli.Command{
	Name:      "light",
	Usage:     "light the given LEDs, all others off",
	ArgsUsage: "[led 0-7]...",
	Action: func(c *cli.Context) error {
		lit := make([]int, 0, c.NArg())
		for _, a := range c.Args().Slice() {
			i, err := strconv.Atoi(a)
			if err != nil || i < 0 || i > 7 {
				return console.Exit(1, "invalid led index %s", console.Red(a))
			}
			lit = append(lit, i)
		}
		return lightWand(c, led.Pattern(lit...))
	},
}

var wandPatternCmd = cli.Command{
	Name:      "pattern",
	Usage:     "write a raw active-low pattern",
	ArgsUsage: "<byte>",
	Action: func(c *cli.Context) error {
		p, err := parseArgByte(c, 0, "pattern")
		if err != nil {
			return err
		}
		return lightWand(c, p)
	},
}

func lightWand(c *cli.Context, pattern byte) error {
	return withDevice(c, "magicwand", led.MagicWandDefaultAddress, led.NewMagicWand, func(s *session, dev *led.MagicWand) error {
		if err := dev.LightWand(s.ctx, pattern); err != nil {
			return deviceError("could not light wand", err)
		}
		console.Infof("pattern %s", console.White(fmt.Sprintf("%08b", pattern)))
		return nil
	})
}

var piLightCmd = cli.Command{
	Name:  "pilight",
	Usage: "PiLight RGB light",
	Flags: addrFlags,
	Subcommands: []*cli.Command{
		&piLightGetCmd,
		&piLightSetCmd,
		&piLightTimeoutCmd,
	},
}

var piLightGetCmd = cli.Command{
	Name: "get",
	Action: func(c *cli.Context) error {
		return withDevice(c, "pilight", led.PiLightDefaultAddress, led.NewPiLight, func(s *session, dev *led.PiLight) error {
			col, err := dev.ReadColor(s.ctx)
			if err != nil {
				return deviceError("error reading color", err)
			}
			return s.render(col, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "%s\n", console.White(col))
			})
		})
	},
}

var piLightSetCmd = cli.Command{
	Name:      "set",
	ArgsUsage: "<red> <green> <blue>",
	Action: func(c *cli.Context) error {
		var rgb [3]byte
		for i, what := range []string{"red", "green", "blue"} {
			v, err := parseArgByte(c, i, what)
			if err != nil {
				return err
			}
			rgb[i] = v
		}
		return withDevice(c, "pilight", led.PiLightDefaultAddress, led.NewPiLight, func(s *session, dev *led.PiLight) error {
			if err := dev.SetColor(s.ctx, rgb[0], rgb[1], rgb[2]); err != nil {
				return deviceError("error setting color", err)
			}
			return nil
		})
	},
}

var piLightTimeoutCmd = cli.Command{
	Name:      "timeout",
	ArgsUsage: "<seconds>",
	Action: func(c *cli.Context) error {
		sec, err := parseArgByte(c, 0, "timeout")
		if err != nil {
			return err
		}
		return withDevice(c, "pilight", led.PiLightDefaultAddress, led.NewPiLight, func(s *session, dev *led.PiLight) error {
			if err := dev.SetTimeout(s.ctx, sec); err != nil {
				return deviceError("error setting timeout", err)
			}
			return nil
		})
	},
}
