package main

import (
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/evshield/cmd/evshield/console"
	"github.com/mklimuk/evshield/input"
)

var numpadCmd = cli.Command{
	Name:  "numpad",
	Usage: "numeric keypad",
	Flags: addrFlags,
	Subcommands: []*cli.Command{
		simpleCmd("init", "initialize the keypad", "numpad", input.NumericPadDefaultAddress, input.NewNumericPad, (*input.NumericPad).InitializeKeypad),
		&numpadKeysCmd,
		&numpadWaitCmd,
	},
}

type keysReading struct {
	Mask uint16 `yaml:"mask" json:"mask"`
	Keys string `yaml:"keys" json:"keys"`
}

var numpadKeysCmd = cli.Command{
	Name:  "keys",
	Usage: "show keys pressed right now",
	Action: func(c *cli.Context) error {
		return withDevice(c, "numpad", input.NumericPadDefaultAddress, input.NewNumericPad, func(s *session, dev *input.NumericPad) error {
			mask, err := dev.GetKeysPressed(s.ctx)
			if err != nil {
				return deviceError("error reading keys", err)
			}
			r := keysReading{Mask: mask, Keys: string(input.Keys(mask))}
			return s.render(r, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "%s %s (%012b)\n", console.PictoKey, console.White(r.Keys), r.Mask)
			})
		})
	},
}

var numpadWaitCmd = cli.Command{
	Name:  "wait",
	Usage: "wait for a key press",
	Flags: []cli.Flag{
		&cli.DurationFlag{
			Name:  "timeout",
			Value: 10 * time.Second,
		},
		&cli.DurationFlag{
			Name:  "poll",
			Value: 50 * time.Millisecond,
		},
	},
	Action: func(c *cli.Context) error {
		return withDevice(c, "numpad", input.NumericPadDefaultAddress, input.NewNumericPad, func(s *session, dev *input.NumericPad) error {
			key, ok, err := dev.Configure(input.WithPollInterval(c.Duration("poll"))).GetKeyPress(s.ctx, c.Duration("timeout"))
			if err != nil {
				return deviceError("error waiting for key", err)
			}
			if !ok {
				console.PInfof(console.PictoStop, "no key pressed within %s", c.Duration("timeout"))
				return nil
			}
			console.PInfof(console.PictoKey, "%s", console.White(string(key)))
			return nil
		})
	},
}

var pspCmd = cli.Command{
	Name:  "psp",
	Usage: "PSP-Nx controller receiver",
	Flags: addrFlags,
	Subcommands: []*cli.Command{
		&pspReadCmd,
		simpleCmd("on", "energize the receiver", "pspnx", input.PSPNxDefaultAddress, input.NewPSPNx, (*input.PSPNx).Energize),
		simpleCmd("off", "de-energize the receiver", "pspnx", input.PSPNxDefaultAddress, input.NewPSPNx, (*input.PSPNx).DeEnergize),
		simpleCmd("digital", "switch to digital mode", "pspnx", input.PSPNxDefaultAddress, input.NewPSPNx, (*input.PSPNx).SetDigitalMode),
		simpleCmd("analog", "switch to analog mode", "pspnx", input.PSPNxDefaultAddress, input.NewPSPNx, (*input.PSPNx).SetAnalogMode),
	},
}

type pspReading struct {
	LeftX   int8          `yaml:"left_x" json:"left_x"`
	LeftY   int8          `yaml:"left_y" json:"left_y"`
	RightX  int8          `yaml:"right_x" json:"right_x"`
	RightY  int8          `yaml:"right_y" json:"right_y"`
	Buttons input.Buttons `yaml:"buttons" json:"buttons"`
}

var buttonNames = [2][8]string{
	{"select", "L3", "R3", "start", "up", "right", "down", "left"},
	{"L2", "R2", "L1", "R1", "triangle", "circle", "cross", "square"},
}

func pressed(b input.Buttons) []string {
	var res []string
	for i, set := range [2]input.ButtonSet{b.Set1, b.Set2} {
		for bit := range 8 {
			if set.Pressed(input.Button(bit)) {
				res = append(res, buttonNames[i][bit])
			}
		}
	}
	return res
}

var pspReadCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"rd"},
	Action: func(c *cli.Context) error {
		return withDevice(c, "pspnx", input.PSPNxDefaultAddress, input.NewPSPNx, func(s *session, dev *input.PSPNx) error {
			var r pspReading
			var err error
			if r.LeftX, err = dev.GetXLJoy(s.ctx); err != nil {
				return deviceError("error reading left joystick", err)
			}
			if r.LeftY, err = dev.GetYLJoy(s.ctx); err != nil {
				return deviceError("error reading left joystick", err)
			}
			if r.RightX, err = dev.GetXRJoy(s.ctx); err != nil {
				return deviceError("error reading right joystick", err)
			}
			if r.RightY, err = dev.GetYRJoy(s.ctx); err != nil {
				return deviceError("error reading right joystick", err)
			}
			if r.Buttons, err = dev.GetButtons(s.ctx); err != nil {
				return deviceError("error reading buttons", err)
			}
			return s.render(r, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "left: %s,%s right: %s,%s\n",
					console.White(r.LeftX), console.White(r.LeftY), console.White(r.RightX), console.White(r.RightY))
				_, _ = fmt.Fprintf(w, "pressed: %v\n", pressed(r.Buttons))
			})
		})
	},
}
