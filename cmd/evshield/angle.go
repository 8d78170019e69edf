package main

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/evshield/angle"
	"github.com/mklimuk/evshield/cmd/evshield/console"
)

var angleCmd = cli.Command{
	Name:  "angle",
	Usage: "angle sensor",
	Flags: addrFlags,
	Subcommands: []*cli.Command{
		&angleReadCmd,
		&angleResetCmd,
	},
}

type angleReading struct {
	Angle int32 `yaml:"angle" json:"angle"`
	Raw   int32 `yaml:"raw" json:"raw"`
}

var angleReadCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"rd"},
	Action: func(c *cli.Context) error {
		return withDevice(c, "angle", angle.DefaultAddress, angle.NewAngleSensor, func(s *session, dev *angle.AngleSensor) error {
			var r angleReading
			var err error
			r.Angle, err = dev.GetAngle(s.ctx)
			if err != nil {
				return deviceError("error reading angle", err)
			}
			r.Raw, err = dev.GetRawReading(s.ctx)
			if err != nil {
				return deviceError("error reading raw angle", err)
			}
			return s.render(r, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "angle: %s (raw %s)\n", console.White(r.Angle), console.White(r.Raw))
			})
		})
	},
}

var angleResetCmd = cli.Command{
	Name: "reset",
	Action: func(c *cli.Context) error {
		return withDevice(c, "angle", angle.DefaultAddress, angle.NewAngleSensor, func(s *session, dev *angle.AngleSensor) error {
			if err := dev.Reset(s.ctx); err != nil {
				return deviceError("error resetting angle", err)
			}
			console.Infof("angle reset to %s", console.Green(0))
			return nil
		})
	},
}
