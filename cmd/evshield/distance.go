package main

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/evshield/cmd/evshield/console"
	"github.com/mklimuk/evshield/distance"
)

var distCmd = cli.Command{
	Name:  "dist",
	Usage: "DIST-Nx infrared distance sensor",
	Flags: addrFlags,
	Subcommands: []*cli.Command{
		&distReadCmd,
		simpleCmd("on", "energize the sensor", "distnx", distance.DefaultAddress, distance.NewDISTNx, (*distance.DISTNx).Energize),
		simpleCmd("off", "de-energize the sensor", "distnx", distance.DefaultAddress, distance.NewDISTNx, (*distance.DISTNx).DeEnergize),
	},
}

type distReading struct {
	Distance int    `yaml:"distance_mm" json:"distance_mm"`
	Voltage  int    `yaml:"voltage_mv" json:"voltage_mv"`
	Type     string `yaml:"type" json:"type"`
}

var distReadCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"rd"},
	Action: func(c *cli.Context) error {
		return withDevice(c, "distnx", distance.DefaultAddress, distance.NewDISTNx, func(s *session, dev *distance.DISTNx) error {
			var r distReading
			var err error
			r.Distance, err = dev.GetDist(s.ctx)
			if err != nil {
				return deviceError("error reading distance", err)
			}
			r.Voltage, err = dev.GetVolt(s.ctx)
			if err != nil {
				return deviceError("error reading voltage", err)
			}
			t, err := dev.GetType(s.ctx)
			if err != nil {
				return deviceError("error reading sensor type", err)
			}
			r.Type = t.String()
			return s.render(r, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "%s mm (%s mV, %s)\n", console.White(r.Distance), console.White(r.Voltage), r.Type)
			})
		})
	},
}
