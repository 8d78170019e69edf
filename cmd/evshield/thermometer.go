package main

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/evshield/cmd/evshield/console"
	"github.com/mklimuk/evshield/environment"
)

var thermometerCmd = cli.Command{
	Name:    "thermometer",
	Aliases: []string{"ir"},
	Usage:   "IR thermometer",
	Flags:   addrFlags,
	Subcommands: []*cli.Command{
		&thermometerReadCmd,
	},
}

type temperatureReading struct {
	AmbientC float32 `yaml:"ambient_c" json:"ambient_c"`
	TargetC  float32 `yaml:"target_c" json:"target_c"`
	AmbientF float32 `yaml:"ambient_f" json:"ambient_f"`
	TargetF  float32 `yaml:"target_f" json:"target_f"`
}

func readTemperatures(s *session, t environment.Thermometer) (temperatureReading, error) {
	var r temperatureReading
	var err error
	if r.AmbientC, err = t.GetAmbientTemperatureC(s.ctx); err != nil {
		return r, err
	}
	if r.TargetC, err = t.GetTargetTemperatureC(s.ctx); err != nil {
		return r, err
	}
	if r.AmbientF, err = t.GetAmbientTemperatureF(s.ctx); err != nil {
		return r, err
	}
	if r.TargetF, err = t.GetTargetTemperatureF(s.ctx); err != nil {
		return r, err
	}
	return r, nil
}

var thermometerReadCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"rd"},
	Action: func(c *cli.Context) error {
		return withDevice(c, "irthermometer", environment.IRThermometerDefaultAddress, environment.NewIRThermometer, func(s *session, dev *environment.IRThermometer) error {
			r, err := readTemperatures(s, dev)
			if err != nil {
				return deviceError("error reading temperature", err)
			}
			return s.render(r, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "%s target %s°C (%s°F), ambient %s°C (%s°F)\n", console.PictoThermometer,
					console.White(fmt.Sprintf("%.2f", r.TargetC)), fmt.Sprintf("%.2f", r.TargetF),
					console.White(fmt.Sprintf("%.2f", r.AmbientC)), fmt.Sprintf("%.2f", r.AmbientF))
			})
		})
	},
}
