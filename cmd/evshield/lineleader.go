package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/evshield/cmd/evshield/console"
	"github.com/mklimuk/evshield/light"
)

type lineReading struct {
	Steering int8   `yaml:"steering" json:"steering"`
	Average  uint8  `yaml:"average" json:"average"`
	Result   uint8  `yaml:"result" json:"result"`
	Blocks   blocks `yaml:"blocks" json:"blocks"`
}

type pid struct {
	SetPoint uint8 `yaml:"set_point" json:"set_point"`
	Kp       uint8 `yaml:"kp" json:"kp"`
	Ki       uint8 `yaml:"ki" json:"ki"`
	Kd       uint8 `yaml:"kd" json:"kd"`
	KpFactor uint8 `yaml:"kp_factor" json:"kp_factor"`
	KiFactor uint8 `yaml:"ki_factor" json:"ki_factor"`
	KdFactor uint8 `yaml:"kd_factor" json:"kd_factor"`
}

type pidParam struct {
	get func(*light.LineLeader, context.Context) (uint8, error)
	set func(*light.LineLeader, context.Context, uint8) error
	dst func(*pid) *uint8
}

var pidParams = map[string]pidParam{
	"setpoint":  {(*light.LineLeader).GetSetPoint, (*light.LineLeader).SetSetPoint, func(p *pid) *uint8 { return &p.SetPoint }},
	"kp":        {(*light.LineLeader).GetKp, (*light.LineLeader).SetKp, func(p *pid) *uint8 { return &p.Kp }},
	"ki":        {(*light.LineLeader).GetKi, (*light.LineLeader).SetKi, func(p *pid) *uint8 { return &p.Ki }},
	"kd":        {(*light.LineLeader).GetKd, (*light.LineLeader).SetKd, func(p *pid) *uint8 { return &p.Kd }},
	"kp-factor": {(*light.LineLeader).GetKpFactor, (*light.LineLeader).SetKpFactor, func(p *pid) *uint8 { return &p.KpFactor }},
	"ki-factor": {(*light.LineLeader).GetKiFactor, (*light.LineLeader).SetKiFactor, func(p *pid) *uint8 { return &p.KiFactor }},
	"kd-factor": {(*light.LineLeader).GetKdFactor, (*light.LineLeader).SetKdFactor, func(p *pid) *uint8 { return &p.KdFactor }},
}

var lineLeaderCmd = cli.Command{
	Name:    "lineleader",
	Aliases: []string{"ll"},
	Usage:   "line follower with on-board PID",
	Flags:   addrFlags,
	Subcommands: append([]*cli.Command{
		&lineReadCmd,
		&linePIDCmd,
		&lineSetCmd,
		simpleCmd("invert", "follow a white line", "lineleader", light.LineLeaderDefaultAddress, light.NewLineLeader, (*light.LineLeader).InvertLineColorToWhite),
		simpleCmd("reset-invert", "follow a black line", "lineleader", light.LineLeaderDefaultAddress, light.NewLineLeader, (*light.LineLeader).ResetColorInversion),
		simpleCmd("snapshot", "take a line snapshot", "lineleader", light.LineLeaderDefaultAddress, light.NewLineLeader, (*light.LineLeader).TakeSnapshot),
	}, lightCommands("lineleader", light.LineLeaderDefaultAddress, light.NewLineLeader)...),
}

var lineReadCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"rd"},
	Action: func(c *cli.Context) error {
		return withDevice(c, "lineleader", light.LineLeaderDefaultAddress, light.NewLineLeader, func(s *session, dev *light.LineLeader) error {
			var r lineReading
			var err error
			if r.Steering, err = dev.GetSteering(s.ctx); err != nil {
				return deviceError("error reading steering", err)
			}
			if r.Average, err = dev.GetAverage(s.ctx); err != nil {
				return deviceError("error reading average", err)
			}
			res, err := dev.GetResult(s.ctx)
			if err != nil {
				return deviceError("error reading result", err)
			}
			r.Result = uint8(res)
			r.Blocks, err = readBlocks(s.ctx, [6]blockGetter{
				dev.GetRawCalibrated, dev.GetRawUncalibrated, dev.GetWhiteLimit,
				dev.GetBlackLimit, dev.GetWhiteCalibration, dev.GetBlackCalibration,
			})
			if err != nil {
				return deviceError("error reading sensor blocks", err)
			}
			return s.render(r, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "steering: %s average: %s line: %s\n", console.White(r.Steering), console.White(r.Average), lineMap(res))
				r.Blocks.print(w)
			})
		})
	},
}

// lineMap draws the result byte, sensor 0 on the left.
func lineMap(r light.Result) string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = '.'
		if r.Sensor(i) {
			b[i] = '#'
		}
	}
	return string(b)
}

var linePIDCmd = cli.Command{
	Name:  "pid",
	Usage: "show PID parameters",
	Action: func(c *cli.Context) error {
		return withDevice(c, "lineleader", light.LineLeaderDefaultAddress, light.NewLineLeader, func(s *session, dev *light.LineLeader) error {
			var p pid
			for name, param := range pidParams {
				v, err := param.get(dev, s.ctx)
				if err != nil {
					return deviceError("error reading "+name, err)
				}
				*param.dst(&p) = v
			}
			return s.render(p, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "set point: %s\n", console.White(p.SetPoint))
				_, _ = fmt.Fprintf(w, "kp: %s/%s ki: %s/%s kd: %s/%s\n",
					console.White(p.Kp), p.KpFactor, console.White(p.Ki), p.KiFactor, console.White(p.Kd), p.KdFactor)
			})
		})
	},
}

var lineSetCmd = cli.Command{
	Name:      "set",
	Usage:     "set a PID parameter",
	ArgsUsage: "setpoint|kp|ki|kd|kp-factor|ki-factor|kd-factor <value>",
	Action: func(c *cli.Context) error {
		param, ok := pidParams[c.Args().First()]
		if !ok {
			return console.Exit(1, "unknown parameter %s", console.Red(c.Args().First()))
		}
		v, err := parseArgByte(c, 1, "value")
		if err != nil {
			return err
		}
		return withDevice(c, "lineleader", light.LineLeaderDefaultAddress, light.NewLineLeader, func(s *session, dev *light.LineLeader) error {
			if err := param.set(dev, s.ctx, v); err != nil {
				return deviceError("error setting "+c.Args().First(), err)
			}
			console.Infof("%s set to %s", c.Args().First(), console.White(v))
			return nil
		})
	},
}
