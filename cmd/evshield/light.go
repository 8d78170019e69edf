package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/evshield"
	"github.com/mklimuk/evshield/cmd/evshield/console"
	"github.com/mklimuk/evshield/light"
)

// lightSensor is the command set shared by both light sensor arrays.
type lightSensor interface {
	CalibrateWhite(ctx context.Context) error
	CalibrateBlack(ctx context.Context) error
	Sleep(ctx context.Context) error
	WakeUp(ctx context.Context) error
	ConfigureUS(ctx context.Context) error
	ConfigureEurope(ctx context.Context) error
	ConfigureUniversal(ctx context.Context) error
}

func lightCommands[T lightSensor](device string, def byte, build func(evshield.I2CBus, ...evshield.Option) T) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "calibrate",
			Usage: "interactive white and black calibration",
			Action: func(c *cli.Context) error {
				return withDevice(c, device, def, build, func(s *session, dev T) error {
					return calibrate(s.ctx, dev)
				})
			},
		},
		simpleCmd("sleep", "put the sensor to sleep", device, def, build, func(dev T, ctx context.Context) error { return dev.Sleep(ctx) }),
		simpleCmd("wakeup", "wake the sensor up", device, def, build, func(dev T, ctx context.Context) error { return dev.WakeUp(ctx) }),
		{
			Name:      "mains",
			Usage:     "configure for local mains frequency",
			ArgsUsage: "us|eu|universal",
			Action: func(c *cli.Context) error {
				return withDevice(c, device, def, build, func(s *session, dev T) error {
					var err error
					switch c.Args().First() {
					case "us":
						err = dev.ConfigureUS(s.ctx)
					case "eu":
						err = dev.ConfigureEurope(s.ctx)
					case "universal":
						err = dev.ConfigureUniversal(s.ctx)
					default:
						return console.Exit(1, "unknown mains setting %s", console.Red(c.Args().First()))
					}
					if err != nil {
						return deviceError("could not configure mains frequency", err)
					}
					return nil
				})
			},
		},
	}
}

func calibrate(ctx context.Context, dev lightSensor) error {
	if err := console.WaitForEnter("place the sensor over a white surface"); err != nil {
		return console.Exit(1, "calibration aborted: %s", err)
	}
	if err := dev.CalibrateWhite(ctx); err != nil {
		return deviceError("white calibration failed", err)
	}
	if err := console.WaitForEnter("place the sensor over a black surface"); err != nil {
		return console.Exit(1, "calibration aborted: %s", err)
	}
	if err := dev.CalibrateBlack(ctx); err != nil {
		return deviceError("black calibration failed", err)
	}
	console.PInfof(console.PictoFinish, "calibrated")
	return nil
}

type blocks struct {
	Calibrated       [8]byte `yaml:"calibrated" json:"calibrated"`
	Uncalibrated     [8]byte `yaml:"uncalibrated" json:"uncalibrated"`
	WhiteLimit       [8]byte `yaml:"white_limit" json:"white_limit"`
	BlackLimit       [8]byte `yaml:"black_limit" json:"black_limit"`
	WhiteCalibration [8]byte `yaml:"white_calibration" json:"white_calibration"`
	BlackCalibration [8]byte `yaml:"black_calibration" json:"black_calibration"`
}

func (b blocks) print(w io.Writer) {
	_, _ = fmt.Fprintf(w, "calibrated:        %s\n", console.White(hexBlock(b.Calibrated)))
	_, _ = fmt.Fprintf(w, "uncalibrated:      %s\n", hexBlock(b.Uncalibrated))
	_, _ = fmt.Fprintf(w, "white limit:       %s\n", hexBlock(b.WhiteLimit))
	_, _ = fmt.Fprintf(w, "black limit:       %s\n", hexBlock(b.BlackLimit))
	_, _ = fmt.Fprintf(w, "white calibration: %s\n", hexBlock(b.WhiteCalibration))
	_, _ = fmt.Fprintf(w, "black calibration: %s\n", hexBlock(b.BlackCalibration))
}

type blockGetter func(context.Context) ([8]byte, error)

func readBlocks(ctx context.Context, getters [6]blockGetter) (blocks, error) {
	var b blocks
	targets := [6]*[8]byte{&b.Calibrated, &b.Uncalibrated, &b.WhiteLimit, &b.BlackLimit, &b.WhiteCalibration, &b.BlackCalibration}
	for i, get := range getters {
		v, err := get(ctx)
		if err != nil {
			return b, err
		}
		*targets[i] = v
	}
	return b, nil
}

var lsaCmd = cli.Command{
	Name:  "lsa",
	Usage: "light sensor array",
	Flags: addrFlags,
	Subcommands: append([]*cli.Command{
		{
			Name:    "read",
			Aliases: []string{"rd"},
			Action: func(c *cli.Context) error {
				return withDevice(c, "lsa", light.LightSensorArrayDefaultAddress, light.NewLightSensorArray, func(s *session, dev *light.LightSensorArray) error {
					b, err := readBlocks(s.ctx, [6]blockGetter{
						dev.GetCalibrated, dev.GetUncalibrated, dev.GetWhiteLimit,
						dev.GetBlackLimit, dev.GetWhiteCalibration, dev.GetBlackCalibration,
					})
					if err != nil {
						return deviceError("error reading sensor array", err)
					}
					return s.render(b, b.print)
				})
			},
		},
	}, lightCommands("lsa", light.LightSensorArrayDefaultAddress, light.NewLightSensorArray)...),
}
