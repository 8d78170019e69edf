package main

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/evshield/cmd/evshield/console"
	"github.com/mklimuk/evshield/motor"
)

var pfMateCmd = cli.Command{
	Name:  "pfmate",
	Usage: "PF-Mate LEGO Power Functions IR transmitter",
	Flags: addrFlags,
	Subcommands: []*cli.Command{
		&pfMateMotorCmd,
		simpleCmd("send", "send the current settings", "pfmate", motor.PFMateDefaultAddress, motor.NewPFMate, (*motor.PFMate).SendSignal),
	},
}

var pfMateMotorCmd = cli.Command{
	Name:      "motor",
	Usage:     "control motor(s) of a PF receiver",
	ArgsUsage: "<float|forward|reverse|brake>",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "channel",
			Value: 1,
			Usage: "receiver channel 1-4",
		},
		&cli.StringFlag{
			Name:  "motor",
			Value: "both",
			Usage: "a, b or both",
		},
		&cli.IntFlag{
			Name:  "speed",
			Value: int(motor.SpeedFull),
			Usage: "speed 1-7",
		},
	},
	Action: func(c *cli.Context) error {
		op, err := motor.ParseOperation(c.Args().First())
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		control, err := motor.ParseControl(c.String("motor"))
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		channel := c.Int("channel")
		if channel < 1 || channel > 4 {
			return console.Exit(1, "invalid channel %s", console.Red(channel))
		}
		speed := c.Int("speed")
		if speed < 1 || speed > 7 {
			return console.Exit(1, "invalid speed %s", console.Red(speed))
		}
		return withDevice(c, "pfmate", motor.PFMateDefaultAddress, motor.NewPFMate, func(s *session, dev *motor.PFMate) error {
			err := dev.ControlMotor(s.ctx, motor.Channel(channel), control, op, motor.Speed(speed))
			if err != nil {
				return deviceError("could not control motor", err)
			}
			console.Infof("channel %s motor %s: %s at %s", console.White(channel), c.String("motor"), c.Args().First(), console.White(strconv.Itoa(speed)))
			return nil
		})
	},
}
