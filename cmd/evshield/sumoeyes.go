package main

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/evshield/cmd/evshield/console"
	"github.com/mklimuk/evshield/proximity"
	"github.com/mklimuk/evshield/shield"
)

var sumoEyesCmd = cli.Command{
	Name:  "sumoeyes",
	Usage: "SumoEyes obstacle detector on a shield port",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "port",
			Value: shield.BAS1.String(),
			Usage: "bank port (BAS1, BAS2, BBS1, BBS2)",
		},
	},
	Subcommands: []*cli.Command{
		&sumoEyesDetectCmd,
		&sumoEyesRawCmd,
	},
}

func withSumoEyes(c *cli.Context, fn func(s *session, dev *proximity.SumoEyes) error) error {
	port, err := shield.ParseBankPort(c.String("port"))
	if err != nil {
		return console.Exit(1, "%s", console.Red(err))
	}
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s, proximity.NewSumoEyes(s.bus, port))
}

type zoneReading struct {
	Port  string `yaml:"port" json:"port"`
	Range string `yaml:"range" json:"range"`
	Zone  string `yaml:"zone" json:"zone"`
}

var sumoEyesDetectCmd = cli.Command{
	Name:  "detect",
	Usage: "detect the obstacle zone",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "range",
			Value: "short",
			Usage: "short or long",
		},
	},
	Action: func(c *cli.Context) error {
		return withSumoEyes(c, func(s *session, dev *proximity.SumoEyes) error {
			var err error
			switch c.String("range") {
			case "short":
				err = dev.SetShortRange(s.ctx)
			case "long":
				err = dev.SetLongRange(s.ctx)
			default:
				return console.Exit(1, "unknown range %s", console.Red(c.String("range")))
			}
			if err != nil {
				return deviceError("could not set range", err)
			}
			z, err := dev.DetectObstacleZone(s.ctx)
			if err != nil {
				return deviceError("could not detect obstacle", err)
			}
			r := zoneReading{Port: dev.Port().String(), Range: c.String("range"), Zone: z.String()}
			return s.render(r, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "%s %s\n", console.PictoPin, console.White(r.Zone))
			})
		})
	},
}

var sumoEyesRawCmd = cli.Command{
	Name:  "raw",
	Usage: "read the raw analog level",
	Action: func(c *cli.Context) error {
		port, err := shield.ParseBankPort(c.String("port"))
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		s, err := openSession(c)
		if err != nil {
			return err
		}
		defer s.Close()
		v, err := shield.NewAnalogSensor(s.bus, port).ReadRaw(s.ctx)
		if err != nil {
			return deviceError("could not read port", err)
		}
		return s.render(map[string]int{"raw": v}, func(w io.Writer) {
			_, _ = fmt.Fprintf(w, "%s: %s\n", port, console.White(v))
		})
	},
}
