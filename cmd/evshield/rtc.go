package main

import (
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/evshield/clock"
	"github.com/mklimuk/evshield/cmd/evshield/console"
)

var rtcCmd = cli.Command{
	Name:  "rtc",
	Usage: "real-time clock",
	Flags: addrFlags,
	Subcommands: []*cli.Command{
		&rtcGetCmd,
		&rtcSetCmd,
	},
}

type clockReading struct {
	Time      time.Time `yaml:"time" json:"time"`
	DayOfWeek uint8     `yaml:"day_of_week" json:"day_of_week"`
}

var rtcGetCmd = cli.Command{
	Name: "get",
	Action: func(c *cli.Context) error {
		return withDevice(c, "rtc", clock.DefaultAddress, clock.NewRTC, func(s *session, dev *clock.RTC) error {
			t, err := dev.Time(s.ctx)
			if err != nil {
				return deviceError("error reading clock", err)
			}
			dow, err := dev.GetDayWeek(s.ctx)
			if err != nil {
				return deviceError("error reading day of week", err)
			}
			r := clockReading{Time: t, DayOfWeek: dow}
			return s.render(r, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "%s %s (day %d)\n", console.PictoCalendar, console.White(t.Format(time.DateTime)), dow)
			})
		})
	},
}

var rtcSetCmd = cli.Command{
	Name:      "set",
	Usage:     "set the clock to the given time or to the host time",
	ArgsUsage: "[2006-01-02 15:04:05]",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "do not ask for confirmation",
		},
	},
	Action: func(c *cli.Context) error {
		t := time.Now()
		if c.NArg() > 0 {
			var err error
			t, err = time.ParseInLocation(time.DateTime, c.Args().First(), time.Local)
			if err != nil {
				return console.Exit(1, "invalid time: %s", console.Red(err))
			}
		}
		if !c.Bool("yes") {
			answer, err := console.YesOrNo(fmt.Sprintf("overwrite clock with %s?", t.Format(time.DateTime)))
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if answer != console.Yes {
				console.PInfof(console.PictoStop, "clock left unchanged")
				return nil
			}
		}
		return withDevice(c, "rtc", clock.DefaultAddress, clock.NewRTC, func(s *session, dev *clock.RTC) error {
			if err := dev.SetTime(s.ctx, t); err != nil {
				return deviceError("error setting clock", err)
			}
			console.PInfof(console.PictoCalendar, "clock set to %s", console.White(t.Format(time.DateTime)))
			return nil
		})
	},
}
