package main

import (
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	chlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/evshield/pkg/config"
)

const metaConfig = "config"

func main() {
	os.Exit(run())
}

func run() int {
	app := cli.NewApp()
	app.Name = "evshield"
	app.EnableBashCompletion = true
	app.Version = config.BuildInfo()
	app.Usage = "mindsensors EVShield devices cli"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "enable verbose logging and bus traces",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "configuration file",
			EnvVars: []string{"EVSHIELD_CONFIG"},
			Value:   "evshield.yaml",
		},
		&cli.StringFlag{
			Name:    "adapter",
			Aliases: []string{"a"},
			Usage:   "bus adapter (mcp2221, generic, raspi, nanopi)",
		},
		&cli.StringFlag{
			Name:    "device",
			Aliases: []string{"d"},
			Usage:   "i2c device of the generic adapter",
		},
		&cli.IntFlag{
			Name:  "bus",
			Usage: "i2c bus number of gobot adapters",
		},
		&cli.IntFlag{
			Name:  "usb-id",
			Usage: "enumeration index of the MCP2221 when several are attached",
			Value: -1,
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "output format (text, yaml, json)",
			Value:   formatText,
		},
	}
	app.Before = func(c *cli.Context) error {
		charm := chlog.NewWithOptions(os.Stderr, chlog.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		})
		charm.SetColorProfile(termenv.TrueColor)
		charm.SetLevel(chlog.InfoLevel)
		if c.Bool("verbose") {
			charm.SetLevel(chlog.DebugLevel)
		}
		slog.SetDefault(slog.New(charm))

		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}
		if c.IsSet("adapter") {
			cfg.Adapter = c.String("adapter")
		}
		if c.IsSet("device") {
			cfg.Device = c.String("device")
		}
		if c.IsSet("bus") {
			cfg.Bus = c.Int("bus")
		}
		slog.Debug("configuration loaded", "adapter", cfg.Adapter, "device", cfg.Device, "bus", cfg.Bus)
		c.App.Metadata = map[string]any{metaConfig: cfg}
		return nil
	}
	app.Commands = cli.Commands{
		&angleCmd,
		&distCmd,
		&thermometerCmd,
		&lsaCmd,
		&lineLeaderCmd,
		&wandCmd,
		&piLightCmd,
		&numpadCmd,
		&pspCmd,
		&pfMateCmd,
		&rtcCmd,
		&sumoEyesCmd,
		&usbCmd,
		&mcp2221Cmd,
	}
	err := app.Run(os.Args)
	if err != nil {
		var exerr cli.ExitCoder
		if errors.As(err, &exerr) {
			return exerr.ExitCode()
		}
		log.Printf("unexpected error: %v", err)
		return 1
	}
	return 0
}
