package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v2"
	gi2c "gobot.io/x/gobot/v2/drivers/i2c"
	"gobot.io/x/gobot/v2/platforms/adaptors"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"gobot.io/x/gobot/v2/platforms/raspi"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/evshield"
	"github.com/mklimuk/evshield/adapter"
	"github.com/mklimuk/evshield/cmd/evshield/console"
	"github.com/mklimuk/evshield/evctx"
	"github.com/mklimuk/evshield/i2c"
	"github.com/mklimuk/evshield/pkg/config"
)

const (
	formatText = "text"
	formatYAML = "yaml"
	formatJSON = "json"
)

// session is the bus and settings a device command runs with.
type session struct {
	ctx    context.Context
	bus    evshield.I2CBus
	cfg    config.Config
	format string
	closer func()
}

var addrFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "addr",
		Usage: "7-bit device address (0x18)",
	},
	&cli.StringFlag{
		Name:  "shield-addr",
		Usage: "device address in 8-bit shield notation (0x30)",
	},
}

func sessionConfig(c *cli.Context) config.Config {
	if cfg, ok := c.App.Metadata[metaConfig].(config.Config); ok {
		return cfg
	}
	return config.Default()
}

func openSession(c *cli.Context) (*session, error) {
	cfg := sessionConfig(c)
	s := &session{
		ctx:    evctx.SetVerbose(c.Context, c.Bool("verbose")),
		cfg:    cfg,
		format: c.String("format"),
		closer: func() {},
	}
	switch s.format {
	case formatText, formatYAML, formatJSON:
	default:
		return nil, console.Exit(1, "unknown output format %s", console.Red(s.format))
	}
	switch cfg.Adapter {
	case "mcp2221":
		s.bus = adapter.NewMCP2221(adapter.WithDeviceID(c.Int("usb-id")))
	case "generic":
		bus, err := i2c.NewGenericBus(cfg.Device)
		if err != nil {
			return nil, console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		if err := bus.SetSpeed(100 * physic.KiloHertz); err != nil {
			slog.Warn("could not set bus speed", "err", err)
		}
		s.bus = bus
		s.closer = func() {
			if err := bus.Close(); err != nil {
				console.Errorf("error closing bus: %s", console.Red(err))
			}
		}
	case "raspi":
		a := raspi.NewAdaptor()
		if err := s.gobot(a, a.I2cBusAdaptor); err != nil {
			return nil, err
		}
	case "nanopi":
		a := nanopi.NewNeoAdaptor()
		if err := s.gobot(a, a.I2cBusAdaptor); err != nil {
			return nil, err
		}
	default:
		return nil, console.Exit(1, "unknown adapter %s", console.Red(cfg.Adapter))
	}
	return s, nil
}

func (s *session) gobot(connector gi2c.Connector, busAdaptor *adaptors.I2cBusAdaptor) error {
	if err := busAdaptor.Connect(); err != nil {
		return console.Exit(1, "adaptor connect error: %s", console.Red(err))
	}
	bus := i2c.NewGobotBus(connector, s.cfg.Bus)
	s.bus = bus
	s.closer = func() {
		if err := bus.Close(); err != nil {
			console.Errorf("error closing bus: %s", console.Red(err))
		}
		if err := busAdaptor.Finalize(); err != nil {
			console.Errorf("error finalizing adaptor: %s", console.Red(err))
		}
	}
	return nil
}

func (s *session) Close() {
	s.closer()
}

// addr resolves the device address from flags, then the configuration file,
// then the driver default.
func (s *session) addr(c *cli.Context, name string, def byte) (evshield.Option, error) {
	if c.IsSet("addr") {
		a, err := parseByte(c.String("addr"))
		if err != nil {
			return nil, console.Exit(1, "invalid address: %s", console.Red(err))
		}
		return evshield.WithAddress(a), nil
	}
	if c.IsSet("shield-addr") {
		a, err := parseByte(c.String("shield-addr"))
		if err != nil {
			return nil, console.Exit(1, "invalid address: %s", console.Red(err))
		}
		return evshield.WithShieldAddress(a), nil
	}
	return evshield.WithAddress(s.cfg.Address(name, def)), nil
}

// render prints v as yaml or json, or calls text in text mode.
func (s *session) render(v any, text func(w io.Writer)) error {
	return render(console.Writer(), s.format, v, text)
}

func render(w io.Writer, format string, v any, text func(w io.Writer)) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		if err := enc.Encode(v); err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
	case formatJSON:
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
	default:
		text(w)
	}
	return nil
}

func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

func parseArgByte(c *cli.Context, i int, what string) (byte, error) {
	if c.NArg() <= i {
		return 0, console.Exit(1, "missing %s argument", what)
	}
	v, err := parseByte(c.Args().Get(i))
	if err != nil {
		return 0, console.Exit(1, "invalid %s: %s", what, console.Red(err))
	}
	return v, nil
}

// deviceError reports a failed device operation.
func deviceError(what string, err error) error {
	return console.Exit(1, "%s: %s", what, console.Red(err))
}

// withDevice opens a session, builds the device and runs fn against it.
func withDevice[T any](c *cli.Context, name string, def byte, build func(evshield.I2CBus, ...evshield.Option) T, fn func(s *session, dev T) error) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()
	opt, err := s.addr(c, name, def)
	if err != nil {
		return err
	}
	return fn(s, build(s.bus, opt))
}

// simpleCmd builds a command running a single device operation.
func simpleCmd[T any](name, usage, device string, def byte, build func(evshield.I2CBus, ...evshield.Option) T, fn func(T, context.Context) error) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Action: func(c *cli.Context) error {
			return withDevice(c, device, def, build, func(s *session, dev T) error {
				if err := fn(dev, s.ctx); err != nil {
					return deviceError("could not "+usage, err)
				}
				console.Infof("%s: %s", usage, console.Green("done"))
				return nil
			})
		},
	}
}

func hexBlock(b [8]byte) string {
	return fmt.Sprintf("% x", b[:])
}
