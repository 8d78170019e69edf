package main

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/evshield/adapter"
	"github.com/mklimuk/evshield/cmd/evshield/console"
	"github.com/mklimuk/evshield/evctx"
)

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "MCP2221 bridge maintenance",
	Subcommands: cli.Commands{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
	},
}

func printStatus(c *cli.Context, status *adapter.MCP2221Status) error {
	return render(console.Writer(), c.String("format"), status, func(w io.Writer) {
		_, _ = fmt.Fprintf(w, "address: %s\n", console.White(status.CurrentAddress))
		_, _ = fmt.Fprintf(w, "speed divider: %d timeout: %d\n", status.I2CSpeedDivider, status.I2CTimeout)
		_, _ = fmt.Fprintf(w, "last write: %d/%d bytes, buffer: %d, read pending: %d\n",
			status.LastWriteSentSize, status.LastWriteRequestedSize, status.I2CDataBufferCounter, status.ReadPending)
	})
}

var mcp2221StatusCmd = cli.Command{
	Name: "status",
	Action: func(c *cli.Context) error {
		a := adapter.NewMCP2221(adapter.WithDeviceID(c.Int("usb-id")))
		ctx := evctx.SetVerbose(c.Context, c.Bool("verbose"))
		status, err := a.Status(ctx)
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return printStatus(c, status)
	},
}

var mcp2221ReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel the current transfer and free the bus",
	Action: func(c *cli.Context) error {
		a := adapter.NewMCP2221(adapter.WithDeviceID(c.Int("usb-id")))
		ctx := evctx.SetVerbose(c.Context, c.Bool("verbose"))
		status, err := a.ReleaseBus(ctx)
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return printStatus(c, status)
	},
}
