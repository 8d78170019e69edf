package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/mklimuk/evshield/cmd/dev/cmd"
)

var debug bool

func main() {
	rootCmd := &cobra.Command{
		Use:          "dev",
		Short:        "evshield development tool",
		Long:         "Builds the evshield cli for the supported boards and runs the test and lint checks",
		SilenceUsage: true,
		PersistentPreRun: func(c *cobra.Command, args []string) {
			charm := log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.DateTime,
				Prefix:          "evs",
			})
			charm.SetColorProfile(termenv.TrueColor)
			charm.SetLevel(log.InfoLevel)
			if debug {
				charm.SetReportCaller(true)
				charm.SetLevel(log.DebugLevel)
			}
			slog.SetDefault(slog.New(charm))
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", os.Getenv("EVS_DEBUG") != "", "enable debug logging (EVS_DEBUG)")

	rootCmd.AddCommand(
		cmd.BuildCmd(),
		cmd.BoardsCmd(),
		cmd.TestCmd(),
		cmd.LintCmd(),
		cmd.CheckCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("dev command failed", "error", err)
		os.Exit(1)
	}
}
