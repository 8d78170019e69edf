package cmd

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gophertribe/devtool/build"
)

// boards maps supported single board computers to their GOOS/GOARCH.
var boards = map[string][2]string{
	"raspi":  {"linux", "arm64"},
	"nanopi": {"linux", "arm"},
}

func boardTarget(board string) (string, string, error) {
	target, ok := boards[board]
	if !ok {
		return "", "", fmt.Errorf("unknown board %s (known: %s)", board, strings.Join(boardNames(), ", "))
	}
	return target[0], target[1], nil
}

func boardNames() []string {
	names := make([]string, 0, len(boards))
	for name := range boards {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BoardsCmd lists the boards the build command can target.
func BoardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "boards",
		Short: "List supported boards and their build targets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range boardNames() {
				target := boards[name]
				cmd.Printf("%-8s %s/%s\n", name, target[0], target[1])
			}
		},
	}
}

func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build evshield cli",
		RunE: func(cmd *cobra.Command, args []string) error {
			os := cmd.Flag("os").Value.String()
			arch := cmd.Flag("arch").Value.String()
			version := cmd.Flag("version").Value.String()
			crossOs := cmd.Flag("cross-os").Value.String()
			crossArch := cmd.Flag("cross-arch").Value.String()
			if board := cmd.Flag("board").Value.String(); board != "" {
				var err error
				crossOs, crossArch, err = boardTarget(board)
				if err != nil {
					return err
				}
			}

			// native builds use the local toolchain, cgo is needed by the HID bridge
			if os == runtime.GOOS && arch == runtime.GOARCH {
				if crossOs != "" && crossArch != "" {
					os = crossOs
					arch = crossArch
				}
				return build.GoBuild(fmt.Sprintf("dist/evshield-%s-%s", os, arch), "./cmd/evshield", build.GoBuildOpts{
					Version:       version,
					InjectVersion: true,
					ConfigPackage: "github.com/mklimuk/evshield/pkg/config",
					EnableCgo:     true,
					Arch:          arch,
					OS:            os,
				})
			}

			noCache, err := cmd.Flags().GetBool("no-cache")
			if err != nil {
				return fmt.Errorf("could not get no-cache flag: %w", err)
			}
			return build.Docker(cmd.Context(), fmt.Sprintf("./dev-%s-%s", os, arch), []string{"build", "--version", version, "--cross-os", crossOs, "--cross-arch", crossArch}, build.DockerBuildOpts{
				NoCache: noCache,
				Image:   "gophertribe/gobuild:1.25-bookworm",
			})
		},
	}
	cmd.Flags().Bool("no-cache", false, "do not use cache when building the app")
	cmd.Flags().String("version", "latest", "version of the cli")
	cmd.Flags().String("os", runtime.GOOS, "os to build for")
	cmd.Flags().String("arch", runtime.GOARCH, "arch to build for")
	cmd.Flags().String("cross-os", "", "os to cross-compile for")
	cmd.Flags().String("cross-arch", "", "arch to cross-compile for")
	cmd.Flags().String("board", "", "cross-compile for a board (raspi, nanopi)")

	return cmd
}
