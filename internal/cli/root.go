package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tridigitals/ispmanagement-sub005/internal/logger"
)

// Global flags available to all subcommands.
var (
	configFlag  string
	verboseFlag bool
)

// rootCmd is the base command. Running it with no subcommand starts the
// wallboard, which is what operators want a wallboard binary to do.
var rootCmd = &cobra.Command{
	Use:   "netwall",
	Short: "Real-time network interface wallboard",
	Long: `netwall is a terminal wallboard for network interface throughput.

It polls a management API for interface byte counters, derives per-second
rates, and renders a tile grid with sparklines, low-throughput alerts, and
staleness indicators. Tile layout persists locally and to the management
server's settings store.

Examples:
  netwall
  netwall --config ./ops/.netwall.yaml
  netwall mockapi`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return boardCommand(configFlag, boardIntervalFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to .netwall.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")

	cobra.OnInitialize(func() {
		if verboseFlag {
			os.Setenv("NETWALL_DEBUG", "1")
			logger.SetDefault(logger.NewEnvLogger("netwall"))
		}
	})
}

// Execute runs the CLI. Structured errors render their own multi-line
// format; the process exits nonzero on any failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
