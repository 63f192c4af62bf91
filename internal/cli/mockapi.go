package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tridigitals/ispmanagement-sub005/internal/logger"
	"github.com/tridigitals/ispmanagement-sub005/internal/mockapi"
)

var (
	mockAddrFlag  string
	mockDBFlag    string
	mockTokenFlag string
	mockSeedFlag  int64
)

// mockapiCmd runs the local mock management API, so the wallboard can be
// developed and demoed without a real fleet.
var mockapiCmd = &cobra.Command{
	Use:   "mockapi",
	Short: "Run a local mock management API",
	Long: `Start a local management API with a simulated device fleet.

Serves the same REST surface the wallboard polls in production: the device
registry, interface discovery, byte counters, and the settings store. The
"local" pseudo-device reports this machine's real NIC counters; the rest of
the fleet generates synthetic traffic.

Examples:
  netwall mockapi
  netwall mockapi --addr :6680 --db ./mockapi.db
  netwall mockapi --token sekrit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mockapiCommand()
	},
}

func init() {
	mockapiCmd.Flags().StringVar(&mockAddrFlag, "addr", ":6680", "listen address")
	mockapiCmd.Flags().StringVar(&mockDBFlag, "db", ":memory:", "sqlite database path")
	mockapiCmd.Flags().StringVar(&mockTokenFlag, "token", "", "require this bearer token")
	mockapiCmd.Flags().Int64Var(&mockSeedFlag, "seed", 0, "fix the traffic simulator seed")
	rootCmd.AddCommand(mockapiCmd)
}

func mockapiCommand() error {
	db, err := mockapi.OpenStore(mockDBFlag)
	if err != nil {
		return err
	}
	if err := mockapi.Seed(db); err != nil {
		return err
	}

	srv := mockapi.NewServer(mockapi.Options{
		DB:     db,
		Token:  mockTokenFlag,
		Seed:   mockSeedFlag,
		Logger: logger.Default(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx, mockAddrFlag)
}
