package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tridigitals/ispmanagement-sub005/internal/api"
	"github.com/tridigitals/ispmanagement-sub005/internal/board"
	"github.com/tridigitals/ispmanagement-sub005/internal/config"
	"github.com/tridigitals/ispmanagement-sub005/internal/errors"
	"github.com/tridigitals/ispmanagement-sub005/internal/logger"
)

var boardIntervalFlag string

// boardCmd is the explicit form of the default command.
var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Start the wallboard dashboard",
	Long: `Start the interactive wallboard TUI.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  space       Pause / resume polling
  1 / 2 / 5   Set poll interval in seconds
  arrows/hjkl Move tile selection
  e / Enter   Edit the selected tile
  x           Clear the selected tile
  d           Expand the selected tile
  g           Cycle grid preset (2x2, 3x2, 3x3, 4x3)
  [ / ]       Previous / next page
  r           Refresh the device registry
  s           Force a settings-store sync
  ?           Toggle the shortcut overlay

Tiles can also be reordered by dragging their title row with the mouse.

Examples:
  netwall board
  netwall board --interval 5s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return boardCommand(configFlag, boardIntervalFlag)
	},
}

func init() {
	boardCmd.Flags().StringVar(&boardIntervalFlag, "interval", "", "poll interval (1s, 2s, or 5s)")
	rootCmd.Flags().StringVar(&boardIntervalFlag, "interval", "", "poll interval (1s, 2s, or 5s)")
	rootCmd.AddCommand(boardCmd)
}

// boardCommand loads config, connects the API client, and runs the TUI.
func boardCommand(configPath, intervalFlag string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	interval := cfg.Poll.Interval
	if intervalFlag != "" {
		parsed, err := time.ParseDuration(intervalFlag)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Invalid interval: %s", intervalFlag),
				"Use 1s, 2s, or 5s")
		}
		if !board.ValidInterval(parsed) {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Unsupported interval: %s", intervalFlag),
				"The wallboard polls at 1s, 2s, or 5s")
		}
		interval = parsed
	}

	client := api.NewClient(cfg.API.URL, cfg.API.Token, cfg.API.Timeout)
	log := logger.Default()
	coordinator := board.NewCoordinator(client, config.StateFilePath(cfg), log)

	model := board.NewModel(board.Options{
		Service:         client,
		Coordinator:     coordinator,
		Interval:        interval,
		StaleMultiplier: cfg.Poll.StaleMultiplier,
		Logger:          log,
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	_, runErr := p.Run()

	// Push any edit still sitting in the debounce window before exiting.
	// Best effort: a dead settings store must not block shutdown.
	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := coordinator.Flush(flushCtx); err != nil {
		log.Debug("final settings-store sync failed: %v", err)
	}

	return runErr
}
