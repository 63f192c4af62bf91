package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tridigitals/ispmanagement-sub005/internal/config"
	"github.com/tridigitals/ispmanagement-sub005/internal/errors"
	"github.com/tridigitals/ispmanagement-sub005/internal/ui"
)

var initForceFlag bool

// initCmd creates a new .netwall.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .netwall.yaml configuration",
	Long: `Initialize a new netwall configuration file.

Creates a .netwall.yaml file in the current directory with sensible
defaults, prompting for the management API endpoint when run in a
terminal.

Examples:
  netwall init
  netwall init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForceFlag)
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForceFlag, "force", "f", false, "overwrite existing config")
	rootCmd.AddCommand(initCmd)
}

func initCommand(force bool) error {
	path := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(path); err == nil && !force {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s already exists", path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("%s already exists. Overwrite?", path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil || !overwrite {
			fmt.Println("Aborted.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Management API URL").
					Validate(validateURL).
					Value(&cfg.API.URL),
				huh.NewInput().
					Title("API token").
					Description("Leave empty for unauthenticated deployments").
					EchoMode(huh.EchoModePassword).
					Value(&cfg.API.Token),
			),
		)
		if err := form.Run(); err != nil {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := config.Save(cfg, path); err != nil {
		return err
	}

	fmt.Printf("%s Created %s\n", ui.SuccessStyle.Render("✓"), path)
	fmt.Println("Run 'netwall' to start the wallboard, or 'netwall mockapi' for a local demo fleet.")
	return nil
}

func validateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("enter a full URL, like http://127.0.0.1:6680")
	}
	return nil
}
