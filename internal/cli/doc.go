// Package cli implements the netwall command-line interface.
//
// The package is organized around Cobra commands, with each command
// delegating to a workflow function for the actual work:
//
//	netwall              - Start the wallboard TUI (default command)
//	netwall board        - Same as the default command
//	netwall init         - Create a .netwall.yaml config
//	netwall mockapi      - Run the local mock management API
//	netwall version      - Print version information
//
// Global flags (--config, --verbose) are defined on the root command and
// available to all subcommands.
package cli
