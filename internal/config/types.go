package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .netwall.yaml configuration file.
type Config struct {
	Version int        `yaml:"version" mapstructure:"version"`
	API     APIConfig  `yaml:"api" mapstructure:"api"`
	Poll    PollConfig `yaml:"poll" mapstructure:"poll"`
	Board   BoardConfig `yaml:"board" mapstructure:"board"`
}

// APIConfig holds connection settings for the management API.
type APIConfig struct {
	// URL is the base URL of the management API, e.g. "http://127.0.0.1:6680".
	URL string `yaml:"url" mapstructure:"url"`

	// Token is the bearer token sent on every request. Empty disables auth.
	Token string `yaml:"token" mapstructure:"token"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// PollConfig controls the wallboard polling scheduler.
type PollConfig struct {
	// Interval between poll cycles. Must be 1s, 2s, or 5s.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// StaleMultiplier scales the staleness window: a tile is stale when no
	// sample has arrived for max(10s, interval*StaleMultiplier). The value 3
	// tolerates a couple of missed cycles before flagging; treat it as a
	// tunable, not a law.
	StaleMultiplier int `yaml:"stale_multiplier" mapstructure:"stale_multiplier"`
}

// BoardConfig controls wallboard layout persistence.
type BoardConfig struct {
	// StateFile overrides the local state file path. Empty uses
	// ~/.config/netwall/board.json.
	StateFile string `yaml:"state_file" mapstructure:"state_file"`
}

// AllowedPollIntervals are the selectable scheduler intervals.
var AllowedPollIntervals = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	5 * time.Second,
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		API: APIConfig{
			URL:     "http://127.0.0.1:6680",
			Timeout: 8 * time.Second,
		},
		Poll: PollConfig{
			Interval:        2 * time.Second,
			StaleMultiplier: 3,
		},
	}
}
