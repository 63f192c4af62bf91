package config

import (
	"fmt"
	"net/url"

	"github.com/tridigitals/ispmanagement-sub005/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but netwall only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Update netwall to a release that understands this config")
	}

	if cfg.API.URL == "" {
		return errors.New(errors.ErrConfig,
			"No management API URL configured",
			"Set api.url in "+ConfigFileName+", e.g. http://127.0.0.1:6680")
	}

	parsed, err := url.Parse(cfg.API.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid management API URL: %q", cfg.API.URL),
			"Use a full URL including scheme, e.g. http://127.0.0.1:6680")
	}

	if cfg.API.Timeout < 0 {
		return errors.New(errors.ErrConfig,
			"api.timeout cannot be negative", "")
	}

	if !isAllowedInterval(cfg) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid poll interval: %s", cfg.Poll.Interval),
			"Use one of: 1s, 2s, 5s")
	}

	if cfg.Poll.StaleMultiplier < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid poll.stale_multiplier: %d", cfg.Poll.StaleMultiplier),
			"Use a positive integer (default 3)")
	}

	return nil
}

func isAllowedInterval(cfg *Config) bool {
	for _, d := range AllowedPollIntervals {
		if cfg.Poll.Interval == d {
			return true
		}
	}
	return false
}
