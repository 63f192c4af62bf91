package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tridigitals/ispmanagement-sub005/internal/errors"
)

// Save writes the config as YAML to the given path, creating parent
// directories as needed. Used by 'netwall init'.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to serialize config", "")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to create config directory "+dir,
				"Check directory permissions")
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file "+path,
			"Check file permissions")
	}
	return nil
}
