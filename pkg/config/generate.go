package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pavez/launchkit/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
)

const generatedHeader = "# launchkit configuration\n# Generated by `launchkit gen-config`. Remove keys to fall back to the defaults.\n\n"

// Marshal renders the configuration as TOML
func Marshal(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return append([]byte(generatedHeader), data...), nil
}

// WriteFile writes the configuration to <root>/launchkit.toml and returns the path
func WriteFile(cfg *Config, root string) (string, error) {
	data, err := Marshal(cfg)
	if err != nil {
		return "", err
	}

	path := filepath.Join(root, FileNames[0])
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	return path, nil
}
