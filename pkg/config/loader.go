package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	lkerrors "github.com/pavez/launchkit/pkg/errors"
)

// EnvPrefix is the prefix of environment variables read as configuration
const EnvPrefix = "LAUNCHKIT_"

// FileNames are the root config file names, in lookup order
var FileNames = []string{"launchkit.toml", ".launchkit.toml"}

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// DefaultsContent returns the embedded defaults file
func DefaultsContent() string {
	return string(defaultConfig)
}

// LoadOptions controls which layers Load reads
type LoadOptions struct {
	// Root is the repository root; its config file is loaded when present
	Root string

	// Overrides are dotted keys applied last (e.g. "sync.enabled": true)
	Overrides map[string]interface{}

	// SkipEnv disables the environment layer
	SkipEnv bool
}

// Load builds the configuration from all layers and validates it
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Root config if it exists
	if opts.Root != "" {
		if path := FindFile(opts.Root); path != "" {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, lkerrors.Wrapf(err, lkerrors.ErrConfigParse, "failed to load root config from %s", path).
					WithDetail("path", path)
			}
		}
	}

	// 3. Environment
	if !opts.SkipEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, lkerrors.Wrap(err, lkerrors.ErrConfigLoad, "failed to load env vars")
		}
	}

	// 4. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, lkerrors.Wrap(err, lkerrors.ErrConfigParse, "failed to unmarshal configuration")
	}

	cfg.Root = opts.Root
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the embedded defaults without reading files or the environment
func Default() *Config {
	cfg, err := Load(LoadOptions{SkipEnv: true})
	if err != nil {
		// The embedded defaults are part of the binary; failing here is a build defect
		panic(fmt.Sprintf("invalid embedded defaults: %v", err))
	}
	return cfg
}

// FindFile returns the first root config file present in root, or ""
func FindFile(root string) string {
	for _, name := range FileNames {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envKey maps LAUNCHKIT_SYNC__REMOTE_URL to sync.remote_url.
// Variables without a section separator are ignored, except platform.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if key == "platform" {
		return key
	}
	if !strings.Contains(key, "__") {
		return ""
	}
	return strings.ReplaceAll(key, "__", ".")
}
