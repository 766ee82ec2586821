// Package config loads launchkit's configuration.
//
// Every value the bootstrap uses (tool and installer names, silent flags,
// environment folder, manifest, launcher and shortcut names, icon paths and
// the sync settings) lives in Config. Values are layered with koanf:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. launchkit.toml or .launchkit.toml at the repository root
//  3. LAUNCHKIT_* environment variables, "__" separating section and key
//     (LAUNCHKIT_SYNC__REMOTE_URL sets sync.remote_url)
//  4. explicit overrides, usually from command line flags
//
// Later layers win. The result is decoded with mapstructure using the
// koanf struct tags and then validated.
package config
