// Package config resolves which database target a modelsync invocation
// talks to. Targets are named per environment in modelsync.yaml and can be
// overridden by environment variables or command-line flags.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// FileName is the default config file name.
const FileName = "modelsync.yaml"

// FileNameAlt is the alternate config file name.
const FileNameAlt = "modelsync.yml"

// envPrefix namespaces the environment variables this package reads.
const envPrefix = "MODELSYNC_"

// Config holds the resolved configuration for one invocation.
type Config struct {
	// DefaultEnvironment selects which environment is used when --env is
	// not given.
	DefaultEnvironment string `koanf:"default_environment"`

	// Environments maps environment name to connection target, e.g.
	// development: sqlite::memory:
	Environments map[string]string `koanf:"environments"`

	// Target, when set, overrides any environment lookup. Populated from
	// MODELSYNC_TARGET or --target.
	Target string `koanf:"target"`

	// Schema is the path of the model schema file.
	Schema string `koanf:"schema"`

	// Environment is the environment selected with --env.
	Environment string `koanf:"env"`

	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
}

// Load builds the configuration from, in ascending priority: defaults, the
// config file (explicit path or modelsync.yaml in the working directory),
// MODELSYNC_* environment variables, then command-line flags. A .env file
// in the working directory is read first, the way local development setups
// expect.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"default_environment": "development",
		"schema":              "schema.yaml",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), kyaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// ResolveTarget returns the connection target for the selected environment.
// An explicit Target override wins over the environment table.
func (c *Config) ResolveTarget() (string, error) {
	if c.Target != "" {
		return c.Target, nil
	}

	envName := c.Environment
	if envName == "" {
		envName = c.DefaultEnvironment
	}

	target, ok := c.Environments[envName]
	if !ok || target == "" {
		return "", fmt.Errorf("no connection target configured for environment %q (known: %s)",
			envName, strings.Join(knownEnvironments(c.Environments), ", "))
	}
	return target, nil
}

func knownEnvironments(envs map[string]string) []string {
	names := make([]string, 0, len(envs))
	for name := range envs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func findConfigFile() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	if _, err := os.Stat(FileNameAlt); err == nil {
		return FileNameAlt
	}
	return ""
}
