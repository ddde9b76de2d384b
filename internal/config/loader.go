package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config file names searched for, in order.
const (
	FileName    = "carbondash.yaml"
	FileNameAlt = "carbondash.yml"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "CARBONDASH_"

// maxUpwardSearchLevels limits how far up the directory tree to search for
// a config file.
const maxUpwardSearchLevels = 10

// flagConfigKeys maps persistent CLI flag names to config keys. Flags not
// listed here do not feed the config.
var flagConfigKeys = map[string]string{
	"url":        "dataset.url",
	"data":       "dataset.path",
	"timeout":    "dataset.timeout",
	"log-level":  "log.level",
	"log-format": "log.format",
	"output":     "output",
}

// Load builds the configuration from defaults, an optional YAML file, the
// environment, and explicitly set CLI flags, in ascending priority.
//
// cfgFile may be empty, in which case carbondash.yaml is searched for in the
// working directory and then upward. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := Defaults()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"dataset.url":           defaults.Dataset.URL,
		"dataset.path":          defaults.Dataset.Path,
		"dataset.timeout":       defaults.Dataset.Timeout.String(),
		"server.host":           defaults.Server.Host,
		"server.port":           defaults.Server.Port,
		"server.open_browser":   defaults.Server.OpenBrowser,
		"server.watch":          defaults.Server.Watch,
		"server.session_secret": defaults.Server.SessionSecret,
		"ui.page_size":          defaults.UI.PageSize,
		"ui.year_min":           defaults.UI.YearMin,
		"ui.year_max":           defaults.UI.YearMax,
		"ui.year_step":          defaults.UI.YearStep,
		"ui.default_year":       defaults.UI.DefaultYear,
		"ui.default_metric":     defaults.UI.DefaultMetric,
		"ui.sidebar_text":       defaults.UI.SidebarText,
		"ui.sidebar_image":      defaults.UI.SidebarImage,
		"log.level":             defaults.Log.Level,
		"log.format":            defaults.Log.Format,
		"output":                defaults.Output,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	configFile := FindConfigFile(cfgFile)
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	// CARBONDASH_DATASET_URL -> dataset.url, CARBONDASH_SERVER_SESSION_SECRET
	// -> server.session_secret: the first underscore separates the section,
	// the rest belongs to the key.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		parts := strings.SplitN(s, "_", 2)
		if len(parts) == 2 {
			return parts[0] + "." + parts[1]
		}
		return s
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagConfigKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Paths in the file are relative to the file, not to wherever the
	// process happens to run.
	if configFile != "" {
		base := filepath.Dir(configFile)
		cfg.Dataset.Path = resolveRelative(cfg.Dataset.Path, base)
		cfg.UI.SidebarImage = resolveRelative(cfg.UI.SidebarImage, base)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindConfigFile resolves the config file to use. An explicit path wins;
// otherwise the working directory and its parents are searched.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	dir := cwd
	for i := 0; i < maxUpwardSearchLevels; i++ {
		for _, name := range []string{FileName, FileNameAlt} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func resolveRelative(path, base string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
