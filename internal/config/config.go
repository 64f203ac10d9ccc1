// Package config loads optional defaults for the toolkit from a YAML file,
// layered under whatever flags the CLI binds on top (spec SPEC_FULL.md
// "AMBIENT STACK / Configuration"). Flags always win over the config
// file, which always wins over the built-in defaults below.
package config

import (
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/viper"
)

// Defaults holds the toolkit's built-in fallback values.
type Defaults struct {
	StrsimThreshold float64 // 0.0-1.0 ratio, not the CLI's 0-100 percent form
	Compression     int
	Progress        bool
}

// Load reads defaults from configPath if non-empty, else from
// $XDG_CONFIG_HOME/marc21/config.yaml if present, and returns the
// resulting Defaults merged over the built-in fallback. A missing config
// file is not an error.
func Load(configPath string) (Defaults, error) {
	d := Defaults{
		StrsimThreshold: 0.8,
		Compression:     gzip.DefaultCompression,
		Progress:        false,
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("strsim-threshold", d.StrsimThreshold*100)
	v.SetDefault("compression", d.Compression)
	v.SetDefault("progress", d.Progress)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		dir := defaultConfigDir()
		if dir == "" {
			return d, nil
		}
		path := filepath.Join(dir, "marc21", "config.yaml")
		if _, err := os.Stat(path); err != nil {
			return d, nil
		}
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		if configPath == "" {
			return d, nil
		}
		return d, err
	}

	d.StrsimThreshold = v.GetFloat64("strsim-threshold") / 100.0
	d.Compression = v.GetInt("compression")
	d.Progress = v.GetBool("progress")
	return d, nil
}

func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}
