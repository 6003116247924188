package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"w65816/emu/log"
)

type ConformanceConfig struct {
	Dir     string   `toml:"dir"`
	Jobs    int      `toml:"jobs"`
	Strict  bool     `toml:"strict"`
	Skip    []string `toml:"skip"`
	MaxFail int      `toml:"max_fail"`
}

type LogConfig struct {
	Modules []string `toml:"modules"`
}

type Config struct {
	Conformance ConformanceConfig `toml:"conformance"`
	Log         LogConfig         `toml:"log"`
}

const DefaultFileMode = os.FileMode(0755)

var ConfigDir = sync.OnceValue(func() string {
	cfgdir, err := os.UserConfigDir()
	if err != nil {
		log.ModEmu.Fatalf("failed to get user config directory: %v", err)
	}

	dir := filepath.Join(cfgdir, "w65816")
	if err := os.MkdirAll(dir, DefaultFileMode); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

var defaultConfig = Config{
	Conformance: ConformanceConfig{
		Dir: filepath.Join("65816", "v1"),
	},
}

const cfgFilename = "config.toml"

func defaultConfigPath() string {
	return filepath.Join(ConfigDir(), cfgFilename)
}

// loadConfig loads the configuration at path, or the one in the w65816 config
// directory if path is empty. A missing default configuration file isn't an
// error, the default configuration is returned.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	cfg := defaultConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return defaultConfig, nil
		}
		return defaultConfig, err
	}

	if undec := md.Undecoded(); len(undec) != 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		log.ModEmu.WarnZ("unknown configuration keys").
			String("file", path).
			String("keys", strings.Join(keys, ",")).
			End()
	}
	return cfg, nil
}

// saveConfig writes cfg at path, or in the w65816 config directory if path is
// empty.
func saveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigPath()
	}

	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, buf, 0644)
}
