package main

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"nespump/emu/log"
)

type Config struct {
	Video VideoConfig `toml:"video"`
	Input InputConfig `toml:"input"`
}

type VideoConfig struct {
	Scale        int  `toml:"scale"`
	DisableVSync bool `toml:"disable_vsync"`
}

// PadBindings names the keyboard key assigned to each button, using SDL
// scancode names.
type PadBindings struct {
	A      string `toml:"a"`
	B      string `toml:"b"`
	Select string `toml:"select"`
	Start  string `toml:"start"`
	Up     string `toml:"up"`
	Down   string `toml:"down"`
	Left   string `toml:"left"`
	Right  string `toml:"right"`
}

type InputConfig struct {
	Pad1 PadBindings `toml:"pad1"`
}

func defaultConfig() Config {
	return Config{
		Video: VideoConfig{Scale: 2},
		Input: InputConfig{
			Pad1: PadBindings{
				A:      "E",
				B:      "Q",
				Select: "Right Shift",
				Start:  "Left Shift",
				Up:     "W",
				Down:   "S",
				Left:   "A",
				Right:  "D",
			},
		},
	}
}

var configDir string = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("nespump")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.FatalZ("failed to create config directory").
			String("dir", dir).
			Error("err", err).
			End()
	}
	return dir
})()

const cfgFilename = "config.toml"

// loadConfigOrDefault loads the configuration from the nespump config
// directory. On the first run the file does not exist yet, a default
// one is written so the user has something to edit.
func loadConfigOrDefault() Config {
	cfg := defaultConfig()
	_, err := toml.DecodeFile(filepath.Join(configDir, cfgFilename), &cfg)
	if err != nil {
		cfg = defaultConfig()
		if os.IsNotExist(err) {
			if werr := saveConfig(cfg); werr != nil {
				log.ModEmu.WarnZ("failed to write default config").
					Error("err", werr).
					End()
			}
		}
		return cfg
	}
	if cfg.Video.Scale < 1 {
		cfg.Video.Scale = 1
	}
	return cfg
}

// saveConfig into the nespump config directory.
func saveConfig(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(configDir, cfgFilename), buf, 0644)
}
