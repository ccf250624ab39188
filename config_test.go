package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConfigFirstRunWritesDefaults(t *testing.T) {
	orig := configDir
	configDir = t.TempDir()
	defer func() { configDir = orig }()

	cfg := loadConfigOrDefault()
	if diff := cmp.Diff(defaultConfig(), cfg); diff != "" {
		t.Errorf("first load (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(configDir, cfgFilename)); err != nil {
		t.Fatalf("default config not written: %s", err)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	orig := configDir
	configDir = t.TempDir()
	defer func() { configDir = orig }()

	cfg := defaultConfig()
	cfg.Video.Scale = 3
	cfg.Input.Pad1.A = "Space"
	if err := saveConfig(cfg); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(cfg, loadConfigOrDefault()); diff != "" {
		t.Errorf("config round trip (-want +got):\n%s", diff)
	}
}
