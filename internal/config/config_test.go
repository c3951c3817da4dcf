package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	cfg := Load()
	if cfg.App.Mode != "debug" {
		t.Fatalf("default mode want debug got %s", cfg.App.Mode)
	}
	if cfg.API.TimeoutMS != 10000 {
		t.Fatalf("default timeout want 10000 got %d", cfg.API.TimeoutMS)
	}
	if cfg.API.BaseURL == "" {
		t.Fatalf("default base url should not be empty")
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Fatalf("default storage driver want sqlite got %s", cfg.Storage.Driver)
	}
}

func TestLoadFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	content := []byte("app:\n  mode: release\napi:\n  base_url: http://127.0.0.1:8000/api/v1/\n  timeout_ms: 2500\n")
	if err := os.WriteFile("config.yml", content, 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	cfg := Load()
	if cfg.App.Mode != "release" {
		t.Fatalf("mode want release got %s", cfg.App.Mode)
	}
	if cfg.API.BaseURL != "http://127.0.0.1:8000/api/v1/" {
		t.Fatalf("unexpected base url: %s", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutMS != 2500 {
		t.Fatalf("timeout want 2500 got %d", cfg.API.TimeoutMS)
	}
}
