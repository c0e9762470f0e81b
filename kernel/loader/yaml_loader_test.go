package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dokeraj/androtainer/kernel/model"
)

func TestLoadConfig_Basic(t *testing.T) {
	yaml := `
current: home
log_level: debug
discard_stale: false
profiles:
  home:
    base_url: https://portainer.home.lan/
    endpoint_id: 2
    token_env: HOME_TOKEN
  local:
    backend: docker
metrics:
  url: http://localhost:8086
  org: home
  bucket: androtainer
`
	path := writeTempYaml(t, yaml)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Current != "home" {
		t.Errorf("expected current 'home', got '%s'", cfg.Current)
	}
	if cfg.GetDiscardStale() {
		t.Error("expected discard_stale to be false")
	}
	if len(cfg.Profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(cfg.Profiles))
	}

	home, err := cfg.GetProfile("")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if home.EndpointId != 2 {
		t.Errorf("expected endpoint_id 2, got %d", home.EndpointId)
	}
	if home.TokenEnv != "HOME_TOKEN" {
		t.Errorf("expected token_env 'HOME_TOKEN', got '%s'", home.TokenEnv)
	}
	if cfg.Profiles["local"].Backend != "docker" {
		t.Errorf("expected backend 'docker', got '%s'", cfg.Profiles["local"].Backend)
	}
	if cfg.Metrics == nil || cfg.Metrics.Bucket != "androtainer" {
		t.Errorf("expected metrics bucket 'androtainer', got %+v", cfg.Metrics)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("missing config should not fail: %v", err)
	}
	if !cfg.GetDiscardStale() {
		t.Error("discard_stale should default to true")
	}
	if cfg.Profiles == nil {
		t.Error("profiles should be initialised")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown key":     "colour: blue\n",
		"bad level":       "log_level: loud\n",
		"missing current": "current: nowhere\n",
		"unknown backend": "profiles:\n  x:\n    backend: podman\n",
		"no base_url":     "profiles:\n  x:\n    endpoint_id: 1\n",
		"no endpoint":     "profiles:\n  x:\n    base_url: http://p\n",
		"metrics bucket":  "metrics:\n  url: http://i\n",
	}
	for name, yaml := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeTempYaml(t, yaml)); err == nil {
				t.Errorf("expected error for %s", name)
			}
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	cfg := &model.Config{
		Current:        "p",
		AddressByIndex: true,
		Profiles: map[string]*model.ProfileConfig{
			"p": {BaseURL: "http://p", EndpointId: 1},
		},
	}
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !loaded.AddressByIndex || loaded.Profiles["p"].BaseURL != "http://p" {
		t.Errorf("unexpected round trip result %+v", loaded)
	}
}

func writeTempYaml(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp yaml: %v", err)
	}
	return path
}
