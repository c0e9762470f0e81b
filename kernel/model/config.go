package model

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	ConfigFileName = "config.yml"
	ConfigEnvVar   = "ANDROTAINER_CONFIG"
)

type Config struct {
	Current        string                    `yaml:"current"`
	LogLevel       string                    `yaml:"log_level"`
	DiscardStale   *bool                     `yaml:"discard_stale"`
	AddressByIndex bool                      `yaml:"address_by_index"`
	Profiles       map[string]*ProfileConfig `yaml:"profiles"`
	Metrics        *MetricsConfig            `yaml:"metrics"`
}

// ProfileConfig describes one server endpoint. Tokens are never stored here;
// TokenEnv names the environment variable to read one from.
type ProfileConfig struct {
	Backend            string `yaml:"backend"`
	BaseURL            string `yaml:"base_url"`
	EndpointId         int    `yaml:"endpoint_id"`
	TokenEnv           string `yaml:"token_env"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

type MetricsConfig struct {
	URL      string `yaml:"url"`
	TokenEnv string `yaml:"token_env"`
	Org      string `yaml:"org"`
	Bucket   string `yaml:"bucket"`
}

func (c *Config) GetDiscardStale() bool {
	if c == nil || c.DiscardStale == nil {
		return true
	}
	return *c.DiscardStale
}

// GetProfile returns the named profile, or the current one when name is empty.
func (c *Config) GetProfile(name string) (*ProfileConfig, error) {
	if name == "" {
		name = c.Current
	}
	if name == "" {
		return nil, fmt.Errorf("no profile selected and no current profile configured")
	}
	p, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile [%s] not found in config", name)
	}
	return p, nil
}

func (p *ProfileConfig) Session(token string) Session {
	return NewSession(p.BaseURL, token, p.EndpointId)
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to get home directory: %w", err)
	}
	return filepath.Join(home, ".androtainer"), nil
}

// ConfigPath resolves the config file location, honouring ANDROTAINER_CONFIG.
func ConfigPath() (string, error) {
	if p := os.Getenv(ConfigEnvVar); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}
