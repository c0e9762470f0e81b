package loader

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/dokeraj/androtainer/kernel/gateway"
	"github.com/dokeraj/androtainer/kernel/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// LoadConfig reads and validates the YAML config at path. A missing file
// yields an empty config so profiles can be supplied on the command line.
func LoadConfig(path string) (*model.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Debugf("no config at [%s], using defaults", path)
			return &model.Config{Profiles: map[string]*model.ProfileConfig{}}, nil
		}
		return nil, errors.Wrapf(err, "unable to read config [%s]", path)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid config [%s]", path)
	}
	return cfg, nil
}

func ParseConfig(data []byte) (*model.Config, error) {
	cfg := &model.Config{}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]*model.ProfileConfig{}
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Validate(cfg *model.Config) error {
	if cfg.LogLevel != "" {
		if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
			return errors.Wrap(err, "log_level")
		}
	}
	if cfg.Current != "" {
		if _, found := cfg.Profiles[cfg.Current]; !found {
			return errors.Errorf("current profile [%s] is not defined", cfg.Current)
		}
	}

	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	backends := gateway.Backends()
	for _, name := range names {
		p := cfg.Profiles[name]
		if p == nil {
			return errors.Errorf("profile [%s] is empty", name)
		}
		backend := p.Backend
		if backend == "" {
			backend = gateway.DefaultBackend
		}
		if !contains(backends, backend) {
			return errors.Errorf("profile [%s]: unknown backend [%s], expected one of %v", name, backend, backends)
		}
		if backend == gateway.DefaultBackend {
			if p.BaseURL == "" {
				return errors.Errorf("profile [%s]: base_url is required", name)
			}
			if p.EndpointId <= 0 {
				return errors.Errorf("profile [%s]: endpoint_id must be positive", name)
			}
		}
	}

	if m := cfg.Metrics; m != nil {
		if m.URL == "" || m.Bucket == "" {
			return errors.New("metrics: url and bucket are required")
		}
	}
	return nil
}

// SaveConfig writes cfg to path, creating the directory when needed.
func SaveConfig(path string, cfg *model.Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrapf(err, "unable to create [%s]", filepath.Dir(path))
	}
	return os.WriteFile(path, data, 0600)
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
