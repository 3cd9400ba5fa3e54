// Package config loads folio settings from defaults, an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every folio environment variable. A double underscore
// separates sections: FOLIO_SESSION__TTL sets session.ttl.
const EnvPrefix = "FOLIO_"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      "8080",
			StaticDir: "./static",
			ImagesDir: "./images",
			Templates: "templates/*",
		},
		Log: LogConfig{Level: "info"},
		Content: ContentConfig{
			Debounce: 250 * time.Millisecond,
		},
		Session: SessionConfig{
			CookieName: "folio_visitor",
			TTL:        30 * time.Minute,
			Sweep:      time.Minute,
			MaxActive:  10000,
		},
		Theme: ThemeConfig{
			Default:    "light",
			Themes:     []string{"light", "dark"},
			StorageKey: "theme",
		},
		Navigation: NavigationConfig{
			HeaderOffset:    80,
			SectionOffset:   100,
			ScrollThreshold: 50,
		},
		Resume: ResumeConfig{
			BaseURL: "https://docs.google.com",
			Timeout: 30 * time.Second,
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: "587",
		},
		Database: DatabaseConfig{Path: "./data/folio.db"},
		Tracking: TrackingConfig{Enabled: true},
	}
}

// Load reads path if it exists, overlays FOLIO_* variables and then the
// plain PORT, SMTP_*, TO_EMAIL and ADMIN_* variables. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.applyPlainEnv()
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) applyPlainEnv() {
	for _, o := range []struct {
		name string
		dst  *string
	}{
		{"PORT", &c.Server.Port},
		{"SMTP_HOST", &c.SMTP.Host},
		{"SMTP_PORT", &c.SMTP.Port},
		{"SMTP_USER", &c.SMTP.User},
		{"SMTP_PASS", &c.SMTP.Pass},
		{"TO_EMAIL", &c.SMTP.To},
		{"ADMIN_USERNAME", &c.Admin.Username},
		{"ADMIN_PASSWORD", &c.Admin.Password},
	} {
		if v := os.Getenv(o.name); v != "" {
			*o.dst = v
		}
	}
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if len(c.Theme.Themes) == 0 {
		errs = append(errs, errors.New("theme.themes must not be empty"))
	} else if !slices.Contains(c.Theme.Themes, c.Theme.Default) {
		errs = append(errs, fmt.Errorf("theme.default %q is not one of %v", c.Theme.Default, c.Theme.Themes))
	}
	if c.Theme.StorageKey == "" {
		errs = append(errs, errors.New("theme.storage_key is required"))
	}
	if c.Navigation.HeaderOffset < 0 || c.Navigation.SectionOffset < 0 || c.Navigation.ScrollThreshold < 0 {
		errs = append(errs, errors.New("navigation offsets must be non-negative"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}
	if c.Resume.Timeout < 0 {
		errs = append(errs, errors.New("resume.timeout must be non-negative"))
	}
	if c.Tracking.Enabled && c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required when tracking is enabled"))
	}
	return errors.Join(errs...)
}
