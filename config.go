package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/garbagemule/RecountChatFilter/internal/report"
)

type appConfig struct {
	Handle       string  `yaml:"handle,omitempty"`
	Channel      string  `yaml:"channel,omitempty"`
	ColorPolicy  string  `yaml:"color_policy,omitempty"`
	GraceSeconds float64 `yaml:"grace_seconds,omitempty"`
	// Retain is a pointer so an explicit "retain: 0" (keep everything)
	// is distinguishable from the field being absent (engine default).
	Retain   *int     `yaml:"retain,omitempty"`
	Channels []string `yaml:"channels,omitempty"`
	Theme    string   `yaml:"theme,omitempty"`
}

func defaultConfig() *appConfig {
	return &appConfig{
		Handle:  "You",
		Channel: string(report.ChannelParty),
	}
}

func loadConfig() (*appConfig, string) {
	configDir := resolveConfigDir()
	path := filepath.Join(configDir, "config.yaml")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return defaultConfig(), path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return defaultConfig(), path
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return defaultConfig(), path
	}
	if strings.TrimSpace(cfg.Handle) == "" {
		cfg.Handle = "You"
	}
	return cfg, path
}

func saveConfig(cfg *appConfig, path string) error {
	if cfg == nil {
		cfg = defaultConfig()
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func resolveConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "recount-chat-filter")
}

func (c *appConfig) engineOptions(categoryOf report.CategoryFunc) report.Options {
	opts := report.Options{
		Retain:     report.DefaultRetain,
		Policy:     report.ColorPolicy(strings.ToLower(strings.TrimSpace(c.ColorPolicy))),
		CategoryOf: categoryOf,
	}
	if c.Retain != nil {
		opts.Retain = *c.Retain
	}
	if c.GraceSeconds > 0 {
		opts.Grace = time.Duration(c.GraceSeconds * float64(time.Second))
	}
	if opts.Policy != report.PolicyAlternate {
		opts.Policy = report.PolicyClass
	}
	for _, tag := range c.Channels {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			opts.Channels = append(opts.Channels, report.Channel(tag))
		}
	}
	return opts
}
