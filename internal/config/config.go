// Package config loads the NewsHub YAML configuration and resolves the
// environment-provided disclosure-API credential. The pipeline itself never
// reads files or the environment; it consumes the structures built here.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/abelbrown/newshub/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "Asia/Tokyo"
	defaultLLMMode  = "manual_preferred"

	edinetKeyEnv = "EDINET_API_KEY"
)

// Config holds the parsed application configuration.
type Config struct {
	Timezone   string                     `yaml:"timezone"`
	LLM        LLMConfig                  `yaml:"llm"`
	TopicPacks map[string]model.TopicPack `yaml:"topic_packs"`
}

// LLMConfig describes how downstream review tooling treats pipeline output.
// The pipeline only stamps Mode onto items as provenance.
type LLMConfig struct {
	Mode            string `yaml:"mode"`
	ManualStaleDays int    `yaml:"manual_stale_days"`
}

// Load reads and parses the YAML configuration at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.LLM.Mode == "" {
		c.LLM.Mode = defaultLLMMode
	}
	if c.LLM.ManualStaleDays == 0 {
		c.LLM.ManualStaleDays = 3
	}
	for name, pack := range c.TopicPacks {
		pack.Name = name
		c.TopicPacks[name] = pack
	}
}

// EnabledPacks returns the enabled topic packs sorted by name, so runs
// process sources in a deterministic order.
func (c *Config) EnabledPacks() []model.TopicPack {
	var packs []model.TopicPack
	for _, pack := range c.TopicPacks {
		if pack.Enabled {
			packs = append(packs, pack)
		}
	}
	sort.Slice(packs, func(i, j int) bool { return packs[i].Name < packs[j].Name })
	return packs
}

// Location resolves the configured timezone, falling back to UTC for
// unknown names.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// EDINETKey returns the disclosure-API credential from the environment.
// Empty means the edinet sources will be skipped, which is expected and
// non-fatal.
func EDINETKey() string {
	return strings.TrimSpace(os.Getenv(edinetKeyEnv))
}
