// Package config handles configuration loading and management for pixelhq.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

// ErrInvalidConfig is returned by Validate when a value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// envPrefix is prepended to environment overrides, e.g. PIXELHQ_XP_BASE.
const envPrefix = "PIXELHQ"

// projectConfigName is the file searched for from the working directory up.
const projectConfigName = ".pixelhq.yaml"

// Config holds all configuration for pixelhq.
type Config struct {
	Tiers     TiersConfig     `mapstructure:"tiers"`
	XP        XPConfig        `mapstructure:"xp"`
	Hierarchy HierarchyConfig `mapstructure:"hierarchy"`
	Modifiers ModifiersConfig `mapstructure:"modifiers"`
	Office    OfficeConfig    `mapstructure:"office"`
	Log       LogConfig       `mapstructure:"log"`
}

// TierConfig holds settings for a single tier.
type TierConfig struct {
	// Capacity is the maximum number of agents at the tier.
	Capacity int `mapstructure:"capacity"`
}

// TiersConfig holds per-tier settings.
type TiersConfig struct {
	Boss       TierConfig `mapstructure:"boss"`
	Supervisor TierConfig `mapstructure:"supervisor"`
	Employee   TierConfig `mapstructure:"employee"`
	Intern     TierConfig `mapstructure:"intern"`
}

// Get returns the settings of the given tier.
func (tc *TiersConfig) Get(tier models.Tier) *TierConfig {
	switch tier {
	case models.TierBoss:
		return &tc.Boss
	case models.TierSupervisor:
		return &tc.Supervisor
	case models.TierEmployee:
		return &tc.Employee
	case models.TierIntern:
		return &tc.Intern
	default:
		return nil
	}
}

// Capacities returns the configured capacity of every tier.
func (tc *TiersConfig) Capacities() map[models.Tier]int {
	out := make(map[models.Tier]int, 4)
	for _, tier := range models.AllTiers() {
		out[tier] = tc.Get(tier).Capacity
	}
	return out
}

// XPConfig holds the level curves and experience rewards.
type XPConfig struct {
	// Base and Rate shape the per-agent curve floor(Base * Rate^(level-1)).
	Base float64 `mapstructure:"base"`
	Rate float64 `mapstructure:"rate"`
	// TeamBase replaces Base for the team curve.
	TeamBase float64 `mapstructure:"team_base"`

	PerDelegation       int `mapstructure:"per_delegation"`
	PerPromotion        int `mapstructure:"per_promotion"`
	PerSkillComplete    int `mapstructure:"per_skill_complete"`
	PerRegistration     int `mapstructure:"per_registration"`
	PerModifierActivate int `mapstructure:"per_modifier_activate"`
	// MilestoneLevel is the team level that unlocks the milestone achievement.
	MilestoneLevel int `mapstructure:"milestone_level"`
}

// HierarchyConfig holds hierarchy engine settings.
type HierarchyConfig struct {
	// ActivityDecay is the activity lost per second.
	ActivityDecay float64 `mapstructure:"activity_decay"`
	// DelegationWindow is how many delegation records are retained.
	DelegationWindow int `mapstructure:"delegation_window"`
	// MaxSearchDepth bounds the downward routing search.
	MaxSearchDepth int `mapstructure:"max_search_depth"`
}

// ModifiersConfig holds modifier settings.
type ModifiersConfig struct {
	// CheatBuffer is how many input runes the cheat matcher keeps.
	CheatBuffer int `mapstructure:"cheat_buffer"`
	// Durations overrides modifier durations by id. Zero means permanent.
	Durations map[string]time.Duration `mapstructure:"durations"`
}

// DurationOverrides converts Durations to modifier ids.
func (mc *ModifiersConfig) DurationOverrides() (map[models.ModifierID]time.Duration, error) {
	out := make(map[models.ModifierID]time.Duration, len(mc.Durations))
	for name, d := range mc.Durations {
		id, err := models.ParseModifierID(name)
		if err != nil {
			return nil, err
		}
		out[id] = d
	}
	return out, nil
}

// OfficeConfig holds simulation settings.
type OfficeConfig struct {
	// TickRate is how often the dashboard advances the clock.
	TickRate time.Duration `mapstructure:"tick_rate"`
	// SpawnRate is interns hired per queued skill per tick, before modifiers.
	SpawnRate float64 `mapstructure:"spawn_rate"`
	// AutoSpawnCap caps the intern population that auto-hiring may reach.
	AutoSpawnCap int `mapstructure:"auto_spawn_cap"`
	// AutoPromoteLevel is the level interval at which auto-promotion fires.
	AutoPromoteLevel int `mapstructure:"auto_promote_level"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// File is an optional log file path. Empty logs to stderr.
	File string `mapstructure:"file"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (PIXELHQ_XP_BASE, PIXELHQ_LOG_LEVEL, ...)
// 2. Project config (.pixelhq.yaml in current directory or parent)
// 3. User config (~/.config/pixelhq/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := newViper()

	// Load user config from XDG path
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	v := newViper()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	// Environment variable overrides
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Log.File = expandEnv(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every value is in range.
func (c *Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	for _, tier := range models.AllTiers() {
		n := c.Tiers.Get(tier).Capacity
		check(n >= 0, "tiers.%s.capacity must not be negative, got %d", tier, n)
	}

	check(c.XP.Base >= 1, "xp.base must be at least 1, got %v", c.XP.Base)
	check(c.XP.Rate >= 1, "xp.rate must be at least 1, got %v", c.XP.Rate)
	check(c.XP.TeamBase >= 1, "xp.team_base must be at least 1, got %v", c.XP.TeamBase)
	for key, n := range map[string]int{
		"xp.per_delegation":        c.XP.PerDelegation,
		"xp.per_promotion":         c.XP.PerPromotion,
		"xp.per_skill_complete":    c.XP.PerSkillComplete,
		"xp.per_registration":      c.XP.PerRegistration,
		"xp.per_modifier_activate": c.XP.PerModifierActivate,
		"xp.milestone_level":       c.XP.MilestoneLevel,
	} {
		check(n >= 0, "%s must not be negative, got %d", key, n)
	}

	check(c.Hierarchy.ActivityDecay >= 0, "hierarchy.activity_decay must not be negative")
	check(c.Hierarchy.DelegationWindow >= 0, "hierarchy.delegation_window must not be negative")
	check(c.Hierarchy.MaxSearchDepth >= 1, "hierarchy.max_search_depth must be at least 1")

	check(c.Modifiers.CheatBuffer >= 1, "modifiers.cheat_buffer must be at least 1")
	for name, d := range c.Modifiers.Durations {
		_, err := models.ParseModifierID(name)
		check(err == nil, "modifiers.durations: %v", err)
		check(d >= 0, "modifiers.durations.%s must not be negative", name)
	}

	check(c.Office.TickRate > 0, "office.tick_rate must be positive")
	check(c.Office.SpawnRate >= 0, "office.spawn_rate must not be negative")
	check(c.Office.AutoSpawnCap >= 0, "office.auto_spawn_cap must not be negative")
	check(c.Office.AutoPromoteLevel >= 0, "office.auto_promote_level must not be negative")

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return SaveToPath(cfg, filepath.Join(userConfigDir, "config.yaml"))
}

// SaveToPath writes the configuration to the given file.
func SaveToPath(cfg *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)

	for _, tier := range models.AllTiers() {
		v.Set("tiers."+string(tier)+".capacity", cfg.Tiers.Get(tier).Capacity)
	}
	v.Set("xp.base", cfg.XP.Base)
	v.Set("xp.rate", cfg.XP.Rate)
	v.Set("xp.team_base", cfg.XP.TeamBase)
	v.Set("xp.per_delegation", cfg.XP.PerDelegation)
	v.Set("xp.per_promotion", cfg.XP.PerPromotion)
	v.Set("xp.per_skill_complete", cfg.XP.PerSkillComplete)
	v.Set("xp.per_registration", cfg.XP.PerRegistration)
	v.Set("xp.per_modifier_activate", cfg.XP.PerModifierActivate)
	v.Set("xp.milestone_level", cfg.XP.MilestoneLevel)
	v.Set("hierarchy.activity_decay", cfg.Hierarchy.ActivityDecay)
	v.Set("hierarchy.delegation_window", cfg.Hierarchy.DelegationWindow)
	v.Set("hierarchy.max_search_depth", cfg.Hierarchy.MaxSearchDepth)
	v.Set("modifiers.cheat_buffer", cfg.Modifiers.CheatBuffer)
	for name, d := range cfg.Modifiers.Durations {
		v.Set("modifiers.durations."+name, d.String())
	}
	v.Set("office.tick_rate", cfg.Office.TickRate.String())
	v.Set("office.spawn_rate", cfg.Office.SpawnRate)
	v.Set("office.auto_spawn_cap", cfg.Office.AutoSpawnCap)
	v.Set("office.auto_promote_level", cfg.Office.AutoPromoteLevel)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	d := Default()

	for _, tier := range models.AllTiers() {
		v.SetDefault("tiers."+string(tier)+".capacity", d.Tiers.Get(tier).Capacity)
	}

	// Curves and rewards
	v.SetDefault("xp.base", d.XP.Base)
	v.SetDefault("xp.rate", d.XP.Rate)
	v.SetDefault("xp.team_base", d.XP.TeamBase)
	v.SetDefault("xp.per_delegation", d.XP.PerDelegation)
	v.SetDefault("xp.per_promotion", d.XP.PerPromotion)
	v.SetDefault("xp.per_skill_complete", d.XP.PerSkillComplete)
	v.SetDefault("xp.per_registration", d.XP.PerRegistration)
	v.SetDefault("xp.per_modifier_activate", d.XP.PerModifierActivate)
	v.SetDefault("xp.milestone_level", d.XP.MilestoneLevel)

	// Hierarchy
	v.SetDefault("hierarchy.activity_decay", d.Hierarchy.ActivityDecay)
	v.SetDefault("hierarchy.delegation_window", d.Hierarchy.DelegationWindow)
	v.SetDefault("hierarchy.max_search_depth", d.Hierarchy.MaxSearchDepth)

	// Modifiers
	v.SetDefault("modifiers.cheat_buffer", d.Modifiers.CheatBuffer)
	for name, dur := range d.Modifiers.Durations {
		v.SetDefault("modifiers.durations."+name, dur.String())
	}

	// Office
	v.SetDefault("office.tick_rate", d.Office.TickRate.String())
	v.SetDefault("office.spawn_rate", d.Office.SpawnRate)
	v.SetDefault("office.auto_spawn_cap", d.Office.AutoSpawnCap)
	v.SetDefault("office.auto_promote_level", d.Office.AutoPromoteLevel)

	// Logging
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// getUserConfigDir returns the XDG config directory for pixelhq.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "pixelhq")
	}

	// Fall back to ~/.config/pixelhq
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "pixelhq")
	}
	return filepath.Join(home, ".config", "pixelhq")
}

// findProjectConfig searches for .pixelhq.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, projectConfigName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Tiers: TiersConfig{
			Boss:       TierConfig{Capacity: 1},
			Supervisor: TierConfig{Capacity: 3},
			Employee:   TierConfig{Capacity: 8},
			Intern:     TierConfig{Capacity: 12},
		},
		XP: XPConfig{
			Base:                100,
			Rate:                1.2,
			TeamBase:            100,
			PerDelegation:       25,
			PerPromotion:        100,
			PerSkillComplete:    50,
			PerRegistration:     10,
			PerModifierActivate: 15,
			MilestoneLevel:      10,
		},
		Hierarchy: HierarchyConfig{
			ActivityDecay:    0.05,
			DelegationWindow: 100,
			MaxSearchDepth:   16,
		},
		Modifiers: ModifiersConfig{
			CheatBuffer: 40,
			Durations: map[string]time.Duration{
				"turbo":    5 * time.Minute,
				"swarm":    3 * time.Minute,
				"timewarp": 4 * time.Minute,
				"godmode":  0,
				"stealth":  0,
				"zen":      0,
			},
		},
		Office: OfficeConfig{
			TickRate:         time.Second,
			SpawnRate:        0.5,
			AutoSpawnCap:     20,
			AutoPromoteLevel: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
