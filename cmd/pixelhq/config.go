package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/config"
	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify pixelhq configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/pixelhq/config.yaml
Project-specific overrides can be placed in .pixelhq.yaml`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch len(args) {
		case 0:
			displayAllConfig(out, cfg)
			return nil
		case 1:
			value, err := getConfigValue(cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, value)
			return nil
		default:
			if err := setConfigValue(cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := saveConfig(cfg); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Fprintf(out, "Set %s = %s\n", args[0], args[1])
			return nil
		}
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file locations",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "user:    %s\n", config.GetUserConfigPath())
		project := config.GetProjectConfigPath()
		if project == "" {
			project = "(none)"
		}
		fmt.Fprintf(out, "project: %s\n", project)
	},
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to the user config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configTarget()
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := saveConfig(config.Default()); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

// configTarget is the file that config writes go to: --config when given,
// the user config otherwise.
func configTarget() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.GetUserConfigPath()
}

func saveConfig(c *config.Config) error {
	if cfgFile != "" {
		return config.SaveToPath(c, cfgFile)
	}
	return config.Save(c)
}

// displayAllConfig prints all configuration values.
func displayAllConfig(out io.Writer, cfg *config.Config) {
	for _, key := range configKeys() {
		value, _ := getConfigValue(cfg, key)
		fmt.Fprintf(out, "%s: %s\n", key, value)
	}
	names := make([]string, 0, len(cfg.Modifiers.Durations))
	for name := range cfg.Modifiers.Durations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "modifiers.durations.%s: %s\n", name, cfg.Modifiers.Durations[name])
	}
}

func configKeys() []string {
	keys := make([]string, 0, 24)
	for _, tier := range models.AllTiers() {
		keys = append(keys, "tiers."+string(tier)+".capacity")
	}
	return append(keys,
		"xp.base", "xp.rate", "xp.team_base",
		"xp.per_delegation", "xp.per_promotion", "xp.per_skill_complete",
		"xp.per_registration", "xp.per_modifier_activate", "xp.milestone_level",
		"hierarchy.activity_decay", "hierarchy.delegation_window", "hierarchy.max_search_depth",
		"modifiers.cheat_buffer",
		"office.tick_rate", "office.spawn_rate", "office.auto_spawn_cap", "office.auto_promote_level",
		"log.level", "log.file",
	)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	key = strings.ToLower(key)
	if tc, ok := tierKey(cfg, key); ok {
		return strconv.Itoa(tc.Capacity), nil
	}
	if name, ok := strings.CutPrefix(key, "modifiers.durations."); ok {
		d, ok := cfg.Modifiers.Durations[name]
		if !ok {
			return "(default)", nil
		}
		return d.String(), nil
	}

	switch key {
	case "xp.base":
		return formatFloat(cfg.XP.Base), nil
	case "xp.rate":
		return formatFloat(cfg.XP.Rate), nil
	case "xp.team_base":
		return formatFloat(cfg.XP.TeamBase), nil
	case "xp.per_delegation":
		return strconv.Itoa(cfg.XP.PerDelegation), nil
	case "xp.per_promotion":
		return strconv.Itoa(cfg.XP.PerPromotion), nil
	case "xp.per_skill_complete":
		return strconv.Itoa(cfg.XP.PerSkillComplete), nil
	case "xp.per_registration":
		return strconv.Itoa(cfg.XP.PerRegistration), nil
	case "xp.per_modifier_activate":
		return strconv.Itoa(cfg.XP.PerModifierActivate), nil
	case "xp.milestone_level":
		return strconv.Itoa(cfg.XP.MilestoneLevel), nil
	case "hierarchy.activity_decay":
		return formatFloat(cfg.Hierarchy.ActivityDecay), nil
	case "hierarchy.delegation_window":
		return strconv.Itoa(cfg.Hierarchy.DelegationWindow), nil
	case "hierarchy.max_search_depth":
		return strconv.Itoa(cfg.Hierarchy.MaxSearchDepth), nil
	case "modifiers.cheat_buffer":
		return strconv.Itoa(cfg.Modifiers.CheatBuffer), nil
	case "office.tick_rate":
		return cfg.Office.TickRate.String(), nil
	case "office.spawn_rate":
		return formatFloat(cfg.Office.SpawnRate), nil
	case "office.auto_spawn_cap":
		return strconv.Itoa(cfg.Office.AutoSpawnCap), nil
	case "office.auto_promote_level":
		return strconv.Itoa(cfg.Office.AutoPromoteLevel), nil
	case "log.level":
		return cfg.Log.Level, nil
	case "log.file":
		if cfg.Log.File == "" {
			return "(stderr)", nil
		}
		return cfg.Log.File, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	key = strings.ToLower(key)
	if tc, ok := tierKey(cfg, key); ok {
		return setInt(&tc.Capacity, key, value)
	}
	if name, ok := strings.CutPrefix(key, "modifiers.durations."); ok {
		if _, err := models.ParseModifierID(name); err != nil {
			return err
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		if cfg.Modifiers.Durations == nil {
			cfg.Modifiers.Durations = make(map[string]time.Duration)
		}
		cfg.Modifiers.Durations[name] = d
		return nil
	}

	switch key {
	case "xp.base":
		return setFloat(&cfg.XP.Base, key, value)
	case "xp.rate":
		return setFloat(&cfg.XP.Rate, key, value)
	case "xp.team_base":
		return setFloat(&cfg.XP.TeamBase, key, value)
	case "xp.per_delegation":
		return setInt(&cfg.XP.PerDelegation, key, value)
	case "xp.per_promotion":
		return setInt(&cfg.XP.PerPromotion, key, value)
	case "xp.per_skill_complete":
		return setInt(&cfg.XP.PerSkillComplete, key, value)
	case "xp.per_registration":
		return setInt(&cfg.XP.PerRegistration, key, value)
	case "xp.per_modifier_activate":
		return setInt(&cfg.XP.PerModifierActivate, key, value)
	case "xp.milestone_level":
		return setInt(&cfg.XP.MilestoneLevel, key, value)
	case "hierarchy.activity_decay":
		return setFloat(&cfg.Hierarchy.ActivityDecay, key, value)
	case "hierarchy.delegation_window":
		return setInt(&cfg.Hierarchy.DelegationWindow, key, value)
	case "hierarchy.max_search_depth":
		return setInt(&cfg.Hierarchy.MaxSearchDepth, key, value)
	case "modifiers.cheat_buffer":
		return setInt(&cfg.Modifiers.CheatBuffer, key, value)
	case "office.tick_rate":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		cfg.Office.TickRate = d
	case "office.spawn_rate":
		return setFloat(&cfg.Office.SpawnRate, key, value)
	case "office.auto_spawn_cap":
		return setInt(&cfg.Office.AutoSpawnCap, key, value)
	case "office.auto_promote_level":
		return setInt(&cfg.Office.AutoPromoteLevel, key, value)
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func tierKey(cfg *config.Config, key string) (*config.TierConfig, bool) {
	rest, ok := strings.CutPrefix(key, "tiers.")
	if !ok {
		return nil, false
	}
	name, ok := strings.CutSuffix(rest, ".capacity")
	if !ok {
		return nil, false
	}
	tc := cfg.Tiers.Get(models.Tier(name))
	return tc, tc != nil
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, key, value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dst = f
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
