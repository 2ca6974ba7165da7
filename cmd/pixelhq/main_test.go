package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/catalog"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/config"
)

// execute runs the root command with a clean flag state and an isolated
// user config directory.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfgFile, verbose = "", false
	runWatch, runQuiet, runEvents = false, false, false
	catalogYAML, officeSeed, configInitForce = false, "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "pixelhq version ") {
		t.Errorf("output = %q", out)
	}
}

func TestCatalogCommand(t *testing.T) {
	out, err := execute(t, "", "catalog")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	for _, want := range []string{"BOSS", "INTERN", "/plan", "/format"} {
		if !strings.Contains(out, want) {
			t.Errorf("catalog output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "", "catalog", "--yaml")
	if err != nil {
		t.Fatalf("catalog --yaml: %v", err)
	}
	var specs []catalog.TierSpec
	if err := yaml.Unmarshal([]byte(out), &specs); err != nil {
		t.Fatalf("decoding yaml: %v", err)
	}
	if len(specs) != 4 {
		t.Errorf("got %d tiers, want 4", len(specs))
	}
}

func TestRunCommand(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		want    []string
		wantErr string
	}{
		{
			name:   "staffs and delegates",
			script: "spawn boss\nspawn supervisor 1\ndelegate 1 research\n",
			want:   []string{"hired BOSS 1", "#1 → #2 /research (pending)", "achievement unlocked: First Hire"},
		},
		{
			name:    "stops at a bad line",
			script:  "spawn boss\nfire everyone\n",
			want:    []string{"hired BOSS 1"},
			wantErr: "line 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "office.pix", tt.script)
			out, err := execute(t, "", "run", path)
			if tt.wantErr == "" && err != nil {
				t.Fatalf("run: %v", err)
			}
			if tt.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tt.wantErr)) {
				t.Fatalf("run error = %v, want %q", err, tt.wantErr)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestRunCommand_Quiet(t *testing.T) {
	path := writeFile(t, "office.pix", "spawn boss\n")
	out, err := execute(t, "", "run", "--quiet", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Contains(out, "achievement unlocked") {
		t.Errorf("quiet run printed notifications:\n%s", out)
	}
}

func TestRunCommand_Events(t *testing.T) {
	path := writeFile(t, "office.pix", "spawn boss\n//pixelhq:stealth\nspawn supervisor 1\n")
	out, err := execute(t, "", "run", "--quiet", "--events", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	_, log, ok := strings.Cut(out, "--- events\n")
	if !ok {
		t.Fatalf("no event log:\n%s", out)
	}
	if !strings.Contains(log, "agent_changed agent=1") {
		t.Errorf("event log missing the boss hire:\n%s", log)
	}
	if strings.Contains(log, "agent=2") {
		t.Errorf("events were recorded under stealth:\n%s", log)
	}
}

func TestShellCommand(t *testing.T) {
	out, err := execute(t, "spawn boss\nbogus\n//pixelhq:turbo\nexit\nspawn boss\n", "shell")
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	for _, want := range []string{"pixelhq session ", "hired BOSS 1", "error: unknown command", "Turbo Mode on"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "hired") != 1 {
		t.Errorf("commands after exit were run:\n%s", out)
	}
}

func TestConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixelhq.yaml")

	if _, err := execute(t, "", "config", "init", "--config", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := execute(t, "", "config", "init", "--config", path); err == nil {
		t.Error("second init without --force succeeded")
	}

	out, err := execute(t, "", "config", "xp.rate", "1.5", "--config", path)
	if err != nil {
		t.Fatalf("config set: %v", err)
	}
	if !strings.Contains(out, "Set xp.rate = 1.5") {
		t.Errorf("set output = %q", out)
	}

	out, err = execute(t, "", "config", "xp.rate", "--config", path)
	if err != nil {
		t.Fatalf("config get: %v", err)
	}
	if strings.TrimSpace(out) != "1.5" {
		t.Errorf("xp.rate = %q, want 1.5", out)
	}

	cfg, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.XP.Rate != 1.5 {
		t.Errorf("saved xp.rate = %v", cfg.XP.Rate)
	}
}

func TestConfigValues(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{key: "tiers.intern.capacity", value: "20"},
		{key: "office.tick_rate", value: "500ms"},
		{key: "modifiers.durations.turbo", value: "10m0s"},
		{key: "log.level", value: "debug"},
		{key: "tiers.ceo.capacity", value: "1", wantErr: true},
		{key: "office.tick_rate", value: "soon", wantErr: true},
		{key: "modifiers.durations.nitro", value: "1m", wantErr: true},
		{key: "nope", value: "1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := config.Default()
			err := setConfigValue(cfg, tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("setConfigValue: %v", err)
			}
			got, err := getConfigValue(cfg, tt.key)
			if err != nil {
				t.Fatalf("getConfigValue: %v", err)
			}
			if got != tt.value {
				t.Errorf("got %q, want %q", got, tt.value)
			}
		})
	}
}

func TestConfigSet_RejectsInvalid(t *testing.T) {
	if _, err := execute(t, "", "config", "xp.rate", "0.5"); err == nil {
		t.Error("expected validation error")
	}
}
