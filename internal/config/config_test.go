package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/notator/internal/config"
)

func writeConfig(t *testing.T, home string, data map[string]any) {
	t.Helper()

	configPath := config.GetConfigPath(home)
	require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o755))

	raw, err := yaml.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(configPath, raw, 0o644))
}

func TestLoadEmptyFileAppliesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	writeConfig(t, home, map[string]any{})

	cfg, err := config.Load(home)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "notator"), cfg.NotesDir)
	assert.Equal(t, "md", cfg.Extension)
	assert.Equal(t, filepath.Join(home, ".notator", "session.yaml"), cfg.SessionFile)
	assert.Equal(t, 10*time.Second, cfg.Autosave.Interval)
	assert.Equal(t, 2*time.Second, cfg.Timer.DoubleTriggerWindow)
	assert.Equal(t, config.DefaultTimerPresets, cfg.Timer.Presets)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Less(t, cfg.Zoom.Min, cfg.Zoom.Max)
	assert.Equal(t, cfg.NotesDir, viper.GetString("notes_dir"))
}

func TestLoadParsesDurationsAndExpandsHome(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	writeConfig(t, home, map[string]any{
		"notes_dir": "~/writing",
		"extension": ".txt",
		"autosave":  map[string]any{"interval": "45s"},
		"timer": map[string]any{
			"presets":               []string{"1m", "25m"},
			"double_trigger_window": "1500ms",
		},
		"keymap": map[string]string{"save": "ctrl+s,f2"},
	})

	cfg, err := config.Load(home)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "writing"), cfg.NotesDir)
	assert.Equal(t, "txt", cfg.Extension)
	assert.Equal(t, 45*time.Second, cfg.Autosave.Interval)
	assert.Equal(t, []time.Duration{time.Minute, 25 * time.Minute}, cfg.Timer.Presets)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timer.DoubleTriggerWindow)
	assert.Equal(t, "ctrl+s,f2", cfg.Keymap["save"])
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	writeConfig(t, home, map[string]any{"notes_dir": filepath.Join(home, "from-file")})

	override := filepath.Join(home, "from-env")
	t.Setenv("NOTATOR_NOTES_DIR", override)
	t.Setenv("NOTATOR_AUTOSAVE_INTERVAL", "3s")

	cfg, err := config.Load(home)
	require.NoError(t, err)

	assert.Equal(t, override, cfg.NotesDir)
	assert.Equal(t, 3*time.Second, cfg.Autosave.Interval)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want string
	}{
		{
			name: "inverted zoom range",
			data: map[string]any{"zoom": map[string]any{"min": 4, "max": 1, "default": 2}},
			want: "invalid zoom range",
		},
		{
			name: "default zoom outside range",
			data: map[string]any{"zoom": map[string]any{"min": -1, "max": 1, "default": 5}},
			want: "invalid default zoom",
		},
		{
			name: "negative preset",
			data: map[string]any{"timer": map[string]any{"presets": []string{"-1m"}}},
			want: "invalid timer preset",
		},
		{
			name: "unknown log level",
			data: map[string]any{"log": map[string]any{"level": "chatty"}},
			want: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			writeConfig(t, home, tt.data)

			_, err := config.Load(home)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	require.NoError(t, config.EnsureConfigExists(home))

	cfg, err := config.Load(home)
	require.NoError(t, err)

	require.NoError(t, cfg.SetNotesDir("~/drafts"))
	require.NoError(t, cfg.SetKeys("timer-start", []string{"ctrl+t", "f5"}))

	reloaded, err := config.Load(home)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "drafts"), reloaded.NotesDir)
	assert.Equal(t, "ctrl+t,f5", reloaded.Keymap["timer-start"])
	assert.Equal(t, cfg.Autosave.Interval, reloaded.Autosave.Interval)
}

func TestEnsureConfigExistsCreatesFile(t *testing.T) {
	home := t.TempDir()

	require.NoError(t, config.EnsureConfigExists(home))

	_, err := os.Stat(config.GetConfigPath(home))
	assert.NoError(t, err)
}

func TestSetNotesDirRejectsEmpty(t *testing.T) {
	cfg := config.Default(t.TempDir())
	assert.Error(t, cfg.SetNotesDir("   "))
}
