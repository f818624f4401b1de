package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/notator/internal/constants"
)

type AutosaveConfig struct {
	Interval time.Duration `yaml:"interval" json:"interval"`
}

type ZoomConfig struct {
	Min     int `yaml:"min"     json:"min"`
	Max     int `yaml:"max"     json:"max"`
	Default int `yaml:"default" json:"default"`
}

type TimerConfig struct {
	Presets             []time.Duration `yaml:"presets"               json:"presets"`
	DoubleTriggerWindow time.Duration   `yaml:"double_trigger_window" json:"double_trigger_window"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file"  json:"file"`
}

type Config struct {
	NotesDir    string            `yaml:"notes_dir"    json:"notes_dir"`
	Extension   string            `yaml:"extension"    json:"extension"`
	SessionFile string            `yaml:"session_file" json:"session_file"`
	Autosave    AutosaveConfig    `yaml:"autosave"     json:"autosave"`
	Zoom        ZoomConfig        `yaml:"zoom"         json:"zoom"`
	Timer       TimerConfig       `yaml:"timer"        json:"timer"`
	Hemingway   bool              `yaml:"hemingway"    json:"hemingway"`
	Keymap      map[string]string `yaml:"keymap"       json:"keymap"`
	Log         LogConfig         `yaml:"log"          json:"log"`

	home string `yaml:"-"`
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// DefaultTimerPresets mirrors the quick picks offered by the timer selector,
// excluding the trailing custom entry.
var DefaultTimerPresets = []time.Duration{
	30 * time.Second,
	3 * time.Minute,
	7 * time.Minute,
	11 * time.Minute,
}

// Default returns a configuration rooted at home with every default applied.
func Default(home string) *Config {
	cfg := &Config{home: home}
	cfg.ensureDefaults()
	return cfg
}

func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	cfg.home = home

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.syncViper()
	return cfg, nil
}

func (cfg *Config) ensureDefaults() {
	cfg.NotesDir = expandHome(cfg.home, strings.TrimSpace(cfg.NotesDir))
	if cfg.NotesDir == "" {
		cfg.NotesDir = filepath.Join(cfg.home, constants.DefaultNotesDir)
	}

	cfg.Extension = strings.TrimPrefix(strings.TrimSpace(cfg.Extension), ".")
	if cfg.Extension == "" {
		cfg.Extension = constants.DefaultExtension
	}

	cfg.SessionFile = expandHome(cfg.home, strings.TrimSpace(cfg.SessionFile))
	if cfg.SessionFile == "" {
		cfg.SessionFile = filepath.Join(cfg.home, constants.ConfigDir, constants.SessionFile)
	}

	if cfg.Autosave.Interval == 0 {
		cfg.Autosave.Interval = constants.DefaultAutosaveInterval
	}

	if cfg.Zoom.Min == 0 && cfg.Zoom.Max == 0 {
		cfg.Zoom.Min = constants.MinZoom
		cfg.Zoom.Max = constants.MaxZoom
	}

	if len(cfg.Timer.Presets) == 0 {
		cfg.Timer.Presets = append([]time.Duration(nil), DefaultTimerPresets...)
	}
	if cfg.Timer.DoubleTriggerWindow == 0 {
		cfg.Timer.DoubleTriggerWindow = constants.DefaultDoubleTriggerWindow
	}

	if cfg.Keymap == nil {
		cfg.Keymap = make(map[string]string)
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.Log.File = expandHome(cfg.home, strings.TrimSpace(cfg.Log.File))
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.home, constants.ConfigDir, constants.LogFile)
	}
}

// Validate reports the first setting that would leave the editor in an
// unusable state.
func (cfg *Config) Validate() error {
	if cfg.Autosave.Interval < 0 {
		return fmt.Errorf("invalid autosave interval %s: must be positive", cfg.Autosave.Interval)
	}

	if cfg.Zoom.Min > cfg.Zoom.Max {
		return fmt.Errorf("invalid zoom range: min %d is greater than max %d", cfg.Zoom.Min, cfg.Zoom.Max)
	}
	if cfg.Zoom.Default < cfg.Zoom.Min || cfg.Zoom.Default > cfg.Zoom.Max {
		return fmt.Errorf(
			"invalid default zoom %d: must be within [%d, %d]",
			cfg.Zoom.Default,
			cfg.Zoom.Min,
			cfg.Zoom.Max,
		)
	}

	for _, preset := range cfg.Timer.Presets {
		if preset <= 0 {
			return fmt.Errorf("invalid timer preset %s: must be positive", preset)
		}
	}
	if cfg.Timer.DoubleTriggerWindow < 0 {
		return fmt.Errorf("invalid double trigger window %s", cfg.Timer.DoubleTriggerWindow)
	}

	if strings.ContainsAny(cfg.Extension, `/\`) {
		return fmt.Errorf("invalid extension %q", cfg.Extension)
	}

	if _, ok := validLogLevels[cfg.Log.Level]; !ok {
		return fmt.Errorf(
			"invalid log level: %q. Please choose from 'debug', 'info', 'warn', or 'error'",
			cfg.Log.Level,
		)
	}

	return nil
}

// applyEnvOverrides lets NOTATOR_* variables win over the file, using a
// private viper instance so repeated loads never see stale Set values.
func (cfg *Config) applyEnvOverrides() error {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if dir := v.GetString("notes_dir"); dir != "" {
		cfg.NotesDir = dir
	}
	if ext := v.GetString("extension"); ext != "" {
		cfg.Extension = ext
	}
	if session := v.GetString("session_file"); session != "" {
		cfg.SessionFile = session
	}
	if level := v.GetString("log.level"); level != "" {
		cfg.Log.Level = level
	}
	if raw := v.GetString("autosave.interval"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid %s_AUTOSAVE_INTERVAL: %w", constants.EnvPrefix, err)
		}
		cfg.Autosave.Interval = interval
	}

	return nil
}

func (cfg *Config) syncViper() {
	viper.Set("notes_dir", cfg.NotesDir)
	viper.Set("extension", cfg.Extension)
	viper.Set("session_file", cfg.SessionFile)
	viper.Set("autosave.interval", cfg.Autosave.Interval)
	viper.Set("hemingway", cfg.Hemingway)
	viper.Set("log.level", cfg.Log.Level)
}

func (cfg *Config) GetConfigPath() string {
	if cfg.home != "" {
		return GetConfigPath(cfg.home)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return GetConfigPath(homeDir)
}

// SetNotesDir updates and persists the notes directory.
func (cfg *Config) SetNotesDir(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return fmt.Errorf("notes directory cannot be empty")
	}
	cfg.NotesDir = expandHome(cfg.home, dir)
	return cfg.Save()
}

// SetKeys rebinds a command and persists the change. Command names are
// checked by the keymap when the editor starts.
func (cfg *Config) SetKeys(command string, keys []string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if cfg.Keymap == nil {
		cfg.Keymap = make(map[string]string)
	}
	cfg.Keymap[command] = strings.Join(keys, ",")
	return cfg.Save()
}

func (cfg *Config) Save() error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	cfg.syncViper()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := cfg.GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

func expandHome(home, path string) string {
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
