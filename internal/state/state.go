package state

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Paintersrp/notator/internal/autosave"
	"github.com/Paintersrp/notator/internal/config"
	"github.com/Paintersrp/notator/internal/constants"
	"github.com/Paintersrp/notator/internal/keymap"
	"github.com/Paintersrp/notator/internal/logs"
	"github.com/Paintersrp/notator/internal/note"
	"github.com/Paintersrp/notator/internal/session"
	"github.com/Paintersrp/notator/internal/tabs"
	"github.com/Paintersrp/notator/internal/timer"
)

type State struct {
	Config   *config.Config
	Home     string
	Logger   *zap.Logger
	Store    *note.Store
	Tabs     *tabs.Model
	Session  *session.Manager
	Autosave *autosave.Scheduler
	Timer    *timer.Timer
	Keymap   *keymap.Keymap
	Watcher  *NotesWatcher

	closeOnce sync.Once
	closeErr  error
}

func NewState() (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	return New(home, cfg)
}

// New wires every component from cfg. Only an unusable notes directory or
// an invalid keymap is fatal; a missing log file or watcher degrades
// quietly.
func New(home string, cfg *config.Config) (*State, error) {
	logger, err := logs.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		logger = zap.NewNop()
	}

	km, err := keymap.New(cfg.Keymap)
	if err != nil {
		return nil, fmt.Errorf("invalid keymap: %w", err)
	}

	store, err := note.NewStore(cfg.NotesDir, cfg.Extension, note.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("notes directory is not usable: %w", err)
	}

	tm := tabs.New(
		store,
		tabs.WithZoom(cfg.Zoom.Min, cfg.Zoom.Max, cfg.Zoom.Default),
		tabs.WithLogger(logger),
	)
	sm := session.NewManager(cfg.SessionFile, tm, session.WithLogger(logger))
	as := autosave.New(tm, sm, cfg.Autosave.Interval, autosave.WithLogger(logger))
	tmr := timer.New(
		timer.WithPresets(cfg.Timer.Presets),
		timer.WithWindow(cfg.Timer.DoubleTriggerWindow),
	)

	watcher, err := NewNotesWatcher(store.Dir(), store.Ext())
	if err != nil {
		logger.Warn("notes watcher unavailable", zap.Error(err))
		watcher = nil
	} else {
		watcher.OnChange(func(msg NoteChangedMsg) {
			logger.Debug("note changed on disk", zap.String("path", msg.Path), zap.Bool("removed", msg.Removed))
		})
	}

	logger.Info(
		"state ready",
		zap.String("notes_dir", store.Dir()),
		zap.String("session", cfg.SessionFile),
		zap.Duration("autosave", cfg.Autosave.Interval),
	)

	return &State{
		Config:   cfg,
		Home:     home,
		Logger:   logger,
		Store:    store,
		Tabs:     tm,
		Session:  sm,
		Autosave: as,
		Timer:    tmr,
		Keymap:   km,
		Watcher:  watcher,
	}, nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	viper.AddConfigPath(home + constants.ConfigDir)
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)
	_ = viper.ReadInConfig()

	if err := config.EnsureConfigExists(home); err != nil {
		return nil, err
	}

	return config.Load(home)
}

// Restore reopens the previous session unless fresh is set, then opens
// files. Session problems are recorded as warnings and never abort startup;
// files that cannot be opened are returned as errors.
func (s *State) Restore(files []string, fresh bool) error {
	if !fresh {
		if _, err := s.Session.Restore(); err != nil {
			s.Logger.Warn("session restore failed", zap.Error(err))
		}
	}

	var errs []error
	for _, f := range files {
		if _, err := s.Tabs.Open(f); err != nil {
			errs = append(errs, err)
		}
	}

	if s.Tabs.Len() > 1 {
		if first := s.Tabs.Tabs()[0]; !first.Note.Bound() && !first.Dirty {
			_ = s.Tabs.Close(first, true)
		}
	}
	if s.Tabs.Len() == 0 {
		if _, err := s.Tabs.Open(""); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Shutdown stops autosave, persists the session and releases resources.
func (s *State) Shutdown() error {
	if s == nil {
		return nil
	}

	s.Autosave.Stop()
	err := s.Session.Shutdown()
	return errors.Join(err, s.Close())
}

// Close releases the watcher and flushes the logger.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	s.closeOnce.Do(func() {
		var errs []error
		if s.Watcher != nil {
			if err := s.Watcher.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if s.Logger != nil {
			_ = s.Logger.Sync()
		}
		s.closeErr = errors.Join(errs...)
	})

	return s.closeErr
}
