package constants

import "time"

const (
	Version        = `0.1.0`
	AppName        = `notator`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.notator/`
	SessionFile    = `session.yaml`
	LogFile        = `notator.log`
	EnvPrefix      = `NOTATOR`

	DefaultNotesDir  = `notator`
	DefaultExtension = `md`

	DefaultAutosaveInterval    = 10 * time.Second
	DefaultDoubleTriggerWindow = 2 * time.Second
	StatusMessageLifetime      = 2 * time.Second
	BatteryPollInterval        = time.Minute

	DefaultZoom = 0
	MinZoom     = -3
	MaxZoom     = 6
)
