package config

import "fmt"

// ConfigInitError reports a configuration that parsed but cannot start the
// editor.
type ConfigInitError struct {
	Field string
	msg   string
}

func (e *ConfigInitError) Error() string {
	if e.Field == "" {
		return e.msg
	}
	return fmt.Sprintf("config %s: %s", e.Field, e.msg)
}
