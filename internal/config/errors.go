package config

import (
	"fmt"
	"os"
)

// PermissionError reports a config file or directory arise cannot access.
type PermissionError struct {
	Path    string
	Op      string // "read" or "write"
	Fix     string
	Details string
}

func (e *PermissionError) Error() string {
	msg := fmt.Sprintf("permission denied (cannot %s config): %s\n", e.Op, e.Path)
	if e.Details != "" {
		msg += e.Details + "\n"
	}
	return msg + hint("Fix: "+e.Fix)
}

// Is makes errors.Is(err, os.ErrPermission) hold.
func (e *PermissionError) Is(target error) bool { return target == os.ErrPermission }

// ConfigNotFoundError reports a missing config file.
type ConfigNotFoundError struct {
	Path string
	Hint string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s\n\n%s", e.Path, hint(e.Hint))
}

// Is makes errors.Is(err, os.ErrNotExist) hold.
func (e *ConfigNotFoundError) Is(target error) bool { return target == os.ErrNotExist }

// InvalidConfigError reports a config that fails to parse or validate.
type InvalidConfigError struct {
	Path    string
	Message string
	Hint    string
}

func (e *InvalidConfigError) Error() string {
	msg := fmt.Sprintf("invalid config: %s\n", e.Path)
	if e.Message != "" {
		msg += e.Message + "\n"
	}
	if e.Hint != "" {
		msg += hint(e.Hint)
	}
	return msg
}

func hint(s string) string { return "💡 " + s }
