package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError is a single invalid setting.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every invalid setting found by Validate.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogLevels lists the accepted logging.level values.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats lists the accepted logging.format values.
func ValidLogFormats() []string {
	return []string{"text", "json"}
}

// Validate returns every problem in c, or nil.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, ValidationError{Field: "database.path", Value: c.Database.Path, Message: "must not be empty"})
	}

	if !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: "must be one of " + strings.Join(ValidLogLevels(), ", "),
		})
	}
	if !slices.Contains(ValidLogFormats(), c.Logging.Format) {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Value:   c.Logging.Format,
			Message: "must be one of " + strings.Join(ValidLogFormats(), ", "),
		})
	}
	if c.Logging.MaxSizeMB < 0 {
		errs = append(errs, ValidationError{Field: "logging.max_size_mb", Value: c.Logging.MaxSizeMB, Message: "must not be negative"})
	}
	if c.Logging.MaxBackups < 0 {
		errs = append(errs, ValidationError{Field: "logging.max_backups", Value: c.Logging.MaxBackups, Message: "must not be negative"})
	}

	if strings.TrimSpace(c.Audit.Actor) == "" {
		errs = append(errs, ValidationError{Field: "audit.actor", Value: c.Audit.Actor, Message: "must not be empty"})
	}
	return errs
}
