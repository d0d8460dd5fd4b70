// This file adds a lightweight linter/validator for Config values. It
// performs static checks over a decoded Config and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Config.
//
// Path is a dotted path into the config (e.g. "storage.kind"); Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// knownKinds mirrors the backends wired in storage/all. Validation is static,
// so this list is duplicated here instead of importing the drivers.
var knownKinds = map[string]bool{
	"mssql":    true,
	"mysql":    true,
	"postgres": true,
	"sqlite":   true,
}

// Validate performs static validation of a Config. It does not mutate the
// config; callers decide whether warnings are fatal.
func Validate(c Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.Job) == "" {
		issues = append(issues, Issue{SeverityWarning, "job", "job name is empty; logs and metrics will use a generic name"})
	}

	if strings.TrimSpace(c.Source.Path) == "" {
		issues = append(issues, Issue{SeverityError, "source.path", "input file path is required"})
	}
	if c.Source.Delimiter != "" && utf8.RuneCountInString(c.Source.Delimiter) > 1 {
		issues = append(issues, Issue{SeverityWarning, "source.delimiter", "delimiter has more than one rune; only the first is used"})
	}
	if !c.Source.HasHeader && len(c.Source.HeaderMap) > 0 {
		issues = append(issues, Issue{SeverityWarning, "source.header_map", "header_map has no effect when has_header is false"})
	}

	if strings.TrimSpace(c.Storage.Kind) == "" {
		issues = append(issues, Issue{SeverityError, "storage.kind", "storage kind is required"})
	} else if !knownKinds[c.Storage.Kind] {
		issues = append(issues, Issue{SeverityError, "storage.kind",
			fmt.Sprintf("unknown storage kind %q", c.Storage.Kind)})
	}
	if strings.TrimSpace(c.Storage.Table) == "" {
		issues = append(issues, Issue{SeverityError, "storage.table", "destination table is required"})
	}
	if strings.TrimSpace(c.Storage.DSN) == "" {
		issues = append(issues, Issue{SeverityError, "storage.dsn",
			fmt.Sprintf("no DSN configured and %s is not set", EnvDSN)})
	}
	if c.Storage.BatchSize < 0 {
		issues = append(issues, Issue{SeverityError, "storage.batch_size", "batch_size must be >= 0"})
	}

	return issues
}

// HasErrors reports whether any issue in the list has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}
