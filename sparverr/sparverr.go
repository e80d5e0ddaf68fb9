// Package sparverr defines the error taxonomy shared across the pipeline
// engine. Errors are classified by [Kind], not by Go type, so that callers
// at the CLI boundary can decide whether to print a friendly message or a
// full trace without needing to know which package raised the error.
package sparverr

import (
	"errors"
	"fmt"
)

// Kind classifies an [Error] by where in the pipeline it originated.
type Kind int

const (
	// Configuration covers unknown/misspelled keys, schema validation
	// failures, unresolvable classes, conflicting bindings, and unknown
	// targets. Always reported before any worker starts.
	Configuration Kind = iota
	// Registry covers function-registration collisions, dependency
	// cycles, and missing declarators. Reported at graph build.
	Registry
	// MissingPrerequisite covers an absent binary, an undownloadable
	// model, or a missing source file.
	MissingPrerequisite
	// TaskFailure covers a worker or child process exiting non-zero.
	TaskFailure
	// Internal covers corrupted artifacts and hash mismatches beyond
	// repair. The work directory is preserved for inspection.
	Internal
)

// String returns a lowercase label for the kind, used in log output.
func (k Kind) String() string {
	switch k {
	case Configuration:
		return "configuration"
	case Registry:
		return "registry"
	case MissingPrerequisite:
		return "missing_prerequisite"
	case TaskFailure:
		return "task_failure"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a classified pipeline error. Path, Rule, and File are filled in
// by whichever is relevant to the Kind; unused fields are left empty.
type Error struct {
	Kind Kind
	Path string // config path, for Configuration
	Rule string // function/rule id, for Registry/TaskFailure
	File string // source file name, for TaskFailure/MissingPrerequisite
	Err  error
}

func (e *Error) Error() string {
	var loc string

	switch {
	case e.File != "" && e.Rule != "":
		loc = fmt.Sprintf("%s: %s: ", e.File, e.Rule)
	case e.Rule != "":
		loc = fmt.Sprintf("%s: ", e.Rule)
	case e.Path != "":
		loc = fmt.Sprintf("%s: ", e.Path)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s%s: %v", loc, e.Kind, e.Err)
	}

	return fmt.Sprintf("%s%s", loc, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// IsUserError reports whether err should be printed without a stack trace:
// every Kind except Internal is considered user-facing.
func IsUserError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind != Internal
	}

	return false
}

// Configf builds a Configuration error for the given config path.
func Configf(path string, format string, args ...any) error {
	return &Error{Kind: Configuration, Path: path, Err: fmt.Errorf(format, args...)}
}

// Registryf builds a Registry error, optionally naming a rule id.
func Registryf(rule string, format string, args ...any) error {
	return &Error{Kind: Registry, Rule: rule, Err: fmt.Errorf(format, args...)}
}

// MissingPrereq builds a MissingPrerequisite error for a rule/file pair.
func MissingPrereq(rule, file string, err error) error {
	return &Error{Kind: MissingPrerequisite, Rule: rule, File: file, Err: err}
}

// TaskFailed builds a TaskFailure error for a rule/file pair.
func TaskFailed(rule, file string, err error) error {
	return &Error{Kind: TaskFailure, Rule: rule, File: file, Err: err}
}

// Internalf builds an Internal invariant-violation error.
func Internalf(format string, args ...any) error {
	return &Error{Kind: Internal, Err: fmt.Errorf(format, args...)}
}
