package models

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrNotFound             = errors.New("not found")
	ErrAmbiguous            = errors.New("ambiguous reference")
	ErrAlreadyExists        = errors.New("already exists")
	ErrTimerAlreadyRunning  = errors.New("timer already running")
	ErrTimerIsNotRunning    = errors.New("timer is not running")
	ErrNoDefaultTask        = errors.New("no default task")
	ErrInvalidColor         = errors.New("invalid color")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrValidation           = errors.New("validation failed")
	ErrStorage              = errors.New("storage error")
)

// Error carries the kind of failure plus whatever context produced it.
type Error struct {
	Kind    error
	Model   string
	Ref     string
	Project string
	Task    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case ErrNotFound:
		if e.Ref == "" {
			return fmt.Sprintf("%s not found", e.Model)
		}
		return fmt.Sprintf("%s %q not found", e.Model, e.Ref)
	case ErrAmbiguous:
		return fmt.Sprintf("%s reference %q is ambiguous", e.Model, e.Ref)
	case ErrAlreadyExists:
		return fmt.Sprintf("%s %q already exists", e.Model, e.Ref)
	case ErrTimerAlreadyRunning:
		return fmt.Sprintf("timer already running for %s/%s", e.Project, e.Task)
	case ErrNoDefaultTask:
		return fmt.Sprintf("project %q has no default task", e.Project)
	case ErrInvalidColor:
		return fmt.Sprintf("invalid color %q: expected #rrggbb", e.Ref)
	case ErrStorage:
		if e.Err != nil {
			return fmt.Sprintf("storage error: %v", e.Err)
		}
		return "storage error"
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "unknown error"
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(model, ref string) error {
	return &Error{Kind: ErrNotFound, Model: model, Ref: ref}
}

func Ambiguous(model, ref string) error {
	return &Error{Kind: ErrAmbiguous, Model: model, Ref: ref}
}

func AlreadyExists(model, ref string) error {
	return &Error{Kind: ErrAlreadyExists, Model: model, Ref: ref}
}

// TimerAlreadyRunning names the project and task of the entry that is running.
func TimerAlreadyRunning(project, task string) error {
	return &Error{Kind: ErrTimerAlreadyRunning, Project: project, Task: task}
}

func TimerIsNotRunning() error {
	return &Error{Kind: ErrTimerIsNotRunning}
}

func NoDefaultTask(project string) error {
	return &Error{Kind: ErrNoDefaultTask, Project: project}
}

func InvalidColor(value string) error {
	return &Error{Kind: ErrInvalidColor, Ref: value}
}

func InvalidConfiguration(key, value, reason string) error {
	return &Error{
		Kind:    ErrInvalidConfiguration,
		Model:   key,
		Ref:     value,
		Message: fmt.Sprintf("invalid configuration %s=%q: %s", key, value, reason),
	}
}

func Validation(format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func StorageError(err error) error {
	return &Error{Kind: ErrStorage, Err: err}
}

var kindNames = []struct {
	kind error
	name string
}{
	{ErrNotFound, "not_found"},
	{ErrAmbiguous, "ambiguous"},
	{ErrAlreadyExists, "already_exists"},
	{ErrTimerAlreadyRunning, "timer_already_running"},
	{ErrTimerIsNotRunning, "timer_is_not_running"},
	{ErrNoDefaultTask, "no_default_task"},
	{ErrInvalidColor, "invalid_color"},
	{ErrInvalidConfiguration, "invalid_configuration"},
	{ErrValidation, "validation"},
	{ErrStorage, "storage"},
}

// KindName returns the wire name of the error's kind, or "" for foreign errors.
func KindName(err error) string {
	for _, k := range kindNames {
		if errors.Is(err, k.kind) {
			return k.name
		}
	}
	return ""
}

// KindFromName is the inverse of KindName.
func KindFromName(name string) error {
	for _, k := range kindNames {
		if k.name == name {
			return k.kind
		}
	}
	return nil
}
