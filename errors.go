package gofwmod

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for synthesis and loading failures.
var (
	// ErrModuleTypeNotFound indicates a module references a type id absent
	// from the type catalog.
	ErrModuleTypeNotFound = errors.New("module type not found")

	// ErrTooManyArguments indicates a module supplies more arguments than its
	// type declares.
	ErrTooManyArguments = errors.New("too many arguments")

	// ErrNotEnoughArguments indicates a module omits an argument that has no
	// default on its type.
	ErrNotEnoughArguments = errors.New("not enough arguments")

	// ErrDescriptorNotFound indicates a library directory has no module
	// descriptor file.
	ErrDescriptorNotFound = errors.New("module descriptor not found")
)

// ReferenceError is returned when a module names a type that is not in the
// type catalog.
type ReferenceError struct {
	ModuleID string
	TypeID   string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("module %q references unknown module type %q", e.ModuleID, e.TypeID)
}

// Unwrap allows errors.Is(err, ErrModuleTypeNotFound).
func (e *ReferenceError) Unwrap() error {
	return ErrModuleTypeNotFound
}

// ArgumentError is returned when a module's positional arguments cannot be
// reconciled with its type's argument list.
type ArgumentError struct {
	ModuleID string

	// Got is the number of arguments available when the failure was detected.
	Got int

	// Expected is the number of arguments the type declares.
	Expected int

	// Reason is ErrTooManyArguments or ErrNotEnoughArguments.
	Reason error
}

func (e *ArgumentError) Error() string {
	if errors.Is(e.Reason, ErrTooManyArguments) {
		return fmt.Sprintf("too many arguments specified for module %q (got %d, expected %d)",
			e.ModuleID, e.Got, e.Expected)
	}
	return fmt.Sprintf("not enough arguments supplied for module %q (got %d, expecting %d)",
		e.ModuleID, e.Got, e.Expected)
}

func (e *ArgumentError) Unwrap() error {
	return e.Reason
}

// FieldError represents a problem with a specific field of a catalog entry.
type FieldError struct {
	Field   string // Field path (e.g., `modules["pump"].type`)
	Message string
}

func (e *FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationErrors collects multiple field errors.
type ValidationErrors struct {
	Errors []*FieldError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation errors:", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&b, "\n  - %s", err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying errors for errors.Is/As compatibility.
func (e *ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Add appends a validation error.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &FieldError{Field: field, Message: message})
}

// HasErrors returns true if any errors were collected.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// ToError returns nil if no errors, otherwise returns self.
func (e *ValidationErrors) ToError() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}
