// Package errors provides custom error types for the overlaysync engine.
// These errors let collaborators tell a degraded catalog apart from a
// skipped tick or a failed persist without matching on message text.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Join returns an error that wraps the given errors, discarding nils.
var Join = errors.Join

// Sentinel errors for the overlaysync engine
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrCatalogLoad indicates the value catalog could not be loaded
	ErrCatalogLoad = errors.New("catalog load failed")

	// ErrDocumentLoad indicates the backing document could not be read
	ErrDocumentLoad = errors.New("document load failed")

	// ErrParse indicates content could not be decoded
	ErrParse = errors.New("parse failed")

	// ErrPersist indicates the document could not be replaced on disk
	ErrPersist = errors.New("persist failed")

	// ErrClosed indicates an operation on an engine that was already closed
	ErrClosed = errors.New("engine closed")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// CatalogLoadError is returned when the value catalog is unreadable or
// holds no key/array entries. Callers degrade to an empty catalog.
type CatalogLoadError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *CatalogLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("loading catalog %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("loading catalog %s: no key/value entries", e.Path)
}

// Unwrap implements errors.Unwrap
func (e *CatalogLoadError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CatalogLoadError) Is(target error) bool {
	return target == ErrCatalogLoad
}

// DocumentLoadError is returned when the backing document cannot be read.
type DocumentLoadError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *DocumentLoadError) Error() string {
	return fmt.Sprintf("loading document %s: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *DocumentLoadError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *DocumentLoadError) Is(target error) bool {
	return target == ErrDocumentLoad
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// PersistError is returned when writing the document back failed. Stage
// names the step that failed (create, write, sync, close, chmod, replace).
// The target file is untouched whenever a PersistError is returned.
type PersistError struct {
	Path  string
	Stage string
	Err   error
}

// Error implements the error interface
func (e *PersistError) Error() string {
	return fmt.Sprintf("persisting %s (%s): %v", e.Path, e.Stage, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *PersistError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *PersistError) Is(target error) bool {
	return target == ErrPersist
}

// NewPersistError creates a new PersistError
func NewPersistError(path, stage string, err error) *PersistError {
	return &PersistError{Path: path, Stage: stage, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "stat", "remove", "watch"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "load", "start", "close"
	Resource  string // "engine", "config", "server"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsCatalogLoad checks if an error is a catalog load error
func IsCatalogLoad(err error) bool {
	return errors.Is(err, ErrCatalogLoad)
}

// IsDocumentLoad checks if an error is a document load error
func IsDocumentLoad(err error) bool {
	return errors.Is(err, ErrDocumentLoad)
}

// IsParse checks if an error is a parse error
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsPersist checks if an error is a persist error
func IsPersist(err error) bool {
	return errors.Is(err, ErrPersist)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
