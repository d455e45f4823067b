package validatinator

import (
	"errors"
	"fmt"
)

var (
	ErrEngineNotInitialized         = errors.New("engine was not built with New")
	ErrUnknownValidation            = errors.New("validation does not exist")
	ErrValidationAlreadyRegistered  = errors.New("a validation with this name is already registered")
	ErrNilPredicate                 = errors.New("predicate cannot be nil")
	ErrEmptyValidationName          = errors.New("validation name cannot be empty")
	ErrMissingParameter             = errors.New("validation is missing a required parameter")
	ErrInvalidParameter             = errors.New("invalid validation parameter")
	ErrInvalidDeclaration           = errors.New("invalid rule declaration")
	ErrInvalidMessages              = errors.New("invalid message declaration")
	ErrUnsupportedDeclarationFormat = errors.New("unsupported declaration file format")
	ErrNoAccessor                   = errors.New("no accessor configured for engine")
	ErrUnknownForm                  = errors.New("no source bound for form")
	ErrNoRequest                    = errors.New("no request to read from")
	ErrUnknownField                 = errors.New("field not found on source")
	ErrUnsupportedFieldType         = errors.New("unsupported field type")
	ErrInvalidStructSource          = errors.New("struct source must be a non-nil pointer to a struct")
)

// ConfigError reports a misconfiguration found while running the
// validations of a form. It aborts the run.
type ConfigError struct {
	Form  string
	Field string
	Rule  string
	Err   error
}

// Error implements the error interface
func (ce *ConfigError) Error() string {
	if ce.Rule == "" {
		return fmt.Sprintf("form %q field %q: %v", ce.Form, ce.Field, ce.Err)
	}
	return fmt.Sprintf("form %q field %q rule %q: %v", ce.Form, ce.Field, ce.Rule, ce.Err)
}

func (ce *ConfigError) Unwrap() error {
	return ce.Err
}

// IsConfigError reports whether err carries a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
