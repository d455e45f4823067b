package validatinator

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// FieldError is one failed rule of one field.
type FieldError struct {
	Field   string
	Method  string
	Message string
	Params  []Value
}

// ErrorStore collects the failures of a single validation run, grouped
// by field in the order the fields were validated.
//
// The zero ErrorStore is empty and ready to use.
type ErrorStore struct {
	fields  []string
	byField map[string][]FieldError
}

// Add records a failure.
func (es *ErrorStore) Add(fe FieldError) {
	if es.byField == nil {
		es.byField = make(map[string][]FieldError)
	}
	if _, seen := es.byField[fe.Field]; !seen {
		es.fields = append(es.fields, fe.Field)
	}
	es.byField[fe.Field] = append(es.byField[fe.Field], fe)
}

// IsEmpty reports whether the run recorded no failure.
func (es ErrorStore) IsEmpty() bool {
	return len(es.fields) == 0
}

// Len returns the number of failed rules.
func (es ErrorStore) Len() int {
	n := 0
	for _, errs := range es.byField {
		n += len(errs)
	}
	return n
}

// Has reports whether field has at least one failure.
func (es ErrorStore) Has(field string) bool {
	return len(es.byField[field]) > 0
}

// Get returns the messages recorded for field, in rule order.
func (es ErrorStore) Get(field string) []string {
	errs := es.byField[field]
	if len(errs) == 0 {
		return nil
	}
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, fe.Message)
	}
	return messages
}

// GetErrors returns the detailed failures recorded for field.
func (es ErrorStore) GetErrors(field string) []FieldError {
	return slices.Clone(es.byField[field])
}

// Fields returns the fields with failures, in validation order.
func (es ErrorStore) Fields() []string {
	return slices.Clone(es.fields)
}

// Map returns field -> messages.
func (es ErrorStore) Map() map[string][]string {
	out := make(map[string][]string, len(es.fields))
	for _, field := range es.fields {
		out[field] = es.Get(field)
	}
	return out
}

// Clone returns a deep copy, so the copy survives later runs.
func (es ErrorStore) Clone() ErrorStore {
	clone := ErrorStore{fields: slices.Clone(es.fields)}
	if es.byField != nil {
		clone.byField = make(map[string][]FieldError, len(es.byField))
		for field, errs := range es.byField {
			clone.byField[field] = slices.Clone(errs)
		}
	}
	return clone
}

// Err returns nil for an empty store, otherwise a ValidationErrors error.
func (es ErrorStore) Err() error {
	if es.IsEmpty() {
		return nil
	}
	verrs := make(ValidationErrors, 0, es.Len())
	for _, field := range es.fields {
		verrs = append(verrs, es.byField[field]...)
	}
	return verrs
}

///////////////////////////////////////////////////////////////////////////////
// ValidationErrors
///////////////////////////////////////////////////////////////////////////////

// ValidationErrors is the error form of a non-empty ErrorStore.
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ExtractValidationErrors extracts ValidationErrors from an error.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return nil
}
