package validatinator

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

///////////////////////////////////////////////////////////////////////////////
// Helpers
///////////////////////////////////////////////////////////////////////////////

// Render a struct field the way a form would submit it
//
// Currently supports:
//   - string
//   - int and uint kinds
//   - float32 and float64 (shortest representation)
//   - bool ("true" / "false")
//   - []byte (raw bytes)
//   - uuid.UUID (uuid.Nil reads as empty)
//   - time.Time as RFC3339 (the zero time reads as empty)
//   - encoding.TextMarshaler and fmt.Stringer for custom types
//   - pointers and interfaces to any of the above (nil reads as empty)
func fieldString(field reflect.Value) (string, error) {
	for field.Kind() == reflect.Ptr || field.Kind() == reflect.Interface {
		if field.IsNil() {
			return "", nil
		}
		field = field.Elem()
	}

	if !field.IsValid() {
		return "", nil
	}

	switch field.Type() {
	case UUIDType:
		id := field.Interface().(uuid.UUID)
		if id == uuid.Nil {
			return "", nil
		}
		return id.String(), nil
	case TimeType:
		t := field.Interface().(time.Time)
		if t.IsZero() {
			return "", nil
		}
		return t.Format(time.RFC3339), nil
	}

	if s, ok, err := marshalText(field); ok {
		return s, err
	}

	switch field.Kind() {
	case reflect.String:
		return field.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(field.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(field.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(field.Float(), 'f', -1, field.Type().Bits()), nil
	case reflect.Bool:
		return strconv.FormatBool(field.Bool()), nil
	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.Uint8 {
			return string(field.Bytes()), nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedFieldType, field.Type())
}

// marshalText renders field through encoding.TextMarshaler or
// fmt.Stringer when it, or its address, implements one of them.
func marshalText(field reflect.Value) (string, bool, error) {
	if !field.CanInterface() {
		return "", false, nil
	}

	candidates := []any{field.Interface()}
	if field.CanAddr() {
		candidates = append(candidates, field.Addr().Interface())
	}

	for _, candidate := range candidates {
		switch v := candidate.(type) {
		case encoding.TextMarshaler:
			text, err := v.MarshalText()
			if err != nil {
				return "", true, fmt.Errorf("error marshaling %T: %w", candidate, err)
			}
			return string(text), true, nil
		case fmt.Stringer:
			return v.String(), true, nil
		}
	}
	return "", false, nil
}

// isSpecialStructType checks if a struct type should be treated as a primitive
// rather than being walked into. Special types include time.Time, uuid.UUID, etc.
func isSpecialStructType(t reflect.Type) bool {
	// List of struct types that should be treated as primitives
	specialTypes := []reflect.Type{TimeType, UUIDType}

	for _, specialType := range specialTypes {
		if t == specialType {
			return true
		}
	}
	return false
}
