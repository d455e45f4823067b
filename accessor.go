package validatinator

// Accessor fetches the current value of a form field. The engine calls it
// synchronously during a run, so implementations must not block.
type Accessor interface {
	Value(form, field string) (string, error)
}

// AccessorFunc adapts a function to Accessor.
type AccessorFunc func(form, field string) (string, error)

func (f AccessorFunc) Value(form, field string) (string, error) {
	return f(form, field)
}

// MapAccessor serves values from an in-memory form -> field -> value map.
// Missing forms and fields read as the empty string.
type MapAccessor map[string]map[string]string

func (m MapAccessor) Value(form, field string) (string, error) {
	return m[form][field], nil
}

// Set stores a value, creating the form entry when needed.
func (m MapAccessor) Set(form, field, value string) {
	if m[form] == nil {
		m[form] = make(map[string]string)
	}
	m[form][field] = value
}
