package validatinator

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// StructAccessor reads field values from the struct bound to each form.
//
// A field identifier matches the `form` tag of an exported field, or
// its Go name when it has no tag. Nested structs are addressed with dots,
// as in "Address.City". Fields tagged `form:"-"` are not visible.
//
// The struct is bound by pointer, so a run always sees the current field
// values.
type StructAccessor struct {
	mu      sync.RWMutex
	sources map[string]reflect.Value

	indexMu sync.RWMutex
	indexes map[reflect.Type]map[string][]int
}

func NewStructAccessor() *StructAccessor {
	return &StructAccessor{
		sources: make(map[string]reflect.Value),
		indexes: make(map[reflect.Type]map[string][]int),
	}
}

// Bind binds a pointer to a struct to form.
func (sa *StructAccessor) Bind(form string, source any) error {
	v := reflect.ValueOf(source)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %T", ErrInvalidStructSource, source)
	}

	sa.mu.Lock()
	defer sa.mu.Unlock()

	if sa.sources == nil {
		sa.sources = make(map[string]reflect.Value)
	}
	sa.sources[form] = v
	return nil
}

// Value implements Accessor.
func (sa *StructAccessor) Value(form, field string) (string, error) {
	sa.mu.RLock()
	source, ok := sa.sources[form]
	sa.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownForm, form)
	}

	current := source.Elem()
	for _, segment := range strings.Split(field, ".") {
		for current.Kind() == reflect.Ptr {
			if current.IsNil() {
				return "", nil
			}
			current = current.Elem()
		}

		if current.Kind() != reflect.Struct || isSpecialStructType(current.Type()) {
			return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
		}

		index, ok := sa.fieldIndex(current.Type(), segment)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
		}

		next, err := current.FieldByIndexErr(index)
		if err != nil {
			// Promoted through a nil embedded pointer.
			return "", nil
		}
		current = next
	}

	return fieldString(current)
}

// fieldIndex returns the index path of name in t, building the lookup
// table of t on first use.
func (sa *StructAccessor) fieldIndex(t reflect.Type, name string) ([]int, bool) {
	sa.indexMu.RLock()
	table, ok := sa.indexes[t]
	sa.indexMu.RUnlock()

	if !ok {
		table = buildFieldIndex(t)

		sa.indexMu.Lock()
		if sa.indexes == nil {
			sa.indexes = make(map[reflect.Type]map[string][]int)
		}
		if existing, found := sa.indexes[t]; found {
			table = existing
		} else {
			sa.indexes[t] = table
		}
		sa.indexMu.Unlock()
	}

	index, ok := table[name]
	return index, ok
}

func buildFieldIndex(t reflect.Type) map[string][]int {
	table := make(map[string][]int)

	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() {
			continue
		}

		name := sf.Name
		if tag, ok := sf.Tag.Lookup(FieldTag); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			tagName = strings.TrimSpace(tagName)
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}

		// The first field claiming a name keeps it.
		if _, taken := table[name]; !taken {
			table[name] = sf.Index
		}
	}

	return table
}
