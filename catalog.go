package validatinator

import (
	"fmt"
	"sort"
	"sync"
)

///////////////////////////////////////////////////////////////////////////////
// Predicate & Cursor
///////////////////////////////////////////////////////////////////////////////

// Predicate is a named validation. It receives the field value first and
// the rule's coerced parameters after it.
//
// A failing value is reported as (false, nil). The error return is kept
// for configuration problems, such as a missing or malformed parameter,
// and aborts the run.
type Predicate func(c Cursor, value string, params ...Value) (bool, error)

// Cursor identifies the form and field being validated. It is only
// meaningful while the run that created it is in progress.
type Cursor interface {
	Form() string
	Field() string
	// Lookup returns the current value of another field of the same form.
	Lookup(field string) (string, error)
}

// Catalog resolves validation names to predicates.
type Catalog interface {
	Resolve(name string) (Predicate, bool)
}

///////////////////////////////////////////////////////////////////////////////
// Registry
///////////////////////////////////////////////////////////////////////////////

// Registry is a Catalog backed by a map of named predicates.
//
// It is safe for concurrent use; engines only read from it while
// running.
type Registry struct {
	mu         sync.RWMutex
	predicates map[string]Predicate
}

type RegistryOpts struct {
	Validations     map[string]Predicate
	ExcludeDefaults bool
}

// NewRegistry builds a Registry holding the builtin validations unless
// ExcludeDefaults is set, plus opts.Validations.
func NewRegistry(opts RegistryOpts) (*Registry, error) {
	reg := &Registry{
		predicates: make(map[string]Predicate),
	}

	if !opts.ExcludeDefaults {
		for name, predicate := range builtinValidations() {
			if err := reg.Register(name, predicate); err != nil {
				return nil, err
			}
		}
	}

	names := make([]string, 0, len(opts.Validations))
	for name := range opts.Validations {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := reg.Set(name, opts.Validations[name]); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// Register adds a predicate under name. It fails if the name is taken.
func (reg *Registry) Register(name string, predicate Predicate) error {
	if err := checkRegistration(name, predicate); err != nil {
		return err
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.predicates == nil {
		reg.predicates = make(map[string]Predicate)
	}
	if _, exists := reg.predicates[name]; exists {
		return fmt.Errorf("%w: %s", ErrValidationAlreadyRegistered, name)
	}

	reg.predicates[name] = predicate
	return nil
}

// Set adds or replaces the predicate registered under name.
func (reg *Registry) Set(name string, predicate Predicate) error {
	if err := checkRegistration(name, predicate); err != nil {
		return err
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.predicates == nil {
		reg.predicates = make(map[string]Predicate)
	}
	reg.predicates[name] = predicate
	return nil
}

// Resolve implements Catalog.
func (reg *Registry) Resolve(name string) (Predicate, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	predicate, ok := reg.predicates[name]
	return predicate, ok
}

// Names returns the registered validation names, sorted.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	names := make([]string, 0, len(reg.predicates))
	for name := range reg.predicates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func checkRegistration(name string, predicate Predicate) error {
	if name == "" {
		return ErrEmptyValidationName
	}
	if predicate == nil {
		return fmt.Errorf("%w: %s", ErrNilPredicate, name)
	}
	return nil
}

// CatalogFunc adapts a lookup function to Catalog.
type CatalogFunc func(name string) (Predicate, bool)

func (f CatalogFunc) Resolve(name string) (Predicate, bool) {
	return f(name)
}

// Chain resolves names against each catalog in order; the first hit wins.
func Chain(catalogs ...Catalog) Catalog {
	return CatalogFunc(func(name string) (Predicate, bool) {
		for _, catalog := range catalogs {
			if catalog == nil {
				continue
			}
			if predicate, ok := catalog.Resolve(name); ok {
				return predicate, true
			}
		}
		return nil, false
	})
}

///////////////////////////////////////////////////////////////////////////////
// Global Singleton and Package Functions
///////////////////////////////////////////////////////////////////////////////

var _globalRegistry *Registry = nil

func init() {
	var err error
	_globalRegistry, err = NewRegistry(RegistryOpts{})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize global registry: %v", err))
	}
}

// DefaultRegistry returns the registry engines use when EngineOpts.Catalog
// is nil. Registrations on it are seen by every such engine.
func DefaultRegistry() *Registry {
	return _globalRegistry
}

// RegisterValidation registers a predicate with the global registry.
func RegisterValidation(name string, predicate Predicate) error {
	return _globalRegistry.Register(name, predicate)
}

// Resolve looks a validation up in the global registry.
func Resolve(name string) (Predicate, bool) {
	return _globalRegistry.Resolve(name)
}
