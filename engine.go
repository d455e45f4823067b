package validatinator

import (
	"fmt"
	"log/slog"
	"sync"
)

// Engine validates the forms of a RuleSet.
//
// Each run walks every declared field of the form in declaration order
// and every rule of the field in declared order, and records every
// failure; nothing short-circuits. An Engine serializes its runs, so it
// may be shared between goroutines. Callers whose sources differ per
// call, such as HTTP handlers, pass their own Accessor to ValidateWith.
//
// Engines must be built with New. A zero Engine reports
// ErrEngineNotInitialized.
type Engine struct {
	mu          sync.Mutex
	initialized bool

	rules        *RuleSet
	catalog      Catalog
	messages     *MessageComposer
	formMessages map[string]*MessageComposer
	accessor     Accessor
	coercer      Coercer
	logger       *slog.Logger

	errors ErrorStore
}

type EngineOpts struct {
	// Catalog resolves validation names. Defaults to DefaultRegistry().
	Catalog Catalog

	// Composer is used as-is, so several engines can share one. When nil
	// the engine gets its own composer seeded with DefaultMessages.
	Composer *MessageComposer

	// Messages overrides templates for this engine only.
	Messages Messages

	// FormMessages overrides templates for a single form, by form name.
	FormMessages map[string]Messages

	// Accessor fetches field values for Validate, Passes and Fails.
	// Required.
	Accessor Accessor

	// BoolPolicy decides which parameter tokens are booleans. Defaults
	// to ExactBoolPolicy.
	BoolPolicy BoolPolicy

	// Logger receives a debug record per run and an error record per
	// configuration error. Defaults to a discarding logger.
	Logger *slog.Logger
}

// New builds an Engine for a snapshot of rules. A nil rules is an empty
// RuleSet.
func New(rules *RuleSet, opts EngineOpts) (*Engine, error) {
	if opts.Accessor == nil {
		return nil, ErrNoAccessor
	}

	if rules == nil {
		rules = NewRuleSet(RuleSetOpts{})
	} else {
		rules = rules.Clone()
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = DefaultRegistry()
	}

	composer := opts.Composer
	switch {
	case composer == nil:
		composer = NewMessageComposer(opts.Messages)
	case len(opts.Messages) > 0:
		// Overrides must not leak into the shared composer.
		composer = composer.Clone()
		composer.Override(opts.Messages)
	}

	formMessages := make(map[string]*MessageComposer, len(opts.FormMessages))
	for form, messages := range opts.FormMessages {
		formComposer := composer.Clone()
		formComposer.Override(messages)
		formMessages[form] = formComposer
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Engine{
		initialized:  true,
		rules:        rules,
		catalog:      catalog,
		messages:     composer,
		formMessages: formMessages,
		accessor:     opts.Accessor,
		coercer:      NewCoercer(opts.BoolPolicy),
		logger:       logger,
	}, nil
}

// Passes reports whether every declared field of form satisfies every
// one of its rules. A form with no declared fields passes.
func (e *Engine) Passes(form string) (bool, error) {
	store, err := e.Validate(form)
	if err != nil {
		return false, err
	}
	return store.IsEmpty(), nil
}

// Fails is the negation of Passes. It reports false when err is not nil.
func (e *Engine) Fails(form string) (bool, error) {
	store, err := e.Validate(form)
	if err != nil {
		return false, err
	}
	return !store.IsEmpty(), nil
}

// Validate runs the validations of form and returns the failures of
// this run. The returned store belongs to the caller.
//
// Configuration errors, such as a rule naming an unregistered
// validation, abort the run with a *ConfigError; the engine's store is
// left empty.
func (e *Engine) Validate(form string) (ErrorStore, error) {
	if e == nil {
		return ErrorStore{}, ErrEngineNotInitialized
	}
	return e.validate(form, e.accessor)
}

// ValidateWith is Validate reading field values from accessor instead of
// the engine's own. Each call sees only its own accessor, so concurrent
// callers validating the same form never read each other's values.
func (e *Engine) ValidateWith(form string, accessor Accessor) (ErrorStore, error) {
	if e == nil {
		return ErrorStore{}, ErrEngineNotInitialized
	}
	if accessor == nil {
		return ErrorStore{}, ErrNoAccessor
	}
	return e.validate(form, accessor)
}

func (e *Engine) validate(form string, accessor Accessor) (ErrorStore, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return ErrorStore{}, ErrEngineNotInitialized
	}

	e.errors = ErrorStore{}

	store, err := e.run(form, accessor)
	if err != nil {
		e.logger.Error("validation aborted",
			slog.String("form", form),
			slog.Any("error", err),
		)
		return ErrorStore{}, err
	}

	e.errors = store
	e.logger.Debug("form validated",
		slog.String("form", form),
		slog.Int("fields", len(e.rules.Fields(form))),
		slog.Int("failures", store.Len()),
	)

	return store.Clone(), nil
}

// Errors returns a copy of the store of the most recent run.
func (e *Engine) Errors() ErrorStore {
	if e == nil {
		return ErrorStore{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.errors.Clone()
}

// Rules returns the snapshot of the RuleSet the engine validates
// against.
func (e *Engine) Rules() *RuleSet {
	if e == nil {
		return nil
	}
	return e.rules
}

func (e *Engine) run(form string, accessor Accessor) (ErrorStore, error) {
	var store ErrorStore

	composer := e.composerFor(form)
	cursor := &runCursor{form: form, accessor: accessor}

	for _, field := range e.rules.Fields(form) {
		cursor.field = field

		value, err := accessor.Value(form, field)
		if err != nil {
			return ErrorStore{}, &ConfigError{
				Form:  form,
				Field: field,
				Err:   fmt.Errorf("failed to read field value: %w", err),
			}
		}

		for _, rule := range e.rules.Rules(form, field) {
			parsed := ParseRule(rule)

			predicate, ok := e.catalog.Resolve(parsed.Method)
			if !ok {
				return ErrorStore{}, &ConfigError{
					Form:  form,
					Field: field,
					Rule:  rule,
					Err:   fmt.Errorf("%w: %q", ErrUnknownValidation, parsed.Method),
				}
			}

			params := e.coercer.CoerceParams(parsed.Params)

			passed, err := predicate(cursor, value, params...)
			if err != nil {
				return ErrorStore{}, &ConfigError{Form: form, Field: field, Rule: rule, Err: err}
			}

			if !passed {
				store.Add(FieldError{
					Field:   field,
					Method:  parsed.Method,
					Message: composer.ComposeField(field, parsed.Method, params),
					Params:  params,
				})
			}
		}
	}

	return store, nil
}

func (e *Engine) composerFor(form string) *MessageComposer {
	if composer, ok := e.formMessages[form]; ok {
		return composer
	}
	return e.messages
}

///////////////////////////////////////////////////////////////////////////////
// Cursor
///////////////////////////////////////////////////////////////////////////////

// runCursor is the Cursor of one run.
type runCursor struct {
	form     string
	field    string
	accessor Accessor
}

func (rc *runCursor) Form() string {
	return rc.form
}

func (rc *runCursor) Field() string {
	return rc.field
}

func (rc *runCursor) Lookup(field string) (string, error) {
	return rc.accessor.Value(rc.form, field)
}
