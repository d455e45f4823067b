// Package validatinator is a declarative form validation engine.
//
// Rules are declared per form and field as compact rule strings. A rule
// names a validation and may carry colon-delimited parameters, where a
// comma turns a parameter into a list:
//
//	required
//	minLength:8
//	between:1,10
//	same:password:false
//
// Several rules for one field are joined with "|" or with spaces (see
// RuleSetOpts to use another delimiter) or given as a list:
//
//	rules := validatinator.NewRuleSet(validatinator.RuleSetOpts{}).
//		Declare("loginForm", "email", "required|email").
//		Declare("loginForm", "username", "required alphaDash").
//		Declare("loginForm", "password", "required", "minLength:8")
//
// Rules that name another field (same, different, requiredIf and
// requiredIfNot) accept prefixed names such as "same:json:password". The
// strict flag of same and different, when given, is the last parameter.
//
// Field values are read through an Accessor. The package ships accessors
// for in-memory maps (MapAccessor), JSON documents (JSONAccessor), HTTP
// requests (HTTPAccessor, RequestAccessor) and structs (StructAccessor):
//
//	engine, err := validatinator.New(rules, validatinator.EngineOpts{
//		Accessor: validatinator.MapAccessor{
//			"loginForm": {"email": "", "password": "hunter22"},
//		},
//	})
//	ok, err := engine.Passes("loginForm")
//	msgs := engine.Errors().Get("email") // ["This field is required.", ...]
//
// HTTP handlers serve overlapping requests, so they validate with
// Engine.ValidateWith and a RequestAccessor per request rather than a
// request bound to a shared accessor.
//
// A run evaluates every rule of every field, so the ErrorStore holds every
// failure at once. Validations are resolved by name from a Catalog; the
// builtin catalog is DefaultRegistry and RegisterValidation adds to it.
//
// Parameters are coerced before a validation sees them: tokens are
// trimmed, "true" and "false" become booleans (see BoolPolicy) and every
// other token stays a string.
//
// Failures are not errors. Validate, Passes and Fails only return an
// error for configuration problems, such as a rule naming a validation
// that does not exist, and that error is a *ConfigError.
//
// Rule sets and message overrides can be loaded from JSON or YAML files
// with LoadRuleSet and LoadMessages.
package validatinator
