package validatinator

import (
	"fmt"
	"slices"
	"sort"
)

// RuleSet holds the normalized rule declarations of every form: form name
// to ordered fields to ordered single rule strings.
//
// New takes a snapshot of the RuleSet, so declarations made after an
// engine is built do not reach it.
type RuleSet struct {
	forms map[string]*formRules
	order []string
	opts  RuleSetOpts
}

type formRules struct {
	fields []string
	rules  map[string][]string
}

type RuleSetOpts struct {
	// Delimiter joins several rules in one declaration string. A
	// whitespace delimiter splits on any run of whitespace. When empty,
	// "required|email" and "required email" are both accepted.
	Delimiter string
}

// NewRuleSet returns an empty RuleSet.
func NewRuleSet(opts RuleSetOpts) *RuleSet {
	return &RuleSet{
		forms: make(map[string]*formRules),
		opts:  opts,
	}
}

// RuleSetFromMap normalizes a nested form -> field -> declaration map.
// A declaration is a delimiter-joined string, a []string, or a []any of
// strings. Go maps carry no order, so forms and fields are ordered
// lexicographically.
func RuleSetFromMap(declarations map[string]map[string]any, opts RuleSetOpts) (*RuleSet, error) {
	rs := NewRuleSet(opts)

	forms := make([]string, 0, len(declarations))
	for form := range declarations {
		forms = append(forms, form)
	}
	sort.Strings(forms)

	for _, form := range forms {
		fields := make([]string, 0, len(declarations[form]))
		for field := range declarations[form] {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		for _, field := range fields {
			rules, err := rs.normalize(declarations[form][field])
			if err != nil {
				return nil, fmt.Errorf("form %q field %q: %w", form, field, err)
			}
			rs.set(form, field, rules)
		}
	}

	return rs, nil
}

// Declare sets the rules of one field. A single argument is treated as
// a delimiter-joined declaration; several arguments are taken as already
// split rules. Re-declaring a field replaces its rules and keeps its
// position.
func (rs *RuleSet) Declare(form, field string, rules ...string) *RuleSet {
	if len(rules) == 1 {
		rs.set(form, field, splitRules(rules[0], rs.opts.Delimiter))
		return rs
	}
	rs.set(form, field, cleanRules(rules))
	return rs
}

// Clone returns a deep copy of rs.
func (rs *RuleSet) Clone() *RuleSet {
	if rs == nil {
		return nil
	}

	clone := &RuleSet{
		forms: make(map[string]*formRules, len(rs.forms)),
		order: slices.Clone(rs.order),
		opts:  rs.opts,
	}
	for form, fr := range rs.forms {
		rules := make(map[string][]string, len(fr.rules))
		for field, fieldRules := range fr.rules {
			rules[field] = slices.Clone(fieldRules)
		}
		clone.forms[form] = &formRules{fields: slices.Clone(fr.fields), rules: rules}
	}
	return clone
}

// Forms returns the declared form names in declaration order.
func (rs *RuleSet) Forms() []string {
	if rs == nil {
		return nil
	}
	return slices.Clone(rs.order)
}

// Fields returns the declared fields of form in declaration order.
func (rs *RuleSet) Fields(form string) []string {
	if rs == nil {
		return nil
	}
	fr, ok := rs.forms[form]
	if !ok {
		return nil
	}
	return slices.Clone(fr.fields)
}

// Rules returns the ordered rule strings of a field.
func (rs *RuleSet) Rules(form, field string) []string {
	if rs == nil {
		return nil
	}
	fr, ok := rs.forms[form]
	if !ok {
		return nil
	}
	return slices.Clone(fr.rules[field])
}

// HasForm reports whether any field was declared for form.
func (rs *RuleSet) HasForm(form string) bool {
	if rs == nil {
		return false
	}
	_, ok := rs.forms[form]
	return ok
}

func (rs *RuleSet) set(form, field string, rules []string) {
	if rs.forms == nil {
		rs.forms = make(map[string]*formRules)
	}
	fr, ok := rs.forms[form]
	if !ok {
		fr = &formRules{rules: make(map[string][]string)}
		rs.forms[form] = fr
		rs.order = append(rs.order, form)
	}
	if _, exists := fr.rules[field]; !exists {
		fr.fields = append(fr.fields, field)
	}
	fr.rules[field] = rules
}

// normalize turns one raw declaration into single rule strings.
func (rs *RuleSet) normalize(declaration any) ([]string, error) {
	switch d := declaration.(type) {
	case nil:
		return []string{}, nil
	case string:
		return splitRules(d, rs.opts.Delimiter), nil
	case []string:
		return cleanRules(d), nil
	case []any:
		rules := make([]string, 0, len(d))
		for i, item := range d {
			rule, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: rule %d is %T, expected string", ErrInvalidDeclaration, i, item)
			}
			rules = append(rules, rule)
		}
		return cleanRules(rules), nil
	default:
		return nil, fmt.Errorf("%w: expected string or list of strings, got %T", ErrInvalidDeclaration, declaration)
	}
}
