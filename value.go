package validatinator

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	StringKind Kind = iota
	BoolKind
	ListKind
)

func (k Kind) String() string {
	switch k {
	case StringKind:
		return "string"
	case BoolKind:
		return "bool"
	case ListKind:
		return "list"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is a coerced rule parameter. It holds either a string, a bool,
// or an ordered list of Values. The zero Value is the empty string.
type Value struct {
	kind Kind
	str  string
	b    bool
	list []Value
}

// StringValue returns a string Value.
func StringValue(s string) Value {
	return Value{kind: StringKind, str: s}
}

// BoolValue returns a bool Value.
func BoolValue(b bool) Value {
	return Value{kind: BoolKind, b: b}
}

// ListValue returns a list Value holding items in order.
func ListValue(items ...Value) Value {
	return Value{kind: ListKind, list: items}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsBool() bool {
	return v.kind == BoolKind
}

func (v Value) IsList() bool {
	return v.kind == ListKind
}

// Bool returns the boolean held by v. ok is false when v is not a bool.
func (v Value) Bool() (b bool, ok bool) {
	if v.kind != BoolKind {
		return false, false
	}
	return v.b, true
}

// List returns the items of a list Value, or nil.
func (v Value) List() []Value {
	if v.kind != ListKind {
		return nil
	}
	return v.list
}

// Strings flattens v into its string forms. A scalar becomes a one
// element slice.
func (v Value) Strings() []string {
	if v.kind != ListKind {
		return []string{v.String()}
	}
	out := make([]string, 0, len(v.list))
	for _, item := range v.list {
		out = append(out, item.String())
	}
	return out
}

// String renders v the way it would appear in a rule string.
func (v Value) String() string {
	switch v.kind {
	case BoolKind:
		return strconv.FormatBool(v.b)
	case ListKind:
		return strings.Join(v.Strings(), ListDelimiter)
	default:
		return v.str
	}
}

// Float parses a scalar Value as a float64.
func (v Value) Float() (float64, error) {
	if v.kind != StringKind {
		return 0, fmt.Errorf("%w: expected a number, got %s", ErrInvalidParameter, v.kind)
	}
	f, err := strconv.ParseFloat(v.str, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidParameter, v.str)
	}
	return f, nil
}

// Int parses a scalar Value as an int.
func (v Value) Int() (int, error) {
	if v.kind != StringKind {
		return 0, fmt.Errorf("%w: expected an integer, got %s", ErrInvalidParameter, v.kind)
	}
	i, err := strconv.Atoi(v.str)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidParameter, v.str)
	}
	return i, nil
}

// Equal reports whether v and other hold the same variant and contents.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case BoolKind:
		return v.b == other.b
	case ListKind:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	default:
		return v.str == other.str
	}
}

///////////////////////////////////////////////////////////////////////////////
// Coercion
///////////////////////////////////////////////////////////////////////////////

// BoolPolicy decides whether a trimmed token is a boolean literal.
type BoolPolicy interface {
	ParseBool(token string) (value bool, ok bool)
}

// BoolPolicyFunc adapts a function to BoolPolicy.
type BoolPolicyFunc func(token string) (bool, bool)

func (f BoolPolicyFunc) ParseBool(token string) (bool, bool) {
	return f(token)
}

// ExactBoolPolicy accepts exactly "true" and "false", case-sensitive.
// It is the default policy.
var ExactBoolPolicy BoolPolicy = BoolPolicyFunc(func(token string) (bool, bool) {
	switch token {
	case TrueLiteral:
		return true, true
	case FalseLiteral:
		return false, true
	default:
		return false, false
	}
})

// FoldedBoolPolicy accepts "true" and "false" under Unicode case folding,
// so "TRUE" and "False" are booleans too.
var FoldedBoolPolicy BoolPolicy = BoolPolicyFunc(func(token string) (bool, bool) {
	switch cases.Fold().String(token) {
	case TrueLiteral:
		return true, true
	case FalseLiteral:
		return false, true
	default:
		return false, false
	}
})

// Coercer turns raw parameter tokens into Values.
type Coercer struct {
	policy BoolPolicy
}

// NewCoercer returns a Coercer using policy, or ExactBoolPolicy when nil.
func NewCoercer(policy BoolPolicy) Coercer {
	if policy == nil {
		policy = ExactBoolPolicy
	}
	return Coercer{policy: policy}
}

// Coerce trims token and converts boolean literals. Every other token,
// the empty one included, stays a string.
func (c Coercer) Coerce(token string) Value {
	policy := c.policy
	if policy == nil {
		policy = ExactBoolPolicy
	}

	token = strings.TrimSpace(token)
	if b, ok := policy.ParseBool(token); ok {
		return BoolValue(b)
	}
	return StringValue(token)
}

// CoerceParam coerces a raw parameter. List parameters become one list
// Value whose items are coerced individually.
func (c Coercer) CoerceParam(param RawParam) Value {
	if !param.List {
		token := ""
		if len(param.Tokens) > 0 {
			token = param.Tokens[0]
		}
		return c.Coerce(token)
	}

	items := make([]Value, 0, len(param.Tokens))
	for _, token := range param.Tokens {
		items = append(items, c.Coerce(token))
	}
	return ListValue(items...)
}

// CoerceParams coerces every parameter of a parsed rule in order.
func (c Coercer) CoerceParams(params []RawParam) []Value {
	values := make([]Value, 0, len(params))
	for _, param := range params {
		values = append(values, c.CoerceParam(param))
	}
	return values
}

var _defaultCoercer = NewCoercer(ExactBoolPolicy)

// Coerce coerces token with the default (exact) boolean policy.
func Coerce(token string) Value {
	return _defaultCoercer.Coerce(token)
}

// CoerceParam coerces param with the default (exact) boolean policy.
func CoerceParam(param RawParam) Value {
	return _defaultCoercer.CoerceParam(param)
}

// CoerceParams coerces params with the default (exact) boolean policy.
func CoerceParams(params []RawParam) []Value {
	return _defaultCoercer.CoerceParams(params)
}
