package validatinator

import (
	"fmt"
	"math"
	"net/netip"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

var (
	alphaRegex     = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphaDashRegex = regexp.MustCompile(`^[a-zA-Z_-]+$`)
	alphaNumRegex  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	digitsRegex    = regexp.MustCompile(`^[0-9]+$`)
	emailRegex     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@.]+$`)
)

// Layouts tried, in order, when reading dates for dateBefore/dateAfter.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

func builtinValidations() map[string]Predicate {
	return map[string]Predicate{
		AcceptedValidation:            accepted,
		AlphaValidation:               matches(alphaRegex),
		AlphaDashValidation:           matches(alphaDashRegex),
		AlphaNumValidation:            matches(alphaNumRegex),
		BetweenValidation:             between,
		BetweenLengthValidation:       betweenLength,
		ContainsValidation:            contains,
		DateBeforeValidation:          dateCompare(func(v, p time.Time) bool { return v.Before(p) }),
		DateAfterValidation:           dateCompare(func(v, p time.Time) bool { return v.After(p) }),
		DifferentValidation:           different,
		DigitsLengthValidation:        digitsLength,
		DigitsLengthBetweenValidation: digitsLengthBetween,
		EmailValidation:               matches(emailRegex),
		IPv4Validation:                ipv4,
		MaxValidation:                 numberCompare(func(v, p float64) bool { return v <= p }),
		MaxLengthValidation:           lengthCompare(func(v, p int) bool { return v <= p }),
		MinValidation:                 numberCompare(func(v, p float64) bool { return v >= p }),
		MinLengthValidation:           lengthCompare(func(v, p int) bool { return v >= p }),
		NotInValidation:               notIn,
		NumberValidation:              number,
		RequiredValidation:            required,
		RequiredIfValidation:          requiredIf,
		RequiredIfNotValidation:       requiredIfNot,
		SameValidation:                same,
		URLValidation:                 validURL,
		UUIDValidation:                validUUID,
	}
}

///////////////////////////////////////////////////////////////////////////////
// Parameter helpers
///////////////////////////////////////////////////////////////////////////////

func param(params []Value, i int) (Value, error) {
	if i >= len(params) {
		return Value{}, fmt.Errorf("%w: expected at least %d", ErrMissingParameter, i+1)
	}
	return params[i], nil
}

// bounds reads a lower/upper pair given either as one list parameter
// ("between:1,10") or as two parameters ("between:1:10").
func bounds(params []Value) (lo, hi Value, err error) {
	first, err := param(params, 0)
	if err != nil {
		return Value{}, Value{}, err
	}

	if first.IsList() {
		items := first.List()
		if len(items) != 2 {
			return Value{}, Value{}, fmt.Errorf("%w: expected lower,upper got %q", ErrInvalidParameter, first.String())
		}
		return items[0], items[1], nil
	}

	second, err := param(params, 1)
	if err != nil {
		return Value{}, Value{}, err
	}
	return first, second, nil
}

func floatBounds(params []Value) (float64, float64, error) {
	lo, hi, err := bounds(params)
	if err != nil {
		return 0, 0, err
	}
	lower, err := lo.Float()
	if err != nil {
		return 0, 0, err
	}
	upper, err := hi.Float()
	if err != nil {
		return 0, 0, err
	}
	return lower, upper, nil
}

func intBounds(params []Value) (int, int, error) {
	lo, hi, err := bounds(params)
	if err != nil {
		return 0, 0, err
	}
	lower, err := lo.Int()
	if err != nil {
		return 0, 0, err
	}
	upper, err := hi.Int()
	if err != nil {
		return 0, 0, err
	}
	return lower, upper, nil
}

// allowed flattens every parameter into one list of accepted strings.
func allowed(params []Value) ([]string, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("%w: expected a list of values", ErrMissingParameter)
	}
	var values []string
	for _, p := range params {
		values = append(values, p.Strings()...)
	}
	return values, nil
}

func parseNumber(value string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func equalStrings(a, b string, strict bool) bool {
	if strict {
		return a == b
	}
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}

///////////////////////////////////////////////////////////////////////////////
// Validations
///////////////////////////////////////////////////////////////////////////////

func accepted(_ Cursor, value string, _ ...Value) (bool, error) {
	switch cases.Fold().String(strings.TrimSpace(value)) {
	case "yes", "on", "1", TrueLiteral:
		return true, nil
	default:
		return false, nil
	}
}

func matches(re *regexp.Regexp) Predicate {
	return func(_ Cursor, value string, _ ...Value) (bool, error) {
		return re.MatchString(value), nil
	}
}

func between(_ Cursor, value string, params ...Value) (bool, error) {
	lower, upper, err := floatBounds(params)
	if err != nil {
		return false, err
	}
	n, ok := parseNumber(value)
	return ok && n >= lower && n <= upper, nil
}

func betweenLength(_ Cursor, value string, params ...Value) (bool, error) {
	lower, upper, err := intBounds(params)
	if err != nil {
		return false, err
	}
	n := utf8.RuneCountInString(value)
	return n >= lower && n <= upper, nil
}

func contains(_ Cursor, value string, params ...Value) (bool, error) {
	values, err := allowed(params)
	if err != nil {
		return false, err
	}
	return slices.Contains(values, value), nil
}

func notIn(_ Cursor, value string, params ...Value) (bool, error) {
	values, err := allowed(params)
	if err != nil {
		return false, err
	}
	return !slices.Contains(values, value), nil
}

func dateCompare(cmp func(value, param time.Time) bool) Predicate {
	return func(_ Cursor, value string, params ...Value) (bool, error) {
		p, err := param(params, 0)
		if err != nil {
			return false, err
		}
		limit, ok := parseDate(p.String())
		if !ok {
			return false, fmt.Errorf("%w: %q is not a date", ErrInvalidParameter, p.String())
		}
		t, ok := parseDate(value)
		return ok && cmp(t, limit), nil
	}
}

func same(c Cursor, value string, params ...Value) (bool, error) {
	return compareField(c, value, params)
}

func different(c Cursor, value string, params ...Value) (bool, error) {
	eq, err := compareField(c, value, params)
	if err != nil {
		return false, err
	}
	return !eq, nil
}

// compareField compares value with the sibling field named by params.
// A trailing boolean is the strict flag. The other parameters are joined
// back with ":" so prefixed names such as "json:password" can be named.
func compareField(c Cursor, value string, params []Value) (bool, error) {
	if _, err := param(params, 0); err != nil {
		return false, err
	}

	isStrict := true
	if n := len(params); n > 1 {
		if b, ok := params[n-1].Bool(); ok {
			isStrict = b
			params = params[:n-1]
		}
	}

	other, err := c.Lookup(fieldParam(params))
	if err != nil {
		return false, err
	}
	return equalStrings(value, other, isStrict), nil
}

// fieldParam joins parameters back into one field identifier.
func fieldParam(params []Value) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ParamDelimiter)
}

func digitsLength(_ Cursor, value string, params ...Value) (bool, error) {
	p, err := param(params, 0)
	if err != nil {
		return false, err
	}
	n, err := p.Int()
	if err != nil {
		return false, err
	}
	return digitsRegex.MatchString(value) && len(value) == n, nil
}

func digitsLengthBetween(_ Cursor, value string, params ...Value) (bool, error) {
	lower, upper, err := intBounds(params)
	if err != nil {
		return false, err
	}
	return digitsRegex.MatchString(value) && len(value) >= lower && len(value) <= upper, nil
}

func ipv4(_ Cursor, value string, _ ...Value) (bool, error) {
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return false, nil
	}
	return addr.Is4(), nil
}

func numberCompare(cmp func(value, param float64) bool) Predicate {
	return func(_ Cursor, value string, params ...Value) (bool, error) {
		p, err := param(params, 0)
		if err != nil {
			return false, err
		}
		limit, err := p.Float()
		if err != nil {
			return false, err
		}
		n, ok := parseNumber(value)
		return ok && cmp(n, limit), nil
	}
}

func lengthCompare(cmp func(value, param int) bool) Predicate {
	return func(_ Cursor, value string, params ...Value) (bool, error) {
		p, err := param(params, 0)
		if err != nil {
			return false, err
		}
		limit, err := p.Int()
		if err != nil {
			return false, err
		}
		return cmp(utf8.RuneCountInString(value), limit), nil
	}
}

func number(_ Cursor, value string, _ ...Value) (bool, error) {
	_, ok := parseNumber(value)
	return ok, nil
}

func required(_ Cursor, value string, _ ...Value) (bool, error) {
	return strings.TrimSpace(value) != "", nil
}

func requiredIf(c Cursor, value string, params ...Value) (bool, error) {
	match, err := otherFieldIs(c, params)
	if err != nil {
		return false, err
	}
	if !match {
		return true, nil
	}
	return required(c, value)
}

func requiredIfNot(c Cursor, value string, params ...Value) (bool, error) {
	match, err := otherFieldIs(c, params)
	if err != nil {
		return false, err
	}
	if match {
		return true, nil
	}
	return required(c, value)
}

// otherFieldIs reports whether the sibling field currently holds the
// last parameter. The parameters before it name the field.
func otherFieldIs(c Cursor, params []Value) (bool, error) {
	if _, err := param(params, 1); err != nil {
		return false, err
	}

	last := len(params) - 1
	other, err := c.Lookup(fieldParam(params[:last]))
	if err != nil {
		return false, err
	}
	return other == params[last].String(), nil
}

func validURL(_ Cursor, value string, _ ...Value) (bool, error) {
	u, err := url.ParseRequestURI(value)
	if err != nil {
		return false, nil
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != "", nil
}

func validUUID(_ Cursor, value string, _ ...Value) (bool, error) {
	return uuid.Validate(value) == nil, nil
}
