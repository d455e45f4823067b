package validatinator

import (
	"maps"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Messages maps validation names to message templates.
//
// Templates may reference the rule's parameters as {$0}, {$1}, ... and
// the humanized field name as {field}.
type Messages map[string]string

const (
	fieldPlaceholder = "{field}"
	fallbackTemplate = "This field failed the {method} validation."
)

// DefaultMessages returns a fresh copy of the builtin templates.
func DefaultMessages() Messages {
	return Messages{
		AcceptedValidation:            "This field must be accepted.",
		AlphaValidation:               "This field only allows alpha characters.",
		AlphaDashValidation:           "This field only allows alpha, dash and underscore characters.",
		AlphaNumValidation:            "This field only allows alpha, dash, underscore and numerical characters.",
		BetweenValidation:             "This field must be between {$0}.",
		BetweenLengthValidation:       "This field must be between {$0} characters long.",
		ContainsValidation:            "This field must be one of the following values, {$0}.",
		DateBeforeValidation:          "The date must come before {$0}.",
		DateAfterValidation:           "The date must come after {$0}.",
		DifferentValidation:           "This field must be different than the {$0} field.",
		DigitsLengthValidation:        "This field must be a numerical value and {$0} characters long.",
		DigitsLengthBetweenValidation: "This field must be a numerical value and between {$0} characters long.",
		EmailValidation:               "This field only allows valid email addresses.",
		IPv4Validation:                "This field only allows valid ipv4 addresses.",
		MaxValidation:                 "This field must be no more than {$0}.",
		MaxLengthValidation:           "This field must be no more than {$0} characters long.",
		MinValidation:                 "This field must be at least {$0}.",
		MinLengthValidation:           "This field must be at least {$0} characters long.",
		NotInValidation:               "This field must not be contained within the following values, {$0}.",
		NumberValidation:              "This field only allows valid numerical values.",
		RequiredValidation:            "This field is required.",
		RequiredIfValidation:          "This field is required if the value of the {$0} field is {$1}.",
		RequiredIfNotValidation:       "This field is required if the value of the {$0} field is not {$1}.",
		SameValidation:                "This field must be the same value as the {$0} field.",
		URLValidation:                 "This field only allows valid urls.",
		UUIDValidation:                "This field only allows valid UUIDs.",
	}
}

// MessageComposer renders error messages from templates.
//
// A composer is safe for concurrent Compose calls. Override must not run
// concurrently with a validation that uses the same composer.
type MessageComposer struct {
	mu        sync.RWMutex
	templates Messages
}

// NewMessageComposer returns a composer seeded with the default templates
// and then with overrides.
func NewMessageComposer(overrides Messages) *MessageComposer {
	mc := &MessageComposer{templates: DefaultMessages()}
	mc.Override(overrides)
	return mc
}

// Override replaces or adds the given templates and keeps every other
// template as it is.
func (mc *MessageComposer) Override(custom Messages) {
	if len(custom) == 0 {
		return
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.templates == nil {
		mc.templates = make(Messages, len(custom))
	}
	maps.Copy(mc.templates, custom)
}

// Clone returns an independent copy of the composer.
func (mc *MessageComposer) Clone() *MessageComposer {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	return &MessageComposer{templates: maps.Clone(mc.templates)}
}

// Template returns the template registered for method.
func (mc *MessageComposer) Template(method string) (string, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	template, ok := mc.templates[method]
	return template, ok
}

// Compose renders the message for a failed method with its parameters.
// The field value is never part of params.
func (mc *MessageComposer) Compose(method string, params []Value) string {
	return mc.ComposeField("", method, params)
}

// ComposeField is Compose with {field} bound to field.
func (mc *MessageComposer) ComposeField(field, method string, params []Value) string {
	template, ok := mc.Template(method)
	if !ok {
		template = strings.ReplaceAll(fallbackTemplate, "{method}", method)
	}
	return render(template, field, messageParams(method, template, params))
}

// messageParams regroups the parameters of builtins that spread one
// logical argument over several ":" segments, so that {$0} still names
// the whole argument.
func messageParams(method, template string, params []Value) []Value {
	switch method {
	case BetweenValidation, BetweenLengthValidation, DigitsLengthBetweenValidation:
		// "between:1:10" reads like "between:1,10" unless the template
		// places the bounds itself.
		if len(params) >= 2 && !params[0].IsList() && !strings.Contains(template, "{$1}") {
			return append([]Value{ListValue(params[0], params[1])}, params[2:]...)
		}
	case SameValidation, DifferentValidation:
		if len(params) < 2 {
			break
		}
		last := len(params) - 1
		if !params[last].IsBool() {
			return []Value{StringValue(fieldParam(params))}
		}
		if last > 1 {
			return []Value{StringValue(fieldParam(params[:last])), params[last]}
		}
	case RequiredIfValidation, RequiredIfNotValidation:
		if len(params) > 2 {
			last := len(params) - 1
			return []Value{StringValue(fieldParam(params[:last])), params[last]}
		}
	}
	return params
}

func render(template, field string, params []Value) string {
	if strings.Contains(template, fieldPlaceholder) {
		template = strings.ReplaceAll(template, fieldPlaceholder, HumanizeField(field))
	}

	for i := range params {
		placeholder := "{$" + strconv.Itoa(i) + "}"
		if strings.Contains(template, placeholder) {
			template = strings.ReplaceAll(template, placeholder, englishList(params[i]))
		}
	}
	return template
}

// englishList renders a parameter for humans: lists become "a and b" or
// "a, b and c".
func englishList(v Value) string {
	if !v.IsList() {
		return v.String()
	}

	items := v.Strings()
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

// HumanizeField turns a field identifier such as "first_name" or
// "first-name" into "First Name".
func HumanizeField(field string) string {
	replaced := strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(field)
	return cases.Title(language.English).String(strings.Join(strings.Fields(replaced), " "))
}
