package validatinator

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageComposer_Compose(t *testing.T) {
	mc := NewMessageComposer(nil)

	tests := []struct {
		name   string
		method string
		params []Value
		want   string
	}{
		{
			name:   "no_params",
			method: RequiredValidation,
			want:   "This field is required.",
		},
		{
			name:   "scalar_param",
			method: MinLengthValidation,
			params: []Value{StringValue("8")},
			want:   "This field must be at least 8 characters long.",
		},
		{
			name:   "two_item_list",
			method: BetweenValidation,
			params: []Value{ListValue(StringValue("1"), StringValue("10"))},
			want:   "This field must be between 1 and 10.",
		},
		{
			name:   "long_list",
			method: ContainsValidation,
			params: []Value{ListValue(StringValue("a"), StringValue("b"), StringValue("c"))},
			want:   "This field must be one of the following values, a, b and c.",
		},
		{
			name:   "several_params",
			method: RequiredIfValidation,
			params: []Value{StringValue("role"), StringValue("admin")},
			want:   "This field is required if the value of the role field is admin.",
		},
		{
			name:   "bool_param",
			method: RequiredIfValidation,
			params: []Value{StringValue("subscribe"), BoolValue(true)},
			want:   "This field is required if the value of the subscribe field is true.",
		},
		{
			name:   "separate_bounds",
			method: BetweenValidation,
			params: []Value{StringValue("1"), StringValue("10")},
			want:   "This field must be between 1 and 10.",
		},
		{
			name:   "separate_length_bounds",
			method: DigitsLengthBetweenValidation,
			params: []Value{StringValue("4"), StringValue("6")},
			want:   "This field must be a numerical value and between 4 and 6 characters long.",
		},
		{
			name:   "prefixed_sibling_field",
			method: SameValidation,
			params: []Value{StringValue("json"), StringValue("password"), BoolValue(false)},
			want:   "This field must be the same value as the json:password field.",
		},
		{
			name:   "prefixed_condition_field",
			method: RequiredIfValidation,
			params: []Value{StringValue("query"), StringValue("plan"), StringValue("pro")},
			want:   "This field is required if the value of the query:plan field is pro.",
		},
		{
			name:   "unknown_method",
			method: "isEven",
			want:   "This field failed the isEven validation.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mc.Compose(tt.method, tt.params))
		})
	}
}

func TestMessageComposer_BoundsTemplate(t *testing.T) {
	mc := NewMessageComposer(Messages{BetweenValidation: "From {$0} to {$1}."})

	assert.Equal(t, "From 1 to 10.", mc.Compose(BetweenValidation, []Value{StringValue("1"), StringValue("10")}))
}

func TestMessageComposer_Placeholders(t *testing.T) {
	mc := NewMessageComposer(Messages{
		"range":    "{field} must be from {$0} to {$1}, not {$2}.",
		"many":     "{$10} then {$1}",
		"missing":  "Needs {$0} and {$1}.",
		"repeated": "{$0} or {$0}",
	})

	assert.Equal(t, "First Name must be from 1 to 5, not 9.",
		mc.ComposeField("first_name", "range", []Value{StringValue("1"), StringValue("5"), StringValue("9")}))

	params := make([]Value, 11)
	for i := range params {
		params[i] = StringValue(string(rune('a' + i)))
	}
	assert.Equal(t, "k then b", mc.Compose("many", params))

	assert.Equal(t, "Needs x and {$1}.", mc.Compose("missing", []Value{StringValue("x")}))
	assert.Equal(t, "y or y", mc.Compose("repeated", []Value{StringValue("y")}))
}

func TestMessageComposer_Override(t *testing.T) {
	mc := NewMessageComposer(nil)
	mc.Override(Messages{
		RequiredValidation: "Please fill this in.",
		"isEven":           "Must be even.",
	})

	assert.Equal(t, "Please fill this in.", mc.Compose(RequiredValidation, nil))
	assert.Equal(t, "Must be even.", mc.Compose("isEven", nil))
	assert.Equal(t, "This field only allows valid email addresses.", mc.Compose(EmailValidation, nil),
		"overrides must keep unrelated defaults")

	mc.Override(nil)
	assert.Equal(t, "Please fill this in.", mc.Compose(RequiredValidation, nil))
}

func TestMessageComposer_Clone(t *testing.T) {
	original := NewMessageComposer(nil)
	clone := original.Clone()
	clone.Override(Messages{RequiredValidation: "changed"})

	assert.Equal(t, "This field is required.", original.Compose(RequiredValidation, nil))
	assert.Equal(t, "changed", clone.Compose(RequiredValidation, nil))
}

func TestMessageComposer_ZeroValue(t *testing.T) {
	var mc MessageComposer
	assert.Equal(t, "This field failed the required validation.", mc.Compose(RequiredValidation, nil))

	mc.Override(Messages{RequiredValidation: "set"})
	assert.Equal(t, "set", mc.Compose(RequiredValidation, nil))
}

func TestMessageComposer_ConcurrentCompose(t *testing.T) {
	mc := NewMessageComposer(Messages{"greet": "{field} says {$0}"})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "User Name says hi", mc.ComposeField("user_name", "greet", []Value{StringValue("hi")}))
		}()
	}
	wg.Wait()
}

func TestDefaultMessages(t *testing.T) {
	messages := DefaultMessages()
	for name := range builtinValidations() {
		assert.Contains(t, messages, name)
	}

	messages[RequiredValidation] = "mutated"
	assert.NotEqual(t, "mutated", DefaultMessages()[RequiredValidation])
}

func TestHumanizeField(t *testing.T) {
	tests := map[string]string{
		"first_name":    "First Name",
		"first-name":    "First Name",
		"address.city":  "Address City",
		"email":         "Email",
		"  spaced__out": "Spaced Out",
		"":              "",
	}

	for field, want := range tests {
		t.Run(field, func(t *testing.T) {
			assert.Equal(t, want, HumanizeField(field))
		})
	}
}
