package validatinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  Value
	}{
		{"true", "true", BoolValue(true)},
		{"false", "false", BoolValue(false)},
		{"plain_string", "abc", StringValue("abc")},
		{"number_stays_string", "10", StringValue("10")},
		{"empty", "", StringValue("")},
		{"trimmed_bool", "  true ", BoolValue(true)},
		{"trimmed_string", "\tabc\n", StringValue("abc")},
		{"uppercase_is_string", "TRUE", StringValue("TRUE")},
		{"titlecase_is_string", "False", StringValue("False")},
		{"yes_is_string", "yes", StringValue("yes")},
		{"one_is_string", "1", StringValue("1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coerce(tt.token)
			assert.True(t, tt.want.Equal(got), "Coerce(%q) = %s %q, want %s %q",
				tt.token, got.Kind(), got.String(), tt.want.Kind(), tt.want.String())
		})
	}
}

func TestCoerce_Idempotent(t *testing.T) {
	for _, token := range []string{"true", "false", "abc", "", " 5 ", "TRUE"} {
		once := Coerce(token)
		twice := Coerce(once.String())
		assert.True(t, once.Equal(twice), "token %q", token)
	}
}

func TestFoldedBoolPolicy(t *testing.T) {
	coercer := NewCoercer(FoldedBoolPolicy)

	for _, token := range []string{"true", "TRUE", "True", "tRuE"} {
		b, ok := coercer.Coerce(token).Bool()
		assert.True(t, ok, token)
		assert.True(t, b, token)
	}
	for _, token := range []string{"false", "FALSE", "False"} {
		b, ok := coercer.Coerce(token).Bool()
		assert.True(t, ok, token)
		assert.False(t, b, token)
	}

	assert.Equal(t, StringKind, coercer.Coerce("yes").Kind())
}

func TestCustomBoolPolicy(t *testing.T) {
	yesNo := BoolPolicyFunc(func(token string) (bool, bool) {
		switch token {
		case "yes":
			return true, true
		case "no":
			return false, true
		}
		return false, false
	})

	coercer := NewCoercer(yesNo)
	b, ok := coercer.Coerce("yes").Bool()
	assert.True(t, ok)
	assert.True(t, b)
	assert.Equal(t, StringKind, coercer.Coerce("true").Kind())
}

func TestZeroCoercer(t *testing.T) {
	var coercer Coercer
	b, ok := coercer.Coerce("true").Bool()
	assert.True(t, ok)
	assert.True(t, b)
}

func TestCoerceParam(t *testing.T) {
	t.Run("scalar", func(t *testing.T) {
		v := CoerceParam(RawParam{Tokens: []string{" 5 "}})
		assert.Equal(t, StringKind, v.Kind())
		assert.Equal(t, "5", v.String())
	})

	t.Run("empty_scalar", func(t *testing.T) {
		v := CoerceParam(RawParam{})
		assert.True(t, StringValue("").Equal(v))
	})

	t.Run("list", func(t *testing.T) {
		v := CoerceParam(RawParam{Tokens: []string{"1", " true", "x "}, List: true})
		require.Equal(t, ListKind, v.Kind())

		items := v.List()
		require.Len(t, items, 3)
		assert.True(t, StringValue("1").Equal(items[0]))
		assert.True(t, BoolValue(true).Equal(items[1]))
		assert.True(t, StringValue("x").Equal(items[2]))
	})

	t.Run("params_keep_order", func(t *testing.T) {
		values := NewCoercer(nil).CoerceParams(ParseRule("same:password:false").Params)
		require.Len(t, values, 2)
		assert.Equal(t, "password", values[0].String())
		b, ok := values[1].Bool()
		assert.True(t, ok)
		assert.False(t, b)
	})
}

func TestValue(t *testing.T) {
	t.Run("zero_is_empty_string", func(t *testing.T) {
		var v Value
		assert.Equal(t, StringKind, v.Kind())
		assert.Equal(t, "", v.String())
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "true", BoolValue(true).String())
		assert.Equal(t, "a,b", ListValue(StringValue("a"), StringValue("b")).String())
	})

	t.Run("Strings", func(t *testing.T) {
		assert.Equal(t, []string{"a"}, StringValue("a").Strings())
		assert.Equal(t, []string{"1", "false"}, ListValue(StringValue("1"), BoolValue(false)).Strings())
	})

	t.Run("Bool_on_string", func(t *testing.T) {
		_, ok := StringValue("true").Bool()
		assert.False(t, ok)
	})

	t.Run("Float", func(t *testing.T) {
		f, err := StringValue("2.5").Float()
		require.NoError(t, err)
		assert.Equal(t, 2.5, f)

		_, err = StringValue("abc").Float()
		assert.ErrorIs(t, err, ErrInvalidParameter)

		_, err = BoolValue(true).Float()
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("Int", func(t *testing.T) {
		i, err := StringValue("12").Int()
		require.NoError(t, err)
		assert.Equal(t, 12, i)

		_, err = StringValue("1.5").Int()
		assert.ErrorIs(t, err, ErrInvalidParameter)

		_, err = ListValue(StringValue("1")).Int()
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("Equal", func(t *testing.T) {
		assert.False(t, StringValue("true").Equal(BoolValue(true)))
		assert.False(t, ListValue(StringValue("a")).Equal(ListValue(StringValue("a"), StringValue("b"))))
		assert.True(t, ListValue(BoolValue(false)).Equal(ListValue(BoolValue(false))))
	})

	t.Run("Kind_String", func(t *testing.T) {
		assert.Equal(t, "string", StringKind.String())
		assert.Equal(t, "bool", BoolKind.String())
		assert.Equal(t, "list", ListKind.String())
		assert.Equal(t, "Kind(9)", Kind(9).String())
	})
}
