package validatinator

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Address struct {
	City    string `form:"city"`
	ZipCode string `form:"zip"`
}

type Audit struct {
	CreatedBy string `form:"created_by"`
}

type SignupForm struct {
	Audit

	ID       uuid.UUID  `form:"id"`
	Email    string     `form:"email"`
	Age      int        `form:"age,omitempty"`
	Score    float64    `form:"score"`
	Terms    bool       `form:"terms"`
	Birthday time.Time  `form:"birthday"`
	Address  Address    `form:"address"`
	Billing  *Address   `form:"billing"`
	Nickname *string    `form:"nickname"`
	Secret   string     `form:"-"`
	Tags     []string   `form:"tags"`
	Referrer *uuid.UUID `form:"referrer"`
	Username string
	password string
}

func newSignupForm() *SignupForm {
	return &SignupForm{
		Audit:    Audit{CreatedBy: "admin"},
		ID:       uuid.MustParse("123e4567-e89b-12d3-a456-426614174000"),
		Email:    "a@b.com",
		Username: "gopher",
		Age:      30,
		Score:    9.5,
		Terms:    true,
		Birthday: time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		Address:  Address{City: "Berlin", ZipCode: "10115"},
		Secret:   "hidden",
		password: "hunter2",
	}
}

func TestStructAccessor(t *testing.T) {
	accessor := NewStructAccessor()
	require.NoError(t, accessor.Bind("signup", newSignupForm()))

	tests := []struct {
		field string
		want  string
	}{
		{"id", "123e4567-e89b-12d3-a456-426614174000"},
		{"email", "a@b.com"},
		{"Username", "gopher"},
		{"age", "30"},
		{"score", "9.5"},
		{"terms", "true"},
		{"birthday", "1990-05-17T00:00:00Z"},
		{"address.city", "Berlin"},
		{"address.zip", "10115"},
		{"billing.city", ""},
		{"nickname", ""},
		{"referrer", ""},
		{"created_by", "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, err := accessor.Value("signup", tt.field)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStructAccessor_Errors(t *testing.T) {
	accessor := NewStructAccessor()
	require.NoError(t, accessor.Bind("signup", newSignupForm()))

	t.Run("unknown_field", func(t *testing.T) {
		for _, field := range []string{"missing", "Email", "Secret", "password", "address.street", "email.x", "birthday.year"} {
			_, err := accessor.Value("signup", field)
			assert.ErrorIs(t, err, ErrUnknownField, field)
		}
	})

	t.Run("unsupported_type", func(t *testing.T) {
		_, err := accessor.Value("signup", "tags")
		assert.ErrorIs(t, err, ErrUnsupportedFieldType)
	})

	t.Run("unknown_form", func(t *testing.T) {
		_, err := accessor.Value("other", "email")
		assert.ErrorIs(t, err, ErrUnknownForm)
	})

	t.Run("invalid_sources", func(t *testing.T) {
		var nilForm *SignupForm
		for _, source := range []any{nil, SignupForm{}, nilForm, new(string)} {
			assert.ErrorIs(t, accessor.Bind("bad", source), ErrInvalidStructSource)
		}
	})
}

func TestStructAccessor_ReadsLiveValues(t *testing.T) {
	form := newSignupForm()
	accessor := NewStructAccessor()
	require.NoError(t, accessor.Bind("signup", form))

	form.Email = "changed@b.com"
	nickname := "goph"
	form.Nickname = &nickname
	form.Billing = &Address{City: "Paris"}

	got, err := accessor.Value("signup", "email")
	require.NoError(t, err)
	assert.Equal(t, "changed@b.com", got)

	got, err = accessor.Value("signup", "nickname")
	require.NoError(t, err)
	assert.Equal(t, "goph", got)

	got, err = accessor.Value("signup", "billing.city")
	require.NoError(t, err)
	assert.Equal(t, "Paris", got)
}

func TestStructAccessor_WithEngine(t *testing.T) {
	rules := NewRuleSet(RuleSetOpts{}).
		Declare("signup", "email", "required|email").
		Declare("signup", "age", "number|min:18").
		Declare("signup", "id", "uuid").
		Declare("signup", "address.zip", "digitsLength:5")

	form := newSignupForm()
	accessor := NewStructAccessor()
	require.NoError(t, accessor.Bind("signup", form))

	engine, err := New(rules, EngineOpts{Accessor: accessor})
	require.NoError(t, err)

	passes, err := engine.Passes("signup")
	require.NoError(t, err)
	assert.True(t, passes)

	form.Age = 16
	form.Address.ZipCode = "1011"

	store, err := engine.Validate("signup")
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "address.zip"}, store.Fields())
	assert.Equal(t, []string{"This field must be at least 18."}, store.Get("age"))
}
