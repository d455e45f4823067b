package validatinator

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// constants for the rule string grammar
const (
	DefaultRuleDelimiter = "|"
	ParamDelimiter       = ":"
	ListDelimiter        = ","
)

// constants for boolean parameter literals
const (
	TrueLiteral  = "true"
	FalseLiteral = "false"
)

// Names of the builtin validations.
const (
	AcceptedValidation            = "accepted"
	AlphaValidation               = "alpha"
	AlphaDashValidation           = "alphaDash"
	AlphaNumValidation            = "alphaNum"
	BetweenValidation             = "between"
	BetweenLengthValidation       = "betweenLength"
	ContainsValidation            = "contains"
	DateBeforeValidation          = "dateBefore"
	DateAfterValidation           = "dateAfter"
	DifferentValidation           = "different"
	DigitsLengthValidation        = "digitsLength"
	DigitsLengthBetweenValidation = "digitsLengthBetween"
	EmailValidation               = "email"
	IPv4Validation                = "ipvFour"
	MaxValidation                 = "max"
	MaxLengthValidation           = "maxLength"
	MinValidation                 = "min"
	MinLengthValidation           = "minLength"
	NotInValidation               = "notIn"
	NumberValidation              = "number"
	RequiredValidation            = "required"
	RequiredIfValidation          = "requiredIf"
	RequiredIfNotValidation       = "requiredIfNot"
	SameValidation                = "same"
	URLValidation                 = "url"
	UUIDValidation                = "uuid"
)

// constants for HTTPAccessor field source prefixes
const (
	FormSource   = "form"
	QuerySource  = "query"
	JSONSource   = "json"
	HeaderSource = "header"
	CookieSource = "cookie"
)

// Struct tag read by StructAccessor.
const FieldTag = "form"

// Mime Type constants for content types.
const (
	ContentTypeApplicationJSON string = "application/json"
	ContentTypeFormURLEncoded  string = "application/x-www-form-urlencoded"
	ContentTypeMultipartForm   string = "multipart/form-data"
	ContentTypeDelimiter              = ";"
)

// reflect.TypeOf constants for type checks
var (
	UUIDType = reflect.TypeOf(uuid.UUID{})
	TimeType = reflect.TypeOf(time.Time{})
)
