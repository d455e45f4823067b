package validatinator

import (
	"fmt"
	"sync"

	"github.com/tidwall/gjson"
)

// JSONAccessor reads field values out of one JSON document per form.
// Field identifiers are gjson paths, so nested values are addressed as
// "address.city" or "tags.0".
//
// Missing paths and JSON nulls read as the empty string; numbers, bools,
// objects and arrays read as their JSON text.
type JSONAccessor struct {
	mu        sync.RWMutex
	documents map[string]gjson.Result
}

func NewJSONAccessor() *JSONAccessor {
	return &JSONAccessor{
		documents: make(map[string]gjson.Result),
	}
}

// Bind parses document and binds it to form. Invalid JSON is rejected.
func (ja *JSONAccessor) Bind(form string, document []byte) error {
	if !gjson.ValidBytes(document) {
		return fmt.Errorf("invalid JSON document for form %q", form)
	}

	ja.mu.Lock()
	defer ja.mu.Unlock()

	if ja.documents == nil {
		ja.documents = make(map[string]gjson.Result)
	}
	ja.documents[form] = gjson.ParseBytes(document)
	return nil
}

// BindString is Bind for string documents.
func (ja *JSONAccessor) BindString(form string, document string) error {
	return ja.Bind(form, []byte(document))
}

// Value implements Accessor.
func (ja *JSONAccessor) Value(form, field string) (string, error) {
	ja.mu.RLock()
	document, ok := ja.documents[form]
	ja.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownForm, form)
	}
	return jsonValue(document, field), nil
}

func jsonValue(document gjson.Result, path string) string {
	result := document.Get(path)
	if !result.Exists() || result.Type == gjson.Null {
		return ""
	}
	if result.Type == gjson.JSON {
		return result.Raw
	}
	return result.String()
}
