package validatinator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// DeclarationParser decodes rule and message declarations from one file
// format.
//
// Rule documents map forms to fields to declarations:
//
//	{"loginForm": {"email": "required|email", "password": ["required", "minLength:8"]}}
//
// Message documents map validation names to templates. An entry whose
// value is itself a map holds the overrides of the form it is named
// after:
//
//	{"required": "Please fill this in.", "loginForm": {"email": "Not an email."}}
type DeclarationParser interface {
	// ParseRules decodes a rule document, keeping its declaration order.
	ParseRules(data []byte, opts RuleSetOpts) (*RuleSet, error)

	// ParseMessages decodes a message document.
	ParseMessages(data []byte) (MessageSet, error)

	// SupportsFileExtension checks if the parser supports a given file extension.
	// The extension may or may not include a leading dot.
	SupportsFileExtension(ext string) bool
}

// MessageSet is a decoded message document.
type MessageSet struct {
	Messages Messages            // Overrides for every form
	Forms    map[string]Messages // Overrides for one form, by form name
}

// declarationParsers are asked in order by NewParserForFile.
var declarationParsers = []DeclarationParser{
	JSONDeclarationParser{},
	YAMLDeclarationParser{},
}

// NewParserForFile returns a parser based on the file extension, or nil
// when the extension is not supported.
func NewParserForFile(filename string) DeclarationParser {
	ext := filepath.Ext(filename)
	if ext == "" {
		return nil
	}

	for _, parser := range declarationParsers {
		if parser.SupportsFileExtension(ext) {
			return parser
		}
	}
	return nil
}

// LoadRuleSet reads a .json, .yaml or .yml rule document.
func LoadRuleSet(path string, opts RuleSetOpts) (*RuleSet, error) {
	parser, data, err := readDeclaration(path)
	if err != nil {
		return nil, err
	}

	rs, err := parser.ParseRules(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// LoadMessages reads a .json, .yaml or .yml message document.
func LoadMessages(path string) (MessageSet, error) {
	parser, data, err := readDeclaration(path)
	if err != nil {
		return MessageSet{}, err
	}

	ms, err := parser.ParseMessages(data)
	if err != nil {
		return MessageSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return ms, nil
}

// ParseRuleSetJSON decodes a JSON rule document.
func ParseRuleSetJSON(data []byte, opts RuleSetOpts) (*RuleSet, error) {
	return JSONDeclarationParser{}.ParseRules(data, opts)
}

// ParseRuleSetYAML decodes a YAML rule document.
func ParseRuleSetYAML(data []byte, opts RuleSetOpts) (*RuleSet, error) {
	return YAMLDeclarationParser{}.ParseRules(data, opts)
}

// ParseMessagesJSON decodes a JSON message document.
func ParseMessagesJSON(data []byte) (MessageSet, error) {
	return JSONDeclarationParser{}.ParseMessages(data)
}

// ParseMessagesYAML decodes a YAML message document.
func ParseMessagesYAML(data []byte) (MessageSet, error) {
	return YAMLDeclarationParser{}.ParseMessages(data)
}

func readDeclaration(path string) (DeclarationParser, []byte, error) {
	parser := NewParserForFile(path)
	if parser == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedDeclarationFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read declaration file: %w", err)
	}
	return parser, data, nil
}

func (ms *MessageSet) addForm(form string, messages Messages) {
	if ms.Forms == nil {
		ms.Forms = make(map[string]Messages)
	}
	ms.Forms[form] = messages
}

///////////////////////////////////////////////////////////////////////////////
// JSON
///////////////////////////////////////////////////////////////////////////////

// JSONDeclarationParser decodes JSON documents with gjson, iterating
// objects in document order.
type JSONDeclarationParser struct{}

func (JSONDeclarationParser) ParseRules(data []byte, opts RuleSetOpts) (*RuleSet, error) {
	root, err := parseJSONObject(data, ErrInvalidDeclaration)
	if err != nil {
		return nil, err
	}

	rs := NewRuleSet(opts)
	root.ForEach(func(form, fields gjson.Result) bool {
		if !fields.IsObject() {
			err = fmt.Errorf("%w: form %q must map fields to rules", ErrInvalidDeclaration, form.String())
			return false
		}

		fields.ForEach(func(field, declaration gjson.Result) bool {
			var rules []string
			rules, err = rs.normalize(jsonDeclaration(declaration))
			if err != nil {
				err = fmt.Errorf("form %q field %q: %w", form.String(), field.String(), err)
				return false
			}
			rs.set(form.String(), field.String(), rules)
			return true
		})
		return err == nil
	})

	if err != nil {
		return nil, err
	}
	return rs, nil
}

func (JSONDeclarationParser) ParseMessages(data []byte) (MessageSet, error) {
	root, err := parseJSONObject(data, ErrInvalidMessages)
	if err != nil {
		return MessageSet{}, err
	}

	ms := MessageSet{Messages: Messages{}}
	root.ForEach(func(key, value gjson.Result) bool {
		switch {
		case value.Type == gjson.String:
			ms.Messages[key.String()] = value.String()
		case value.IsObject():
			formMessages := Messages{}
			value.ForEach(func(method, template gjson.Result) bool {
				if template.Type != gjson.String {
					err = fmt.Errorf("%w: form %q message %q must be a string", ErrInvalidMessages, key.String(), method.String())
					return false
				}
				formMessages[method.String()] = template.String()
				return true
			})
			ms.addForm(key.String(), formMessages)
		default:
			err = fmt.Errorf("%w: %q must be a string or a map", ErrInvalidMessages, key.String())
		}
		return err == nil
	})

	if err != nil {
		return MessageSet{}, err
	}
	return ms, nil
}

func (JSONDeclarationParser) SupportsFileExtension(ext string) bool {
	return strings.EqualFold(strings.TrimPrefix(ext, "."), "json")
}

func parseJSONObject(data []byte, sentinel error) (gjson.Result, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return gjson.Parse("{}"), nil
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%w: invalid JSON", sentinel)
	}

	root := gjson.ParseBytes(data)
	if root.Type == gjson.Null {
		return gjson.Parse("{}"), nil
	}
	if !root.IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: top level must be an object", sentinel)
	}
	return root, nil
}

// jsonDeclaration converts a declaration to the shapes normalize accepts.
func jsonDeclaration(declaration gjson.Result) any {
	switch {
	case declaration.Type == gjson.Null:
		return nil
	case declaration.Type == gjson.String:
		return declaration.String()
	case declaration.IsArray():
		items := make([]any, 0)
		declaration.ForEach(func(_, item gjson.Result) bool {
			if item.Type == gjson.String {
				items = append(items, item.String())
			} else {
				items = append(items, item.Value())
			}
			return true
		})
		return items
	default:
		return declaration.Value()
	}
}

///////////////////////////////////////////////////////////////////////////////
// YAML
///////////////////////////////////////////////////////////////////////////////

// YAMLDeclarationParser decodes YAML documents with gopkg.in/yaml.v3.
// Rule documents are walked as yaml.Node trees to keep mapping order.
type YAMLDeclarationParser struct{}

const yamlStringTag = "!!str"

func (YAMLDeclarationParser) ParseRules(data []byte, opts RuleSetOpts) (*RuleSet, error) {
	var document yaml.Node
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDeclaration, err)
	}

	rs := NewRuleSet(opts)
	if len(document.Content) == 0 {
		return rs, nil
	}

	root := document.Content[0]
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return rs, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrInvalidDeclaration)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		form, fields := root.Content[i].Value, root.Content[i+1]
		if fields.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: form %q must map fields to rules", ErrInvalidDeclaration, form)
		}

		for j := 0; j+1 < len(fields.Content); j += 2 {
			field := fields.Content[j].Value
			rules, err := rs.normalize(yamlDeclaration(fields.Content[j+1]))
			if err != nil {
				return nil, fmt.Errorf("form %q field %q: %w", form, field, err)
			}
			rs.set(form, field, rules)
		}
	}

	return rs, nil
}

func (YAMLDeclarationParser) ParseMessages(data []byte) (MessageSet, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return MessageSet{}, fmt.Errorf("%w: %v", ErrInvalidMessages, err)
	}

	ms := MessageSet{Messages: Messages{}}
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			ms.Messages[key] = v
		case map[string]any:
			formMessages := make(Messages, len(v))
			for method, template := range v {
				s, ok := template.(string)
				if !ok {
					return MessageSet{}, fmt.Errorf("%w: form %q message %q must be a string", ErrInvalidMessages, key, method)
				}
				formMessages[method] = s
			}
			ms.addForm(key, formMessages)
		default:
			return MessageSet{}, fmt.Errorf("%w: %q must be a string or a map, got %T", ErrInvalidMessages, key, value)
		}
	}

	return ms, nil
}

func (YAMLDeclarationParser) SupportsFileExtension(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	return strings.EqualFold(ext, "yaml") || strings.EqualFold(ext, "yml")
}

// yamlDeclaration converts a declaration node to the shapes normalize
// accepts. Scalars that are not strings are passed through as their
// decoded value so normalize rejects them.
func yamlDeclaration(node *yaml.Node) any {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			return nil
		}
		if node.ShortTag() == yamlStringTag {
			return node.Value
		}
		return yamlScalar(node)
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind == yaml.ScalarNode && item.ShortTag() == yamlStringTag {
				items = append(items, item.Value)
				continue
			}
			items = append(items, yamlScalar(item))
		}
		return items
	default:
		return yamlScalar(node)
	}
}

func yamlScalar(node *yaml.Node) any {
	var value any
	if err := node.Decode(&value); err != nil {
		return node
	}
	return value
}
