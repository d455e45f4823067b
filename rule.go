package validatinator

import (
	"strings"
)

// This file contains the rule string parser. A rule string names a
// validation and optionally carries its parameters:
//
// Rule grammar:
//     <rule>
// rule:
//     <method> [':' <param>]^*
// method:
//     <string>
// param:
//     <token> | <token> [',' <token>]^+ // a comma makes a list parameter
// token:
//     <string> // may be empty, surrounding whitespace is trimmed on coercion
//
// Examples:
//     required            -> required, []
//     min:5               -> min, ["5"]
//     between:1,10        -> between, [["1","10"]]
//     same:password:false -> same, ["password", "false"]
//     min:                -> min, [""]

// RawParam is a single colon-delimited parameter of a rule, before coercion.
type RawParam struct {
	Tokens []string // One token unless List is set
	List   bool     // Set when the segment contained a comma
}

// ParsedRule is a rule string split into its method and raw parameters.
type ParsedRule struct {
	Method string
	Params []RawParam
}

// ParseRule splits a rule string into its validation method name and
// its ordered raw parameters. It never fails: malformed parameter
// segments end up as empty tokens for the coercer to handle.
func ParseRule(rule string) ParsedRule {
	if !strings.Contains(rule, ParamDelimiter) {
		return ParsedRule{Method: strings.TrimSpace(rule)}
	}

	segments := strings.Split(rule, ParamDelimiter)
	params := make([]RawParam, 0, len(segments)-1)

	for _, segment := range segments[1:] {
		params = append(params, parseParam(segment))
	}

	return ParsedRule{
		Method: strings.TrimSpace(segments[0]),
		Params: params,
	}
}

func parseParam(segment string) RawParam {
	if !strings.Contains(segment, ListDelimiter) {
		return RawParam{Tokens: []string{segment}}
	}
	return RawParam{
		Tokens: strings.Split(segment, ListDelimiter),
		List:   true,
	}
}

// String rebuilds the rule string.
func (pr ParsedRule) String() string {
	var b strings.Builder
	b.WriteString(pr.Method)
	for _, param := range pr.Params {
		b.WriteString(ParamDelimiter)
		b.WriteString(strings.Join(param.Tokens, ListDelimiter))
	}
	return b.String()
}

// splitRules splits a delimiter-joined declaration into single rules,
// dropping the empty segments left by doubled or trailing delimiters.
// Without a delimiter a declaration is split on DefaultRuleDelimiter when
// it contains one, and on runs of whitespace otherwise.
func splitRules(declaration string, delim string) []string {
	if delim == "" {
		delim = " "
		if strings.Contains(declaration, DefaultRuleDelimiter) {
			delim = DefaultRuleDelimiter
		}
	}

	var parts []string
	if strings.TrimSpace(delim) == "" {
		parts = strings.Fields(declaration)
	} else {
		parts = strings.Split(declaration, delim)
	}

	return cleanRules(parts)
}

// cleanRules trims already split rules and drops the empty ones.
func cleanRules(parts []string) []string {
	rules := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		rules = append(rules, part)
	}
	return rules
}
