// Package ruleset loads rule files into lint rule sets.
//
// A rule file is YAML with a top-level "rules" mapping. Mapping order is kept:
// it is the order rules run in on every line.
package ruleset

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// DefaultFile is the rule file looked up when none is configured.
const DefaultFile = "rules.yaml"

// ErrRulesNotFound is returned by Load when the rule file does not exist.
var ErrRulesNotFound = errors.New("rules file not found")

//go:embed default_rules.yaml
var defaultRules []byte

// DefaultYAML returns the built-in rule file.
func DefaultYAML() []byte {
	return bytes.Clone(defaultRules)
}

// Default parses the built-in rule file.
func Default() (lint.RuleSet, error) {
	return Parse(defaultRules)
}

// ParseError describes a structurally invalid rule file.
type ParseError struct {
	File    string
	Rule    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.Rule != "" {
		msg = fmt.Sprintf("rule %q: %s", e.Rule, msg)
	}
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, msg)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, msg)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	default:
		return msg
	}
}

// Load reads and parses the rule file at path.
func Load(path string) (lint.RuleSet, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is user configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRulesNotFound, path)
		}
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	rules, err := Parse(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.File = path
		}
		return nil, err
	}
	return rules, nil
}

// ruleDoc is one entry of the "rules" mapping. Keys other than the common
// ones are collected into Params for the check.
type ruleDoc struct {
	Enabled     *bool          `mapstructure:"enabled"`
	Function    string         `mapstructure:"function"`
	Check       string         `mapstructure:"check"`
	Level       string         `mapstructure:"level"`
	Description string         `mapstructure:"description"`
	Params      map[string]any `mapstructure:",remain"`
}

// Parse builds a rule set from rule file contents. An empty document or one
// without a "rules" key yields an empty rule set.
func Parse(data []byte) (lint.RuleSet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("invalid YAML: %v", err)}
	}
	if len(doc.Content) == 0 {
		return lint.RuleSet{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ParseError{Line: root.Line, Message: "top level must be a mapping"}
	}

	rulesNode := lookup(root, "rules")
	if rulesNode == nil || isNull(rulesNode) {
		return lint.RuleSet{}, nil
	}
	if rulesNode.Kind != yaml.MappingNode {
		return nil, &ParseError{Line: rulesNode.Line, Message: `"rules" must be a mapping of rule keys`}
	}

	rules := make(lint.RuleSet, 0, len(rulesNode.Content)/2)
	seen := make(map[string]int)
	for i := 0; i+1 < len(rulesNode.Content); i += 2 {
		keyNode, valueNode := rulesNode.Content[i], rulesNode.Content[i+1]
		key := keyNode.Value
		if first, dup := seen[key]; dup {
			return nil, &ParseError{Rule: key, Line: keyNode.Line, Message: fmt.Sprintf("duplicate rule key (first defined on line %d)", first)}
		}
		seen[key] = keyNode.Line

		spec, err := parseRule(key, valueNode)
		if err != nil {
			return nil, err
		}
		rules = append(rules, lint.NewRule(spec))
	}

	if err := rules.Validate(); err != nil {
		return nil, &ParseError{Message: err.Error()}
	}
	return rules, nil
}

func parseRule(key string, node *yaml.Node) (lint.RuleSpec, error) {
	if key == "" {
		return lint.RuleSpec{}, &ParseError{Line: node.Line, Message: "rule key must not be empty"}
	}
	if node.Kind != yaml.MappingNode {
		return lint.RuleSpec{}, &ParseError{Rule: key, Line: node.Line, Message: "rule must be a mapping"}
	}

	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return lint.RuleSpec{}, &ParseError{Rule: key, Line: node.Line, Message: err.Error()}
	}

	var rd ruleDoc
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rd,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return lint.RuleSpec{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return lint.RuleSpec{}, &ParseError{Rule: key, Line: node.Line, Message: err.Error()}
	}

	severity := lint.SeverityWarning
	if rd.Level != "" {
		var ok bool
		severity, ok = lint.ParseSeverity(rd.Level)
		if !ok {
			return lint.RuleSpec{}, &ParseError{
				Rule:    key,
				Line:    valueLine(node, "level"),
				Message: fmt.Sprintf("invalid level %q, must be one of: info, warning, error", rd.Level),
			}
		}
	}

	check := rd.Check
	if check == "" {
		check = rd.Function
	}

	description := rd.Description
	if description == "" {
		description = key
	}

	enabled := true
	if rd.Enabled != nil {
		enabled = *rd.Enabled
	}

	return lint.RuleSpec{
		Key:         key,
		Check:       check,
		Enabled:     enabled,
		Severity:    severity,
		Description: description,
		Params:      rd.Params,
	}, nil
}

// lookup returns the value node for key in a mapping node.
func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func valueLine(m *yaml.Node, key string) int {
	if v := lookup(m, key); v != nil {
		return v.Line
	}
	return m.Line
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
