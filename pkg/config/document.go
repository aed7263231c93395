package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// RuleOptions mirrors the optional settings of a configured rule.
type RuleOptions struct {
	Suggestion    string `yaml:"suggestion,omitempty" json:"suggestion,omitempty"`
	Keyword       string `yaml:"keyword,omitempty" json:"keyword,omitempty"`
	CaseSensitive bool   `yaml:"caseSensitive,omitempty" json:"caseSensitive,omitempty"`
	Justification string `yaml:"justification,omitempty" json:"justification,omitempty"`
}

// RuleDescriptor describes one rule in a configuration document.
type RuleDescriptor struct {
	Name    string       `yaml:"name" json:"name"`
	Regex   string       `yaml:"regex" json:"regex"`
	Options *RuleOptions `yaml:"options,omitempty" json:"options,omitempty"`
}

// Document is the on-disk configuration document. It holds additional rules
// plus the tool settings that can also be given by env or flags.
type Document struct {
	Config `yaml:",inline"`

	// Rules are appended after the built-in rules, in document order.
	Rules []RuleDescriptor `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// DescriptorError reports a rule descriptor missing a required field.
type DescriptorError struct {
	Index int
	Name  string
	Field string
}

// Error implements the error interface.
func (e *DescriptorError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("rules[%d] (%q): missing required field %q", e.Index, e.Name, e.Field)
	}
	return fmt.Sprintf("rules[%d]: missing required field %q", e.Index, e.Field)
}

// ParseDocument decodes a YAML or JSON configuration document.
// Unknown keys are rejected, as is anything after the first document.
// An empty document yields an empty Document.
func ParseDocument(content []byte) (*Document, error) {
	doc, yamlErr := parseYAMLDocument(content)
	if yamlErr == nil {
		return doc, nil
	}

	// Tab-indented JSON is not valid YAML.
	if trimmed := bytes.TrimSpace(content); len(trimmed) > 0 && trimmed[0] == '{' {
		doc, err := parseJSONDocument(trimmed)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}

	return nil, yamlErr
}

func parseYAMLDocument(content []byte) (*Document, error) {
	doc := &Document{}

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	if err := decoder.Decode(doc); err != nil {
		if errors.Is(err, io.EOF) {
			return doc, nil
		}
		return nil, fmt.Errorf("decode YAML document: %w", err)
	}

	var extra yaml.Node
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("decode YAML document: %w", err)
		}
		return nil, errors.New("decode YAML document: unexpected second document")
	}

	return doc, nil
}

func parseJSONDocument(content []byte) (*Document, error) {
	doc := &Document{}

	decoder := json.NewDecoder(bytes.NewReader(content))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("decode JSON document: %w", err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode JSON document: unexpected content after offset %d", decoder.InputOffset())
	}

	return doc, nil
}

// Validate checks that every rule descriptor has its required fields.
func (d *Document) Validate() error {
	for idx, desc := range d.Rules {
		if desc.Name == "" {
			return &DescriptorError{Index: idx, Field: "name"}
		}
		if desc.Regex == "" {
			return &DescriptorError{Index: idx, Name: desc.Name, Field: "regex"}
		}
	}
	return nil
}
