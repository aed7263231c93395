package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Template formats accepted by GenerateTemplate.
const (
	TemplateYAML = "yaml"
	TemplateJSON = "json"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "json".
	Format string
}

const yamlTemplate = `# gomdrules configuration
# See: https://github.com/yaklabco/gomdrules
#
# Rules listed here are added after the built-in rules.
# Built-in rules cannot be removed or overridden.

# Scan mode: line (report line numbers) or document (whole file)
mode: line

# File extensions to scan
extensions:
  - .md
  - .markdown

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"

# Number of parallel workers (0 = auto)
# jobs: 0

# Output format: text, json, sarif, or summary
# format: text

rules:
  - name: No AP
    regex: AP
    options:
      suggestion: Awesome Product
      keyword: AP
      caseSensitive: true
      justification: Spell out the product name in documentation.
`

// SampleDocument returns the document written by the YAML template.
func SampleDocument() *Document {
	return &Document{
		Config: Config{
			Mode:       ModeLine,
			Extensions: DefaultExtensions(),
		},
		Rules: []RuleDescriptor{{
			Name:  "No AP",
			Regex: "AP",
			Options: &RuleOptions{
				Suggestion:    "Awesome Product",
				Keyword:       "AP",
				CaseSensitive: true,
				Justification: "Spell out the product name in documentation.",
			},
		}},
	}
}

// GenerateTemplate creates a starter configuration document.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case TemplateYAML, "":
		return []byte(yamlTemplate), nil
	case TemplateJSON:
		return templateToJSON(SampleDocument())
	default:
		return nil, fmt.Errorf("invalid template format %q: must be yaml or json", opts.Format)
	}
}

// templateToJSON renders doc as indented JSON. JSON has no comments, so the
// YAML template's documentation is dropped.
func templateToJSON(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "\t")

	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}

	return buf.Bytes(), nil
}
