package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gomdrules/pkg/lint"
	"github.com/yaklabco/gomdrules/pkg/runner"
)

// SARIF version used by this reporter.
const sarifVersion = "2.1.0"

// SARIF schema URI.
const sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

// sarifLevel is the level of every result; rules carry no severity.
const sarifLevel = "warning"

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and rules.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes a rule.
type SARIFRule struct {
	ID               string                `json:"id"`
	Name             string                `json:"name,omitempty"`
	ShortDescription SARIFMultiformatText  `json:"shortDescription"`
	FullDescription  *SARIFMultiformatText `json:"fullDescription,omitempty"`
	DefaultConfig    *SARIFRuleConfig      `json:"defaultConfiguration,omitempty"`
	Properties       map[string]any        `json:"properties,omitempty"`
}

// SARIFMultiformatText contains text in multiple formats.
type SARIFMultiformatText struct {
	Text string `json:"text"`
}

// SARIFRuleConfig contains rule configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFResult represents a single violation occurrence.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFMessage contains the result message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation contains file path and region.
// Region is nil for whole-document violations.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           *SARIFRegion          `json:"region,omitempty"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion describes the affected text region.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

// SARIFReporter formats results as SARIF.
type SARIFReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// SARIFRuleID returns the SARIF rule id for the rule at index.
// Rule names are not unique, so ids are positional.
func SARIFRuleID(index int) string {
	return fmt.Sprintf("GMR%d", index+1)
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode SARIF: %w", err)
	}

	return len(output.Runs[0].Results), nil
}

func (r *SARIFReporter) buildOutput(result *runner.Result) *SARIFOutput {
	run := SARIFRun{
		Tool: SARIFTool{
			Driver: SARIFDriver{
				Name:           "gomdrules",
				Version:        r.opts.ToolVersion,
				InformationURI: "https://github.com/yaklabco/gomdrules",
				Rules:          make([]SARIFRule, 0),
			},
		},
		Results: make([]SARIFResult, 0),
	}

	if result != nil {
		for idx, rule := range result.Rules {
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule(idx, rule))
		}

		for _, file := range result.Files {
			uri := r.opts.displayPath(file.Path)
			for _, v := range lint.Expand(file.Violations) {
				run.Results = append(run.Results, sarifResult(uri, v))
			}
		}
	}

	return &SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs:    []SARIFRun{run},
	}
}

func sarifRule(idx int, rule *lint.Rule) SARIFRule {
	short := rule.ViolationMessage()
	if short == "" {
		short = rule.Name()
	}

	out := SARIFRule{
		ID:               SARIFRuleID(idx),
		Name:             rule.Name(),
		ShortDescription: SARIFMultiformatText{Text: short},
		DefaultConfig:    &SARIFRuleConfig{Level: sarifLevel},
		Properties: map[string]any{
			"pattern":       rule.Pattern(),
			"caseSensitive": rule.CaseSensitive(),
		},
	}
	if j := rule.Justification(); j != "" {
		out.FullDescription = &SARIFMultiformatText{Text: j}
	}
	return out
}

func sarifResult(uri string, v lint.Violation) SARIFResult {
	text := v.Rule.Name()
	if msg := v.Message(); msg != "" {
		text += ": " + msg
	}

	location := SARIFPhysicalLocation{
		ArtifactLocation: SARIFArtifactLocation{URI: uri},
	}
	if !v.IsWholeDocument() {
		location.Region = &SARIFRegion{StartLine: v.Line, StartColumn: v.Column}
	}

	return SARIFResult{
		RuleID:    SARIFRuleID(v.RuleIndex),
		RuleIndex: v.RuleIndex,
		Level:     sarifLevel,
		Message:   SARIFMessage{Text: text},
		Locations: []SARIFLocation{{PhysicalLocation: location}},
	}
}
