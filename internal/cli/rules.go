package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdrules/internal/logging"
	"github.com/yaklabco/gomdrules/pkg/lint"
)

const formatJSON = "json"

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	Index         int    `json:"index"`
	Name          string `json:"name"`
	Pattern       string `json:"pattern"`
	CaseSensitive bool   `json:"caseSensitive"`
	Builtin       bool   `json:"builtin"`
	Message       string `json:"message,omitempty"`
	Suggestion    string `json:"suggestion,omitempty"`
	Keyword       string `json:"keyword,omitempty"`
	Justification string `json:"justification,omitempty"`
}

func newRulesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the active rules",
		Long: `List the active rules in evaluation order: the built-in rules first,
then the rules from the configuration document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "text" && format != formatJSON {
				return &usageError{err: fmt.Errorf("invalid format %q: must be text or json", format)}
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			loadResult, err := loadConfig(ctx, cmd, nil)
			if err != nil {
				return err
			}
			ruleSet, err := loadRules(ctx, loadResult.Locator)
			if err != nil {
				return err
			}

			infos := describeRules(ruleSet.Rules())
			if format == formatJSON {
				return outputRulesJSON(cmd.OutOrStdout(), infos)
			}
			outputRulesText(cmd.OutOrStdout(), infos, loadResult.Locator)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

func describeRules(rules []*lint.Rule) []ruleInfo {
	builtins := lint.BuiltinCount()

	infos := make([]ruleInfo, 0, len(rules))
	for idx, rule := range rules {
		infos = append(infos, ruleInfo{
			Index:         idx,
			Name:          rule.Name(),
			Pattern:       rule.Pattern(),
			CaseSensitive: rule.CaseSensitive(),
			Builtin:       idx < builtins,
			Message:       rule.ViolationMessage(),
			Suggestion:    rule.Suggestion(),
			Keyword:       rule.Keyword(),
			Justification: rule.Justification(),
		})
	}
	return infos
}

func outputRulesText(w io.Writer, infos []ruleInfo, locator string) {
	logger := logging.NewWithWriter(w, "info")

	source := locator
	if source == "" {
		source = "built-in only"
	}
	logger.Info("active rules", logging.FieldRules, len(infos), logging.FieldLocator, source)

	for _, info := range infos {
		keyvals := []any{
			"pattern", info.Pattern,
			"case_sensitive", info.CaseSensitive,
		}
		if info.Builtin {
			keyvals = append(keyvals, "builtin", true)
		}
		if info.Message != "" {
			keyvals = append(keyvals, "message", info.Message)
		}
		if info.Justification != "" {
			keyvals = append(keyvals, "justification", info.Justification)
		}
		logger.Info(info.Name, keyvals...)
	}
}

// outputRulesJSON outputs rules as a JSON array.
func outputRulesJSON(w io.Writer, infos []ruleInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}
