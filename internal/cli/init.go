package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdrules/internal/logging"
	"github.com/yaklabco/gomdrules/pkg/config"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

type initFlags struct {
	force  bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter gomdrules configuration document",
		Long: `Create a .gomdrules.yml configuration document in the current directory
with the default settings and one example rule.

Examples:
  gomdrules init                      Create .gomdrules.yml
  gomdrules init --format json        Create .gomdrules.json instead
  gomdrules init --output rules.yml   Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite an existing configuration document")
	cmd.Flags().StringVar(&flags.format, "format", config.TemplateYAML, "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output file path (default: .gomdrules.yml or .gomdrules.json)")

	return cmd
}

func runInit(w io.Writer, flags *initFlags) error {
	logger := logging.NewWithWriter(w, "info")

	content, err := config.GenerateTemplate(config.TemplateOptions{Format: flags.format})
	if err != nil {
		return &usageError{err: err}
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".gomdrules.yml"
		if flags.format == config.TemplateJSON {
			outputPath = ".gomdrules.json"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration document", logging.FieldOutput, outputPath)
	logger.Info("run 'gomdrules rules' to see the active rules")

	return nil
}
