package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/patternkit/patternkit/internal/logging"
	"github.com/patternkit/patternkit/internal/normalize"
	"github.com/patternkit/patternkit/internal/patterns"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCheckCmd() *cobra.Command {
	var configPath string
	var batchPath string

	cmd := &cobra.Command{
		Use:   "check <pattern> <candidate>",
		Short: "Check whether a whole candidate string matches a pattern",
		Args: func(cmd *cobra.Command, args []string) error {
			if batchPath != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if batchPath != "" {
				return runBatch(cmd, batchPath)
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			logger, closeLog, err := openResultLog(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			name := patterns.Name(args[0])
			candidate := normalize.Apply(args[1], cfg.NormalizeOptions()).Normalized

			start := time.Now()
			valid, err := patterns.Default.IsMatch(name, candidate)
			record := logging.Record{
				Source:     logging.SourceCLI,
				Operation:  logging.OperationValidate,
				Pattern:    string(name),
				InputBytes: len(candidate),
				DurationUS: time.Since(start).Microseconds(),
			}
			if err != nil {
				record.Error = err.Error()
				_ = logger.Write(record)
				if errors.Is(err, patterns.ErrUnknownPattern) {
					return fmt.Errorf("%w (known: %s)", err, knownNames())
				}
				return err
			}
			record.Valid = logging.Verdict(valid)
			_ = logger.Write(record)

			verdict := "Invalid"
			if valid {
				verdict = "Valid"
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), verdict)
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVar(&batchPath, "batch", "", "YAML file mapping pattern names to example strings")

	return cmd
}

// runBatch validates every example in a YAML file of the form
// pattern: [candidate, ...] and prints the verdicts as JSON.
func runBatch(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	examples := map[string][]string{}
	if err := yaml.Unmarshal(data, &examples); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	results, err := patterns.Default.ValidateExamples(examples)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func knownNames() string {
	names := patterns.Default.Names()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}
