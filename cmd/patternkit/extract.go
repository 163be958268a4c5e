package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/patternkit/patternkit/internal/logging"
	"github.com/patternkit/patternkit/internal/normalize"
	"github.com/patternkit/patternkit/internal/patterns"
	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	var configPath string
	var filePath string
	var format string
	var categories []string
	var urlDecode bool
	var htmlEntity bool

	cmd := &cobra.Command{
		Use:   "extract [text...]",
		Short: "Extract emails, URLs, phones, cards, times, tags and amounts from text",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format %q", format)
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			selected := cfg.Categories()
			if len(categories) > 0 {
				selected = selected[:0]
				for _, raw := range categories {
					c, err := patterns.ParseCategory(raw)
					if err != nil {
						return err
					}
					selected = append(selected, c)
				}
			}

			raw, err := readInput(cmd.InOrStdin(), filePath, args, cfg.Limits.MaxInputBytes)
			if err != nil {
				return err
			}

			opts := cfg.NormalizeOptions()
			opts.URLDecode = opts.URLDecode || urlDecode
			opts.HTMLEntity = opts.HTMLEntity || htmlEntity
			text := normalize.Apply(raw, opts).Normalized

			logger, closeLog, err := openResultLog(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			start := time.Now()
			results, err := patterns.Default.Extract(selected, text)
			record := logging.Record{
				Source:     logging.SourceCLI,
				Operation:  logging.OperationExtract,
				InputBytes: len(text),
				DurationUS: time.Since(start).Microseconds(),
			}
			if err != nil {
				record.Error = err.Error()
				_ = logger.Write(record)
				return fmt.Errorf("extract: %w", err)
			}
			record.Matches = results.Counts()
			_ = logger.Write(record)

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			return renderExtraction(out, selected, results)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Read text from file instead of arguments or stdin")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|json")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Limit extraction to these categories (repeatable)")
	cmd.Flags().BoolVar(&urlDecode, "url-decode", false, "Percent-decode input before matching")
	cmd.Flags().BoolVar(&htmlEntity, "html-decode", false, "Unescape HTML entities before matching")

	return cmd
}

// readInput takes text from a file, the joined arguments, or stdin, in that
// order, refusing anything over limit bytes.
func readInput(stdin io.Reader, filePath string, args []string, limit int64) (string, error) {
	var data []byte
	switch {
	case filePath != "":
		info, err := os.Stat(filePath)
		if err != nil {
			return "", err
		}
		if limit > 0 && info.Size() > limit {
			return "", fmt.Errorf("input file exceeds %d bytes", limit)
		}
		data, err = os.ReadFile(filePath)
		if err != nil {
			return "", err
		}
	case len(args) > 0:
		data = []byte(strings.Join(args, " "))
	default:
		if stdin == nil {
			return "", errors.New("no input")
		}
		reader := stdin
		if limit > 0 {
			reader = io.LimitReader(stdin, limit+1)
		}
		var err error
		data, err = io.ReadAll(reader)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
	}

	if limit > 0 && int64(len(data)) > limit {
		return "", fmt.Errorf("input exceeds %d bytes", limit)
	}
	return string(data), nil
}

func renderExtraction(w io.Writer, categories []patterns.Category, results patterns.Extraction) error {
	var b strings.Builder
	for _, c := range categories {
		matches := results[c]
		if len(matches) == 0 {
			fmt.Fprintf(&b, "%s: none\n", c)
			continue
		}
		fmt.Fprintf(&b, "%s (%d):\n", c, len(matches))
		for _, m := range matches {
			fmt.Fprintf(&b, "  %s\n", m)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
