package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"autoeda/domain/dataset"
	"autoeda/internal/container"
	"autoeda/internal/profile"
	"autoeda/internal/report"
)

func newReportCmd() *cobra.Command {
	var outDir string
	var mode string
	var file string
	var files []string

	cmd := &cobra.Command{
		Use:   "report <source>...",
		Short: "Generate EDA reports without the web interface",
		Long: `Generate one HTML report per resolved dataset and write them to --out.

A source is a local file path, an http(s) URL, or an owner/name Kaggle
dataset reference. Kaggle sources use the saved credential, or
KAGGLE_USERNAME and KAGGLE_KEY from the environment.

Examples:
  autoeda report sales.csv
  autoeda report https://github.com/acme/repo/blob/main/data/weather.csv
  autoeda report zillow/zecon --mode single --file State_time_series.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			combine, err := parseMode(mode, file, files)
			if err != nil {
				return err
			}

			// Batch runs keep no history, so no database is wired
			c, err := container.New(cfg, logger, nil)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			failed := 0
			for _, arg := range args {
				src, err := parseSource(arg, combine)
				if err == nil {
					err = runReport(cmd, c, src, outDir)
				}
				if err != nil {
					fmt.Fprintf(os.Stderr, "skipped %s: %v\n", arg, err)
					failed++
				}
			}
			if failed == len(args) {
				return fmt.Errorf("no report generated")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory reports are written to")
	cmd.Flags().StringVar(&mode, "mode", "merge", "How multi-file datasets combine: merge, single or each")
	cmd.Flags().StringVar(&file, "file", "", "File to read in single mode")
	cmd.Flags().StringSliceVar(&files, "files", nil, "Files to read in each mode (default all)")

	return cmd
}

func runReport(cmd *cobra.Command, c *container.Container, src dataset.InputSource, outDir string) error {
	result, err := c.Pipeline.Resolve(cmd.Context(), src, nil)
	if err != nil {
		return err
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(os.Stderr, "skipped %s: %v\n", issue.File, issue.Err)
	}

	for _, out := range result.Outputs {
		summary, err := profile.Profile(out.Name, out.Frame)
		if err != nil {
			return err
		}
		html, err := c.Renderer.Render(summary, time.Now())
		if err != nil {
			return err
		}
		target := filepath.Join(outDir, report.FileName(out.Name))
		if err := os.WriteFile(target, html, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("wrote %s (%d rows, %d columns)\n", target, summary.Rows, summary.Cols)
	}
	return nil
}

// parseSource classifies one positional argument. URLs are recognized by
// scheme, then existing paths win, then anything shaped like owner/name is
// treated as a dataset reference. Path-like arguments never fall through
// to the reference check, so a missing ./data.csv stays a file error.
func parseSource(arg string, mode dataset.CombineMode) (dataset.InputSource, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return dataset.RemoteURL{Raw: arg}, nil
	}
	if _, err := os.Stat(arg); err == nil {
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", arg, err)
		}
		return dataset.LocalFile{Name: filepath.Base(arg), Data: data}, nil
	}
	if !strings.HasPrefix(arg, ".") && !strings.HasPrefix(arg, "/") {
		if ref, err := dataset.ParseRef(arg); err == nil {
			return dataset.RemoteDataset{Ref: ref, Mode: mode}, nil
		}
	}
	return nil, fmt.Errorf("%q is not an existing file, an http(s) URL or an owner/name dataset reference", arg)
}

func parseMode(mode, file string, files []string) (dataset.CombineMode, error) {
	switch mode {
	case "", "merge":
		return dataset.MergeAll{}, nil
	case "single":
		if file == "" {
			return nil, fmt.Errorf("--mode single requires --file")
		}
		return dataset.SingleFile{Name: file}, nil
	case "each":
		return dataset.EachSeparately{Names: files}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q: use merge, single or each", mode)
	}
}
