package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dejo1307/jsxlint/internal/config"
	"github.com/dejo1307/jsxlint/internal/engine"
	"github.com/dejo1307/jsxlint/internal/renderers/jsonreport"
	"github.com/dejo1307/jsxlint/internal/renderers/mdsummary"
	"github.com/dejo1307/jsxlint/internal/renderers/textreport"
	"github.com/dejo1307/jsxlint/internal/report"
	"github.com/dejo1307/jsxlint/internal/rules"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [paths...]",
	Short: "Lint files and directories",
	Long: `Lint the given files and directories, or the whole project root when none
are given. Exits with status 1 when an error-severity diagnostic is reported or
a file could not be checked.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "", "output format (text|json|markdown); overrides output.format")
	checkCmd.Flags().Bool("no-cache", false, "ignore and do not update the result cache")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=config or GOMAXPROCS)")
	checkCmd.Flags().String("output-dir", "", "also write the report, diagnostics.jsonl and report.meta.json here")
	checkCmd.Flags().Int("context-lines", 1, "source lines shown around each diagnostic in text output")
	checkCmd.Flags().String("stdin-filename", "", "lint standard input as if it were this file")
}

// newEngine builds the engine and the built-in renderers for cfg.
func newEngine(cfg *config.Config, contextLines int, color bool) (*engine.Engine, error) {
	reg, err := rules.NewRegistry(cfg)
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(cfg, reg)
	if err != nil {
		return nil, err
	}
	eng.RegisterRenderer(textreport.New(contextLines, color))
	eng.RegisterRenderer(jsonreport.New())
	eng.RegisterRenderer(mdsummary.New(cfg.Output.MaxTokens))
	return eng, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if format, _ := cmd.Flags().GetString("format"); format != "" {
		cfg.Output.Format = format
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}
	if jobs, _ := cmd.Flags().GetInt("jobs"); jobs > 0 {
		cfg.Concurrency = jobs
	}
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolving output dir: %w", err)
		}
		cfg.Output.Dir = abs
	}
	contextLines, err := cmd.Flags().GetInt("context-lines")
	if err != nil {
		return fmt.Errorf("failed to get context-lines flag: %w", err)
	}
	stdinName, err := cmd.Flags().GetString("stdin-filename")
	if err != nil {
		return fmt.Errorf("failed to get stdin-filename flag: %w", err)
	}

	out := cmd.OutOrStdout()
	eng, err := newEngine(cfg, contextLines, useColor(cfg, os.Stdout))
	if err != nil {
		return err
	}

	var rep *report.Report
	if stdinName != "" {
		if len(args) > 0 {
			return fmt.Errorf("paths and --stdin-filename cannot be used together")
		}
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		rep, err = eng.CheckSource(cmd.Context(), stdinName, src, nil)
		if err != nil {
			return err
		}
	} else {
		// Paths on the command line are relative to the working directory.
		targets := make([]string, 0, len(args))
		for _, arg := range args {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return fmt.Errorf("resolving %s: %w", arg, err)
			}
			targets = append(targets, abs)
		}
		rep, err = eng.Check(cmd.Context(), targets...)
		if err != nil {
			return err
		}
	}

	artifacts, err := eng.Render(cmd.Context(), rep, cfg.Output.Format)
	if err != nil {
		return err
	}
	for _, a := range artifacts {
		if _, err := out.Write(a.Content); err != nil {
			return fmt.Errorf("writing %s: %w", a.Name, err)
		}
	}

	if cfg.Output.Dir != "" {
		if err := eng.WriteArtifacts(rep); err != nil {
			return fmt.Errorf("failed to write artifacts: %w", err)
		}
	}

	if rep.HasErrors() {
		return &exitError{code: 1}
	}
	return nil
}
