package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dejo1307/jsxlint/internal/config"
	"github.com/dejo1307/jsxlint/internal/rules"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a " + config.FileName + " with the default settings",
	Long: `Write a ` + config.FileName + ` into dir (default: the current directory)
listing every built-in rule at its default severity. Refuses to overwrite an
existing file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}

	path := filepath.Join(target, config.FileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	cfg := config.Default()
	// Filled from GOMAXPROCS at load time.
	cfg.Concurrency = 0
	for _, e := range rules.All(cfg.Factories) {
		cfg.Rules[e.Meta().Key()] = config.RuleSetting(e.Meta().Severity.String())
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}
