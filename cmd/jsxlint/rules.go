package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dejo1307/jsxlint/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the built-in rules and whether the configuration enables them",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().Bool("json", false, "print rule metadata as JSON")
}

type ruleRow struct {
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Enabled     bool   `json:"enabled"`
	Recommended bool   `json:"recommended"`
	Version     string `json:"version"`
	Source      string `json:"source,omitempty"`
	Docs        string `json:"docs"`
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}

	enabled, err := rules.NewRegistry(cfg)
	if err != nil {
		return err
	}

	var rows []ruleRow
	for _, e := range rules.All(cfg.Factories) {
		m := e.Meta()
		row := ruleRow{
			Category:    string(m.Category()),
			Severity:    "off",
			Recommended: m.Recommended,
			Version:     m.Version,
			Source:      m.Source,
			Docs:        m.Docs,
		}
		if active, ok := enabled.Lookup(m.Key()); ok {
			row.Enabled = true
			row.Severity = active.Severity().String()
		}
		rows = append(rows, row)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	bold := color.New(color.Bold)
	if useColor(cfg, os.Stdout) {
		bold.EnableColor()
	} else {
		bold.DisableColor()
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tSEVERITY\tRECOMMENDED\tSOURCE")
	for _, r := range rows {
		rec := ""
		if r.Recommended {
			rec = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Category, r.Severity, rec, r.Source)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, r := range rows {
		fmt.Fprintf(out, "\n%s\n  %s\n", bold.Sprint(r.Category), r.Docs)
	}
	return nil
}
