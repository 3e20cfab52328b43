package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/dejo1307/jsxlint/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an MCP server on stdio exposing the lint tools",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Tool output is read by a model, not a terminal.
	eng, err := newEngine(cfg, 2, false)
	if err != nil {
		return err
	}

	srv, err := server.New(eng, cfg, version)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	log.Printf("[main] serving %s with %d rules", cfg.Root, eng.Rules().Len())
	return srv.Run(cmd.Context())
}
