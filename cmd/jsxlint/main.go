package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dejo1307/jsxlint/internal/config"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "jsxlint",
	Short:         "Accessibility and security lint rules for JSX and TSX",
	Long:          `jsxlint checks JSX/TSX sources for heading accessibility and unsafe dangerouslySetInnerHTML usage, on the command line or as an MCP server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit status through cobra without printing
// anything more.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)

	rootCmd.PersistentFlags().String("config", "", "path to "+config.FileName+" (default: look in the current directory)")
	rootCmd.PersistentFlags().String("color", "", "colorize output (auto|always|never); overrides output.color")
	rootCmd.PersistentFlags().Bool("verbose", false, "print engine logs")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose && cmd.Name() != serveCmd.Name() {
			log.SetOutput(io.Discard)
		}
	}
}

func main() {
	// Ensure log output goes to stderr, never stdout (MCP uses stdout for JSON-RPC)
	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	var exit *exitError
	if errors.As(err, &exit) {
		os.Exit(exit.code)
	}
	fmt.Fprintf(os.Stderr, "jsxlint: %v\n", err)
	os.Exit(2)
}

// loadConfig reads --config when given, otherwise .jsxlint.yaml in the
// working directory, falling back to defaults rooted there.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	var cfg *config.Config
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg, err = config.LoadDir(wd)
		if err != nil {
			return nil, err
		}
	} else {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
		if !filepath.IsAbs(cfg.Root) {
			cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
		}
	}

	colorFlag, err := cmd.Flags().GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	if colorFlag != "" {
		cfg.Output.Color = colorFlag
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// useColor resolves output.color against the terminal attached to f.
func useColor(cfg *config.Config, f *os.File) bool {
	switch cfg.Output.Color {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(f)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
