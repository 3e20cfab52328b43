package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dejo1307/jsxlint/internal/diag"
	"github.com/dejo1307/jsxlint/internal/react"
)

// FileName is the configuration file looked up in the project root.
const FileName = ".jsxlint.yaml"

// Config represents the .jsxlint.yaml configuration.
type Config struct {
	Root    string   `yaml:"root"`
	Include []string `yaml:"include"`
	Ignore  []string `yaml:"ignore"`
	// Rules maps "group/name" to a RuleSetting.
	Rules map[string]RuleSetting `yaml:"rules"`
	// Recommended enables every recommended rule that Rules does not mention.
	Recommended bool `yaml:"recommended"`
	// Factories lists the element factories treated like JSX.
	Factories   []react.Factory `yaml:"factories"`
	Concurrency int             `yaml:"concurrency"`
	Output      OutputConfig    `yaml:"output"`
	Cache       CacheConfig     `yaml:"cache"`
}

// OutputConfig controls how diagnostics are rendered.
type OutputConfig struct {
	// Format names a renderer: "text", "json" or "markdown".
	Format string `yaml:"format"`
	// Dir, when set, also writes the rendered report there.
	Dir string `yaml:"dir"`
	// Color is "auto", "always" or "never".
	Color string `yaml:"color"`
	// MaxTokens bounds the markdown summary (1 token ~= 4 chars).
	MaxTokens int `yaml:"max_tokens"`
}

// CacheConfig controls the on-disk result cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// RuleSetting is "off", "info", "warn" or "error".
type RuleSetting string

const (
	RuleOff   RuleSetting = "off"
	RuleInfo  RuleSetting = "info"
	RuleWarn  RuleSetting = "warn"
	RuleError RuleSetting = "error"
)

// Off reports whether the rule is disabled.
func (s RuleSetting) Off() bool {
	return s == RuleOff
}

// Severity converts an enabled setting to a diagnostic severity.
func (s RuleSetting) Severity() (diag.Severity, error) {
	return diag.ParseSeverity(string(s))
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Root:    ".",
		Include: []string{"**/*.jsx", "**/*.tsx", "**/*.js", "**/*.mjs", "**/*.cjs", "**/*.ts"},
		Ignore: []string{
			"node_modules/**",
			".git/**",
			"dist/**",
			"build/**",
			"coverage/**",
			"**/*.min.js",
			"**/*.d.ts",
			".jsxlint/**",
		},
		Rules:       map[string]RuleSetting{},
		Recommended: true,
		Factories:   append([]react.Factory(nil), react.DefaultFactories...),
		Concurrency: runtime.GOMAXPROCS(0),
		Output: OutputConfig{
			Format:    "text",
			Dir:       "",
			Color:     "auto",
			MaxTokens: 8000,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".jsxlint",
		},
	}
}

// Load reads a configuration file from the given path.
// Missing fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// Ensure required defaults
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Rules == nil {
		cfg.Rules = map[string]RuleSetting{}
	}
	if len(cfg.Factories) == 0 {
		cfg.Factories = append([]react.Factory(nil), react.DefaultFactories...)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.GOMAXPROCS(0)
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}
	if cfg.Output.Color == "" {
		cfg.Output.Color = "auto"
	}
	if cfg.Output.MaxTokens <= 0 {
		cfg.Output.MaxTokens = 8000
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = ".jsxlint"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDir loads FileName from dir, or returns Default rooted at dir when the
// file does not exist.
func LoadDir(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		cfg.Root = dir
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(dir, cfg.Root)
	}
	return cfg, nil
}

// Validate checks values that cannot be repaired by defaults. Rule names are
// checked against the rule set when the registry is built.
func (c *Config) Validate() error {
	var errs []error
	for name, setting := range c.Rules {
		if !strings.Contains(name, "/") {
			errs = append(errs, fmt.Errorf("rule %q: expected group/name", name))
		}
		if setting.Off() {
			continue
		}
		if _, err := setting.Severity(); err != nil {
			errs = append(errs, fmt.Errorf("rule %q: %w", name, err))
		}
	}
	for i, f := range c.Factories {
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("factories[%d]: name is required", i))
		}
		if f.Module == "" && f.Namespace == "" {
			errs = append(errs, fmt.Errorf("factories[%d]: module or namespace is required", i))
		}
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("output.color: unknown value %q", c.Output.Color))
	}
	return errors.Join(errs...)
}

// Setting returns the explicit setting for a rule, if any.
func (c *Config) Setting(key string) (RuleSetting, bool) {
	s, ok := c.Rules[key]
	return s, ok
}
