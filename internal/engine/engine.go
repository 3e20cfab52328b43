package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dejo1307/jsxlint/internal/analyzer"
	"github.com/dejo1307/jsxlint/internal/cache"
	"github.com/dejo1307/jsxlint/internal/config"
	"github.com/dejo1307/jsxlint/internal/diag"
	"github.com/dejo1307/jsxlint/internal/renderers"
	"github.com/dejo1307/jsxlint/internal/report"
	"github.com/dejo1307/jsxlint/internal/syntax"
)

const (
	// DiagnosticsFile is the JSONL dump written next to the rendered artifacts.
	DiagnosticsFile = "diagnostics.jsonl"
	// MetaFile holds the run metadata.
	MetaFile = "report.meta.json"
)

// Engine orchestrates a lint run: walk -> parse -> analyze -> render.
type Engine struct {
	cfg       *config.Config
	rules     *analyzer.Registry
	renderers *renderers.Registry

	mu   sync.Mutex // serializes Check; guards last and report artifacts
	last *report.Report
}

// New creates a new Engine with the given config and rule set.
// Renderers must be registered after creation.
func New(cfg *config.Config, rules *analyzer.Registry) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("engine: nil config")
	}
	if rules == nil {
		return nil, fmt.Errorf("engine: nil rule registry")
	}
	return &Engine{
		cfg:       cfg,
		rules:     rules,
		renderers: renderers.NewRegistry(),
	}, nil
}

// RegisterRenderer adds a renderer to the engine.
func (e *Engine) RegisterRenderer(rnd renderers.Renderer) {
	e.renderers.Register(rnd)
}

// Config returns the engine config.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Rules returns the rule registry the engine runs.
func (e *Engine) Rules() *analyzer.Registry {
	return e.rules
}

// Last returns the report of the last completed Check, or nil.
func (e *Engine) Last() *report.Report {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// fileResult is the outcome of checking one file.
type fileResult struct {
	path   string
	hash   string
	src    []byte
	diags  []diag.Diagnostic
	cached bool
	err    *report.FileError
}

// Check lints targets (files or directories, relative to the configured
// root) or the whole root when none are given. Files that cannot be read or
// on which a rule fails end up in Report.Errors; only cancellation aborts
// the run.
func (e *Engine) Check(ctx context.Context, targets ...string) (*report.Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()

	root, err := filepath.Abs(e.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	// 1. Collect files
	files, err := e.collect(root, targets)
	if err != nil {
		return nil, err
	}
	log.Printf("[engine] found %d files in %s", len(files), root)

	// 2. Load the result cache
	var c *cache.Cache
	if e.cfg.Cache.Enabled {
		c, err = cache.Open(e.absDir(root, e.cfg.Cache.Dir), e.cacheKey())
		if err != nil {
			log.Printf("[engine] cache disabled: %v", err)
			c = nil
		} else {
			log.Printf("[engine] loaded %d cached results", c.Len())
		}
	}

	// 3. Lint files in parallel
	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.cfg.Concurrency, 1))
	for i, rel := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := e.checkFile(gctx, c, root, rel)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 4. Assemble the report
	bag := diag.NewBag()
	rep := &report.Report{Sources: make(map[string][]byte, len(results))}
	var fileHashes []report.FileHash
	cached := 0
	for _, res := range results {
		rep.Sources[res.path] = res.src
		bag.Add(res.diags...)
		if res.err != nil {
			rep.Errors = append(rep.Errors, *res.err)
			continue
		}
		if res.cached {
			cached++
		} else {
			c.Store(res.path, res.hash, res.diags)
		}
		fileHashes = append(fileHashes, report.FileHash{Path: res.path, Hash: res.hash})
	}
	bag.Sort()
	bag.Dedup()
	rep.Diagnostics = bag.Items()

	// 5. Persist the cache. Partial runs leave other entries alone.
	if len(targets) == 0 {
		c.Retain(files)
	}
	if err := c.Save(); err != nil {
		log.Printf("[engine] saving cache: %v", err)
	}

	duration := time.Since(start)
	rep.Meta = report.Meta{
		Root:            root,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		Duration:        duration.Round(time.Millisecond).String(),
		Rules:           ruleNames(e.rules),
		Fingerprint:     e.rules.Fingerprint(),
		FileHashes:      fileHashes,
		FileCount:       len(files),
		CachedCount:     cached,
		DiagnosticCount: len(rep.Diagnostics),
	}

	log.Printf("[engine] checked %d files (%d cached), %d diagnostics, %d file errors in %s",
		len(files), cached, len(rep.Diagnostics), len(rep.Errors), duration)
	e.last = rep
	return rep, nil
}

// checkFile lints one file, consulting the cache first. The returned error
// is non-nil only when ctx is done.
func (e *Engine) checkFile(ctx context.Context, c *cache.Cache, root, rel string) (fileResult, error) {
	res := fileResult{path: rel}

	src, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		res.err = &report.FileError{Path: rel, Message: fmt.Sprintf("reading file: %v", err)}
		return res, nil
	}
	res.src = src
	res.hash = cache.HashContent(src)

	if diags, ok := c.Lookup(rel, res.hash); ok {
		res.diags = diags
		res.cached = true
		return res, nil
	}

	diags, err := lint(ctx, e.rules, rel, src)
	res.diags = diags
	if err == nil {
		return res, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return res, err
	}

	fe := &report.FileError{Path: rel, Message: err.Error()}
	var re *analyzer.RuleError
	if errors.As(err, &re) {
		fe.Rule = re.Rule
		fe.Message = fmt.Sprintf("%v at %s", re.Value, re.Range)
		log.Printf("[engine] %v\n%s", re, re.Stack)
	} else {
		log.Printf("[engine] %s: %v", rel, err)
	}
	res.err = fe
	return res, nil
}

// CheckSource lints an in-memory buffer as if it were the file at path. When
// rules is nil the engine's registry is used. Nothing is cached and Last is
// left untouched.
func (e *Engine) CheckSource(ctx context.Context, path string, src []byte, rules *analyzer.Registry) (*report.Report, error) {
	if rules == nil {
		rules = e.rules
	}
	path = filepath.ToSlash(path)
	if _, ok := syntax.LanguageForPath(path); !ok {
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}

	start := time.Now()
	rep := &report.Report{Sources: map[string][]byte{path: src}}

	diags, err := lint(ctx, rules, path, src)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		fe := report.FileError{Path: path, Message: err.Error()}
		var re *analyzer.RuleError
		if errors.As(err, &re) {
			fe.Rule = re.Rule
			fe.Message = fmt.Sprintf("%v at %s", re.Value, re.Range)
		}
		rep.Errors = append(rep.Errors, fe)
	}
	rep.Diagnostics = diags

	rep.Meta = report.Meta{
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		Duration:        time.Since(start).Round(time.Millisecond).String(),
		Rules:           ruleNames(rules),
		Fingerprint:     rules.Fingerprint(),
		FileHashes:      []report.FileHash{{Path: path, Hash: cache.HashContent(src)}},
		FileCount:       1,
		DiagnosticCount: len(rep.Diagnostics),
	}
	return rep, nil
}

// lint parses src and runs rules over it. Diagnostics reported before a rule
// failure are returned alongside the error.
func lint(ctx context.Context, rules *analyzer.Registry, path string, src []byte) ([]diag.Diagnostic, error) {
	tree, err := syntax.Parse(path, src)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	defer tree.Close()

	bag := diag.NewBag()
	err = rules.Analyze(ctx, &analyzer.File{Tree: tree}, bag)
	bag.Sort()
	bag.Dedup()
	return bag.Items(), err
}

func ruleNames(rules *analyzer.Registry) []string {
	var names []string
	for _, m := range rules.Rules() {
		names = append(names, string(m.Category()))
	}
	return names
}

// cacheKey extends the rule-set fingerprint with the configured element
// factories, which change what the call-shape rules match.
func (e *Engine) cacheKey() string {
	h := sha256.New()
	fmt.Fprintln(h, e.rules.Fingerprint())
	for _, f := range e.cfg.Factories {
		fmt.Fprintf(h, "%s|%s|%s\n", f.Module, f.Namespace, f.Name)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Render runs the named renderers over rep and appends their artifacts to it.
// It returns the artifacts produced by this call. Renderers run unlocked; the
// append is serialized with Artifact and WriteArtifacts readers.
func (e *Engine) Render(ctx context.Context, rep *report.Report, names ...string) ([]report.Artifact, error) {
	var produced []report.Artifact
	for _, name := range names {
		rnd, ok := e.renderers.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown output format %q (available: %s)", name, strings.Join(e.renderers.Names(), ", "))
		}
		artifacts, err := rnd.Render(ctx, rep)
		if err != nil {
			return nil, fmt.Errorf("renderer %s: %w", name, err)
		}
		produced = append(produced, artifacts...)
	}
	e.mu.Lock()
	rep.Artifacts = append(rep.Artifacts, produced...)
	e.mu.Unlock()
	return produced, nil
}

// collect resolves targets into sorted, slash-separated paths relative to
// root. Directories are walked applying include and ignore patterns;
// explicitly named files only need a supported extension.
func (e *Engine) collect(root string, targets []string) ([]string, error) {
	if len(targets) == 0 {
		targets = []string{"."}
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(rel string) {
		if _, ok := seen[rel]; ok {
			return
		}
		seen[rel] = struct{}{}
		files = append(files, rel)
	}

	for _, target := range targets {
		abs := target
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(root, target)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", target, err)
		}
		if !info.IsDir() {
			if _, ok := syntax.LanguageForPath(abs); !ok {
				return nil, fmt.Errorf("unsupported file type: %s", target)
			}
			add(relTo(root, abs))
			continue
		}
		walked, err := e.walkDir(root, abs)
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", target, err)
		}
		for _, rel := range walked {
			add(rel)
		}
	}

	sort.Strings(files)
	return files, nil
}

// walkDir collects the lintable files under dir, applying ignore patterns
// to directories and files and include patterns to files.
func (e *Engine) walkDir(root, dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath := relTo(root, path)

		// Skip ignored paths
		if path != dir && e.isIgnored(relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !e.isIncluded(relPath) {
			return nil
		}
		if _, ok := syntax.LanguageForPath(relPath); !ok {
			return nil
		}
		files = append(files, relPath)
		return nil
	})
	return files, err
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// isIgnored checks whether a path matches any ignore pattern.
func (e *Engine) isIgnored(relPath string) bool {
	return matchAny(e.cfg.Ignore, relPath)
}

// isIncluded checks whether a file matches an include pattern. An empty
// include list admits everything.
func (e *Engine) isIncluded(relPath string) bool {
	if len(e.cfg.Include) == 0 {
		return true
	}
	return matchAny(e.cfg.Include, relPath)
}

// matchAny reports whether relPath matches one of the glob patterns.
// "dir/**" matches the directory and everything below it; "**/pat" matches
// pat against the base name or the full path.
func matchAny(patterns []string, relPath string) bool {
	// Normalize to forward slashes for matching
	relPath = filepath.ToSlash(relPath)

	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, "/**") {
			dirPrefix := strings.TrimSuffix(pattern, "/**")
			if relPath == dirPrefix || strings.HasPrefix(relPath, dirPrefix+"/") {
				return true
			}
		}

		if matched, err := filepath.Match(pattern, relPath); err == nil && matched {
			return true
		}

		if strings.HasPrefix(pattern, "**/") {
			subPattern := strings.TrimPrefix(pattern, "**/")
			if matched, err := filepath.Match(subPattern, filepath.Base(relPath)); err == nil && matched {
				return true
			}
			if matched, err := filepath.Match(subPattern, relPath); err == nil && matched {
				return true
			}
		}
	}
	return false
}

func (e *Engine) absDir(root, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

// WriteArtifacts writes the rendered artifacts of rep to the output
// directory, together with diagnostics.jsonl and report.meta.json.
func (e *Engine) WriteArtifacts(rep *report.Report) error {
	if rep == nil {
		return fmt.Errorf("no report generated")
	}
	if e.cfg.Output.Dir == "" {
		return fmt.Errorf("no output dir configured")
	}

	root := rep.Meta.Root
	if root == "" {
		root = e.cfg.Root
	}
	outDir := e.absDir(root, e.cfg.Output.Dir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	e.mu.Lock()
	artifacts := slices.Clone(rep.Artifacts)
	e.mu.Unlock()

	for _, a := range artifacts {
		path := filepath.Join(outDir, a.Name)
		if err := os.WriteFile(path, a.Content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", a.Name, err)
		}
		log.Printf("[engine] wrote %s (%d bytes)", path, len(a.Content))
	}

	diagPath := filepath.Join(outDir, DiagnosticsFile)
	if err := report.WriteJSONLFile(diagPath, rep.Diagnostics); err != nil {
		return fmt.Errorf("writing %s: %w", DiagnosticsFile, err)
	}
	log.Printf("[engine] wrote %s", diagPath)

	metaJSON, err := json.MarshalIndent(rep.Meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling meta: %w", err)
	}
	metaPath := filepath.Join(outDir, MetaFile)
	if err := os.WriteFile(metaPath, metaJSON, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", MetaFile, err)
	}
	log.Printf("[engine] wrote %s (%d bytes)", metaPath, len(metaJSON))

	return nil
}

// Artifact returns the content of a named artifact of the last report:
// diagnostics.jsonl, report.meta.json, or anything a renderer produced.
func (e *Engine) Artifact(name string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rep := e.last
	if rep == nil {
		return nil, fmt.Errorf("no report generated")
	}

	switch name {
	case DiagnosticsFile:
		var buf bytes.Buffer
		if err := report.WriteJSONL(&buf, rep.Diagnostics); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case MetaFile:
		return json.MarshalIndent(rep.Meta, "", "  ")
	default:
		for _, a := range rep.Artifacts {
			if a.Name == name {
				return a.Content, nil
			}
		}
		return nil, fmt.Errorf("artifact %q not found", name)
	}
}
