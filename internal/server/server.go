package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dejo1307/jsxlint/internal/analyzer"
	"github.com/dejo1307/jsxlint/internal/config"
	"github.com/dejo1307/jsxlint/internal/engine"
	"github.com/dejo1307/jsxlint/internal/renderers/mdsummary"
	"github.com/dejo1307/jsxlint/internal/report"
	"github.com/dejo1307/jsxlint/internal/syntax"
)

// maxDiagnostics caps the diagnostics returned by a single tool call.
const maxDiagnostics = 200

// Server wraps the MCP server and connects it to the lint engine.
type Server struct {
	mcp *mcp.Server
	eng *engine.Engine
	cfg *config.Config
}

// New creates a new MCP server wired to the given engine.
func New(eng *engine.Engine, cfg *config.Config, version string) (*Server, error) {
	if eng == nil {
		return nil, fmt.Errorf("server: nil engine")
	}
	s := &Server{
		eng: eng,
		cfg: cfg,
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    "jsxlint",
		Version: version,
	}, nil)
	s.registerResources()
	s.registerTools()

	return s, nil
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	log.Println("[server] starting MCP server on stdio transport")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// registerResources adds MCP resources for the rule catalogue and the last
// project report.
func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         "jsxlint://report/summary",
		Name:        "Last Report Summary",
		Description: "Compact markdown summary of the last lint_project or lint_file run",
		MIMEType:    "text/markdown",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		data, err := s.eng.Artifact(mdsummary.ArtifactName)
		if err != nil {
			return nil, fmt.Errorf("no report available: %w (run lint_project or lint_file first)", err)
		}
		return textResource(req.Params.URI, "text/markdown", data), nil
	})

	s.mcp.AddResource(&mcp.Resource{
		URI:         "jsxlint://rules",
		Name:        "Rules",
		Description: "Metadata and documentation examples of every enabled rule",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		data, err := json.MarshalIndent(s.eng.Rules().Rules(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling rules: %w", err)
		}
		return textResource(req.Params.URI, "application/json", data), nil
	})

	s.mcp.AddResource(&mcp.Resource{
		URI:         "jsxlint://report/diagnostics",
		Name:        "Last Report Diagnostics",
		Description: "Diagnostics of the last lint_project or lint_file run in JSONL format",
		MIMEType:    "application/jsonl",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		data, err := s.eng.Artifact(engine.DiagnosticsFile)
		if err != nil {
			return nil, fmt.Errorf("no report available: %w (run lint_project first)", err)
		}
		return textResource(req.Params.URI, "application/jsonl", data), nil
	})

	s.mcp.AddResource(&mcp.Resource{
		URI:         "jsxlint://report/meta",
		Name:        "Last Report Metadata",
		Description: "Metadata about the last lint_project or lint_file run",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		data, err := s.eng.Artifact(engine.MetaFile)
		if err != nil {
			return nil, fmt.Errorf("no report available: %w (run lint_project first)", err)
		}
		return textResource(req.Params.URI, "application/json", data), nil
	})
}

func textResource(uri, mime string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, Text: string(data), MIMEType: mime},
		},
	}
}

// lintProjectArgs are the arguments for the lint_project tool.
type lintProjectArgs struct {
	Paths []string `json:"paths,omitempty" jsonschema:"Files or directories relative to the project root. Defaults to the whole project."`
}

// lintFileArgs are the arguments for the lint_file tool.
type lintFileArgs struct {
	Path         string `json:"path" jsonschema:"File to lint, relative to the project root or absolute"`
	ContextLines int    `json:"context_lines,omitempty" jsonschema:"Number of source lines to show around each diagnostic (default 4)"`
}

// lintSourceArgs are the arguments for the lint_source tool.
type lintSourceArgs struct {
	Path   string   `json:"path" jsonschema:"Virtual file name; its extension selects the grammar (e.g. App.tsx)"`
	Source string   `json:"source" jsonschema:"Source code to lint"`
	Rules  []string `json:"rules,omitempty" jsonschema:"Restrict to these rules, as group/name or lint/group/name"`
}

// listRulesArgs are the arguments for the list_rules tool.
type listRulesArgs struct {
	Group string `json:"group,omitempty" jsonschema:"Only list rules of this group (a11y or security)"`
}

// registerTools adds MCP tools for linting and rule discovery.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "lint_project",
		Description: "Lint the project (or some of its files and directories) and return a summary with every diagnostic.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args lintProjectArgs) (*mcp.CallToolResult, any, error) {
		return s.lintProject(ctx, args), nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "lint_file",
		Description: "Lint one JSX/TSX file on disk. Returns diagnostics as JSON, each with a numbered source excerpt.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args lintFileArgs) (*mcp.CallToolResult, any, error) {
		return s.lintFile(ctx, args), nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "lint_source",
		Description: "Lint source code passed inline, optionally with a subset of the rules. Nothing is read from or written to disk.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args lintSourceArgs) (*mcp.CallToolResult, any, error) {
		return s.lintSource(ctx, args), nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_rules",
		Description: "List the enabled rules with their severity, source and valid/invalid examples.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listRulesArgs) (*mcp.CallToolResult, any, error) {
		return s.listRules(args), nil, nil
	})
}

func (s *Server) lintProject(ctx context.Context, args lintProjectArgs) *mcp.CallToolResult {
	rep, err := s.eng.Check(ctx, args.Paths...)
	if err != nil {
		return errorResult(fmt.Sprintf("lint failed: %v", err))
	}

	artifacts, err := s.eng.Render(ctx, rep, "markdown")
	if err != nil {
		return errorResult(fmt.Sprintf("rendering summary failed: %v", err))
	}

	if s.cfg != nil && s.cfg.Output.Dir != "" {
		if err := s.eng.WriteArtifacts(rep); err != nil {
			log.Printf("[server] warning: failed to write artifacts: %v", err)
		}
	}

	var sb strings.Builder
	for _, a := range artifacts {
		sb.Write(a.Content)
	}
	sb.WriteString("\nRead jsxlint://report/diagnostics for the full result.")

	return textResult(sb.String())
}

func (s *Server) lintFile(ctx context.Context, args lintFileArgs) *mcp.CallToolResult {
	if args.Path == "" {
		return errorResult("path is required")
	}
	contextLines := args.ContextLines
	if contextLines <= 0 {
		contextLines = 4
	}

	rep, err := s.eng.Check(ctx, args.Path)
	if err != nil {
		return errorResult(fmt.Sprintf("lint failed: %v", err))
	}
	// Check replaced the last report; keep the summary resource in step.
	if _, err := s.eng.Render(ctx, rep, "markdown"); err != nil {
		log.Printf("[server] warning: rendering summary failed: %v", err)
	}
	return resultJSON(rep, contextLines)
}

func (s *Server) lintSource(ctx context.Context, args lintSourceArgs) *mcp.CallToolResult {
	if args.Path == "" {
		return errorResult("path is required")
	}

	rules := s.eng.Rules()
	if len(args.Rules) > 0 {
		want := make(map[string]struct{}, len(args.Rules))
		for _, name := range args.Rules {
			e, ok := rules.Lookup(name)
			if !ok {
				return errorResult(fmt.Sprintf("unknown rule %q", name))
			}
			want[e.Meta().Key()] = struct{}{}
		}
		rules = rules.Filter(func(e analyzer.Entry) bool {
			_, ok := want[e.Meta().Key()]
			return ok
		})
	}

	rep, err := s.eng.CheckSource(ctx, filepath.Base(args.Path), []byte(args.Source), rules)
	if err != nil {
		return errorResult(fmt.Sprintf("lint failed: %v", err))
	}
	return resultJSON(rep, 2)
}

func (s *Server) listRules(args listRulesArgs) *mcp.CallToolResult {
	type ruleView struct {
		analyzer.Metadata
		Category string `json:"category"`
		InUse    string `json:"severity_in_use"`
	}

	var out []ruleView
	for _, e := range s.eng.Rules().Entries() {
		m := e.Meta()
		if args.Group != "" && m.Group != args.Group {
			continue
		}
		out = append(out, ruleView{Metadata: m, Category: string(m.Category()), InUse: e.Severity().String()})
	}
	if len(out) == 0 {
		return errorResult(fmt.Sprintf("No rules in group %q", args.Group))
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to marshal rules: %v", err))
	}
	return textResult(string(data))
}

// diagnosticView is a diagnostic with line/column positions and an excerpt,
// shaped for tool output.
type diagnosticView struct {
	File     string       `json:"file"`
	Line     int          `json:"line"`
	Column   int          `json:"column"`
	Category string       `json:"category"`
	Severity string       `json:"severity"`
	Message  string       `json:"message"`
	Details  []detailView `json:"details,omitempty"`
	Notes    []string     `json:"notes,omitempty"`
	Source   string       `json:"source,omitempty"`
}

type detailView struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// views converts the report diagnostics, with excerpts when contextLines is
// positive. The bool reports truncation at maxDiagnostics.
func views(rep *report.Report, contextLines int) ([]diagnosticView, bool) {
	diags := rep.Diagnostics
	truncated := false
	if len(diags) > maxDiagnostics {
		diags = diags[:maxDiagnostics]
		truncated = true
	}

	lineTables := make(map[string][]uint32)
	out := make([]diagnosticView, 0, len(diags))
	for _, d := range diags {
		v := diagnosticView{
			File:     d.File,
			Category: string(d.Category),
			Severity: d.Severity.String(),
			Message:  d.Message,
			Notes:    d.Notes,
		}
		src, ok := rep.Sources[d.File]
		if !ok {
			out = append(out, v)
			continue
		}
		lines, cached := lineTables[d.File]
		if !cached {
			lines = syntax.LineStarts(src)
			lineTables[d.File] = lines
		}
		pos := syntax.PositionIn(lines, d.Range.Start)
		v.Line, v.Column = pos.Line, pos.Column
		for _, det := range d.Details {
			p := syntax.PositionIn(lines, det.Range.Start)
			v.Details = append(v.Details, detailView{Line: p.Line, Column: p.Column, Message: det.Message})
		}
		if contextLines > 0 {
			v.Source = sourceWindow(src, pos.Line, contextLines)
		}
		out = append(out, v)
	}
	return out, truncated
}

func resultJSON(rep *report.Report, contextLines int) *mcp.CallToolResult {
	vs, truncated := views(rep, contextLines)
	payload := struct {
		Diagnostics []diagnosticView   `json:"diagnostics"`
		Errors      []report.FileError `json:"errors,omitempty"`
		Truncated   bool               `json:"truncated,omitempty"`
	}{vs, rep.Errors, truncated}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to marshal results: %v", err))
	}
	return textResult(string(data))
}

// sourceWindow returns the lines of src centered around the given line number.
func sourceWindow(src []byte, centerLine, contextLines int) string {
	lines := strings.Split(string(src), "\n")
	startLine := centerLine - contextLines/2
	if startLine < 1 {
		startLine = 1
	}
	endLine := centerLine + contextLines/2
	if endLine > len(lines) {
		endLine = len(lines)
	}

	var sb strings.Builder
	for i := startLine; i <= endLine; i++ {
		fmt.Fprintf(&sb, "%4d│ %s\n", i, strings.TrimRight(lines[i-1], "\r"))
	}
	return sb.String()
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
