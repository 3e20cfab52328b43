package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejo1307/jsxlint/internal/diag"
	"github.com/dejo1307/jsxlint/internal/semantic"
	"github.com/dejo1307/jsxlint/internal/syntax"
)

// testRule reports one signal per identifier unless run says otherwise.
type testRule struct {
	meta  Metadata
	query Query[syntax.Node]
	run   func(ctx *Context[syntax.Node]) []string
	build func(ctx *Context[syntax.Node], signal string) (diag.Diagnostic, bool)
}

func (r testRule) Meta() Metadata            { return r.meta }
func (r testRule) Query() Query[syntax.Node] { return r.query }

func (r testRule) Run(ctx *Context[syntax.Node]) []string {
	if r.run != nil {
		return r.run(ctx)
	}
	return []string{ctx.Node().Text()}
}

func (r testRule) Diagnostic(ctx *Context[syntax.Node], signal string) (diag.Diagnostic, bool) {
	if r.build != nil {
		return r.build(ctx, signal)
	}
	return diag.New(ctx.Category(), ctx.Syntax().TrimmedRange(), signal), true
}

func asIdentifier(n syntax.Node) (syntax.Node, bool) {
	return n, n.Kind() == syntax.KindIdentifier
}

func identRule(name string) testRule {
	return testRule{
		meta:  Metadata{Name: name, Group: "test", Version: "1.0.0", Severity: diag.SevError},
		query: Ast(asIdentifier, syntax.KindIdentifier),
	}
}

func parse(t *testing.T, src string) *syntax.Tree {
	t.Helper()
	tree, err := syntax.Parse("test.jsx", []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

func messages(b *diag.Bag) []string {
	var out []string
	for _, d := range b.Items() {
		out = append(out, d.Message)
	}
	return out
}

func TestAnalyze_PreOrder(t *testing.T) {
	tree := parse(t, `const a = b; function f(c) { return a + c; }`)
	reg := NewRegistry(Bind[syntax.Node, string](identRule("idents")))

	bag := diag.NewBag()
	require.NoError(t, reg.Analyze(context.Background(), &File{Tree: tree}, bag))

	if diff := cmp.Diff([]string{"a", "b", "f", "c", "a", "c"}, messages(bag)); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
	for _, d := range bag.Items() {
		assert.Equal(t, diag.Category("lint/test/idents"), d.Category)
		assert.Equal(t, "test.jsx", d.File)
		assert.Equal(t, diag.SevError, d.Severity)
	}
}

func TestAnalyze_RulesRunInRegistrationOrder(t *testing.T) {
	tree := parse(t, `x;`)
	first := identRule("first")
	second := identRule("second")
	reg := NewRegistry(Bind[syntax.Node, string](first), Bind[syntax.Node, string](second))

	bag := diag.NewBag()
	require.NoError(t, reg.Analyze(context.Background(), &File{Tree: tree}, bag))

	items := bag.Items()
	require.Len(t, items, 2)
	assert.Equal(t, diag.Category("lint/test/first"), items[0].Category)
	assert.Equal(t, diag.Category("lint/test/second"), items[1].Category)
}

func TestAnalyze_SignalsAndSuppression(t *testing.T) {
	tree := parse(t, `x;`)
	rule := identRule("multi")
	rule.run = func(ctx *Context[syntax.Node]) []string {
		return []string{"one", "drop", "two"}
	}
	rule.build = func(ctx *Context[syntax.Node], signal string) (diag.Diagnostic, bool) {
		if signal == "drop" {
			return diag.Diagnostic{}, false
		}
		return diag.New(ctx.Category(), ctx.Syntax().Range(), signal), true
	}

	bag := diag.NewBag()
	reg := NewRegistry(Bind[syntax.Node, string](rule))
	require.NoError(t, reg.Analyze(context.Background(), &File{Tree: tree}, bag))
	assert.Equal(t, []string{"one", "two"}, messages(bag))
}

func TestAnalyze_CastFilters(t *testing.T) {
	tree := parse(t, `keep; skip;`)
	rule := identRule("cast")
	rule.query = Ast(func(n syntax.Node) (syntax.Node, bool) {
		return n, n.Text() == "keep"
	}, syntax.KindIdentifier)

	bag := diag.NewBag()
	reg := NewRegistry(Bind[syntax.Node, string](rule))
	require.NoError(t, reg.Analyze(context.Background(), &File{Tree: tree}, bag))
	assert.Equal(t, []string{"keep"}, messages(bag))
}

func TestAnalyze_PanicBecomesRuleError(t *testing.T) {
	tree := parse(t, `ok; boom; never;`)
	rule := identRule("panicky")
	rule.run = func(ctx *Context[syntax.Node]) []string {
		if ctx.Node().Text() == "boom" {
			panic("kaboom")
		}
		return []string{ctx.Node().Text()}
	}

	bag := diag.NewBag()
	reg := NewRegistry(Bind[syntax.Node, string](rule))
	err := reg.Analyze(context.Background(), &File{Tree: tree}, bag)

	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, diag.Category("lint/test/panicky"), ruleErr.Rule)
	assert.Equal(t, "test.jsx", ruleErr.Path)
	assert.Equal(t, "boom", tree.Slice(ruleErr.Range))
	assert.Equal(t, "kaboom", ruleErr.Value)
	assert.NotEmpty(t, ruleErr.Stack)
	assert.Contains(t, ruleErr.Error(), "lint/test/panicky")

	// Diagnostics reported before the panic are kept.
	assert.Equal(t, []string{"ok"}, messages(bag))
}

func TestAnalyze_PanicInDiagnostic(t *testing.T) {
	tree := parse(t, `x;`)
	sentinel := errors.New("broken")
	rule := identRule("diagPanic")
	rule.build = func(ctx *Context[syntax.Node], signal string) (diag.Diagnostic, bool) {
		panic(sentinel)
	}

	reg := NewRegistry(Bind[syntax.Node, string](rule))
	err := reg.Analyze(context.Background(), &File{Tree: tree}, diag.NewBag())
	assert.ErrorIs(t, err, sentinel)
}

func TestAnalyze_Cancelled(t *testing.T) {
	tree := parse(t, `a; b; c;`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bag := diag.NewBag()
	reg := NewRegistry(Bind[syntax.Node, string](identRule("idents")))
	err := reg.Analyze(ctx, &File{Tree: tree}, bag)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, bag.Len())
}

func TestAnalyze_CancelledBetweenNodes(t *testing.T) {
	tree := parse(t, `a; b; c;`)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rule := identRule("idents")
	rule.run = func(c *Context[syntax.Node]) []string {
		cancel()
		return []string{c.Node().Text()}
	}

	bag := diag.NewBag()
	reg := NewRegistry(Bind[syntax.Node, string](rule))
	err := reg.Analyze(ctx, &File{Tree: tree}, bag)
	assert.ErrorIs(t, err, context.Canceled)
	// The running rule finishes; the walk stops before the next node.
	assert.Equal(t, []string{"a"}, messages(bag))
}

func TestAnalyze_SemanticModel(t *testing.T) {
	tree := parse(t, `import x from "m"; x; y;`)
	rule := identRule("resolve")
	rule.query = Semantic(asIdentifier, syntax.KindIdentifier)
	rule.run = func(ctx *Context[syntax.Node]) []string {
		d, ok := ctx.Model().ResolveIdentifier(ctx.Node())
		if !ok {
			return []string{ctx.Node().Text() + ":global"}
		}
		return []string{ctx.Node().Text() + ":" + d.Kind.String()}
	}

	bag := diag.NewBag()
	reg := NewRegistry(Bind[syntax.Node, string](rule))
	require.NoError(t, reg.Analyze(context.Background(), &File{Tree: tree}, bag))
	assert.Equal(t, []string{"x:import", "x:import", "y:global"}, messages(bag))
}

type countingModel struct {
	calls int
}

func (m *countingModel) ResolveIdentifier(syntax.Node) (semantic.Declaration, bool) {
	m.calls++
	return semantic.Declaration{}, false
}

func TestAnalyze_InjectedModel(t *testing.T) {
	tree := parse(t, `a; b;`)
	rule := identRule("resolve")
	rule.query = Semantic(asIdentifier, syntax.KindIdentifier)
	rule.run = func(ctx *Context[syntax.Node]) []string {
		ctx.Model().ResolveIdentifier(ctx.Node())
		return nil
	}

	model := &countingModel{}
	reg := NewRegistry(Bind[syntax.Node, string](rule))
	require.NoError(t, reg.Analyze(context.Background(), &File{Tree: tree, Model: model}, diag.NewBag()))
	assert.Equal(t, 2, model.calls)
}

func TestAnalyze_ModelFromSyntaxQueryPanics(t *testing.T) {
	tree := parse(t, `a;`)
	rule := identRule("misuse")
	rule.run = func(ctx *Context[syntax.Node]) []string {
		ctx.Model()
		return nil
	}

	reg := NewRegistry(Bind[syntax.Node, string](rule))
	err := reg.Analyze(context.Background(), &File{Tree: tree}, diag.NewBag())
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Contains(t, ruleErr.Value, "semantic model requested")
}

func TestAnalyze_Idempotent(t *testing.T) {
	tree := parse(t, `const a = b; a(b);`)
	reg := NewRegistry(Bind[syntax.Node, string](identRule("idents")))

	run := func() []diag.Diagnostic {
		bag := diag.NewBag()
		require.NoError(t, reg.Analyze(context.Background(), &File{Tree: tree}, bag))
		return bag.Items()
	}
	first := run()
	require.NotEmpty(t, first)
	if diff := cmp.Diff(first, run()); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestRegistry_Table(t *testing.T) {
	a := Bind[syntax.Node, string](identRule("a"))
	b := Bind[syntax.Node, string](identRule("b"))
	reg := NewRegistry(a, b)

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, "a", reg.Rules()[0].Name)

	e, ok := reg.Lookup("test/b")
	require.True(t, ok)
	assert.Equal(t, "b", e.Meta().Name)
	_, ok = reg.Lookup("lint/test/b")
	assert.True(t, ok)
	_, ok = reg.Lookup("test/missing")
	assert.False(t, ok)

	filtered := reg.Filter(func(e Entry) bool { return e.Meta().Name == "b" })
	assert.Equal(t, 1, filtered.Len())
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_Fingerprint(t *testing.T) {
	a := Bind[syntax.Node, string](identRule("a"))
	same := NewRegistry(a).Fingerprint()
	assert.Equal(t, same, NewRegistry(a).Fingerprint())
	assert.NotEqual(t, same, NewRegistry(a.WithSeverity(diag.SevWarning)).Fingerprint())
}

func TestRegistry_SeverityOverride(t *testing.T) {
	tree := parse(t, `x;`)
	reg := NewRegistry(Bind[syntax.Node, string](identRule("a")).WithSeverity(diag.SevWarning))

	bag := diag.NewBag()
	require.NoError(t, reg.Analyze(context.Background(), &File{Tree: tree}, bag))
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.SevWarning, bag.Items()[0].Severity)
}

func TestNewRegistry_Invalid(t *testing.T) {
	a := Bind[syntax.Node, string](identRule("a"))
	assert.Panics(t, func() { NewRegistry(a, a) })
	assert.Panics(t, func() { NewRegistry(Entry{}) })
}

func TestMetadata_Category(t *testing.T) {
	m := Metadata{Group: "a11y", Name: "useHeadingContent"}
	assert.Equal(t, diag.Category("lint/a11y/useHeadingContent"), m.Category())
	assert.Equal(t, "a11y/useHeadingContent", m.Key())
}
