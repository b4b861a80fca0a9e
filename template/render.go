package template

import (
	"errors"
	"fmt"
	"strings"
)

// Renderer renders one Template. Rendering is pure with respect to the
// template and the per-call overrides; the template text is re-scanned
// on every call.
type Renderer struct {
	tmpl *Template
}

// NewRenderer creates a Renderer for the given template.
func NewRenderer(t *Template) *Renderer {
	return &Renderer{tmpl: t}
}

// Render renders the template with per-call overrides shadowing the
// template's default bindings.
func (r *Renderer) Render(overrides Vars) (string, error) {
	out, _, err := r.render(overrides, false)
	return out, err
}

// RenderAnalyzed renders the template and returns the render Analysis
// alongside the output.
func (r *Renderer) RenderAnalyzed(overrides Vars) (string, *Analysis, error) {
	return r.render(overrides, true)
}

func (r *Renderer) render(overrides Vars, analyzed bool) (string, *Analysis, error) {
	if r.tmpl.source == "" && r.tmpl.base == "" {
		return "", nil, ErrEmpty
	}

	st := &state{
		vars:  r.tmpl.vars.merged(overrides),
		funcs: builtins(),
		opts:  r.tmpl.opts,
	}
	for name, fn := range r.tmpl.funcs {
		st.funcs[name] = fn
	}
	if analyzed {
		st.analysis = &Analysis{}
		st.seenVars = make(map[string]bool)
	}

	src := r.tmpl.source
	if r.tmpl.opts.Inheritance && r.tmpl.base != "" {
		resolved, err := spliceIntoBase(r.tmpl.base, src, st)
		if err != nil {
			return "", nil, err
		}
		src = resolved
	}

	nodes, err := parseSource(src)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	if err := st.renderNodes(nodes, &sb); err != nil {
		return "", nil, err
	}
	return sb.String(), st.analysis, nil
}

// spliceIntoBase renders the base source with region markers kept,
// then replaces each marked block whose name appears among the child
// source's {{#block}} regions with the child's content. The result
// feeds the rest of the pipeline.
func spliceIntoBase(baseSrc, childSrc string, st *state) (string, error) {
	baseNodes, err := parseSource(baseSrc)
	if err != nil {
		return "", err
	}

	baseState := &state{
		vars:     st.vars,
		funcs:    st.funcs,
		opts:     st.opts,
		analysis: st.analysis,
		seenVars: st.seenVars,
	}
	baseState.opts.regionMarkers = true

	var sb strings.Builder
	if err := baseState.renderNodes(baseNodes, &sb); err != nil {
		return "", err
	}
	rendered := sb.String()

	overrides, err := Blocks(childSrc)
	if err != nil {
		return "", err
	}
	for name, content := range overrides {
		rendered, _ = ReplaceBlock(rendered, name, content)
	}

	if st.opts.regionMarkers {
		return rendered, nil
	}
	return StripRegions(rendered), nil
}

// state holds the effective bindings and function table for one render
// call. It lives only for the duration of the call.
type state struct {
	vars  Vars
	funcs Funcs
	opts  Options

	analysis *Analysis
	seenVars map[string]bool
}

func (s *state) renderNodes(nodes []node, sb *strings.Builder) error {
	for _, n := range nodes {
		if err := s.renderNode(n, sb); err != nil {
			return err
		}
	}
	return nil
}

func (s *state) renderNode(n node, sb *strings.Builder) error {
	switch nd := n.(type) {
	case *textNode:
		sb.WriteString(nd.text)

	case *varNode:
		s.traceVar(nd.name)
		v, ok := s.lookup(nd.name)
		if !ok {
			return newError("render", nd.name, ErrMissingVariable)
		}
		sb.WriteString(stringify(v))

	case *callNode:
		v, err := s.call(nd.name, nd.args)
		if err != nil {
			return err
		}
		sb.WriteString(stringify(v))

	case *ifNode:
		return s.renderIf(nd, sb)

	case *eachNode:
		return s.renderEach(nd, sb)

	case *regionNode:
		if s.opts.regionMarkers {
			sb.WriteString("{{#" + nd.kind.String() + " " + nd.name + "}}")
		}
		if err := s.renderNodes(nd.body, sb); err != nil {
			return err
		}
		if s.opts.regionMarkers {
			sb.WriteString("{{/" + nd.kind.String() + "}}")
		}
	}
	return nil
}

func (s *state) renderIf(n *ifNode, sb *strings.Builder) error {
	if !s.opts.Conditionals {
		sb.WriteString(n.raw())
		return nil
	}

	for _, ident := range exprIdents(n.cond) {
		s.traceVar(ident)
	}

	expanded, err := expandCalls(n.cond, s.call)
	if err != nil {
		return err
	}
	taken, err := evalExpr(expanded, s.lookup)
	if err != nil {
		return err
	}

	if s.analysis != nil {
		s.analysis.Conditionals = append(s.analysis.Conditionals, BranchTrace{Expr: n.cond, Taken: taken})
	}

	// Exactly one branch renders; the other is never evaluated.
	if taken {
		return s.renderNodes(n.then, sb)
	}
	return s.renderNodes(n.els, sb)
}

func (s *state) renderEach(n *eachNode, sb *strings.Builder) error {
	if !s.opts.Loops {
		sb.WriteString(n.raw())
		return nil
	}

	s.traceVar(n.list)
	v, ok := s.lookup(n.list)
	if !ok {
		return newError("render", n.list, ErrMissingVariable)
	}
	items, ok := toList(v)
	if !ok {
		return newError("render", n.list, fmt.Errorf("%w: %T", ErrNotIterable, v))
	}

	if s.analysis != nil {
		s.analysis.Loops = append(s.analysis.Loops, LoopTrace{List: n.list, Iterations: len(items)})
	}

	for i, item := range items {
		iter := &state{
			vars: s.vars.merged(Vars{
				n.item:            item,
				n.item + "_index": i,
				n.item + "_first": i == 0,
				n.item + "_last":  i == len(items)-1,
			}),
			funcs:    s.funcs,
			opts:     s.opts,
			analysis: s.analysis,
			seenVars: s.seenVars,
		}
		// Loop bodies render with loops disabled: a nested {{#each}}
		// stays verbatim rather than recursing into itself.
		iter.opts.Loops = false

		if err := iter.renderNodes(n.body, sb); err != nil {
			return err
		}
	}
	return nil
}

// lookup resolves a variable name, following dotted paths through
// nested map values.
func (s *state) lookup(name string) (any, bool) {
	parts := strings.Split(name, ".")
	v, ok := s.vars[parts[0]]
	if !ok {
		return nil, false
	}
	for _, part := range parts[1:] {
		switch m := v.(type) {
		case map[string]any:
			v, ok = m[part]
		case Vars:
			v, ok = m[part]
		default:
			return nil, false
		}
		if !ok {
			return nil, false
		}
	}
	return v, true
}

// call invokes a registered function with raw argument text. Each
// argument resolves to a bound variable when its text names one, else
// parses as a literal, else stays a plain string.
func (s *state) call(name string, rawArgs []string) (any, error) {
	fn, ok := s.funcs[name]
	if !ok {
		return nil, newError("call", name, ErrUnknownFunction)
	}

	args := make([]any, len(rawArgs))
	for i, raw := range rawArgs {
		args[i] = s.resolveArg(raw)
	}

	if s.analysis != nil {
		s.analysis.Functions = append(s.analysis.Functions, name)
	}

	v, err := fn(args)
	if err != nil {
		var terr *Error
		if errors.As(err, &terr) {
			return nil, err
		}
		return nil, newError("call", name, err)
	}
	return v, nil
}

func (s *state) resolveArg(raw string) any {
	if isPath(raw) {
		if v, ok := s.lookup(raw); ok {
			s.traceVar(raw)
			return v
		}
	}
	if v, ok := parseLiteral(raw); ok {
		return v
	}
	return raw
}

func (s *state) traceVar(name string) {
	if s.analysis == nil || s.seenVars[name] {
		return
	}
	s.seenVars[name] = true
	s.analysis.Variables = append(s.analysis.Variables, name)
}

// Variables parses the source and returns every referenced variable
// name: interpolations, loop sources, and function arguments that name
// identifiers. Order follows first appearance.
func Variables(source string) ([]string, error) {
	nodes, err := parseSource(source)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	collectVars(nodes, seen, nil, &out)
	return out, nil
}

func collectVars(nodes []node, seen, bound map[string]bool, out *[]string) {
	add := func(name string) {
		root := strings.SplitN(name, ".", 2)[0]
		if bound[root] || seen[root] {
			return
		}
		seen[root] = true
		*out = append(*out, root)
	}

	for _, n := range nodes {
		switch nd := n.(type) {
		case *varNode:
			add(nd.name)
		case *ifNode:
			for _, ident := range exprIdents(nd.cond) {
				add(ident)
			}
			collectVars(nd.then, seen, bound, out)
			collectVars(nd.els, seen, bound, out)
		case *eachNode:
			add(nd.list)
			// Names the loop introduces are bindings, not references.
			inner := map[string]bool{
				nd.item:            true,
				nd.item + "_index": true,
				nd.item + "_first": true,
				nd.item + "_last":  true,
			}
			for name := range bound {
				inner[name] = true
			}
			collectVars(nd.body, seen, inner, out)
		case *callNode:
			for _, arg := range nd.args {
				if isPath(arg) && arg != "true" && arg != "false" {
					add(arg)
				}
			}
		case *regionNode:
			collectVars(nd.body, seen, bound, out)
		}
	}
}

// exprIdents extracts identifier operands from a condition expression.
func exprIdents(expr string) []string {
	var out []string
	op, left, right := splitComparison(expr)
	operands := []string{strings.TrimSpace(expr)}
	if op != "" {
		operands = []string{left, right}
	}
	for _, raw := range operands {
		if _, ok := parseLiteral(raw); ok {
			continue
		}
		if isPath(raw) {
			out = append(out, raw)
		}
	}
	return out
}
