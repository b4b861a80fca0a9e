package template

// Vars is a flat variable binding map used for interpolation.
// Values may be strings, bools, numbers, []any slices, or nested
// map[string]any objects (reachable through dotted paths).
type Vars map[string]any

// merged returns a new Vars with overlay entries shadowing base entries.
// Either argument may be nil.
func (v Vars) merged(overlay Vars) Vars {
	out := make(Vars, len(v)+len(overlay))
	for k, val := range v {
		out[k] = val
	}
	for k, val := range overlay {
		out[k] = val
	}
	return out
}

// Func is a template function. Arguments arrive already resolved to
// values (never raw template text); implementations must be pure with
// respect to their arguments.
type Func func(args []any) (any, error)

// Funcs maps function names to implementations.
type Funcs map[string]Func

// Options controls which control-flow features a template processes.
// Disabled constructs are left verbatim in the output.
type Options struct {
	Conditionals bool
	Loops        bool
	Inheritance  bool

	// regionMarkers keeps {{#block}}/{{#section}} markers in the
	// rendered output so a later splice can locate the regions.
	regionMarkers bool
}

// Template is an immutable template: a source string, its default
// variable bindings, its function table, and feature flags. All
// mutating helpers return a new Template.
type Template struct {
	source string
	base   string // optional base source for inheritance
	vars   Vars
	funcs  Funcs
	opts   Options
}

// Option configures a Template at construction time.
type Option func(*Template)

// WithVars sets the template's default variable bindings.
func WithVars(vars Vars) Option {
	return func(t *Template) {
		for k, v := range vars {
			t.vars[k] = v
		}
	}
}

// WithVar sets a single default variable binding.
func WithVar(name string, value any) Option {
	return func(t *Template) {
		t.vars[name] = value
	}
}

// WithFunc registers a custom function. Custom functions shadow
// built-ins of the same name.
func WithFunc(name string, fn Func) Option {
	return func(t *Template) {
		t.funcs[name] = fn
	}
}

// WithFuncs registers multiple custom functions at once.
func WithFuncs(funcs Funcs) Option {
	return func(t *Template) {
		for name, fn := range funcs {
			t.funcs[name] = fn
		}
	}
}

// WithBase sets the base template source. During rendering the
// template's own source is treated as a child document whose
// {{#block}} regions override the base's matching regions.
func WithBase(source string) Option {
	return func(t *Template) {
		t.base = source
	}
}

// WithoutConditionals disables {{#if}} processing.
func WithoutConditionals() Option {
	return func(t *Template) {
		t.opts.Conditionals = false
	}
}

// WithoutLoops disables {{#each}} processing.
func WithoutLoops() Option {
	return func(t *Template) {
		t.opts.Loops = false
	}
}

// WithoutInheritance disables base-template resolution even when a
// base source is set.
func WithoutInheritance() Option {
	return func(t *Template) {
		t.opts.Inheritance = false
	}
}

// WithRegionMarkers keeps {{#block}} and {{#section}} markers in the
// rendered output. Used by inheritance resolvers that splice child
// content into the rendered base.
func WithRegionMarkers() Option {
	return func(t *Template) {
		t.opts.regionMarkers = true
	}
}

// New creates a Template from source. All control-flow features are
// enabled by default.
func New(source string, opts ...Option) *Template {
	t := &Template{
		source: source,
		vars:   make(Vars),
		funcs:  make(Funcs),
		opts: Options{
			Conditionals: true,
			Loops:        true,
			Inheritance:  true,
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Source returns the template source string.
func (t *Template) Source() string {
	return t.source
}

// Vars returns a copy of the template's default bindings.
func (t *Template) Vars() Vars {
	out := make(Vars, len(t.vars))
	for k, v := range t.vars {
		out[k] = v
	}
	return out
}

// WithVars returns a new Template with the given bindings overlaid on
// the existing defaults. The receiver is not modified.
func (t *Template) WithVars(vars Vars) *Template {
	nt := t.clone()
	for k, v := range vars {
		nt.vars[k] = v
	}
	return nt
}

// WithVar returns a new Template with one additional default binding.
func (t *Template) WithVar(name string, value any) *Template {
	nt := t.clone()
	nt.vars[name] = value
	return nt
}

// WithFunc returns a new Template with one additional custom function.
func (t *Template) WithFunc(name string, fn Func) *Template {
	nt := t.clone()
	nt.funcs[name] = fn
	return nt
}

func (t *Template) clone() *Template {
	nt := &Template{
		source: t.source,
		base:   t.base,
		vars:   make(Vars, len(t.vars)+1),
		funcs:  make(Funcs, len(t.funcs)+1),
		opts:   t.opts,
	}
	for k, v := range t.vars {
		nt.vars[k] = v
	}
	for k, fn := range t.funcs {
		nt.funcs[k] = fn
	}
	return nt
}

// Render renders the template with the given per-call overrides
// shadowing the default bindings.
func (t *Template) Render(overrides Vars) (string, error) {
	return NewRenderer(t).Render(overrides)
}

// RenderAnalyzed renders the template and also returns an Analysis
// describing the variables, branches, loops, and functions involved.
func (t *Template) RenderAnalyzed(overrides Vars) (string, *Analysis, error) {
	return NewRenderer(t).RenderAnalyzed(overrides)
}

// Validate checks that every required variable name is bound in
// provided. Returns an error wrapping ErrMissingVariable for the first
// missing name.
func Validate(required []string, provided Vars) error {
	for _, name := range required {
		if _, ok := provided[name]; !ok {
			return newError("validate", name, ErrMissingVariable)
		}
	}
	return nil
}
