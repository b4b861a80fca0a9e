package inherit

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/randalmurphal/promptkit/template"
)

// Base is a registered base template. Children reference it by name.
type Base struct {
	// Name identifies the base in the resolver.
	Name string

	// Source is the base template text containing {{#block}} and
	// {{#section}} regions with their default content.
	Source string

	// Vars are the base's default bindings, shadowed by caller vars
	// at resolve time.
	Vars template.Vars

	// RequiredBlocks lists block names a child is expected to
	// override. Enforcement is advisory: omissions log a warning and
	// the default content stands.
	RequiredBlocks []string

	// OptionalBlocks documents blocks a child may override.
	OptionalBlocks []string
}

// MergeMode controls how a section override combines with the base
// section's existing content.
type MergeMode string

const (
	Replace MergeMode = "replace"
	Prepend MergeMode = "prepend"
	Append  MergeMode = "append"
)

func (m MergeMode) valid() bool {
	switch m {
	case Replace, Prepend, Append, "":
		return true
	}
	return false
}

// SectionOverride extends or replaces one named section.
type SectionOverride struct {
	Name    string
	Content string
	Mode    MergeMode // empty means Replace
}

// Overrides is a child's contribution to a base template.
type Overrides struct {
	Blocks   map[string]string
	Sections []SectionOverride
}

// OverridesFromSource extracts block overrides from a child template
// source, so a child can be written as plain template text.
func OverridesFromSource(src string) (Overrides, error) {
	blocks, err := template.Blocks(src)
	if err != nil {
		return Overrides{}, err
	}
	return Overrides{Blocks: blocks}, nil
}

// Resolver holds registered base templates. It is an explicit
// instance, never a package singleton; construct one per composition
// root and pass it by reference.
type Resolver struct {
	mu     sync.RWMutex
	bases  map[string]Base
	logger *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger used for advisory warnings.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates an empty Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		bases:  make(map[string]Base),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a base template. Each name registers once.
func (r *Resolver) Register(b Base) error {
	if b.Name == "" || b.Source == "" {
		return fmt.Errorf("%w: name and source are required", ErrInvalidBase)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bases[b.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateBase, b.Name)
	}
	r.bases[b.Name] = b
	return nil
}

// Bases returns the registered base names, sorted.
func (r *Resolver) Bases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.bases))
	for name := range r.bases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve renders the named base with its defaults shadowed by vars,
// splices the child's block overrides into the rendered output, applies
// section merges, and returns the result as a new Template carrying the
// merged bindings.
func (r *Resolver) Resolve(name string, ov Overrides, vars template.Vars) (*template.Template, error) {
	r.mu.RLock()
	base, ok := r.bases[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBase, name)
	}

	for _, so := range ov.Sections {
		if !so.Mode.valid() {
			return nil, fmt.Errorf("%w: %q on section %q", ErrInvalidMode, so.Mode, so.Name)
		}
	}

	merged := make(template.Vars, len(base.Vars)+len(vars))
	for k, v := range base.Vars {
		merged[k] = v
	}
	for k, v := range vars {
		merged[k] = v
	}

	rendered, err := template.New(base.Source,
		template.WithVars(merged),
		template.WithRegionMarkers(),
	).Render(nil)
	if err != nil {
		return nil, err
	}

	r.warnMissingRequired(base, ov)

	for _, blockName := range sortedKeys(ov.Blocks) {
		var replaced bool
		rendered, replaced = template.ReplaceBlock(rendered, blockName, ov.Blocks[blockName])
		if !replaced {
			r.logger.Warn("block override does not match any base block",
				"base", base.Name, "block", blockName)
		}
	}

	for _, so := range ov.Sections {
		existing, found := template.SectionContent(rendered, so.Name)
		if !found {
			r.logger.Warn("section override does not match any base section",
				"base", base.Name, "section", so.Name)
			continue
		}

		content := so.Content
		switch so.Mode {
		case Prepend:
			content = so.Content + existing
		case Append:
			content = existing + so.Content
		}
		rendered, _ = template.ReplaceSection(rendered, so.Name, content)
	}

	return template.New(template.StripRegions(rendered), template.WithVars(merged)), nil
}

func (r *Resolver) warnMissingRequired(base Base, ov Overrides) {
	for _, required := range base.RequiredBlocks {
		if _, ok := ov.Blocks[required]; !ok {
			r.logger.Warn("required block not overridden, keeping base default",
				"base", base.Name, "block", required)
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
