package compose

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/randalmurphal/promptkit/template"
)

// Registry holds registered templates and the ordered rule list used
// to select among them. Templates and rules are added through explicit
// calls and only read during Compose; the registry is safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
	order     []string // registration order, used for tie-breaking
	rules     []compiledRule
}

type compiledRule struct {
	Rule
	pattern *regexp.Regexp // nil covers all template names
}

// Result is the outcome of one composition: the selected template, its
// rendered output, the rules that made it applicable, and the winning
// priority.
type Result struct {
	TemplateName string
	Output       string
	AppliedRules []string
	Priority     int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		templates: make(map[string]*template.Template),
	}
}

// RegisterTemplate adds a named template. Each name registers once;
// registration order is the documented tie-break for equal-priority
// selections.
func (r *Registry) RegisterTemplate(name string, t *template.Template) error {
	if name == "" || t == nil {
		return fmt.Errorf("%w: name and template are required", ErrInvalidRule)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.templates[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTemplate, name)
	}
	r.templates[name] = t
	r.order = append(r.order, name)
	return nil
}

// AddRule appends a rule to the registry, compiling its template name
// pattern.
func (r *Registry) AddRule(rule Rule) error {
	if rule.Name == "" {
		return fmt.Errorf("%w: rule name is required", ErrInvalidRule)
	}

	var pattern *regexp.Regexp
	if rule.TemplatePattern != "" {
		var err error
		pattern, err = regexp.Compile(rule.TemplatePattern)
		if err != nil {
			return fmt.Errorf("%w: rule %q: %v", ErrBadPattern, rule.Name, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, compiledRule{Rule: rule, pattern: pattern})
	return nil
}

// Templates returns registered template names in registration order.
func (r *Registry) Templates() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Rules returns the registered rule names in registration order.
func (r *Registry) Rules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.rules))
	for i, cr := range r.rules {
		out[i] = cr.Name
	}
	return out
}

// candidate is one applicable template during selection.
type candidate struct {
	name     string
	priority int
	rules    []string
	regOrder int
}

// Compose evaluates every rule against the context, selects the
// applicable template with the highest priority, and renders it with
// the context as overrides. Equal top priorities resolve to the
// earliest-registered template; rule evaluation is deterministic given
// a fixed registration order.
func (r *Registry) Compose(ctx template.Vars) (*Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fields := map[string]any(ctx)

	var candidates []candidate
	for i, name := range r.order {
		var (
			matched  []string
			priority int
		)
		for _, cr := range r.rules {
			if !cr.applies(name, fields) {
				continue
			}
			matched = append(matched, cr.Name)
			if len(matched) == 1 || cr.Priority > priority {
				priority = cr.Priority
			}
		}
		if len(matched) == 0 {
			continue
		}
		candidates = append(candidates, candidate{
			name:     name,
			priority: priority,
			rules:    matched,
			regOrder: i,
		})
	}

	if len(candidates) == 0 {
		return nil, ErrNoApplicableTemplate
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].priority != candidates[j].priority {
			return candidates[i].priority > candidates[j].priority
		}
		return candidates[i].regOrder < candidates[j].regOrder
	})
	best := candidates[0]

	output, err := r.templates[best.name].Render(ctx)
	if err != nil {
		return nil, err
	}

	return &Result{
		TemplateName: best.name,
		Output:       output,
		AppliedRules: best.rules,
		Priority:     best.priority,
	}, nil
}

// applies reports whether the rule covers the template name and every
// predicate holds against the context.
func (cr compiledRule) applies(templateName string, ctx map[string]any) bool {
	if cr.pattern != nil && !cr.pattern.MatchString(templateName) {
		return false
	}
	for _, cond := range cr.Conditions {
		if !cond.holds(ctx) {
			return false
		}
	}
	for _, bp := range cr.Behaviors {
		if !bp.holds(ctx) {
			return false
		}
	}
	return true
}
