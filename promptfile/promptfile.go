package promptfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/promptkit/compose"
	"github.com/randalmurphal/promptkit/inherit"
	"github.com/randalmurphal/promptkit/template"
)

// File is one parsed definition document. Documents may declare any
// mix of templates, bases, and composition rules.
type File struct {
	Templates []TemplateDef `yaml:"templates" toml:"templates" json:"templates,omitempty"`
	Bases     []BaseDef     `yaml:"bases" toml:"bases" json:"bases,omitempty"`
	Rules     []RuleDef     `yaml:"rules" toml:"rules" json:"rules,omitempty"`
}

// TemplateDef declares a renderable template. A def either carries its
// own source, or names a registered base and supplies overrides.
type TemplateDef struct {
	Name     string            `yaml:"name" toml:"name" json:"name"`
	Source   string            `yaml:"source" toml:"source" json:"source,omitempty"`
	Vars     map[string]any    `yaml:"vars" toml:"vars" json:"vars,omitempty"`
	Base     string            `yaml:"base" toml:"base" json:"base,omitempty"`
	Blocks   map[string]string `yaml:"blocks" toml:"blocks" json:"blocks,omitempty"`
	Sections []SectionDef      `yaml:"sections" toml:"sections" json:"sections,omitempty"`
}

// SectionDef is a section override with an optional merge mode
// (replace, prepend, append; empty means replace).
type SectionDef struct {
	Name    string `yaml:"name" toml:"name" json:"name"`
	Content string `yaml:"content" toml:"content" json:"content"`
	Mode    string `yaml:"mode" toml:"mode" json:"mode,omitempty"`
}

// BaseDef declares an inheritable base template.
type BaseDef struct {
	Name     string         `yaml:"name" toml:"name" json:"name"`
	Source   string         `yaml:"source" toml:"source" json:"source"`
	Vars     map[string]any `yaml:"vars" toml:"vars" json:"vars,omitempty"`
	Required []string       `yaml:"required" toml:"required" json:"required,omitempty"`
	Optional []string       `yaml:"optional" toml:"optional" json:"optional,omitempty"`
}

// RuleDef declares a composition rule.
type RuleDef struct {
	Name       string         `yaml:"name" toml:"name" json:"name"`
	Template   string         `yaml:"template" toml:"template" json:"template,omitempty"`
	Priority   int            `yaml:"priority" toml:"priority" json:"priority"`
	Conditions []ConditionDef `yaml:"conditions" toml:"conditions" json:"conditions,omitempty"`
	Behaviors  []BehaviorDef  `yaml:"behaviors" toml:"behaviors" json:"behaviors,omitempty"`
}

// ConditionDef is a field condition over the composition context.
type ConditionDef struct {
	Field string `yaml:"field" toml:"field" json:"field"`
	Op    string `yaml:"op" toml:"op" json:"op"`
	Value any    `yaml:"value" toml:"value" json:"value"`
}

// BehaviorDef is a behavior-pattern predicate. From and To bound the
// hour-of-day window for the time_of_day kind.
type BehaviorDef struct {
	Kind      string  `yaml:"kind" toml:"kind" json:"kind"`
	Threshold float64 `yaml:"threshold" toml:"threshold" json:"threshold,omitempty"`
	From      int     `yaml:"from" toml:"from" json:"from,omitempty"`
	To        int     `yaml:"to" toml:"to" json:"to,omitempty"`
	Domain    string  `yaml:"domain" toml:"domain" json:"domain,omitempty"`
}

// Extensions recognized by Load and LoadDir.
var extensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".toml": true,
}

// Load reads and parses one definition file, dispatching on the file
// extension (.yaml, .yml, .toml).
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return parseYAML(data, path)
	case ".toml":
		return parseTOML(data, path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func parseYAML(data []byte, path string) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

func parseTOML(data []byte, path string) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

// LoadDir loads every recognized definition file directly under dir,
// in sorted filename order so registration order is deterministic, and
// merges them into one File.
func LoadDir(dir string) (*File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !extensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	merged := &File{}
	for _, name := range names {
		f, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		merged.Templates = append(merged.Templates, f.Templates...)
		merged.Bases = append(merged.Bases, f.Bases...)
		merged.Rules = append(merged.Rules, f.Rules...)
	}
	return merged, nil
}

func (f *File) validate() error {
	for _, b := range f.Bases {
		if b.Name == "" || b.Source == "" {
			return fmt.Errorf("%w: base needs name and source", ErrInvalidDefinition)
		}
	}
	for _, td := range f.Templates {
		if td.Name == "" {
			return fmt.Errorf("%w: template needs a name", ErrInvalidDefinition)
		}
		if td.Source == "" && td.Base == "" {
			return fmt.Errorf("%w: template %q needs a source or a base", ErrInvalidDefinition, td.Name)
		}
	}
	for _, r := range f.Rules {
		if r.Name == "" {
			return fmt.Errorf("%w: rule needs a name", ErrInvalidDefinition)
		}
	}
	return nil
}

// Apply registers the file's bases, templates, and rules. Bases
// register first so templates may extend them; definition order is
// preserved within each kind.
func (f *File) Apply(reg *compose.Registry, res *inherit.Resolver) error {
	for _, bd := range f.Bases {
		err := res.Register(inherit.Base{
			Name:           bd.Name,
			Source:         bd.Source,
			Vars:           template.Vars(bd.Vars),
			RequiredBlocks: bd.Required,
			OptionalBlocks: bd.Optional,
		})
		if err != nil {
			return fmt.Errorf("register base %q: %w", bd.Name, err)
		}
	}

	for _, td := range f.Templates {
		tmpl, err := buildTemplate(td, res)
		if err != nil {
			return err
		}
		if err := reg.RegisterTemplate(td.Name, tmpl); err != nil {
			return fmt.Errorf("register template %q: %w", td.Name, err)
		}
	}

	for _, rd := range f.Rules {
		if err := reg.AddRule(rd.rule()); err != nil {
			return fmt.Errorf("add rule %q: %w", rd.Name, err)
		}
	}
	return nil
}

func buildTemplate(td TemplateDef, res *inherit.Resolver) (*template.Template, error) {
	if td.Base == "" {
		return template.New(td.Source, template.WithVars(template.Vars(td.Vars))), nil
	}

	ov := inherit.Overrides{Blocks: td.Blocks}
	if td.Source != "" {
		// A source alongside a base contributes its {{#block}} regions
		// as overrides; explicit blocks win on collision.
		fromSrc, err := inherit.OverridesFromSource(td.Source)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", td.Name, err)
		}
		for name, content := range td.Blocks {
			fromSrc.Blocks[name] = content
		}
		ov.Blocks = fromSrc.Blocks
	}
	for _, sd := range td.Sections {
		ov.Sections = append(ov.Sections, inherit.SectionOverride{
			Name:    sd.Name,
			Content: sd.Content,
			Mode:    inherit.MergeMode(sd.Mode),
		})
	}

	tmpl, err := res.Resolve(td.Base, ov, template.Vars(td.Vars))
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", td.Name, err)
	}
	return tmpl, nil
}

func (rd RuleDef) rule() compose.Rule {
	rule := compose.Rule{
		Name:            rd.Name,
		TemplatePattern: rd.Template,
		Priority:        rd.Priority,
	}
	for _, cd := range rd.Conditions {
		rule.Conditions = append(rule.Conditions, compose.Condition{
			Field: cd.Field,
			Op:    cd.Op,
			Value: cd.Value,
		})
	}
	for _, bd := range rd.Behaviors {
		bp := compose.BehaviorPattern{
			Kind:      compose.PatternKind(bd.Kind),
			Threshold: bd.Threshold,
			Domain:    bd.Domain,
		}
		if bp.Kind == compose.TimeOfDay {
			bp.Time = &compose.TimeRange{Start: bd.From, End: bd.To}
		}
		rule.Behaviors = append(rule.Behaviors, bp)
	}
	return rule
}
