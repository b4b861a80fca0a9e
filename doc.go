// Package promptkit builds and renders prompt templates for LLM
// workflows.
//
// promptkit is organized as independent subpackages that layer on each
// other:
//
//   - template: template parsing and rendering with {var} interpolation,
//     conditionals, loops, and built-in functions
//   - inherit: base templates with block and section overrides
//   - compose: rule-driven selection of the best template for a context
//   - promptfile: YAML and TOML definition files, directory loading,
//     and hot reload
//
// # Quick Start
//
// Render a template:
//
//	import "github.com/randalmurphal/promptkit/template"
//	t := template.New("Hello {name}", template.WithVar("name", "World"))
//	out, err := t.Render(nil)
//
// Select a template by rules:
//
//	import "github.com/randalmurphal/promptkit/compose"
//	reg := compose.NewRegistry()
//	reg.RegisterTemplate("greeting", t)
//	reg.AddRule(compose.Rule{Name: "always", Priority: 1})
//	result, err := reg.Compose(template.Vars{"name": "World"})
//
// Load definitions from disk:
//
//	import "github.com/randalmurphal/promptkit/promptfile"
//	f, err := promptfile.Load("prompts.yaml")
//	err = f.Apply(reg, inherit.NewResolver())
package promptkit
