// Package template renders prompt templates written in a small
// control-flow mini-language: variable interpolation, conditionals,
// iteration, function calls, and inheritance regions.
//
// # Syntax
//
// Variables use single or double braces:
//
//	Hello, {{name}}! Your id is {id}.
//
// Conditionals use #if with an optional #else branch. Conditions
// support exactly one comparison operator (==, !=, >=, <=, >, <) or a
// bare truthiness check; no combinators and no parentheses:
//
//	{{#if urgent}}URGENT: {{/if}}{{title}}
//	{{#if score >= 80}}pass{{#else}}fail{{/if}}
//
// Iteration uses #each with an explicit item name. Each iteration also
// binds <item>_index, <item>_first, and <item>_last:
//
//	{{#each items as item}}{item}-{{/each}}
//
// Functions are called with parenthesized arguments. Arguments resolve
// to bound variables when their text names one, else parse as
// literals:
//
//	{{upper(name)}}
//	{{format("{0} of {1}", done, total)}}
//
// Inheritance regions mark content a child template may override:
//
//	{{#block greeting}}Hello{{/block}}
//
// # Pipeline
//
// Rendering runs a fixed pipeline: inheritance, loops, functions,
// conditionals, interpolation. Loop bodies render with loops disabled,
// so self-referential arrays cannot recurse. The untaken branch of a
// conditional is never evaluated. Function results are substituted as
// text and never re-interpreted.
//
// # Built-in Functions
//
//   - upper, lower, capitalize, length, trim, contains, replace
//   - join(list, sep), first(list), last(list)
//   - add, subtract, multiply, divide
//   - default(value, fallback), format(template, args...)
//
// Custom functions registered with WithFunc shadow built-ins of the
// same name.
//
// # Errors
//
// Rendering raises on authoring defects rather than guessing:
// ErrMissingVariable for unbound references, ErrNotIterable for
// non-array loop sources, ErrUnknownFunction for unregistered names.
//
// # Example
//
//	t := template.New("Hello, {{upper(name)}}!")
//	out, err := t.Render(template.Vars{"name": "alice"})
//	// out: "Hello, ALICE!"
package template
