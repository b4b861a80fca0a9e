// Package inherit resolves template inheritance: a registered base
// template declares named {{#block}} and {{#section}} regions, and a
// child supplies overrides that replace or extend those regions.
//
// # Blocks and Sections
//
// Block overrides replace the base's region wholesale:
//
//	base:  "H\n{{#block c}}default{{/block}}\nF"
//	child: Overrides{Blocks: map[string]string{"c": "Custom"}}
//	out:   "H\nCustom\nF"
//
// Section overrides carry a merge mode: Replace swaps the body,
// Prepend and Append extend the existing body.
//
// # Validation
//
// Required-block validation is advisory. A child omitting a required
// block, or overriding a block the base never declares, produces a
// warning through the resolver's logger; the base's own default
// content remains in place.
//
// # Example
//
//	res := inherit.NewResolver()
//	res.Register(inherit.Base{Name: "report", Source: src})
//	tmpl, err := res.Resolve("report", inherit.Overrides{
//	    Blocks: map[string]string{"summary": "All good."},
//	}, nil)
//	out, err := tmpl.Render(nil)
package inherit
