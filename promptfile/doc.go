// Package promptfile loads declarative template, base, and rule
// definitions from YAML and TOML files and applies them to a
// composition registry and inheritance resolver.
//
// # Definition Files
//
// A definition document declares any mix of templates, bases, and
// rules:
//
//	bases:
//	  - name: report
//	    source: "H\n{{#block body}}default{{/block}}\nF"
//	templates:
//	  - name: detailed
//	    base: report
//	    blocks:
//	      body: "Everything about {topic}."
//	rules:
//	  - name: complex
//	    template: "^detailed$"
//	    priority: 10
//	    conditions:
//	      - {field: complexity, op: ">", value: 7}
//
// Load reads one file; LoadDir merges every .yaml/.yml/.toml file in a
// directory in sorted filename order, keeping registration order
// deterministic.
//
// # Hot Reload
//
// Watcher reloads a definition directory on change, using fsnotify
// with a polling fallback:
//
//	w := promptfile.NewWatcher(dir)
//	for update := range w.Watch(ctx) {
//	    if update.Err != nil {
//	        continue
//	    }
//	    reg := compose.NewRegistry()
//	    res := inherit.NewResolver()
//	    update.File.Apply(reg, res)
//	}
//
// Reloads build a fresh registry rather than mutating a live one, so a
// failed load never corrupts the serving state.
//
// # Schema
//
// Schema returns a JSON Schema for the document format.
package promptfile
