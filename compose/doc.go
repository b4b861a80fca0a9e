// Package compose selects one template among many registered templates
// using declarative, context-driven rules.
//
// A Rule names a priority and a set of predicates: field conditions
// (dot-path comparisons against the context) and behavior patterns
// (predicates over the conventional userBehavior sub-object: usage
// count, success ratio, hour of day, per-domain expertise). A template
// with at least one fully-satisfied rule is applicable, tagged with the
// highest priority among its matching rules; the highest-priority
// applicable template is rendered with the context.
//
// Equal top priorities resolve to the earliest-registered template.
// No applicable template is an error (ErrNoApplicableTemplate), not a
// silent fallback.
//
// # Example
//
//	reg := compose.NewRegistry()
//	reg.RegisterTemplate("detailed", detailedTmpl)
//	reg.RegisterTemplate("brief", briefTmpl)
//	reg.AddRule(compose.Rule{
//	    Name:     "complex-tasks",
//	    Priority: 10,
//	    Conditions: []compose.Condition{
//	        {Field: "complexity", Op: ">", Value: 7},
//	    },
//	})
//
//	result, err := reg.Compose(template.Vars{"complexity": 8, "task": "review"})
//	// result.TemplateName, result.Output, result.AppliedRules, result.Priority
package compose
