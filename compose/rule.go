package compose

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition is a declarative predicate over the composition context.
// Field is a dot path into the context (e.g. "task.complexity").
type Condition struct {
	Field string
	Op    string // ==, !=, >, <, >=, <=, contains
	Value any
}

// PatternKind selects which usage-history signal a BehaviorPattern
// evaluates.
type PatternKind string

const (
	// FrequentUse matches when userBehavior.usageCount reaches the
	// threshold.
	FrequentUse PatternKind = "frequent_use"

	// HighSuccess matches when userBehavior.successRate reaches the
	// threshold.
	HighSuccess PatternKind = "high_success"

	// TimeOfDay matches when userBehavior.hourOfDay falls inside the
	// pattern's time range.
	TimeOfDay PatternKind = "time_of_day"

	// DomainExpertise matches when the userBehavior.expertise score
	// for the pattern's domain reaches the threshold.
	DomainExpertise PatternKind = "domain_expertise"
)

// TimeRange is an hour-of-day window. Start may exceed End for ranges
// wrapping midnight (e.g. 22..6).
type TimeRange struct {
	Start int
	End   int
}

func (r TimeRange) contains(hour int) bool {
	if r.Start <= r.End {
		return hour >= r.Start && hour <= r.End
	}
	return hour >= r.Start || hour <= r.End
}

// BehaviorPattern is a rule predicate over conventional usage-history
// fields carried in the context's userBehavior sub-object.
type BehaviorPattern struct {
	Kind      PatternKind
	Threshold float64
	Time      *TimeRange // TimeOfDay only
	Domain    string     // DomainExpertise only
}

// Rule makes registered templates eligible for selection. A rule
// applies to a template when its name pattern (if any) matches the
// template's name and every condition and behavior pattern holds
// against the context.
type Rule struct {
	// Name identifies the rule in composition results.
	Name string

	// TemplatePattern is an optional regular expression restricting
	// which template names the rule covers. Empty covers all.
	TemplatePattern string

	// Conditions must all hold for the rule to apply.
	Conditions []Condition

	// Behaviors must all hold for the rule to apply.
	Behaviors []BehaviorPattern

	// Priority ranks applicable templates; highest wins.
	Priority int
}

// lookupPath resolves a dot path through nested map values.
func lookupPath(ctx map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var v any = ctx
	for _, part := range parts {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return v, true
}

// holds evaluates one condition against the context. A missing field
// fails the condition rather than erroring.
func (c Condition) holds(ctx map[string]any) bool {
	v, ok := lookupPath(ctx, c.Field)
	if !ok {
		return false
	}

	if c.Op == "contains" {
		return containsValue(v, c.Value)
	}

	an, aok := asNumber(v)
	bn, bok := asNumber(c.Value)
	if aok && bok {
		switch c.Op {
		case "==":
			return an == bn
		case "!=":
			return an != bn
		case ">":
			return an > bn
		case "<":
			return an < bn
		case ">=":
			return an >= bn
		case "<=":
			return an <= bn
		}
		return false
	}

	as, bs := asString(v), asString(c.Value)
	switch c.Op {
	case "==":
		return as == bs
	case "!=":
		return as != bs
	case ">":
		return as > bs
	case "<":
		return as < bs
	case ">=":
		return as >= bs
	case "<=":
		return as <= bs
	}
	return false
}

// holds evaluates one behavior pattern against the userBehavior
// sub-object of the context.
func (p BehaviorPattern) holds(ctx map[string]any) bool {
	behavior, ok := ctx["userBehavior"].(map[string]any)
	if !ok {
		return false
	}

	switch p.Kind {
	case FrequentUse:
		n, ok := asNumber(behavior["usageCount"])
		return ok && n >= p.Threshold
	case HighSuccess:
		n, ok := asNumber(behavior["successRate"])
		return ok && n >= p.Threshold
	case TimeOfDay:
		if p.Time == nil {
			return false
		}
		n, ok := asNumber(behavior["hourOfDay"])
		return ok && p.Time.contains(int(n))
	case DomainExpertise:
		expertise, ok := behavior["expertise"].(map[string]any)
		if !ok {
			return false
		}
		n, ok := asNumber(expertise[p.Domain])
		return ok && n >= p.Threshold
	}
	return false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func containsValue(haystack, needle any) bool {
	switch h := haystack.(type) {
	case string:
		return strings.Contains(h, asString(needle))
	case []any:
		want := asString(needle)
		for _, item := range h {
			if asString(item) == want {
				return true
			}
		}
	case []string:
		want := asString(needle)
		for _, item := range h {
			if item == want {
				return true
			}
		}
	}
	return false
}
