package template

import (
	"fmt"
	"strings"
)

// comparisonOps in match order: two-character operators first so ">="
// is not read as ">".
var comparisonOps = []string{"==", "!=", ">=", "<=", ">", "<"}

// evalExpr evaluates the restricted condition grammar: exactly one
// comparison operator between two operands, or a bare truthiness check
// of a single operand. Operands are bound identifiers or literals.
// There are no boolean combinators and no parentheses.
func evalExpr(expr string, lookup func(name string) (any, bool)) (bool, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false, newError("render", "", fmt.Errorf("%w: empty condition", ErrParse))
	}

	op, left, right := splitComparison(expr)
	if op == "" {
		return truthy(resolveOperand(expr, lookup)), nil
	}

	lv := resolveOperand(left, lookup)
	rv := resolveOperand(right, lookup)
	return compare(op, lv, rv), nil
}

// splitComparison finds the single comparison operator outside quotes.
// Returns "" when the expression has no operator.
func splitComparison(expr string) (op, left, right string) {
	var quote byte
	for i := 0; i < len(expr); i++ {
		ch := expr[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		if ch == '"' || ch == '\'' {
			quote = ch
			continue
		}
		for _, cand := range comparisonOps {
			if strings.HasPrefix(expr[i:], cand) {
				return cand, strings.TrimSpace(expr[:i]), strings.TrimSpace(expr[i+len(cand):])
			}
		}
	}
	return "", "", ""
}

// resolveOperand interprets operand text: literals stay literal, bound
// identifiers resolve to their value, and unbound identifiers remain
// as their own text.
func resolveOperand(raw string, lookup func(name string) (any, bool)) any {
	raw = strings.TrimSpace(raw)
	if v, ok := parseLiteral(raw); ok {
		return v
	}
	if isPath(raw) {
		if v, ok := lookup(raw); ok {
			return v
		}
	}
	return raw
}

// compare applies a comparison operator. Numeric comparison when both
// operands are numbers, string comparison otherwise (booleans compare
// by their text form).
func compare(op string, a, b any) bool {
	an, aok := toNumber(a)
	bn, bok := toNumber(b)
	if aok && bok {
		switch op {
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

	as, bs := stringify(a), stringify(b)
	switch op {
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

// expandCalls evaluates embedded function calls in a condition
// expression left to right, substituting their stringified results,
// so conditions may test computed values.
func expandCalls(expr string, call func(name string, args []string) (any, error)) (string, error) {
	var out strings.Builder
	var quote byte

	i := 0
	for i < len(expr) {
		ch := expr[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			out.WriteByte(ch)
			i++
			continue
		}
		if ch == '"' || ch == '\'' {
			quote = ch
			out.WriteByte(ch)
			i++
			continue
		}

		if !isIdentStart(ch) {
			out.WriteByte(ch)
			i++
			continue
		}

		name, end := matchCallAt(expr, i)
		if name == "" {
			// Plain identifier: consume it whole so a suffix is
			// never mistaken for a call name.
			j := i
			for j < len(expr) && isIdentChar(expr[j]) {
				j++
			}
			out.WriteString(expr[i:j])
			i = j
			continue
		}

		args := splitArgs(expr[i+len(name)+1 : end-1])
		result, err := call(name, args)
		if err != nil {
			return "", err
		}
		out.WriteString(stringify(result))
		i = end
	}

	return out.String(), nil
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

// matchCallAt matches an identifier followed by a quote-aware
// parenthesized argument list starting at offset i. Returns the name
// and the index just past the closing paren.
func matchCallAt(expr string, i int) (string, int) {
	j := i
	for j < len(expr) && isIdentChar(expr[j]) {
		j++
	}
	if j == i || j >= len(expr) || expr[j] != '(' {
		return "", 0
	}

	var quote byte
	for k := j + 1; k < len(expr); k++ {
		ch := expr[k]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case ')':
			return expr[i:j], k + 1
		}
	}
	return "", 0
}
