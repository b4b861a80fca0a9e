package template

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// builtins returns the built-in template functions.
func builtins() Funcs {
	return Funcs{
		// String helpers.
		"upper":      fnUpper,
		"lower":      fnLower,
		"capitalize": fnCapitalize,
		"length":     fnLength,
		"trim":       fnTrim,
		"contains":   fnContains,
		"replace":    fnReplace,

		// Array helpers.
		"join":  fnJoin,
		"first": fnFirst,
		"last":  fnLast,

		// Arithmetic.
		"add":      fnAdd,
		"subtract": fnSubtract,
		"multiply": fnMultiply,
		"divide":   fnDivide,

		// Utility.
		"default": fnDefault,
		"format":  fnFormat,
	}
}

func argCount(name string, args []any, want int) error {
	if len(args) != want {
		return newError("call", name, fmt.Errorf("%w: want %d arguments, got %d", ErrBadArgument, want, len(args)))
	}
	return nil
}

func fnUpper(args []any) (any, error) {
	if err := argCount("upper", args, 1); err != nil {
		return nil, err
	}
	return strings.ToUpper(stringify(args[0])), nil
}

func fnLower(args []any) (any, error) {
	if err := argCount("lower", args, 1); err != nil {
		return nil, err
	}
	return strings.ToLower(stringify(args[0])), nil
}

func fnCapitalize(args []any) (any, error) {
	if err := argCount("capitalize", args, 1); err != nil {
		return nil, err
	}
	s := stringify(args[0])
	if s == "" {
		return s, nil
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes), nil
}

func fnLength(args []any) (any, error) {
	if err := argCount("length", args, 1); err != nil {
		return nil, err
	}
	if list, ok := toList(args[0]); ok {
		return len(list), nil
	}
	return len([]rune(stringify(args[0]))), nil
}

func fnTrim(args []any) (any, error) {
	if err := argCount("trim", args, 1); err != nil {
		return nil, err
	}
	return strings.TrimSpace(stringify(args[0])), nil
}

func fnContains(args []any) (any, error) {
	if err := argCount("contains", args, 2); err != nil {
		return nil, err
	}
	if list, ok := toList(args[0]); ok {
		needle := stringify(args[1])
		for _, v := range list {
			if stringify(v) == needle {
				return true, nil
			}
		}
		return false, nil
	}
	return strings.Contains(stringify(args[0]), stringify(args[1])), nil
}

func fnReplace(args []any) (any, error) {
	if err := argCount("replace", args, 3); err != nil {
		return nil, err
	}
	return strings.ReplaceAll(stringify(args[0]), stringify(args[1]), stringify(args[2])), nil
}

func fnJoin(args []any) (any, error) {
	if err := argCount("join", args, 2); err != nil {
		return nil, err
	}
	list, ok := toList(args[0])
	if !ok {
		return nil, newError("call", "join", fmt.Errorf("%w: first argument is not an array", ErrBadArgument))
	}
	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = stringify(v)
	}
	return strings.Join(parts, stringify(args[1])), nil
}

func fnFirst(args []any) (any, error) {
	if err := argCount("first", args, 1); err != nil {
		return nil, err
	}
	list, ok := toList(args[0])
	if !ok {
		return nil, newError("call", "first", fmt.Errorf("%w: argument is not an array", ErrBadArgument))
	}
	if len(list) == 0 {
		return "", nil
	}
	return list[0], nil
}

func fnLast(args []any) (any, error) {
	if err := argCount("last", args, 1); err != nil {
		return nil, err
	}
	list, ok := toList(args[0])
	if !ok {
		return nil, newError("call", "last", fmt.Errorf("%w: argument is not an array", ErrBadArgument))
	}
	if len(list) == 0 {
		return "", nil
	}
	return list[len(list)-1], nil
}

func numericArgs(name string, args []any) (float64, float64, error) {
	if err := argCount(name, args, 2); err != nil {
		return 0, 0, err
	}
	a, aok := toNumber(args[0])
	b, bok := toNumber(args[1])
	if !aok || !bok {
		return 0, 0, newError("call", name, fmt.Errorf("%w: arguments must be numbers", ErrBadArgument))
	}
	return a, b, nil
}

func fnAdd(args []any) (any, error) {
	a, b, err := numericArgs("add", args)
	if err != nil {
		return nil, err
	}
	return a + b, nil
}

func fnSubtract(args []any) (any, error) {
	a, b, err := numericArgs("subtract", args)
	if err != nil {
		return nil, err
	}
	return a - b, nil
}

func fnMultiply(args []any) (any, error) {
	a, b, err := numericArgs("multiply", args)
	if err != nil {
		return nil, err
	}
	return a * b, nil
}

func fnDivide(args []any) (any, error) {
	a, b, err := numericArgs("divide", args)
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, newError("call", "divide", fmt.Errorf("%w: division by zero", ErrBadArgument))
	}
	return a / b, nil
}

// fnDefault returns the fallback when the value is nil or empty.
func fnDefault(args []any) (any, error) {
	if err := argCount("default", args, 2); err != nil {
		return nil, err
	}
	val := args[0]
	if val == nil {
		return args[1], nil
	}
	if s, ok := val.(string); ok && s == "" {
		return args[1], nil
	}
	return val, nil
}

// fnFormat substitutes {0}, {1}, ... positionally into the first
// argument.
func fnFormat(args []any) (any, error) {
	if len(args) == 0 {
		return nil, newError("call", "format", fmt.Errorf("%w: want at least 1 argument", ErrBadArgument))
	}
	out := stringify(args[0])
	for i, arg := range args[1:] {
		out = strings.ReplaceAll(out, "{"+strconv.Itoa(i)+"}", stringify(arg))
	}
	return out, nil
}

// stringify converts a value to its rendered text form. Floats drop
// trailing zeros so arithmetic results read naturally.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// toList normalizes slice values to []any.
func toList(v any) ([]any, bool) {
	switch val := v.(type) {
	case []any:
		return val, true
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(val))
		for i, m := range val {
			out[i] = m
		}
		return out, true
	case []int:
		out := make([]any, len(val))
		for i, n := range val {
			out[i] = n
		}
		return out, true
	case []float64:
		out := make([]any, len(val))
		for i, n := range val {
			out[i] = n
		}
		return out, true
	default:
		return nil, false
	}
}

// toNumber converts numeric values and numeric strings to float64.
func toNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// parseLiteral interprets raw argument text: a quoted string, number,
// or boolean. Returns false when the text is none of these.
func parseLiteral(raw string) (any, bool) {
	if len(raw) >= 2 {
		if (raw[0] == '"' && raw[len(raw)-1] == '"') ||
			(raw[0] == '\'' && raw[len(raw)-1] == '\'') {
			return raw[1 : len(raw)-1], true
		}
	}
	if raw == "true" {
		return true, true
	}
	if raw == "false" {
		return false, true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, true
	}
	return nil, false
}

// truthy reports the bare-truthiness of a value: true booleans,
// non-zero numbers, and non-empty values are true. The strings ""
// and "false" are false.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != "" && val != "false"
	case float64:
		return val != 0
	case float32:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case []any:
		return len(val) > 0
	case []string:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}
