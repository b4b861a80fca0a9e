package template

import (
	"errors"
	"testing"
)

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		args []any
		want any
	}{
		{name: "upper", fn: "upper", args: []any{"abc"}, want: "ABC"},
		{name: "lower", fn: "lower", args: []any{"ABC"}, want: "abc"},
		{name: "capitalize", fn: "capitalize", args: []any{"hello world"}, want: "Hello world"},
		{name: "capitalize empty", fn: "capitalize", args: []any{""}, want: ""},
		{name: "length of string", fn: "length", args: []any{"hello"}, want: 5},
		{name: "length of list", fn: "length", args: []any{[]any{1, 2, 3}}, want: 3},
		{name: "trim", fn: "trim", args: []any{"  x  "}, want: "x"},
		{name: "contains string", fn: "contains", args: []any{"hello", "ell"}, want: true},
		{name: "contains list", fn: "contains", args: []any{[]any{"a", "b"}, "b"}, want: true},
		{name: "replace", fn: "replace", args: []any{"a-b-c", "-", "+"}, want: "a+b+c"},
		{name: "join", fn: "join", args: []any{[]any{"a", "b"}, ","}, want: "a,b"},
		{name: "first", fn: "first", args: []any{[]any{"x", "y"}}, want: "x"},
		{name: "first empty", fn: "first", args: []any{[]any{}}, want: ""},
		{name: "last", fn: "last", args: []any{[]any{"x", "y"}}, want: "y"},
		{name: "add", fn: "add", args: []any{2, 3}, want: float64(5)},
		{name: "add numeric strings", fn: "add", args: []any{"2", "3"}, want: float64(5)},
		{name: "subtract", fn: "subtract", args: []any{5, 3}, want: float64(2)},
		{name: "multiply", fn: "multiply", args: []any{4, 2.5}, want: float64(10)},
		{name: "divide", fn: "divide", args: []any{9, 3}, want: float64(3)},
		{name: "default nil", fn: "default", args: []any{nil, "fb"}, want: "fb"},
		{name: "default empty string", fn: "default", args: []any{"", "fb"}, want: "fb"},
		{name: "default keeps zero", fn: "default", args: []any{0, "fb"}, want: 0},
		{name: "format", fn: "format", args: []any{"{0}+{1}={2}", 1, 2, 3}, want: "1+2=3"},
		{name: "format repeated index", fn: "format", args: []any{"{0}{0}", "ha"}, want: "haha"},
	}

	funcs := builtins()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, ok := funcs[tt.fn]
			if !ok {
				t.Fatalf("builtin %q not registered", tt.fn)
			}
			got, err := fn(tt.args)
			if err != nil {
				t.Fatalf("%s(%v) error = %v", tt.fn, tt.args, err)
			}
			if got != tt.want {
				t.Errorf("%s(%v) = %v (%T), want %v (%T)", tt.fn, tt.args, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestBuiltins_Errors(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		args []any
	}{
		{name: "upper wrong arity", fn: "upper", args: []any{"a", "b"}},
		{name: "join non-array", fn: "join", args: []any{"a", ","}},
		{name: "add non-numeric", fn: "add", args: []any{"x", 1}},
		{name: "divide by zero", fn: "divide", args: []any{1, 0}},
		{name: "format no args", fn: "format", args: nil},
	}

	funcs := builtins()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := funcs[tt.fn](tt.args)
			if !errors.Is(err, ErrBadArgument) {
				t.Errorf("%s(%v) error = %v, want ErrBadArgument", tt.fn, tt.args, err)
			}
		})
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{in: "s", want: "s"},
		{in: nil, want: ""},
		{in: true, want: "true"},
		{in: 42, want: "42"},
		{in: 2.5, want: "2.5"},
		{in: float64(3), want: "3"},
		{in: []any{"a", 1}, want: "a, 1"},
		{in: []string{"x", "y"}, want: "x, y"},
	}

	for _, tt := range tests {
		if got := stringify(tt.in); got != tt.want {
			t.Errorf("stringify(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruthy(t *testing.T) {
	truthyVals := []any{true, 1, -1, 0.5, "x", "true", []any{1}, map[string]any{"k": 1}}
	falsyVals := []any{nil, false, 0, 0.0, "", "false", []any{}, map[string]any{}}

	for _, v := range truthyVals {
		if !truthy(v) {
			t.Errorf("truthy(%v) = false, want true", v)
		}
	}
	for _, v := range falsyVals {
		if truthy(v) {
			t.Errorf("truthy(%v) = true, want false", v)
		}
	}
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		raw  string
		want any
		ok   bool
	}{
		{raw: `"quoted"`, want: "quoted", ok: true},
		{raw: "'single'", want: "single", ok: true},
		{raw: "42", want: float64(42), ok: true},
		{raw: "-1.5", want: float64(-1.5), ok: true},
		{raw: "true", want: true, ok: true},
		{raw: "false", want: false, ok: true},
		{raw: "ident", ok: false},
		{raw: "", ok: false},
	}

	for _, tt := range tests {
		got, ok := parseLiteral(tt.raw)
		if ok != tt.ok {
			t.Errorf("parseLiteral(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("parseLiteral(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
