package inherit_test

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/promptkit/inherit"
	"github.com/randalmurphal/promptkit/template"
)

func newResolver(t *testing.T, bases ...inherit.Base) *inherit.Resolver {
	t.Helper()
	res := inherit.NewResolver()
	for _, b := range bases {
		require.NoError(t, res.Register(b))
	}
	return res
}

func TestResolve_BlockOverride(t *testing.T) {
	res := newResolver(t, inherit.Base{
		Name:   "page",
		Source: "H\n{{#block c}}default{{/block}}\nF",
	})

	tmpl, err := res.Resolve("page", inherit.Overrides{
		Blocks: map[string]string{"c": "Custom"},
	}, nil)
	require.NoError(t, err)

	out, err := tmpl.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "H\nCustom\nF", out)
}

func TestResolve_NoOverrideKeepsDefault(t *testing.T) {
	res := newResolver(t, inherit.Base{
		Name:   "page",
		Source: "H\n{{#block c}}default{{/block}}\nF",
	})

	tmpl, err := res.Resolve("page", inherit.Overrides{}, nil)
	require.NoError(t, err)

	out, err := tmpl.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "H\ndefault\nF", out)
}

func TestResolve_BaseVarsShadowedByCallVars(t *testing.T) {
	res := newResolver(t, inherit.Base{
		Name:   "greet",
		Source: "{{greeting}}, {{name}}! {{#block body}}...{{/block}}",
		Vars:   template.Vars{"greeting": "Hello", "name": "default"},
	})

	tmpl, err := res.Resolve("greet", inherit.Overrides{
		Blocks: map[string]string{"body": "Welcome back."},
	}, template.Vars{"name": "Ann"})
	require.NoError(t, err)

	out, err := tmpl.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello, Ann! Welcome back.", out)
}

func TestResolve_ChildContentRendersAfterSplice(t *testing.T) {
	res := newResolver(t, inherit.Base{
		Name:   "page",
		Source: "{{#block body}}default{{/block}}",
	})

	tmpl, err := res.Resolve("page", inherit.Overrides{
		Blocks: map[string]string{"body": "{{#if ok}}yes{{#else}}no{{/if}}"},
	}, nil)
	require.NoError(t, err)

	out, err := tmpl.Render(template.Vars{"ok": true})
	require.NoError(t, err)
	assert.Equal(t, "yes", out)
}

func TestResolve_SectionModes(t *testing.T) {
	tests := []struct {
		name string
		mode inherit.MergeMode
		want string
	}{
		{name: "replace", mode: inherit.Replace, want: "[NEW]"},
		{name: "prepend", mode: inherit.Prepend, want: "[NEWbase]"},
		{name: "append", mode: inherit.Append, want: "[baseNEW]"},
		{name: "empty mode replaces", mode: "", want: "[NEW]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newResolver(t, inherit.Base{
				Name:   "doc",
				Source: "[{{#section s}}base{{/section}}]",
			})

			tmpl, err := res.Resolve("doc", inherit.Overrides{
				Sections: []inherit.SectionOverride{
					{Name: "s", Content: "NEW", Mode: tt.mode},
				},
			}, nil)
			require.NoError(t, err)

			out, err := tmpl.Render(nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestResolve_InvalidSectionMode(t *testing.T) {
	res := newResolver(t, inherit.Base{
		Name:   "doc",
		Source: "{{#section s}}base{{/section}}",
	})

	_, err := res.Resolve("doc", inherit.Overrides{
		Sections: []inherit.SectionOverride{{Name: "s", Content: "x", Mode: "sideways"}},
	}, nil)
	assert.ErrorIs(t, err, inherit.ErrInvalidMode)
}

func TestResolve_UnknownBase(t *testing.T) {
	res := inherit.NewResolver()
	_, err := res.Resolve("missing", inherit.Overrides{}, nil)
	assert.ErrorIs(t, err, inherit.ErrUnknownBase)
}

func TestResolve_AdvisoryWarnings(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	res := inherit.NewResolver(inherit.WithLogger(logger))
	require.NoError(t, res.Register(inherit.Base{
		Name:           "page",
		Source:         "{{#block c}}default{{/block}}",
		RequiredBlocks: []string{"c"},
	}))

	// Omitting a required block and naming an absent one both warn
	// without failing.
	tmpl, err := res.Resolve("page", inherit.Overrides{
		Blocks: map[string]string{"nosuch": "X"},
	}, nil)
	require.NoError(t, err)

	out, err := tmpl.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "default", out)

	logged := buf.String()
	assert.Contains(t, logged, "required block")
	assert.Contains(t, logged, "does not match any base block")
}

func TestRegister_Duplicate(t *testing.T) {
	res := newResolver(t, inherit.Base{Name: "a", Source: "x"})
	err := res.Register(inherit.Base{Name: "a", Source: "y"})
	assert.ErrorIs(t, err, inherit.ErrDuplicateBase)
}

func TestRegister_Invalid(t *testing.T) {
	res := inherit.NewResolver()
	assert.ErrorIs(t, res.Register(inherit.Base{Name: "a"}), inherit.ErrInvalidBase)
	assert.ErrorIs(t, res.Register(inherit.Base{Source: "x"}), inherit.ErrInvalidBase)
}

func TestOverridesFromSource(t *testing.T) {
	ov, err := inherit.OverridesFromSource("{{#block a}}alpha{{/block}} text {{#block b}}beta{{/block}}")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "alpha", "b": "beta"}, ov.Blocks)
}

func TestBases_Sorted(t *testing.T) {
	res := newResolver(t,
		inherit.Base{Name: "zeta", Source: "z"},
		inherit.Base{Name: "alpha", Source: "a"},
	)
	assert.Equal(t, []string{"alpha", "zeta"}, res.Bases())
}
