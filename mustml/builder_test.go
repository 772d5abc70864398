package mustml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newDemoBuilder(t *testing.T) *Builder {
	t.Helper()
	schema, err := SchemaOf(exprDemoState{})
	require.NoError(t, err)
	return NewBuilder(schema)
}

func TestBuilderContextNesting(t *testing.T) {
	m := newDemoBuilder(t)
	state := m.State()

	m.With(m.Div(Class("outer")), func() {
		m.Text("Hello ")
		m.With(m.Span(Class("inner"), ShowIf(state.Field("loading"))), func() {
			m.Text(state.Field("name"))
		})
		m.Button("Save")
	})

	got, err := m.Render()
	require.NoError(t, err)

	want := `<div class="outer">` +
		`<span x-text="'Hello '"></span>` +
		`<span class="inner" x-show="loading" style="display: none;">` +
		`<span x-text="name"></span>` +
		`</span>` +
		`<button type="button"><span x-text="'Save'"></span></button>` +
		`</div>`
	require.Equal(t, want, got)
}

func TestBuilderTextConcatenation(t *testing.T) {
	m := newDemoBuilder(t)
	state := m.State()

	m.Text("Hello, ", state.Field("name"), "!")

	got, err := m.Render()
	require.NoError(t, err)
	require.Contains(t, got, `x-text="'Hello, ' + name + '!'"`)
}

func TestBuilderInputAndButtonBindings(t *testing.T) {
	m := newDemoBuilder(t)
	state := m.State()
	loading := state.Field("loading")

	m.Input(state.Field("name"), DisableIf(loading))
	m.Input(state.Field("loading"), Type("checkbox"), Class("toggle"))
	m.Button("Save", DisableIf(loading), Class("primary"))

	got, err := m.Render()
	require.NoError(t, err)

	require.Equal(t,
		`<input type="text" x-model="name" :disabled="loading" />`+
			`<input type="checkbox" x-model="loading" class="toggle" />`+
			`<button type="button" class="primary" :disabled="loading"><span x-text="'Save'"></span></button>`,
		got)
}

func TestBuilderVisibilityGuard(t *testing.T) {
	m := newDemoBuilder(t)
	state := m.State()

	m.Div(ShowIf(state.Field("count").Ge(1)))
	m.Text("busy", ShowIf(state.Field("loading")))

	got, err := m.Render()
	require.NoError(t, err)
	require.Contains(t, got, `x-show="count &gt;= 1" style="display: none;"`)
	require.Contains(t, got, `<span x-text="'busy'" x-show="loading" style="display: none;"></span>`)
}

func TestBuilderRawAttributesOverride(t *testing.T) {
	m := newDemoBuilder(t)
	state := m.State()

	m.Div(Class("a"), ShowIf(state.Field("loading")), Attr("style", "color: red;"), Attr("id", "panel"))

	got, err := m.Render()
	require.NoError(t, err)
	require.Equal(t, `<div class="a" x-show="loading" style="color: red;" id="panel"></div>`, got)
}

func TestBuilderGenericElement(t *testing.T) {
	m := newDemoBuilder(t)

	m.With(m.Element("section", Class("hero")), func() {
		m.Text("welcome")
	})

	got, err := m.Render()
	require.NoError(t, err)
	require.Equal(t, `<section class="hero"><span x-text="'welcome'"></span></section>`, got)
}

func TestBuilderUsageErrors(t *testing.T) {
	t.Run("text with no parts", func(t *testing.T) {
		m := newDemoBuilder(t)
		m.Text(Class("only-options"))

		_, err := m.Render()
		var usageErr *UsageError
		require.ErrorAs(t, err, &usageErr)
	})

	t.Run("nesting under self-closing element", func(t *testing.T) {
		m := newDemoBuilder(t)
		state := m.State()
		ran := false
		m.With(m.Input(state.Field("name")), func() { ran = true })

		_, err := m.Render()
		var usageErr *UsageError
		require.ErrorAs(t, err, &usageErr)
		require.False(t, ran)
	})
}

func TestBuilderSurfacesPathErrors(t *testing.T) {
	m := newDemoBuilder(t)
	state := m.State()

	m.Text(state.Field("unknown"))

	_, err := m.Render()
	var pathErr *PathError
	require.ErrorAs(t, err, &pathErr)
	require.Equal(t, "unknown", pathErr.Path)
	require.ErrorIs(t, m.Err(), err)
}

func TestBuilderStackSurvivesPanic(t *testing.T) {
	m := newDemoBuilder(t)

	func() {
		defer func() { _ = recover() }()
		m.With(m.Div(Class("outer")), func() {
			panic("page logic blew up")
		})
	}()

	// The deferred pop must have run: this node belongs at the top level.
	m.Text("after")

	got, err := m.Render()
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(got, `<span x-text="'after'"></span>`), got)
	require.Equal(t, `<div class="outer"></div><span x-text="'after'"></span>`, got)
}

func TestBuilderSiblingAfterClosedScope(t *testing.T) {
	m := newDemoBuilder(t)

	div := m.Div()
	m.With(div, func() {
		m.With(m.Span(), func() {
			m.Text("inner")
		})
		// Added after the span scope closed: attaches to the div, not the span.
		m.Text("sibling")
	})

	got, err := m.Render()
	require.NoError(t, err)
	require.Equal(t,
		`<div><span><span x-text="'inner'"></span></span><span x-text="'sibling'"></span></div>`,
		got)
}

func TestBuilderIndependentInstances(t *testing.T) {
	schema, err := SchemaOf(exprDemoState{})
	require.NoError(t, err)

	a := NewBuilder(schema)
	b := NewBuilder(schema)
	a.Text("a")
	b.Text("b")

	ga, err := a.Render()
	require.NoError(t, err)
	gb, err := b.Render()
	require.NoError(t, err)
	require.Equal(t, `<span x-text="'a'"></span>`, ga)
	require.Equal(t, `<span x-text="'b'"></span>`, gb)
}

func TestBuilderPreset(t *testing.T) {
	m := newDemoBuilder(t)
	require.Equal(t, "tailwind", m.Preset)

	m.Preset = "plain"
	require.Equal(t, "plain", m.Preset)
}

func TestBuilderErrorsAreSticky(t *testing.T) {
	m := newDemoBuilder(t)
	state := m.State()

	m.Text(state.Field("unknown"))
	m.Text(state.Field("name")) // later valid ops do not clear the failure

	_, err := m.Render()
	require.Error(t, err)
	var pathErr *PathError
	require.ErrorAs(t, err, &pathErr)
	require.Equal(t, "unknown", pathErr.Path)
}
