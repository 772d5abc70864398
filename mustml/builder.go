package mustml

import "strings"

// Option configures a single builder operation. Options mirror the named
// arguments of the binding API: class name, visibility guard, disablement
// guard, input type and raw attribute overrides.
type Option func(*nodeOpts)

type nodeOpts struct {
	class     string
	showIf    *Expr
	disableIf *Expr
	typ       string
	extra     []Attribute
}

// Class sets the class attribute.
func Class(name string) Option {
	return func(o *nodeOpts) { o.class = name }
}

// ShowIf adds a visibility guard: an x-show binding plus a hidden-by-default
// inline style, so the element stays invisible until the client runtime
// evaluates the guard.
func ShowIf(cond any) Option {
	return func(o *nodeOpts) {
		e := toExpr(cond)
		o.showIf = &e
	}
}

// DisableIf adds a reactive :disabled binding.
func DisableIf(cond any) Option {
	return func(o *nodeOpts) {
		e := toExpr(cond)
		o.disableIf = &e
	}
}

// Type sets the type attribute of an input element.
func Type(t string) Option {
	return func(o *nodeOpts) { o.typ = t }
}

// Attr sets a raw attribute. Attributes are applied last, in call order, and
// override any attribute of the same name emitted by the operation itself.
func Attr(key, val string) Option {
	return func(o *nodeOpts) { o.extra = append(o.extra, Attribute{Key: key, Val: val}) }
}

func applyOpts(opts []Option) *nodeOpts {
	o := &nodeOpts{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Builder accumulates the markup tree for one page render. It holds the
// schema-bound state root, the open-element stack and the top-level node
// list. A Builder is scoped to a single request and must never be shared.
type Builder struct {
	// Preset names the UI styling preset page logic may consult when picking
	// default classes.
	Preset string

	schema *Schema
	stack  nodeStack
	nodes  []*Node
	err    error
}

// NewBuilder returns a builder bound to the given state schema.
func NewBuilder(schema *Schema) *Builder {
	return &Builder{Preset: "tailwind", schema: schema}
}

// State returns the root state reference for path traversal.
func (b *Builder) State() State {
	return stateRoot(b.schema)
}

// Err returns the first construction error recorded by any builder
// operation, state access or expression used with this builder.
func (b *Builder) Err() error { return b.err }

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// add appends a node under the innermost open element, or to the top-level
// list when no element is open.
func (b *Builder) add(n *Node) {
	if top := b.stack.top(); top != nil {
		top.Children = append(top.Children, n)
		return
	}
	b.nodes = append(b.nodes, n)
}

// check records a sticky expression error on the builder and reports whether
// the expression is usable.
func (b *Builder) check(e Expr) bool {
	if e.err != nil {
		b.fail(e.err)
		return false
	}
	return true
}

// Text appends a text-binding leaf. Non-Option arguments are the text parts:
// literals are lifted and expressions taken as-is, and multiple parts are
// concatenated left-to-right with the + operator. At least one part is
// required.
func (b *Builder) Text(args ...any) *Node {
	var parts []Expr
	var opts []Option
	for _, a := range args {
		if opt, ok := a.(Option); ok {
			opts = append(opts, opt)
			continue
		}
		parts = append(parts, toExpr(a))
	}
	n := newNode("span")
	if len(parts) == 0 {
		b.fail(&UsageError{Msg: "text requires at least one part"})
		return n
	}
	var expr Expr
	if len(parts) == 1 {
		expr = parts[0]
	} else {
		wrapped := make([]string, len(parts))
		for i, p := range parts {
			wrapped[i] = p.wrap()
		}
		expr = Expr{code: strings.Join(wrapped, " + ")}
	}
	for _, p := range parts {
		b.check(p)
	}
	o := applyOpts(opts)
	n.SetAttr("x-text", expr.Code())
	if o.class != "" {
		n.SetAttr("class", o.class)
	}
	b.setShowIf(n, o)
	b.setExtra(n, o)
	b.add(n)
	return n
}

// Element appends a generic container element. The returned node can be used
// as a nesting scope via With.
func (b *Builder) Element(tag string, opts ...Option) *Node {
	o := applyOpts(opts)
	n := newNode(tag)
	if o.class != "" {
		n.SetAttr("class", o.class)
	}
	b.setShowIf(n, o)
	b.setExtra(n, o)
	b.add(n)
	return n
}

// Div appends a div element.
func (b *Builder) Div(opts ...Option) *Node {
	return b.Element("div", opts...)
}

// Span appends a span element.
func (b *Builder) Span(opts ...Option) *Node {
	return b.Element("span", opts...)
}

// Input appends a self-closing input element with a two-way x-model binding
// to the given state reference. The type attribute defaults to "text".
func (b *Builder) Input(model State, opts ...Option) *Node {
	o := applyOpts(opts)
	typ := o.typ
	if typ == "" {
		typ = "text"
	}
	n := newNode("input")
	n.SelfClosing = true
	n.SetAttr("type", typ)
	ref := toExpr(model)
	b.check(ref)
	n.SetAttr("x-model", ref.Code())
	if o.class != "" {
		n.SetAttr("class", o.class)
	}
	b.setDisableIf(n, o)
	b.setExtra(n, o)
	b.add(n)
	return n
}

// Button appends a button element of type "button" with a text-binding child
// carrying the compiled label expression.
func (b *Builder) Button(label any, opts ...Option) *Node {
	o := applyOpts(opts)
	n := newNode("button")
	n.SetAttr("type", "button")
	if o.class != "" {
		n.SetAttr("class", o.class)
	}
	b.setDisableIf(n, o)
	b.setExtra(n, o)
	b.add(n)

	lbl := toExpr(label)
	b.check(lbl)
	text := newNode("span")
	text.SetAttr("x-text", lbl.Code())
	n.Children = append(n.Children, text)
	return n
}

// With opens n as the nesting scope, runs body, and closes the scope again.
// The pop is deferred, so a panic inside body cannot corrupt the stack for
// later operations in the same request. Self-closing elements cannot hold
// children; attempting to nest under one is a construction error and body is
// not run.
func (b *Builder) With(n *Node, body func()) {
	if n == nil || body == nil {
		return
	}
	if n.SelfClosing {
		b.fail(&UsageError{Msg: "cannot nest children under self-closing element <" + n.Tag + ">"})
		return
	}
	b.stack = append(b.stack, n)
	defer b.stack.pop()
	body()
}

// Render serializes the accumulated top-level nodes to a markup fragment. It
// fails with the first construction error recorded on the builder.
func (b *Builder) Render() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	var sb strings.Builder
	for _, n := range b.nodes {
		n.render(&sb)
	}
	return sb.String(), nil
}

func (b *Builder) setShowIf(n *Node, o *nodeOpts) {
	if o.showIf == nil {
		return
	}
	b.check(*o.showIf)
	n.SetAttr("x-show", o.showIf.Code())
	if _, ok := n.AttrVal("style"); !ok {
		n.SetAttr("style", "display: none;")
	}
}

func (b *Builder) setDisableIf(n *Node, o *nodeOpts) {
	if o.disableIf == nil {
		return
	}
	b.check(*o.disableIf)
	n.SetAttr(":disabled", o.disableIf.Code())
}

func (b *Builder) setExtra(n *Node, o *nodeOpts) {
	for _, a := range o.extra {
		n.SetAttr(a.Key, a.Val)
	}
}
