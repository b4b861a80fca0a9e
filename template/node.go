package template

// The parser produces a tree of nodes; the renderer walks it. Nodes
// that can be disabled by Options keep their raw source so they can be
// emitted verbatim.

type node interface {
	raw() string
}

// textNode is literal text between constructs.
type textNode struct {
	text string
}

func (n *textNode) raw() string { return n.text }

// varNode is a {var} or {{var}} reference. The name may be a dotted
// path into nested objects (item.name).
type varNode struct {
	name   string
	double bool
	src    string
}

func (n *varNode) raw() string { return n.src }

// ifNode is a {{#if expr}}...{{#else}}...{{/if}} conditional.
type ifNode struct {
	cond string
	then []node
	els  []node
	src  string
}

func (n *ifNode) raw() string { return n.src }

// eachNode is a {{#each list as item}}...{{/each}} loop.
type eachNode struct {
	list string
	item string
	body []node
	src  string
}

func (n *eachNode) raw() string { return n.src }

// callNode is a {{name(arg, ...)}} function call. Arguments are kept
// as raw text and resolved at render time.
type callNode struct {
	name string
	args []string
	src  string
}

func (n *callNode) raw() string { return n.src }

// regionKind distinguishes inheritance region types.
type regionKind int

const (
	regionBlock regionKind = iota
	regionSection
)

// regionNode is a {{#block name}}...{{/block}} or
// {{#section name}}...{{/section}} inheritance region.
type regionNode struct {
	kind regionKind
	name string
	body []node
	src  string
}

func (n *regionNode) raw() string { return n.src }

func (k regionKind) String() string {
	if k == regionSection {
		return "section"
	}
	return "block"
}
