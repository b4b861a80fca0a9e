package template

import (
	"fmt"
	"strings"
)

// parser is a small recursive-descent parser over the template source.
// It recognizes the five tag families ({{#if}}, {{#each}}, {{#block}},
// {{#section}}, {{name(...)}}) plus {var}/{{var}} references; anything
// else stays literal text.
type parser struct {
	src string
	pos int
}

func parseSource(src string) ([]node, error) {
	p := &parser{src: src}
	nodes, term, err := p.parse()
	if err != nil {
		return nil, err
	}
	if term != "" {
		return nil, newError("parse", term, fmt.Errorf("%w: unexpected {{%s}}", ErrParse, term))
	}
	return nodes, nil
}

// terminator tags end the body of an enclosing construct.
var terminators = map[string]bool{
	"#else":    true,
	"/if":      true,
	"/each":    true,
	"/block":   true,
	"/section": true,
}

// parse consumes nodes until a terminator tag or end of input.
// It returns the nodes and the terminator that stopped it ("" at EOF).
func (p *parser) parse() ([]node, string, error) {
	var nodes []node
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			nodes = append(nodes, &textNode{text: text.String()})
			text.Reset()
		}
	}

	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		if ch != '{' {
			text.WriteByte(ch)
			p.pos++
			continue
		}

		if strings.HasPrefix(p.src[p.pos:], "{{") {
			start := p.pos
			inner, ok := p.readTag()
			if !ok {
				// Unterminated {{ stays literal.
				text.WriteString("{{")
				p.pos = start + 2
				continue
			}
			trimmed := strings.TrimSpace(inner)
			if terminators[trimmed] {
				flush()
				return nodes, trimmed, nil
			}
			n, err := p.classify(trimmed, start)
			if err != nil {
				return nil, "", err
			}
			if n == nil {
				// Unrecognized tag stays literal.
				text.WriteString(p.src[start:p.pos])
				continue
			}
			flush()
			nodes = append(nodes, n)
			continue
		}

		// Possible single-brace {var} reference.
		if name, end, ok := p.readSingleVar(); ok {
			flush()
			nodes = append(nodes, &varNode{name: name, src: p.src[p.pos:end]})
			p.pos = end
			continue
		}
		text.WriteByte('{')
		p.pos++
	}

	flush()
	return nodes, "", nil
}

// readTag consumes a {{...}} tag and returns its inner content.
// The closing }} search respects quoted strings so function arguments
// may contain braces.
func (p *parser) readTag() (string, bool) {
	i := p.pos + 2
	var quote byte
	for i < len(p.src) {
		ch := p.src[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '}' && i+1 < len(p.src) && p.src[i+1] == '}':
			inner := p.src[p.pos+2 : i]
			p.pos = i + 2
			return inner, true
		}
		i++
	}
	return "", false
}

// readSingleVar matches {name} or {dotted.path} without consuming.
// Returns the name and the index just past the closing brace.
func (p *parser) readSingleVar() (string, int, bool) {
	end := strings.IndexByte(p.src[p.pos:], '}')
	if end < 0 {
		return "", 0, false
	}
	name := p.src[p.pos+1 : p.pos+end]
	if !isPath(name) {
		return "", 0, false
	}
	return name, p.pos + end + 1, true
}

// classify builds a node for the inner content of a {{...}} tag found
// at offset start. Returns nil (no error) for unrecognized content.
func (p *parser) classify(inner string, start int) (node, error) {
	switch {
	case inner == "#if" || strings.HasPrefix(inner, "#if "):
		return p.parseIf(inner, start)
	case inner == "#each" || strings.HasPrefix(inner, "#each "):
		return p.parseEach(inner, start)
	case strings.HasPrefix(inner, "#block "), strings.HasPrefix(inner, "#section "):
		return p.parseRegion(inner, start)
	}

	if name, args, ok := splitCall(inner); ok {
		return &callNode{name: name, args: args, src: p.src[start:p.pos]}, nil
	}
	if isPath(inner) {
		return &varNode{name: inner, double: true, src: p.src[start:p.pos]}, nil
	}
	return nil, nil
}

func (p *parser) parseIf(inner string, start int) (node, error) {
	cond := strings.TrimSpace(strings.TrimPrefix(inner, "#if"))
	if cond == "" {
		return nil, newError("parse", "#if", fmt.Errorf("%w: empty condition", ErrParse))
	}

	then, term, err := p.parse()
	if err != nil {
		return nil, err
	}

	var els []node
	if term == "#else" {
		els, term, err = p.parse()
		if err != nil {
			return nil, err
		}
	}
	if term != "/if" {
		return nil, newError("parse", "#if", fmt.Errorf("%w: missing {{/if}}", ErrParse))
	}

	return &ifNode{cond: cond, then: then, els: els, src: p.src[start:p.pos]}, nil
}

func (p *parser) parseEach(inner string, start int) (node, error) {
	spec := strings.TrimSpace(strings.TrimPrefix(inner, "#each"))
	fields := strings.Fields(spec)
	if len(fields) != 3 || fields[1] != "as" {
		return nil, newError("parse", "#each", fmt.Errorf("%w: want {{#each <list> as <item>}}, got %q", ErrParse, inner))
	}
	list, item := fields[0], fields[2]
	if !isIdent(list) || !isIdent(item) {
		return nil, newError("parse", "#each", fmt.Errorf("%w: invalid loop names in %q", ErrParse, inner))
	}
	if list == item {
		return nil, newError("parse", "#each", fmt.Errorf("%w: item name %q must differ from list name", ErrParse, item))
	}

	body, term, err := p.parse()
	if err != nil {
		return nil, err
	}
	if term != "/each" {
		return nil, newError("parse", "#each", fmt.Errorf("%w: missing {{/each}}", ErrParse))
	}

	return &eachNode{list: list, item: item, body: body, src: p.src[start:p.pos]}, nil
}

func (p *parser) parseRegion(inner string, start int) (node, error) {
	kind := regionBlock
	keyword := "#block"
	if strings.HasPrefix(inner, "#section") {
		kind = regionSection
		keyword = "#section"
	}

	name := strings.TrimSpace(strings.TrimPrefix(inner, keyword))
	if !isIdent(name) {
		return nil, newError("parse", keyword, fmt.Errorf("%w: invalid region name %q", ErrParse, name))
	}

	body, term, err := p.parse()
	if err != nil {
		return nil, err
	}
	if term != "/"+keyword[1:] {
		return nil, newError("parse", name, fmt.Errorf("%w: missing {{/%s}}", ErrParse, keyword[1:]))
	}

	return &regionNode{kind: kind, name: name, body: body, src: p.src[start:p.pos]}, nil
}

// splitCall matches name(args) and splits the argument list.
func splitCall(inner string) (string, []string, bool) {
	open := strings.IndexByte(inner, '(')
	if open <= 0 || !strings.HasSuffix(inner, ")") {
		return "", nil, false
	}
	name := inner[:open]
	if !isIdent(name) {
		return "", nil, false
	}
	return name, splitArgs(inner[open+1 : len(inner)-1]), true
}

// splitArgs splits a comma-separated argument list while respecting
// quoted strings, so commas inside quotes do not split arguments.
func splitArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}

	var parts []string
	var current strings.Builder
	var quote rune

	for _, ch := range args {
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
			current.WriteRune(ch)
		case ch == '"' || ch == '\'':
			quote = ch
			current.WriteRune(ch)
		case ch == ',':
			parts = append(parts, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	parts = append(parts, strings.TrimSpace(current.String()))

	return parts
}

// isIdent checks for a valid variable name: letters, digits, and
// underscores, not starting with a digit.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		if i == 0 && ch >= '0' && ch <= '9' {
			return false
		}
		isLower := ch >= 'a' && ch <= 'z'
		isUpper := ch >= 'A' && ch <= 'Z'
		isDigit := ch >= '0' && ch <= '9'
		if !isLower && !isUpper && !isDigit && ch != '_' {
			return false
		}
	}
	return true
}

// isPath checks for an identifier or a dotted path of identifiers.
func isPath(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if !isIdent(part) {
			return false
		}
	}
	return true
}
