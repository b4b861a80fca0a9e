package template

import (
	"regexp"
	"strings"
)

// Region markers survive rendering (when WithRegionMarkers is set) so
// inheritance can locate them in the rendered base output. Splicing is
// textual: the marked region is replaced wholesale, markers included.

var (
	blockOpenRe   = regexp.MustCompile(`\{\{#block\s+([A-Za-z_]\w*)\s*\}\}`)
	sectionOpenRe = regexp.MustCompile(`\{\{#section\s+([A-Za-z_]\w*)\s*\}\}`)
	regionCloseRe = regexp.MustCompile(`\{\{/(?:block|section)\}\}`)
)

// Blocks extracts every {{#block name}}...{{/block}} region from the
// source into a name to content map. When a name appears more than
// once the last occurrence wins.
func Blocks(source string) (map[string]string, error) {
	return regions(source, regionBlock)
}

// Sections extracts every {{#section name}}...{{/section}} region from
// the source. Last occurrence wins on duplicate names.
func Sections(source string) (map[string]string, error) {
	return regions(source, regionSection)
}

func regions(source string, kind regionKind) (map[string]string, error) {
	nodes, err := parseSource(source)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	collectRegions(nodes, kind, out)
	return out, nil
}

func collectRegions(nodes []node, kind regionKind, out map[string]string) {
	for _, n := range nodes {
		switch nd := n.(type) {
		case *regionNode:
			if nd.kind == kind {
				out[nd.name] = rawBody(nd)
			}
			collectRegions(nd.body, kind, out)
		case *ifNode:
			collectRegions(nd.then, kind, out)
			collectRegions(nd.els, kind, out)
		case *eachNode:
			collectRegions(nd.body, kind, out)
		}
	}
}

// rawBody reconstructs the source text between a region's markers.
func rawBody(n *regionNode) string {
	var sb strings.Builder
	for _, child := range n.body {
		sb.WriteString(child.raw())
	}
	return sb.String()
}

// ReplaceBlock replaces every {{#block name}}...{{/block}} region in
// source with content (markers removed). Reports whether any region
// was replaced.
func ReplaceBlock(source, name, content string) (string, bool) {
	return replaceRegion(source, "block", name, content)
}

// ReplaceSection replaces every {{#section name}}...{{/section}}
// region in source with content (markers removed).
func ReplaceSection(source, name, content string) (string, bool) {
	return replaceRegion(source, "section", name, content)
}

func replaceRegion(source, kind, name, content string) (string, bool) {
	openRe := regexp.MustCompile(`\{\{#` + kind + `\s+` + regexp.QuoteMeta(name) + `\s*\}\}`)
	closeTag := "{{/" + kind + "}}"

	var sb strings.Builder
	replaced := false
	rest := source
	for {
		loc := openRe.FindStringIndex(rest)
		if loc == nil {
			sb.WriteString(rest)
			break
		}
		end := strings.Index(rest[loc[1]:], closeTag)
		if end < 0 {
			sb.WriteString(rest)
			break
		}
		sb.WriteString(rest[:loc[0]])
		sb.WriteString(content)
		rest = rest[loc[1]+end+len(closeTag):]
		replaced = true
	}
	return sb.String(), replaced
}

// BlockContent returns the current content of the first named block
// region in source, located textually.
func BlockContent(source, name string) (string, bool) {
	return regionContent(source, "block", name)
}

// SectionContent returns the current content of the first named
// section region in source, located textually.
func SectionContent(source, name string) (string, bool) {
	return regionContent(source, "section", name)
}

func regionContent(source, kind, name string) (string, bool) {
	openRe := regexp.MustCompile(`\{\{#` + kind + `\s+` + regexp.QuoteMeta(name) + `\s*\}\}`)
	closeTag := "{{/" + kind + "}}"

	loc := openRe.FindStringIndex(source)
	if loc == nil {
		return "", false
	}
	end := strings.Index(source[loc[1]:], closeTag)
	if end < 0 {
		return "", false
	}
	return source[loc[1] : loc[1]+end], true
}

// StripRegions removes remaining block and section markers, leaving
// their content in place. Purely textual: surrounding text is never
// re-interpreted.
func StripRegions(source string) string {
	source = blockOpenRe.ReplaceAllString(source, "")
	source = sectionOpenRe.ReplaceAllString(source, "")
	return regionCloseRe.ReplaceAllString(source, "")
}
