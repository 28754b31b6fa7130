// Package frontmatter splits a markdown document into its leading
// metadata block and body.
//
// The metadata grammar is intentionally a flat key:value subset rather
// than full YAML: one scalar per line, no nesting, no multi-line values,
// no type coercion. Values wrapped uniformly in matching single or double
// quotes have the quotes stripped. Lines without a colon, blank lines,
// and comment lines starting with '#' are skipped. Keeping the grammar
// this small makes the split deterministic and lets the raw block be
// preserved byte-for-byte on rewrite.
package frontmatter

import (
	"regexp"
	"strings"
)

// blockRE matches a delimited metadata block at the very start of a
// document: an opening --- line, the metadata lines, and a closing ---
// line. Trailing blank lines after the closing delimiter belong to the
// block, so Block+Body always reproduces the input.
var blockRE = regexp.MustCompile(`(?s)\A---\s*\n(.*?)\n---\s*\n`)

// Document is the result of splitting a file into frontmatter and body.
type Document struct {
	// Block is the raw frontmatter text, delimiters included. Empty when
	// the document has no frontmatter.
	Block string

	// Meta maps frontmatter keys to string values. Nil when the document
	// has no frontmatter.
	Meta map[string]string

	// Body is everything after the frontmatter block, or the whole input
	// when no frontmatter is present.
	Body string
}

// Split separates a leading frontmatter block from the document body.
// It fails softly: when no block is present it returns ok=false with the
// full text as Body and no metadata.
//
// Invariant: Block + Body == text.
func Split(text string) (Document, bool) {
	loc := blockRE.FindStringSubmatchIndex(text)
	if loc == nil {
		return Document{Body: text}, false
	}

	doc := Document{
		Block: text[:loc[1]],
		Meta:  parseMeta(text[loc[2]:loc[3]]),
		Body:  text[loc[1]:],
	}

	return doc, true
}

// parseMeta parses the flat key:value lines between the delimiters.
func parseMeta(inner string) map[string]string {
	meta := make(map[string]string)

	for _, raw := range strings.Split(inner, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		meta[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}

	return meta
}

// unquote strips one pair of matching single or double quotes.
func unquote(value string) string {
	if len(value) < 2 {
		return value
	}

	first, last := value[0], value[len(value)-1]
	if first == last && (first == '"' || first == '\'') {
		return value[1 : len(value)-1]
	}

	return value
}
