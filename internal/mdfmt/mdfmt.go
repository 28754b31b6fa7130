// Package mdfmt normalizes whitespace and block spacing in markdown text.
//
// The formatter is line-oriented and only recognizes ASCII structural
// markers (#, list bullets, |, ``` and ~~~). It never rewrites content:
// apart from trailing-whitespace trimming and inserted blank lines, every
// non-whitespace byte passes through untouched. Fenced code blocks pass
// through verbatim.
package mdfmt

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	headingRE = regexp.MustCompile("^([ \t]*)(#+)(.*)$")
	listRE    = regexp.MustCompile(`^[ \t]*(?:[-+*]|[0-9]+\.)[ \t]+`)
	fenceRE   = regexp.MustCompile("^[ \t]*(```|~~~)")
)

// blockKind classifies the previously emitted non-blank block. The
// classification drives blank-line insertion between adjacent blocks of
// different kinds.
type blockKind int

const (
	blockNone blockKind = iota
	blockHeading
	blockList
	blockTable
	blockParagraph
	blockFence
)

// formatter holds the per-pass state machine. A fresh formatter is
// created for every Format call and discarded afterwards.
type formatter struct {
	out     []string
	inFence bool
	inTable bool

	// blankAfterHeading and blankAfterFence record that a blank line is
	// owed before the next non-blank content. Both can be pending at
	// once: a fence directly under a heading leaves the heading's blank
	// owed until after the fence closes.
	blankAfterHeading bool
	blankAfterFence   bool

	prev blockKind
}

// Format normalizes a markdown body. It is total over any input: empty
// input yields a single newline, and the output always ends with exactly
// one trailing newline.
func Format(content string) string {
	f := &formatter{}
	lines := splitLines(content)

	for i, raw := range lines {
		next := ""
		if i+1 < len(lines) {
			next = lines[i+1]
		}

		f.feed(strings.TrimSuffix(raw, "\r"), next)
	}

	joined := strings.Join(f.out, "\n")

	return strings.TrimRightFunc(joined, unicode.IsSpace) + "\n"
}

// feed advances the state machine by one line. next is the following
// input line, needed for table header+separator detection.
func (f *formatter) feed(line, next string) {
	if fenceRE.MatchString(line) {
		if !f.inFence && f.lastNonBlank() {
			f.out = append(f.out, "")
		}

		f.out = append(f.out, trimRight(line))
		f.inFence = !f.inFence

		if !f.inFence {
			f.blankAfterFence = true
		}

		f.prev = blockFence

		return
	}

	if f.inFence {
		f.out = append(f.out, line)

		return
	}

	blank := strings.TrimSpace(line) == ""

	if f.blankAfterFence {
		if !blank {
			f.out = append(f.out, "")
		}

		f.blankAfterFence = false
	}

	// Leaving table mode: a non-row line ends the table, with a blank
	// line before it when both sides are non-blank.
	if f.inTable && !isTableRow(line) {
		if !blank && f.lastNonBlank() {
			f.out = append(f.out, "")
		}

		f.inTable = false
		f.prev = blockNone
	}

	if isHeading(line) {
		f.out = append(f.out, trimRight(normalizeHeading(line)))
		f.blankAfterHeading = true
		f.prev = blockHeading

		return
	}

	if f.blankAfterHeading {
		if !blank {
			f.out = append(f.out, "")
		}

		f.blankAfterHeading = false
	}

	if !f.inTable && isTableHeader(line, next) {
		if f.lastNonBlank() {
			f.out = append(f.out, "")
		}

		f.inTable = true
		f.prev = blockTable
	}

	list := listRE.MatchString(line)

	// Paragraph<->list transitions get a separating blank line. Table
	// rows are exempt: the header/separator/row lines stay adjacent.
	if !blank && !f.inTable {
		if list && f.prev == blockParagraph && f.lastNonBlank() {
			f.out = append(f.out, "")
		}

		if !list && f.prev == blockList && f.lastNonBlank() {
			f.out = append(f.out, "")
		}
	}

	f.out = append(f.out, trimRight(line))

	if !blank {
		switch {
		case f.inTable || isTableRow(line):
			f.prev = blockTable
		case list:
			f.prev = blockList
		default:
			f.prev = blockParagraph
		}
	}
}

func (f *formatter) lastNonBlank() bool {
	return len(f.out) > 0 && strings.TrimSpace(f.out[len(f.out)-1]) != ""
}

// normalizeHeading collapses extra hashes and spacing after the hash run:
// "##Title" becomes "## Title" and "### ## extra" becomes "### extra".
func normalizeHeading(line string) string {
	m := headingRE.FindStringSubmatch(line)
	if m == nil {
		return line
	}

	indent, hashes, rest := m[1], m[2], m[3]

	rest = strings.TrimLeft(rest, " \t")
	rest = strings.TrimLeft(rest, "#")
	rest = strings.TrimLeft(rest, " \t")

	if rest == "" {
		return indent + hashes
	}

	return indent + hashes + " " + rest
}

func isHeading(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "#")
}

func isTableRow(line string) bool {
	return strings.Contains(line, "|")
}

// isTableHeader reports whether line plus the following line form a
// table header and its separator row.
func isTableHeader(line, next string) bool {
	return strings.Contains(line, "|") && isTableSeparator(next)
}

// isTableSeparator matches separator rows made only of '|', ':', '-'
// and spaces, with at least one '-'.
func isTableSeparator(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" || !strings.Contains(s, "|") || !strings.Contains(s, "-") {
		return false
	}

	for _, r := range s {
		switch r {
		case '|', ':', '-', ' ':
		default:
			return false
		}
	}

	return true
}

func trimRight(line string) string {
	return strings.TrimRightFunc(line, unicode.IsSpace)
}

// splitLines splits on newlines without producing a trailing empty line
// for newline-terminated input.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}

	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}
