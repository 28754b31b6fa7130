// Package docsync updates local markdown documentation files from a
// remote content source while preserving each file's frontmatter header.
//
// The update pipeline per file is: split frontmatter, fetch replacement
// body, diff old against new (optional), format, reassemble, rewrite.
// Files are processed one at a time; a failed file never blocks the rest
// of a batch and is never partially written.
package docsync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/natefinch/atomic"

	"github.com/wecomdocs/docsync/internal/frontmatter"
	"github.com/wecomdocs/docsync/internal/mdfmt"
)

// Fetcher retrieves the replacement markdown body for a document.
type Fetcher interface {
	Fetch(ctx context.Context, docID, sourceURL string) (string, error)
}

// Differ computes a human-readable diff between the old and new body.
// An empty diff means no important changes.
type Differ interface {
	Unified(oldText, newText, label string) (string, error)
}

// Updater runs the update pipeline over single files. The zero value is
// not usable; Fetcher must be set.
type Updater struct {
	Fetcher     Fetcher
	Differ      Differ
	DryRun      bool
	ShowChanges bool
}

// Result is the outcome of one file's update attempt.
type Result struct {
	// OK is true when the file was updated (or would have been, in dry
	// run). False means the file was skipped and left untouched.
	OK bool

	// Message is the human-readable per-file status.
	Message string

	// Changes is the optional change summary, already prefixed with the
	// [CHANGE] marker. Empty when change display is off.
	Changes string

	// Err categorizes a skip (ErrMissingFrontmatter, ErrInvalidDocID,
	// ErrMissingSourceURL, or the fetch collaborator's error). Nil on
	// success.
	Err error
}

// UpdateFile refreshes one markdown file in place. Every failure is
// reported through the Result rather than aborting, so callers can keep
// going with the next file.
func (u *Updater) UpdateFile(ctx context.Context, path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Message: fmt.Sprintf("cannot read file: %v", err), Err: err}
	}

	doc, ok := frontmatter.Split(string(data))
	if !ok {
		return Result{Message: "missing frontmatter", Err: ErrMissingFrontmatter}
	}

	docName := doc.Meta["doc_name"]
	if docName == "" {
		docName = stem(path)
	}

	docID := doc.Meta["doc_id"]
	if !isDigits(docID) {
		return Result{
			Message: fmt.Sprintf("invalid doc_id for %s", docName),
			Err:     fmt.Errorf("%w for %s", ErrInvalidDocID, docName),
		}
	}

	sourceURL := doc.Meta["source_url"]
	if sourceURL == "" {
		return Result{
			Message: fmt.Sprintf("missing source_url for %s", docName),
			Err:     fmt.Errorf("%w for %s", ErrMissingSourceURL, docName),
		}
	}

	content, err := u.Fetcher.Fetch(ctx, docID, sourceURL)
	if err != nil {
		return Result{Message: fmt.Sprintf("%s: %v", docName, err), Err: err}
	}

	// Diff against the pre-format fetched content so formatting noise
	// never shows up as a change. Diff failures are reported inline and
	// do not block the update.
	changes := ""
	if u.ShowChanges && u.Differ != nil {
		changes = u.changeSummary(path, doc.Body, content)
	}

	newText := Reassemble(doc.Block, mdfmt.Format(content))

	if u.DryRun {
		return Result{
			OK:      true,
			Message: fmt.Sprintf("%s: dry-run (len=%d)", docName, len(content)),
			Changes: changes,
		}
	}

	err = atomic.WriteFile(path, strings.NewReader(newText))
	if err != nil {
		return Result{
			Message: fmt.Sprintf("%s: write failed: %v", docName, err),
			Changes: changes,
			Err:     err,
		}
	}

	return Result{
		OK:      true,
		Message: fmt.Sprintf("%s: updated (len=%d)", docName, len(content)),
		Changes: changes,
	}
}

// FormatFile reformats one file's body in place without fetching. Files
// without frontmatter are formatted whole. Returns an unchanged/updated
// style result; dry run reports without writing.
func (u *Updater) FormatFile(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Message: fmt.Sprintf("cannot read file: %v", err), Err: err}
	}

	text := string(data)

	var newText string

	doc, ok := frontmatter.Split(text)
	if ok {
		newText = Reassemble(doc.Block, mdfmt.Format(doc.Body))
	} else {
		newText = mdfmt.Format(text)
	}

	if newText == text {
		return Result{OK: true, Message: "already formatted"}
	}

	if u.DryRun {
		return Result{OK: true, Message: fmt.Sprintf("dry-run (len=%d)", len(newText))}
	}

	err = atomic.WriteFile(path, strings.NewReader(newText))
	if err != nil {
		return Result{Message: fmt.Sprintf("write failed: %v", err), Err: err}
	}

	return Result{OK: true, Message: fmt.Sprintf("formatted (len=%d)", len(newText))}
}

// Reassemble joins a raw frontmatter block and a formatted body with
// exactly one blank line between them and one trailing newline.
func Reassemble(block, body string) string {
	return strings.TrimRight(block, "\n") + "\n\n" +
		strings.TrimRightFunc(body, unicode.IsSpace) + "\n"
}

// changeSummary runs the differ and renders the [CHANGE] block.
func (u *Updater) changeSummary(path, oldBody, newBody string) string {
	base := filepath.Base(path)

	diffText, err := u.Differ.Unified(oldBody, newBody, filepath.ToSlash(path))
	if err != nil {
		return fmt.Sprintf("[CHANGE] %s: diff failed: %v", base, err)
	}

	if diffText == "" {
		return fmt.Sprintf("[CHANGE] %s: no important changes", base)
	}

	return fmt.Sprintf("[CHANGE] %s\n%s", base,
		strings.TrimRightFunc(diffText, unicode.IsSpace))
}

// CollectTargets resolves the file set for a run: the explicit file when
// given, otherwise all *.md files in dir sorted lexicographically so the
// printed status order is deterministic.
func CollectTargets(dir, file string) []string {
	if file != "" {
		return []string{file}
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil
	}

	sort.Strings(matches)

	return matches
}

func stem(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
