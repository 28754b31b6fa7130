package docsync

import "errors"

// Error variables categorizing per-file skip reasons. Every one of these
// is non-fatal to a batch run: the file is skipped and left untouched.
var (
	ErrMissingFrontmatter = errors.New("missing frontmatter")
	ErrInvalidDocID       = errors.New("invalid doc_id")
	ErrMissingSourceURL   = errors.New("missing source_url")
)
