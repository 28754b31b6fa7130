package docsync_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wecomdocs/docsync/internal/docsync"
)

// fakeFetcher returns canned content keyed by doc id.
type fakeFetcher struct {
	content map[string]string
	err     error
	calls   []string
}

func (f *fakeFetcher) Fetch(_ context.Context, docID, _ string) (string, error) {
	f.calls = append(f.calls, docID)

	if f.err != nil {
		return "", f.err
	}

	return f.content[docID], nil
}

// fakeDiffer records inputs and returns a canned diff or error.
type fakeDiffer struct {
	diff string
	err  error
	old  string
	new  string
}

func (d *fakeDiffer) Unified(oldText, newText, _ string) (string, error) {
	d.old, d.new = oldText, newText

	if d.err != nil {
		return "", d.err
	}

	return d.diff, nil
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func readDoc(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func Test_UpdateFile_RewritesBody_When_MetadataValid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	original := "---\ndoc_id: \"123\"\nsource_url: http://x\n---\n\nold body\n"
	path := writeDoc(t, dir, "intro.md", original)

	fetcher := &fakeFetcher{content: map[string]string{"123": "#Title\ntext"}}
	updater := &docsync.Updater{Fetcher: fetcher}

	result := updater.UpdateFile(context.Background(), path)
	require.True(t, result.OK, "message: %s", result.Message)
	require.Equal(t, "intro: updated (len=11)", result.Message)

	want := "---\ndoc_id: \"123\"\nsource_url: http://x\n---\n\n# Title\n\ntext\n"
	require.Equal(t, want, readDoc(t, path))
}

func Test_UpdateFile_UsesDocName_When_MetadataProvidesOne(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeDoc(t, dir, "intro.md",
		"---\ndoc_id: 7\nsource_url: http://x\ndoc_name: quickstart\n---\nbody\n")

	fetcher := &fakeFetcher{content: map[string]string{"7": "new"}}
	updater := &docsync.Updater{Fetcher: fetcher}

	result := updater.UpdateFile(context.Background(), path)
	require.True(t, result.OK)
	require.True(t, strings.HasPrefix(result.Message, "quickstart: updated"), result.Message)
}

func Test_UpdateFile_SkipsWithoutWrite_When_MetadataInvalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		wantErr error
		wantMsg string
	}{
		{
			name:    "no frontmatter",
			content: "# just a body\n",
			wantErr: docsync.ErrMissingFrontmatter,
			wantMsg: "missing frontmatter",
		},
		{
			name:    "missing doc_id",
			content: "---\nsource_url: http://x\n---\nbody\n",
			wantErr: docsync.ErrInvalidDocID,
			wantMsg: "invalid doc_id for doc",
		},
		{
			name:    "non-digit doc_id",
			content: "---\ndoc_id: abc123\nsource_url: http://x\n---\nbody\n",
			wantErr: docsync.ErrInvalidDocID,
			wantMsg: "invalid doc_id for doc",
		},
		{
			name:    "missing source_url",
			content: "---\ndoc_id: 123\n---\nbody\n",
			wantErr: docsync.ErrMissingSourceURL,
			wantMsg: "missing source_url for doc",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := writeDoc(t, dir, "doc.md", tc.content)

			fetcher := &fakeFetcher{}
			updater := &docsync.Updater{Fetcher: fetcher}

			result := updater.UpdateFile(context.Background(), path)
			require.False(t, result.OK)
			require.ErrorIs(t, result.Err, tc.wantErr)
			require.Equal(t, tc.wantMsg, result.Message)

			require.Empty(t, fetcher.calls, "fetch must not run for invalid metadata")
			require.Equal(t, tc.content, readDoc(t, path), "file must be untouched")
		})
	}
}

func Test_UpdateFile_SkipsWithoutWrite_When_FetchFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	original := "---\ndoc_id: 1\nsource_url: http://x\n---\nbody\n"
	path := writeDoc(t, dir, "doc.md", original)

	fetchErr := errors.New("server error: not signed in")
	updater := &docsync.Updater{Fetcher: &fakeFetcher{err: fetchErr}}

	result := updater.UpdateFile(context.Background(), path)
	require.False(t, result.OK)
	require.ErrorIs(t, result.Err, fetchErr)
	require.Equal(t, "doc: server error: not signed in", result.Message)
	require.Equal(t, original, readDoc(t, path))
}

func Test_UpdateFile_SkipsWrite_When_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	original := "---\ndoc_id: 1\nsource_url: http://x\n---\nbody\n"
	path := writeDoc(t, dir, "doc.md", original)

	fetcher := &fakeFetcher{content: map[string]string{"1": "new body"}}
	updater := &docsync.Updater{Fetcher: fetcher, DryRun: true}

	result := updater.UpdateFile(context.Background(), path)
	require.True(t, result.OK)
	require.Equal(t, "doc: dry-run (len=8)", result.Message)
	require.Equal(t, original, readDoc(t, path))
}

func Test_UpdateFile_DiffsPreFormatContent_When_ShowChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeDoc(t, dir, "doc.md", "---\ndoc_id: 1\nsource_url: http://x\n---\nold\n")

	differ := &fakeDiffer{diff: "-old\n+#New\n"}
	fetcher := &fakeFetcher{content: map[string]string{"1": "#New"}}
	updater := &docsync.Updater{Fetcher: fetcher, Differ: differ, ShowChanges: true}

	result := updater.UpdateFile(context.Background(), path)
	require.True(t, result.OK)

	// The differ sees the raw fetched content, not the formatted one.
	require.Equal(t, "#New", differ.new)
	require.Equal(t, "old\n", differ.old)

	require.Equal(t, "[CHANGE] doc.md\n-old\n+#New", result.Changes)
}

func Test_UpdateFile_ReportsDiffFailureInline_When_DifferErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeDoc(t, dir, "doc.md", "---\ndoc_id: 1\nsource_url: http://x\n---\nold\n")

	differ := &fakeDiffer{err: errors.New("diff failed: no such tool")}
	fetcher := &fakeFetcher{content: map[string]string{"1": "new"}}
	updater := &docsync.Updater{Fetcher: fetcher, Differ: differ, ShowChanges: true}

	result := updater.UpdateFile(context.Background(), path)

	// Diff failure is reported but the update still happens.
	require.True(t, result.OK)
	require.Equal(t, "[CHANGE] doc.md: diff failed: diff failed: no such tool", result.Changes)
	require.Contains(t, readDoc(t, path), "new")
}

func Test_UpdateFile_ReportsNoChanges_When_DiffEmpty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeDoc(t, dir, "doc.md", "---\ndoc_id: 1\nsource_url: http://x\n---\nsame\n")

	updater := &docsync.Updater{
		Fetcher:     &fakeFetcher{content: map[string]string{"1": "same\n"}},
		Differ:      &fakeDiffer{},
		ShowChanges: true,
	}

	result := updater.UpdateFile(context.Background(), path)
	require.True(t, result.OK)
	require.Equal(t, "[CHANGE] doc.md: no important changes", result.Changes)
}

func Test_FormatFile_PreservesFrontmatter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeDoc(t, dir, "doc.md", "---\ndoc_id: 1\n---\n#Title\ntext\n")

	updater := &docsync.Updater{}

	result := updater.FormatFile(path)
	require.True(t, result.OK, result.Message)
	require.Equal(t, "---\ndoc_id: 1\n---\n\n# Title\n\ntext\n", readDoc(t, path))

	// Second pass is a no-op.
	again := updater.FormatFile(path)
	require.True(t, again.OK)
	require.Equal(t, "already formatted", again.Message)
}

func Test_FormatFile_FormatsWholeFile_When_NoFrontmatter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeDoc(t, dir, "doc.md", "#Title\ntext")

	updater := &docsync.Updater{}

	result := updater.FormatFile(path)
	require.True(t, result.OK)
	require.Equal(t, "# Title\n\ntext\n", readDoc(t, path))
}

func Test_CollectTargets_SortsDirectoryListing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.md", "a.md", "c.md", "notes.txt"} {
		writeDoc(t, dir, name, "x\n")
	}

	got := docsync.CollectTargets(dir, "")

	want := []string{
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "b.md"),
		filepath.Join(dir, "c.md"),
	}
	require.Equal(t, want, got)
}

func Test_CollectTargets_PrefersExplicitFile(t *testing.T) {
	t.Parallel()

	got := docsync.CollectTargets("ignored", "docs/one.md")
	require.Equal(t, []string{"docs/one.md"}, got)
}
