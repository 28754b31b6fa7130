package difftool_test

import (
	"strings"
	"testing"

	"github.com/wecomdocs/docsync/internal/difftool"
)

func Test_Unified_ReturnsEmpty_When_OnlyWhitespaceDiffers(t *testing.T) {
	t.Parallel()

	var tool difftool.Tool

	diff, err := tool.Unified("a\nb\n", "a   \n\nb\n", "doc.md")
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}

	if diff != "" {
		t.Errorf("expected no important changes, got:\n%s", diff)
	}
}

func Test_Unified_ReturnsLabeledDiff_When_ContentDiffers(t *testing.T) {
	t.Parallel()

	var tool difftool.Tool

	diff, err := tool.Unified("old line\n", "new line\n", "docs/intro.md")
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}

	if diff == "" {
		t.Fatal("expected a diff")
	}

	for _, want := range []string{"docs/intro.md (old)", "docs/intro.md (new)", "-old line", "+new line"} {
		if !strings.Contains(diff, want) {
			t.Errorf("diff missing %q:\n%s", want, diff)
		}
	}
}

func Test_Unified_HandlesIdenticalInputs(t *testing.T) {
	t.Parallel()

	var tool difftool.Tool

	diff, err := tool.Unified("same\n", "same\n", "x.md")
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}

	if diff != "" {
		t.Errorf("expected empty diff, got:\n%s", diff)
	}
}
