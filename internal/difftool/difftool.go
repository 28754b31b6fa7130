// Package difftool produces whitespace-insensitive unified diffs by
// shelling out to diff(1).
package difftool

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Tool runs the system diff binary. The zero value is ready to use.
type Tool struct{}

// Unified diffs oldText against newText, ignoring whitespace changes and
// blank-line-only changes (diff -u -w -B). label names both sides in the
// diff header. Returns "" when the texts are equivalent. A diff exit
// code outside {0,1} means the tool itself failed and is returned as an
// error.
func (Tool) Unified(oldText, newText, label string) (string, error) {
	oldPath, err := writeTemp("docsync-old-*", oldText)
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(oldPath) }()

	newPath, err := writeTemp("docsync-new-*", newText)
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(newPath) }()

	cmd := exec.Command("diff", "-u", "-w", "-B",
		"--label", label+" (old)",
		"--label", label+" (new)",
		oldPath, newPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if err == nil {
		return "", nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return stdout.String(), nil
	}

	message := strings.TrimSpace(stderr.String())
	if message == "" {
		return "", fmt.Errorf("diff failed: %w", err)
	}

	return "", fmt.Errorf("diff failed: %s", message)
}

func writeTemp(pattern, content string) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	_, writeErr := f.WriteString(content)

	closeErr := f.Close()

	if writeErr != nil {
		_ = os.Remove(f.Name())

		return "", fmt.Errorf("write temp file: %w", writeErr)
	}

	if closeErr != nil {
		_ = os.Remove(f.Name())

		return "", fmt.Errorf("close temp file: %w", closeErr)
	}

	return f.Name(), nil
}
