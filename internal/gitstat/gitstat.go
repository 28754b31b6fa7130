// Package gitstat reports uncommitted line-change counts for synced
// files via git diff --numstat.
package gitstat

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Row is one file's numstat entry. Added and Deleted keep git's raw
// column text because binary files report "-" instead of a count.
type Row struct {
	Added   string
	Deleted string
	Path    string
}

// Report aggregates numstat rows for a target. Totals only count rows
// with numeric columns.
type Report struct {
	Rows         []Row
	TotalAdded   int
	TotalDeleted int
}

// Numstat diffs the target file or directory against HEAD and returns
// the per-file add/delete counts for uncommitted changes. git runs in
// workDir so relative targets resolve the same way the sync did.
func Numstat(workDir, target string) (Report, error) {
	cmd := exec.Command("git", "diff", "--numstat", "HEAD", "--", target)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = "git diff failed"
		}

		return Report{}, fmt.Errorf("%s: %w", message, err)
	}

	return parseNumstat(stdout.String()), nil
}

func parseNumstat(output string) Report {
	var report Report

	for _, line := range strings.Split(output, "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) < 3 {
			continue
		}

		row := Row{Added: parts[0], Deleted: parts[1], Path: parts[2]}
		report.Rows = append(report.Rows, row)

		if n, err := strconv.Atoi(row.Added); err == nil {
			report.TotalAdded += n
		}

		if n, err := strconv.Atoi(row.Deleted); err == nil {
			report.TotalDeleted += n
		}
	}

	return report
}
