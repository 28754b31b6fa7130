package cli

import (
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/wecomdocs/docsync/internal/config"
)

// Status markers for batch output. color disables itself automatically
// when stdout is not a terminal.
var (
	okMark   = color.New(color.FgGreen).Sprint("[OK]")
	skipMark = color.New(color.FgYellow).Sprint("[SKIP]")
	warnMark = color.New(color.FgYellow).Sprint("[WARN]")
	errMark  = color.New(color.FgRed).Sprint("[ERROR]")
	doneMark = color.New(color.FgGreen).Sprint("[DONE]")
	diffMark = color.New(color.FgCyan).Sprint("[DIFF]")
)

// resolveTarget turns the --dir/--file flags into an absolute directory
// or file target. Exactly one of dir/file is non-empty on success. A
// target that does not exist is fatal with exitTargetMissing.
func resolveTarget(o *IO, cfg config.Config, dirFlag, fileFlag string) (dir, file string, code int) {
	if fileFlag != "" {
		file = fileFlag
		if !filepath.IsAbs(file) {
			file = filepath.Join(cfg.EffectiveCwd, file)
		}

		_, err := os.Stat(file)
		if err != nil {
			o.ErrPrintln(errMark, "file not found:", fileFlag)

			return "", "", exitTargetMissing
		}

		return "", file, exitOK
	}

	dir = cfg.DocsDirAbs
	if dirFlag != "" {
		dir = dirFlag
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(cfg.EffectiveCwd, dir)
		}
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		o.ErrPrintln(errMark, "dir not found:", dir)

		return "", "", exitTargetMissing
	}

	return dir, "", exitOK
}

// pickTarget returns the scope for diff stats: the single file when one
// was requested, otherwise the directory.
func pickTarget(file, dir string) string {
	if file != "" {
		return file
	}

	return dir
}
