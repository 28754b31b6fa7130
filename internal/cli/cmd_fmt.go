package cli

import (
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/wecomdocs/docsync/internal/config"
	"github.com/wecomdocs/docsync/internal/docsync"
)

const fmtHelp = `  fmt [flags]            Reformat local docs without fetching
    --dir                  Target directory with markdown files [default: docs]
    --file                 Format a single markdown file
    --dry-run              Report only, do not write files`

// cmdFmt runs the markdown formatter over local files. Useful for
// normalizing hand-edited docs without credentials or network access.
func cmdFmt(o *IO, cfg config.Config, args []string) int {
	flagSet := flag.NewFlagSet("fmt", flag.ContinueOnError)
	flagSet.Usage = func() {
		w := flagSet.Output()
		fprintf(w, "Usage: docsync fmt [options]\n\n")
		fprintf(w, "Apply the markdown formatting rules to local files in place.\n")
		fprintf(w, "Frontmatter blocks are preserved byte-for-byte.\n\n")
		fprintf(w, "Options:\n")
		flagSet.PrintDefaults()
	}

	dirFlag := flagSet.String("dir", "", "Target directory with markdown files")
	fileFlag := flagSet.String("file", "", "Format a single markdown file")
	dryRun := flagSet.Bool("dry-run", false, "Report only, do not write files")

	if hasHelpFlag(args) {
		flagSet.SetOutput(o.out)
		flagSet.Usage()

		return exitOK
	}

	flagSet.SetOutput(o.errOut)

	parseErr := flagSet.Parse(args)
	if parseErr != nil {
		o.ErrPrintln("error:", parseErr)

		return exitError
	}

	dir, file, code := resolveTarget(o, cfg, *dirFlag, *fileFlag)
	if code != exitOK {
		return code
	}

	updater := &docsync.Updater{DryRun: *dryRun}

	targets := docsync.CollectTargets(dir, file)
	if len(targets) == 0 {
		o.Println(warnMark, "no markdown files found")

		return exitOK
	}

	okCount := 0

	for _, path := range targets {
		result := updater.FormatFile(path)

		mark := skipMark
		if result.OK {
			mark = okMark
			okCount++
		}

		o.Printf("%s %s: %s\n", mark, filepath.Base(path), result.Message)
	}

	o.Printf("%s %d/%d formatted\n", doneMark, okCount, len(targets))

	return exitOK
}
