package cli

import (
	"context"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/wecomdocs/docsync/internal/config"
	"github.com/wecomdocs/docsync/internal/difftool"
	"github.com/wecomdocs/docsync/internal/docsync"
	"github.com/wecomdocs/docsync/internal/fetch"
	"github.com/wecomdocs/docsync/internal/gitstat"
)

// CookieEnvVar is the environment fallback for --cookie.
const CookieEnvVar = "DOCSYNC_COOKIE"

const syncHelp = `  sync [flags]           Fetch docs from the content API and rewrite in place
    --dir                  Target directory with markdown files [default: docs]
    --file                 Sync a single markdown file
    --dry-run              Fetch and report only, do not write files
    --show-changes         Print important changes before formatting [default: on]
    --no-show-changes      Disable important changes output
    --show-diff            After sync, print git diff --numstat against HEAD
    --timeout              Fetch timeout in seconds [default: 30]
    --cookie               Credential cookie, falls back to $DOCSYNC_COOKIE
    --endpoint             Content API endpoint override`

func cmdSync(ctx context.Context, o *IO, cfg config.Config, env map[string]string, args []string) int {
	flagSet := flag.NewFlagSet("sync", flag.ContinueOnError)
	flagSet.Usage = func() {
		w := flagSet.Output()
		fprintf(w, "Usage: docsync sync [options]\n\n")
		fprintf(w, "Fetch the latest markdown for every eligible doc and rewrite it in place.\n")
		fprintf(w, "Files without frontmatter or valid doc_id/source_url metadata are skipped.\n\n")
		fprintf(w, "Options:\n")
		flagSet.PrintDefaults()
	}

	dirFlag := flagSet.String("dir", "", "Target directory with markdown files")
	fileFlag := flagSet.String("file", "", "Sync a single markdown file")
	dryRun := flagSet.Bool("dry-run", false, "Fetch and report only, do not write files")
	showChanges := flagSet.Bool("show-changes", true, "Print important changes before formatting")
	noShowChanges := flagSet.Bool("no-show-changes", false, "Disable important changes output")
	showDiff := flagSet.Bool("show-diff", false, "Print git diff --numstat stats after sync")
	timeout := flagSet.Int("timeout", cfg.TimeoutSeconds, "Fetch timeout in seconds")
	cookieFlag := flagSet.String("cookie", "", "Credential cookie for the content API")
	endpoint := flagSet.String("endpoint", cfg.Endpoint, "Content API endpoint override")

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

	cookie := *cookieFlag
	if cookie == "" {
		cookie = env[CookieEnvVar]
	}

	updater := &docsync.Updater{
		Fetcher:     fetch.NewClient(*endpoint, cookie, time.Duration(*timeout)*time.Second),
		Differ:      difftool.Tool{},
		DryRun:      *dryRun,
		ShowChanges: *showChanges && !*noShowChanges,
	}

	targets := docsync.CollectTargets(dir, file)
	if len(targets) == 0 {
		o.Println(warnMark, "no markdown files found")

		return exitOK
	}

	// Sequential on purpose: status lines must come out in target order,
	// and one flaky fetch must not interleave with another file's diff.
	okCount := 0

	for _, path := range targets {
		result := updater.UpdateFile(ctx, path)

		mark := skipMark
		if result.OK {
			mark = okMark
			okCount++
		}

		o.Printf("%s %s: %s\n", mark, filepath.Base(path), result.Message)

		if result.Changes != "" {
			o.Println(result.Changes)
		}
	}

	o.Printf("%s %d/%d updated\n", doneMark, okCount, len(targets))

	if *showDiff {
		printDiffStats(o, cfg.EffectiveCwd, pickTarget(file, dir))
	}

	return exitOK
}

// printDiffStats prints numstat rows for the synced scope. Failures are
// warnings; the sync itself already finished.
func printDiffStats(o *IO, workDir, target string) {
	report, err := gitstat.Numstat(workDir, target)
	if err != nil {
		o.Println(warnMark, "diff failed:", err)

		return
	}

	o.Printf("%s target=%s\n", diffMark, target)

	if len(report.Rows) == 0 {
		o.Println(diffMark, "no changes")

		return
	}

	for _, row := range report.Rows {
		o.Printf("%s +%s -%s %s\n", diffMark, row.Added, row.Deleted, row.Path)
	}

	o.Printf("%s total +%d -%d files=%d\n", diffMark, report.TotalAdded, report.TotalDeleted, len(report.Rows))
}
