package cli

import "errors"

// Help flag.
const helpFlag = "--help"

// Exit codes. Per-file skips do not affect the exit code; only an
// unresolvable target path does.
const (
	exitOK            = 0
	exitError         = 1
	exitTargetMissing = 2
)

var (
	errFlagRequiresArg = errors.New("flag requires an argument")
	errUnknownFlag     = errors.New("unknown flag")
)
