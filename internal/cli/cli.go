package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/workbench/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("workbench", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Workbench - generates IDE projects (Xcode, IntelliJ) from build files.

Usage:
  workbench [options] [TARGET ...]

Arguments:
  TARGET
    Build targets to generate projects for, e.g. //apps/shop:app.
    With no targets, projects are generated for the whole repository.

Options:
`)
		flagSet.PrintDefaults()
	}

	ideFlag := flagSet.String("ide", "", "IDE to generate for. Options: 'xcode' or 'idea'. Inferred from the targets when omitted.")
	repoRootFlag := flagSet.String("repo-root", ".", "Path to the repository root.")
	cellFlag := flagSet.String("cell", "", "Name of the repository cell the targets live in.")
	withoutTestsFlag := flagSet.Bool("without-tests", false, "Do not include tests in the generated projects.")
	withDepTestsFlag := flagSet.Bool("with-dependencies-tests", false, "Also include tests of transitive dependencies.")
	combinedFlag := flagSet.Bool("combined-project", false, "Generate one combined project instead of a project per target.")
	externalToolFlag := flagSet.Bool("build-with-external-tool", false, "Configure the generated project to shell out to the build tool instead of building natively.")
	externalToolArgsFlag := flagSet.String("external-tool-flags", "", "Space-separated extra flags passed to the external build tool.")
	readOnlyFlag := flagSet.Bool("read-only", false, "Mark generated project files read-only.")
	combineTestBundlesFlag := flagSet.Bool("combine-test-bundles", false, "Group compatible tests into combined test bundles.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Print the targets a generation run would cover, without generating.")
	profilingFlag := flagSet.Bool("profile-parse", false, "Log per-file parse timing at debug level.")
	workersFlag := flagSet.Int("workers", 10, "Number of concurrent workers for build-file parsing.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		RepoRoot:              *repoRootFlag,
		Cell:                  *cellFlag,
		Ide:                   *ideFlag,
		Targets:               flagSet.Args(),
		WithTests:             !*withoutTestsFlag,
		WithDependencyTests:   *withDepTestsFlag,
		CombinedProject:       *combinedFlag,
		BuildWithExternalTool: *externalToolFlag,
		ExternalToolFlags:     strings.Fields(*externalToolArgsFlag),
		ReadOnly:              *readOnlyFlag,
		CombineTestBundles:    *combineTestBundlesFlag,
		DryRun:                *dryRunFlag,
		Profiling:             *profilingFlag,
		LogFormat:             logFormat,
		LogLevel:              logLevel,
		Workers:               *workersFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}
