package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	pandoctar "github.com/Zipheir/pandoc-tar"
	"github.com/Zipheir/pandoc-tar/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if the GOMAXPROCS env var is
	// invalid, in which case Go runtime defaults apply and the program
	// continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses flags, assembles the parameter template, and drives one
// archive pass from in to out. Flag errors are the only fatal errors that
// happen before archive processing; conversion failures never abort.
func run(args []string, in io.Reader, out, errw io.Writer) error {
	f, fs, err := parseAndDispatch(args, errw)
	if err != nil || f == nil {
		return err
	}

	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	mergeConfig(f, fs, cfg)

	params, err := buildParameters(f)
	if err != nil {
		return err
	}

	input, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading archive from stdin: %w", err)
	}

	output, report, err := pandoctar.RunWorkers(params, input, f.workers)
	if err != nil {
		return fmt.Errorf("encoding archive: %w", err)
	}

	if f.verbose {
		logReport(errw, report)
	}

	if _, err := out.Write(output); err != nil {
		return fmt.Errorf("writing archive to stdout: %w", err)
	}
	return nil
}

// parseAndDispatch handles flag parsing and the informational flags. A nil
// cliFlags with nil error means the program already did its job (help or
// version).
func parseAndDispatch(args []string, errw io.Writer) (*cliFlags, *flag.FlagSet, error) {
	f, fs, err := parseFlags(args, errw)
	if err != nil {
		printUsage(errw)
		return nil, nil, fmt.Errorf("parsing flags: %w", err)
	}
	if f.help {
		printUsage(errw)
		return nil, nil, nil
	}
	if f.version {
		fmt.Fprintf(errw, "pandoc-tar %s\n", Version)
		return nil, nil, nil
	}
	return f, fs, nil
}

// loadConfig loads the explicit config file, or the default one if present.
func loadConfig(f *cliFlags) (*config.Config, error) {
	if f.config != "" {
		return config.Load(f.config)
	}
	return config.LoadDefault()
}

// mergeConfig fills in flags the user did not set from the config file.
func mergeConfig(f *cliFlags, fs *flag.FlagSet, cfg *config.Config) {
	if !fs.Changed("from") && cfg.From != "" {
		f.from = cfg.From
	}
	if !fs.Changed("to") && cfg.To != "" {
		f.to = cfg.To
	}
	if !fs.Changed("wrap") && cfg.Wrap != "" {
		f.wrap = cfg.Wrap
	}
	if !fs.Changed("columns") && cfg.Columns != 0 {
		f.columns = cfg.Columns
	}
	if !fs.Changed("standalone") && cfg.Standalone {
		f.standalone = true
	}
	if !fs.Changed("template") && cfg.Template != "" {
		f.template = cfg.Template
	}
	if !fs.Changed("workers") && cfg.Workers != 0 {
		f.workers = cfg.Workers
	}
	if !fs.Changed("verbose") && cfg.Verbose {
		f.verbose = true
	}
}

// buildParameters turns flags into the conversion parameter template.
// Reading the template file happens here, at the process boundary; the
// conversion core itself never touches the filesystem.
func buildParameters(f *cliFlags) (pandoctar.Parameters, error) {
	wrap, err := pandoctar.ParseWrapPolicy(f.wrap)
	if err != nil {
		return pandoctar.Parameters{}, err
	}

	params := pandoctar.Parameters{
		FromFormat: f.from,
		ToFormat:   f.to,
		Wrap:       wrap,
		Columns:    f.columns,
		Standalone: f.standalone,
	}

	if f.template != "" {
		src, err := os.ReadFile(f.template) // #nosec G304 -- user-provided path
		if err != nil {
			return pandoctar.Parameters{}, fmt.Errorf("reading template %q: %w", f.template, err)
		}
		params.TemplateSource = string(src)
	}
	return params, nil
}

// logReport emits the run summary and per-entry failures on errw.
func logReport(errw io.Writer, report *pandoctar.Report) {
	logger := log.NewWithOptions(errw, log.Options{
		Prefix: "pandoc-tar",
	})

	for _, failure := range report.Failures {
		logger.Warn("entry passed through unconverted",
			"path", failure.Path, "reason", failure.Err)
	}
	if report.DecodeErr != nil {
		logger.Warn("archive truncated by decode error",
			"entries_kept", report.Entries, "reason", report.DecodeErr)
	}
	logger.Info("archive transcoded",
		"entries", report.Entries,
		"converted", report.Converted,
		"passed", report.Passed)
}
