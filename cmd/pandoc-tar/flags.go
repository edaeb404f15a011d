package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all parsed command-line flags.
type cliFlags struct {
	from       string
	to         string
	wrap       string
	columns    int
	standalone bool
	template   string
	config     string
	workers    int
	verbose    bool
	version    bool
	help       bool
}

// parseFlags parses args (without the program name). The returned FlagSet
// exposes Changed(), which the config merge uses to tell explicit flags
// from defaults.
func parseFlags(args []string, errw io.Writer) (*cliFlags, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("pandoc-tar", flag.ContinueOnError)
	fs.SetOutput(errw)
	f := &cliFlags{}

	fs.StringVarP(&f.from, "from", "f", "", "source document format")
	fs.StringVarP(&f.to, "to", "t", "", "target document format")
	fs.StringVar(&f.wrap, "wrap", "", "line wrapping: auto, none, preserve")
	fs.IntVar(&f.columns, "columns", 0, "line width for wrapped output")
	fs.BoolVarP(&f.standalone, "standalone", "s", false, "produce complete documents, not fragments")
	fs.StringVar(&f.template, "template", "", "template file for standalone output")
	fs.StringVarP(&f.config, "config", "c", "", "config file path")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = one per CPU)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "report skipped entries on stderr")
	fs.BoolVarP(&f.version, "version", "V", false, "print version and exit")
	fs.BoolVarP(&f.help, "help", "h", false, "show usage")

	fs.Usage = func() { printUsage(errw) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}
