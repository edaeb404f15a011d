package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pandoc-tar [flags] < in.tar > out.tar")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert every text document inside a tar archive from one format to")
	fmt.Fprintln(w, "another. Entries that cannot be converted pass through unchanged.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Formats:")
	fmt.Fprintln(w, "  readable:  markdown (default), html, json")
	fmt.Fprintln(w, "  writable:  json (default), markdown, html, plain")
	fmt.Fprintln(w, "  Names take +ext/-ext modifiers, e.g. markdown+hard_line_breaks.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -f, --from <format>       Source format")
	fmt.Fprintln(w, "  -t, --to <format>         Target format")
	fmt.Fprintln(w, "      --wrap <policy>       Line wrapping: auto, none, preserve")
	fmt.Fprintln(w, "      --columns <n>         Line width for wrapped output (default 72)")
	fmt.Fprintln(w, "  -s, --standalone          Produce complete documents, not fragments")
	fmt.Fprintln(w, "      --template <file>     Template for standalone output")
	fmt.Fprintln(w, "  -c, --config <file>       Config file (default .pandoc-tar.yaml)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = one per CPU)")
	fmt.Fprintln(w, "  -v, --verbose             Report skipped entries on stderr")
	fmt.Fprintln(w, "  -V, --version             Print version and exit")
	fmt.Fprintln(w, "  -h, --help                Show this message")
}
