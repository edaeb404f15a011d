// Package format holds the closed registry of document format capabilities
// and the readers/writers behind them.
//
// A capability pairs an optional reader and an optional writer for one
// format name. Readers and writers are plain functions over in-memory
// text: nothing in this package can reach the filesystem or the network,
// so a hostile document cannot cause effects merely by being converted.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Zipheir/pandoc-tar/internal/doc"
	"github.com/Zipheir/pandoc-tar/internal/template"
)

// Sentinel errors for capability resolution and conversion.
var (
	ErrUnknownFormat    = errors.New("unknown format")
	ErrUnknownExtension = errors.New("unknown format extension")
	ErrNotTextReadable  = errors.New("format is not text readable")
	ErrNotTextWritable  = errors.New("format is not text writable")
	ErrParse            = errors.New("document parsing failed")
	ErrRender           = errors.New("document rendering failed")
)

// Wrap selects the line-wrapping policy applied by text writers.
type Wrap int

// Wrapping policies.
const (
	WrapAuto     Wrap = iota // re-flow paragraphs to the column width
	WrapNone                 // one line per paragraph
	WrapPreserve             // keep line breaks as rendered
)

// Extensions is the set of feature extensions enabled for one reader or
// writer invocation, keyed by extension name.
type Extensions map[string]bool

func (e Extensions) clone() Extensions {
	out := make(Extensions, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// ReadOptions carries per-invocation reader settings.
type ReadOptions struct {
	Extensions Extensions
	Standalone bool // the input may carry a full-document prologue
}

// WriteOptions carries per-invocation writer settings.
type WriteOptions struct {
	Extensions Extensions
	Wrap       Wrap
	Columns    int
	Template   *template.Template // nil for fragment output
}

// ReadFunc parses source text into a document.
type ReadFunc func(src string, opts ReadOptions) (*doc.Document, error)

// WriteFunc renders a document into target text.
type WriteFunc func(d *doc.Document, opts WriteOptions) (string, error)

// Capability describes what the system can do with one format.
type Capability struct {
	Name     string
	Text     bool // operates on character text; false means binary-only
	CanRead  bool
	CanWrite bool
	Read     ReadFunc   // nil unless Text && CanRead
	Write    WriteFunc  // nil unless Text && CanWrite
	Defaults Extensions // extension set enabled by default
}

// registry is the closed format enumeration. Binary entries (docx, epub,
// pdf) exist so that requesting them fails with a precise error instead of
// an unknown-format error.
var registry = map[string]Capability{
	"markdown": {
		Name:     "markdown",
		Text:     true,
		CanRead:  true,
		CanWrite: true,
		Read:     readMarkdown,
		Write:    writeMarkdown,
		Defaults: Extensions{
			extGFM:            true,
			extFrontmatter:    true,
			extHardLineBreaks: false,
		},
	},
	"html": {
		Name:     "html",
		Text:     true,
		CanRead:  true,
		CanWrite: true,
		Read:     readHTML,
		Write:    writeHTML,
		Defaults: Extensions{
			extUnsafe: false,
		},
	},
	"json": {
		Name:     "json",
		Text:     true,
		CanRead:  true,
		CanWrite: true,
		Read:     readJSON,
		Write:    writeJSON,
		Defaults: Extensions{},
	},
	"plain": {
		Name:     "plain",
		Text:     true,
		CanRead:  false,
		CanWrite: true,
		Write:    writePlain,
		Defaults: Extensions{},
	},
	"docx": {Name: "docx", CanRead: true, CanWrite: true},
	"epub": {Name: "epub", CanRead: true, CanWrite: true},
	"pdf":  {Name: "pdf", CanWrite: true},
}

func init() {
	// The registry is a closed enumeration; catch descriptor mistakes at
	// startup rather than on first use.
	for name, c := range registry {
		if c.Name != name {
			panic(fmt.Sprintf("format: registry key %q names capability %q", name, c.Name))
		}
		if c.Text && c.CanRead && c.Read == nil {
			panic(fmt.Sprintf("format: %q claims a text reader but has none", name))
		}
		if c.Text && c.CanWrite && c.Write == nil {
			panic(fmt.Sprintf("format: %q claims a text writer but has none", name))
		}
	}
}

// BaseName returns the case-folded format name with trailing modifiers
// stripped: everything up to the first non-alphanumeric character.
func BaseName(spec string) string {
	spec = strings.ToLower(spec)
	for i, r := range spec {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			return spec[:i]
		}
	}
	return spec
}

// parseSpec splits a format spec like "markdown+hard_line_breaks-gfm" into
// its base name and the resolved extension set for the capability.
func parseSpec(spec string, c Capability) (Extensions, error) {
	exts := c.Defaults.clone()
	rest := strings.ToLower(spec)[len(BaseName(spec)):]
	for rest != "" {
		sign := rest[0]
		if sign != '+' && sign != '-' {
			return nil, fmt.Errorf("%w: %q in %q", ErrUnknownExtension, rest, spec)
		}
		rest = rest[1:]
		end := strings.IndexAny(rest, "+-")
		if end < 0 {
			end = len(rest)
		}
		name := rest[:end]
		rest = rest[end:]
		if _, known := exts[name]; !known {
			return nil, fmt.Errorf("%w: %q for format %q", ErrUnknownExtension, name, c.Name)
		}
		exts[name] = sign == '+'
	}
	return exts, nil
}

// lookup resolves a format spec against the registry.
func lookup(spec string) (Capability, Extensions, error) {
	base := BaseName(spec)
	c, ok := registry[base]
	if !ok {
		return Capability{}, nil, fmt.Errorf("%w: %q", ErrUnknownFormat, spec)
	}
	exts, err := parseSpec(spec, c)
	if err != nil {
		return Capability{}, nil, err
	}
	return c, exts, nil
}

// Reader resolves the reader capability for a format spec.
// Binary-only or write-only formats yield ErrNotTextReadable.
func Reader(spec string) (ReadFunc, Extensions, error) {
	c, exts, err := lookup(spec)
	if err != nil {
		return nil, nil, err
	}
	if !c.CanRead || !c.Text {
		return nil, nil, fmt.Errorf("%w: %q", ErrNotTextReadable, spec)
	}
	return c.Read, exts, nil
}

// Writer resolves the writer capability for a format spec.
// Binary-only or read-only formats yield ErrNotTextWritable.
func Writer(spec string) (WriteFunc, Extensions, error) {
	c, exts, err := lookup(spec)
	if err != nil {
		return nil, nil, err
	}
	if !c.CanWrite || !c.Text {
		return nil, nil, fmt.Errorf("%w: %q", ErrNotTextWritable, spec)
	}
	return c.Write, exts, nil
}

// finish applies the standalone template, if any, to a rendered fragment.
func finish(d *doc.Document, body string, opts WriteOptions) (string, error) {
	if opts.Template == nil {
		return body, nil
	}
	out, err := opts.Template.Render(template.Data{
		Body:  body,
		Title: d.Meta.Title(),
		Meta:  d.Meta,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return out, nil
}
