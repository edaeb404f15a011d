package pandoctar

import (
	"fmt"
	"strings"

	"github.com/Zipheir/pandoc-tar/internal/format"
)

// Defaults applied when the corresponding Parameters field is unset.
const (
	DefaultFromFormat = "markdown"
	DefaultToFormat   = "json"
	DefaultColumns    = 72
)

// WrapPolicy selects how text writers break lines.
type WrapPolicy int

// Wrapping policies.
const (
	WrapAuto     WrapPolicy = iota // re-flow paragraphs to the column width
	WrapNone                       // one line per paragraph
	WrapPreserve                   // keep line breaks as rendered
)

// String returns the policy's flag spelling.
func (w WrapPolicy) String() string {
	switch w {
	case WrapNone:
		return "none"
	case WrapPreserve:
		return "preserve"
	default:
		return "auto"
	}
}

// ParseWrapPolicy parses a policy's flag spelling (case-insensitive).
func ParseWrapPolicy(s string) (WrapPolicy, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return WrapAuto, nil
	case "none":
		return WrapNone, nil
	case "preserve":
		return WrapPreserve, nil
	}
	return WrapAuto, fmt.Errorf("invalid wrap policy %q (must be auto, none, or preserve)", s)
}

// Parameters describes one conversion request. A value is read-only for
// the duration of a conversion; per-entry copies are derived with
// WithText, which substitutes only the source text.
type Parameters struct {
	// Text is the document source.
	Text string

	// FromFormat and ToFormat are format specs, optionally carrying
	// +ext/-ext modifiers ("markdown+hard_line_breaks"). Empty values
	// fall back to DefaultFromFormat and DefaultToFormat.
	FromFormat string
	ToFormat   string

	// Wrap and Columns control line breaking in text writers.
	// Columns <= 0 means DefaultColumns.
	Wrap    WrapPolicy
	Columns int

	// Standalone requests a complete, template-wrapped document instead
	// of a content fragment.
	Standalone bool

	// TemplateSource is raw template text for standalone output. When
	// empty, the built-in default template for the target format is
	// used. Ignored entirely unless Standalone is set.
	TemplateSource string
}

// WithText returns a copy of p carrying text as the document source.
func (p Parameters) WithText(text string) Parameters {
	p.Text = text
	return p
}

// from returns the effective source format spec.
func (p Parameters) from() string {
	if p.FromFormat == "" {
		return DefaultFromFormat
	}
	return p.FromFormat
}

// to returns the effective target format spec.
func (p Parameters) to() string {
	if p.ToFormat == "" {
		return DefaultToFormat
	}
	return p.ToFormat
}

// columns returns the effective line width.
func (p Parameters) columns() int {
	if p.Columns <= 0 {
		return DefaultColumns
	}
	return p.Columns
}

// wrap converts the public policy to the writer-level one.
func (p Parameters) wrap() format.Wrap {
	switch p.Wrap {
	case WrapNone:
		return format.WrapNone
	case WrapPreserve:
		return format.WrapPreserve
	default:
		return format.WrapAuto
	}
}
