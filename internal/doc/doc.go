// Package doc defines the interchange document representation shared by
// all format readers and writers.
//
// A Document is a tree of tagged block and inline variants. Readers parse
// source text into a Document; writers render a Document into target text.
// The type set is closed: consumers dispatch with exhaustive type switches
// rather than reflection.
package doc

// Meta holds document metadata (typically a YAML metadata block).
// Values are scalars, []any, or map[string]any as produced by the YAML
// decoder.
type Meta map[string]any

// Title returns the "title" metadata entry as a string, or "".
func (m Meta) Title() string {
	if m == nil {
		return ""
	}
	if s, ok := m["title"].(string); ok {
		return s
	}
	return ""
}

// Document is a parsed document: metadata plus an ordered block sequence.
type Document struct {
	Meta   Meta
	Blocks []Block
}

// Block is a block-level element. The closed set of implementations is:
// Heading, Paragraph, CodeBlock, BlockQuote, List, Table, Rule, RawBlock.
type Block interface {
	block()
}

// Inline is an inline-level element. The closed set of implementations is:
// Text, Emph, Strong, Strikeout, Code, Link, Image, HardBreak, RawInline.
type Inline interface {
	inline()
}

// Heading is a section heading, levels 1-6.
type Heading struct {
	Level   int
	ID      string
	Content []Inline
}

// Paragraph is a run of inline content.
type Paragraph struct {
	Content []Inline
}

// CodeBlock is a literal block, optionally tagged with a language.
// Text carries no trailing newline.
type CodeBlock struct {
	Language string
	Text     string
}

// BlockQuote is a quoted block sequence.
type BlockQuote struct {
	Blocks []Block
}

// ListItem is one item of a List.
type ListItem struct {
	Blocks []Block
}

// List is an ordered or unordered list.
type List struct {
	Ordered bool
	Start   int // first item number; meaningful only when Ordered
	Items   []ListItem
}

// Alignment is a table column alignment.
type Alignment int

// Column alignments.
const (
	AlignDefault Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// TableCell is one cell's inline content.
type TableCell struct {
	Content []Inline
}

// TableRow is one row of cells.
type TableRow struct {
	Cells []TableCell
}

// Table is a simple table: a single header row plus body rows.
type Table struct {
	Alignments []Alignment
	Header     TableRow
	Rows       []TableRow
}

// Rule is a thematic break.
type Rule struct{}

// RawBlock is verbatim target-format text (e.g. an embedded HTML block).
type RawBlock struct {
	Format string
	Text   string
}

func (Heading) block()    {}
func (Paragraph) block()  {}
func (CodeBlock) block()  {}
func (BlockQuote) block() {}
func (List) block()       {}
func (Table) block()      {}
func (Rule) block()       {}
func (RawBlock) block()   {}

// Text is a literal text run. Readers collapse soft line breaks into
// single spaces so that wrapping is a pure presentation concern.
type Text struct {
	Text string
}

// Emph is emphasized content.
type Emph struct {
	Content []Inline
}

// Strong is strongly emphasized content.
type Strong struct {
	Content []Inline
}

// Strikeout is struck-through content.
type Strikeout struct {
	Content []Inline
}

// Code is an inline code span.
type Code struct {
	Text string
}

// Link is a hyperlink.
type Link struct {
	Content []Inline
	Target  string
	Title   string
}

// Image is an inline image reference.
type Image struct {
	Alt    []Inline
	Target string
	Title  string
}

// HardBreak is an explicit line break inside a paragraph.
type HardBreak struct{}

// RawInline is verbatim target-format text at inline level.
type RawInline struct {
	Format string
	Text   string
}

func (Text) inline()      {}
func (Emph) inline()      {}
func (Strong) inline()    {}
func (Strikeout) inline() {}
func (Code) inline()      {}
func (Link) inline()      {}
func (Image) inline()     {}
func (HardBreak) inline() {}
func (RawInline) inline() {}

// PlainText flattens inline content to its literal text, dropping all
// markup. Used for title extraction and the plain writer.
func PlainText(inlines []Inline) string {
	var out []byte
	var walk func([]Inline)
	walk = func(ins []Inline) {
		for _, in := range ins {
			switch v := in.(type) {
			case Text:
				out = append(out, v.Text...)
			case Emph:
				walk(v.Content)
			case Strong:
				walk(v.Content)
			case Strikeout:
				walk(v.Content)
			case Code:
				out = append(out, v.Text...)
			case Link:
				walk(v.Content)
			case Image:
				walk(v.Alt)
			case HardBreak:
				out = append(out, '\n')
			case RawInline:
				// raw markup contributes no plain text
			}
		}
	}
	walk(inlines)
	return string(out)
}
