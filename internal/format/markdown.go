package format

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/Zipheir/pandoc-tar/internal/doc"
	"github.com/Zipheir/pandoc-tar/internal/textwrap"
	"github.com/Zipheir/pandoc-tar/internal/yamlutil"
)

// Markdown extension names.
const (
	extGFM            = "gfm"              // tables, strikethrough, autolinks, task lists
	extFrontmatter    = "frontmatter"      // YAML metadata block
	extHardLineBreaks = "hard_line_breaks" // treat soft breaks as hard breaks
)

// readMarkdown parses markdown source into the interchange representation.
// The goldmark configuration mirrors the HTML pipeline this grew out of:
// GFM extensions plus auto heading IDs.
func readMarkdown(src string, opts ReadOptions) (*doc.Document, error) {
	if !utf8.ValidString(src) {
		return nil, fmt.Errorf("%w: input is not valid UTF-8", ErrParse)
	}
	src = normalizeLineEndings(src)

	d := &doc.Document{}

	// A metadata block is a full-document prologue: accepted when the
	// caller expects standalone input or the extension forces it.
	if opts.Standalone || opts.Extensions[extFrontmatter] {
		meta, body, err := splitFrontmatter(src)
		if err != nil {
			return nil, err
		}
		d.Meta = meta
		src = body
	}

	gmOpts := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if opts.Extensions[extGFM] {
		gmOpts = append(gmOpts, goldmark.WithExtensions(extension.GFM))
	}
	md := goldmark.New(gmOpts...)

	source := []byte(src)
	root := md.Parser().Parse(text.NewReader(source))

	w := &mdWalker{source: source, hardBreaks: opts.Extensions[extHardLineBreaks]}
	d.Blocks = w.blocks(root)
	return d, nil
}

// normalizeLineEndings converts CRLF and lone CR to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// splitFrontmatter strips a leading YAML metadata block delimited by "---"
// lines. Returns the decoded metadata and the remaining body.
func splitFrontmatter(src string) (doc.Meta, string, error) {
	if !strings.HasPrefix(src, "---\n") {
		return nil, src, nil
	}
	rest := src[len("---\n"):]
	end := strings.Index(rest, "\n---\n")
	block, body := "", ""
	switch {
	case end >= 0:
		block = rest[:end]
		body = rest[end+len("\n---\n"):]
	case strings.HasSuffix(rest, "\n---"):
		block = rest[:len(rest)-len("\n---")]
	default:
		// Unterminated delimiter: treat the whole input as content.
		return nil, src, nil
	}
	if strings.TrimSpace(block) == "" {
		return nil, body, nil
	}
	var meta doc.Meta
	if err := yamlutil.Unmarshal([]byte(block), &meta); err != nil {
		return nil, "", fmt.Errorf("%w: metadata block: %v", ErrParse, err)
	}
	return meta, body, nil
}

// mdWalker translates a goldmark AST into interchange blocks and inlines.
type mdWalker struct {
	source     []byte
	hardBreaks bool
}

func (w *mdWalker) blocks(parent gast.Node) []doc.Block {
	var out []doc.Block
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if b := w.block(n); b != nil {
			out = append(out, b)
		}
	}
	return out
}

func (w *mdWalker) block(n gast.Node) doc.Block {
	switch v := n.(type) {
	case *gast.Heading:
		h := doc.Heading{Level: v.Level, Content: w.inlines(v)}
		if id, ok := v.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				h.ID = string(b)
			}
		}
		return h
	case *gast.Paragraph:
		return doc.Paragraph{Content: w.inlines(v)}
	case *gast.TextBlock:
		return doc.Paragraph{Content: w.inlines(v)}
	case *gast.FencedCodeBlock:
		return doc.CodeBlock{
			Language: string(v.Language(w.source)),
			Text:     w.codeLines(v),
		}
	case *gast.CodeBlock:
		return doc.CodeBlock{Text: w.codeLines(v)}
	case *gast.Blockquote:
		return doc.BlockQuote{Blocks: w.blocks(v)}
	case *gast.List:
		return w.list(v)
	case *gast.ThematicBreak:
		return doc.Rule{}
	case *gast.HTMLBlock:
		raw := w.codeLines(v)
		if v.HasClosure() {
			raw += string(v.ClosureLine.Value(w.source))
			raw = strings.TrimSuffix(raw, "\n")
		}
		return doc.RawBlock{Format: "html", Text: raw}
	case *east.Table:
		return w.table(v)
	default:
		// Unrecognized container: flatten its children.
		if blocks := w.blocks(n); len(blocks) == 1 {
			return blocks[0]
		}
		return nil
	}
}

// codeLines joins a block node's raw source lines, trimming the final
// newline so CodeBlock.Text carries none.
func (w *mdWalker) codeLines(n gast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(w.source))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (w *mdWalker) list(v *gast.List) doc.List {
	l := doc.List{Ordered: v.IsOrdered(), Start: v.Start}
	if l.Ordered && l.Start == 0 {
		l.Start = 1
	}
	for item := v.FirstChild(); item != nil; item = item.NextSibling() {
		l.Items = append(l.Items, doc.ListItem{Blocks: w.blocks(item)})
	}
	return l
}

func (w *mdWalker) table(v *east.Table) doc.Table {
	t := doc.Table{}
	for _, a := range v.Alignments {
		switch a {
		case east.AlignLeft:
			t.Alignments = append(t.Alignments, doc.AlignLeft)
		case east.AlignCenter:
			t.Alignments = append(t.Alignments, doc.AlignCenter)
		case east.AlignRight:
			t.Alignments = append(t.Alignments, doc.AlignRight)
		default:
			t.Alignments = append(t.Alignments, doc.AlignDefault)
		}
	}
	for row := v.FirstChild(); row != nil; row = row.NextSibling() {
		r := doc.TableRow{}
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			r.Cells = append(r.Cells, doc.TableCell{Content: w.inlines(cell)})
		}
		if _, ok := row.(*east.TableHeader); ok {
			t.Header = r
		} else {
			t.Rows = append(t.Rows, r)
		}
	}
	return t
}

func (w *mdWalker) inlines(parent gast.Node) []doc.Inline {
	var out []doc.Inline
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = w.inline(out, n)
	}
	return out
}

// appendText merges consecutive literal runs so soft line breaks collapse
// into plain spaces and wrapping stays a presentation-only concern.
func appendText(out []doc.Inline, s string) []doc.Inline {
	if s == "" {
		return out
	}
	if len(out) > 0 {
		if last, ok := out[len(out)-1].(doc.Text); ok {
			out[len(out)-1] = doc.Text{Text: last.Text + s}
			return out
		}
	}
	return append(out, doc.Text{Text: s})
}

func (w *mdWalker) inline(out []doc.Inline, n gast.Node) []doc.Inline {
	switch v := n.(type) {
	case *gast.Text:
		out = appendText(out, string(v.Segment.Value(w.source)))
		switch {
		case v.HardLineBreak(), v.SoftLineBreak() && w.hardBreaks:
			out = append(out, doc.HardBreak{})
		case v.SoftLineBreak():
			out = appendText(out, " ")
		}
		return out
	case *gast.String:
		return appendText(out, string(v.Value))
	case *gast.CodeSpan:
		return append(out, doc.Code{Text: w.literalText(v)})
	case *gast.Emphasis:
		if v.Level >= 2 {
			return append(out, doc.Strong{Content: w.inlines(v)})
		}
		return append(out, doc.Emph{Content: w.inlines(v)})
	case *east.Strikethrough:
		return append(out, doc.Strikeout{Content: w.inlines(v)})
	case *gast.Link:
		return append(out, doc.Link{
			Content: w.inlines(v),
			Target:  string(v.Destination),
			Title:   string(v.Title),
		})
	case *gast.Image:
		return append(out, doc.Image{
			Alt:    w.inlines(v),
			Target: string(v.Destination),
			Title:  string(v.Title),
		})
	case *gast.AutoLink:
		url := string(v.URL(w.source))
		label := string(v.Label(w.source))
		target := url
		if v.AutoLinkType == gast.AutoLinkEmail && !strings.HasPrefix(url, "mailto:") {
			target = "mailto:" + url
		}
		return append(out, doc.Link{
			Content: []doc.Inline{doc.Text{Text: label}},
			Target:  target,
		})
	case *gast.RawHTML:
		var b strings.Builder
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			b.Write(seg.Value(w.source))
		}
		return append(out, doc.RawInline{Format: "html", Text: b.String()})
	case *east.TaskCheckBox:
		if v.IsChecked {
			return appendText(out, "[x] ")
		}
		return appendText(out, "[ ] ")
	default:
		// Unrecognized inline: keep its literal children.
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			out = w.inline(out, c)
		}
		return out
	}
}

// literalText collects the raw text of an inline node's children.
func (w *mdWalker) literalText(n gast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gast.Text:
			b.Write(t.Segment.Value(w.source))
		case *gast.String:
			b.Write(t.Value)
		}
	}
	return b.String()
}

// hardBreakMark separates wrap units inside a rendered paragraph. Wrapping
// re-flows the text between hard breaks, never across them.
const hardBreakMark = "\\\n"

// writeMarkdown renders the interchange representation back to markdown.
func writeMarkdown(d *doc.Document, opts WriteOptions) (string, error) {
	body := strings.Join(mdBlocks(d.Blocks, opts), "\n\n")
	if body != "" {
		body += "\n"
	}
	return finish(d, body, opts)
}

func mdBlocks(blocks []doc.Block, opts WriteOptions) []string {
	var out []string
	for _, b := range blocks {
		if s, ok := mdBlock(b, opts); ok {
			out = append(out, s)
		}
	}
	return out
}

func mdBlock(b doc.Block, opts WriteOptions) (string, bool) {
	switch v := b.(type) {
	case doc.Heading:
		return strings.Repeat("#", v.Level) + " " + textwrap.Collapse(mdInlines(v.Content)), true
	case doc.Paragraph:
		return wrapText(mdInlines(v.Content), opts), true
	case doc.CodeBlock:
		fence := "```"
		return fence + v.Language + "\n" + v.Text + "\n" + fence, true
	case doc.BlockQuote:
		inner := strings.Join(mdBlocks(v.Blocks, opts), "\n\n")
		return prefixLines(inner, "> "), true
	case doc.List:
		return mdList(v, opts), true
	case doc.Table:
		return mdTable(v), true
	case doc.Rule:
		return "---", true
	case doc.RawBlock:
		if v.Format == "html" || v.Format == "markdown" {
			return v.Text, true
		}
		return "", false
	}
	return "", false
}

// wrapText applies the wrap policy to one paragraph's rendered text.
func wrapText(text string, opts WriteOptions) string {
	units := strings.Split(text, hardBreakMark)
	for i, u := range units {
		switch opts.Wrap {
		case WrapNone:
			units[i] = textwrap.Collapse(u)
		case WrapPreserve:
			units[i] = strings.TrimRight(u, " ")
		default:
			units[i] = textwrap.Fill(u, opts.Columns)
		}
	}
	return strings.Join(units, hardBreakMark)
}

func mdList(l doc.List, opts WriteOptions) string {
	var items []string
	for i, item := range l.Items {
		marker := "- "
		if l.Ordered {
			marker = fmt.Sprintf("%d. ", l.Start+i)
		}
		body := strings.Join(mdBlocks(item.Blocks, opts), "\n\n")
		indent := strings.Repeat(" ", len(marker))
		lines := strings.Split(body, "\n")
		for j := range lines {
			if j == 0 {
				lines[j] = marker + lines[j]
			} else if lines[j] != "" {
				lines[j] = indent + lines[j]
			}
		}
		items = append(items, strings.Join(lines, "\n"))
	}
	return strings.Join(items, "\n")
}

func mdTable(t doc.Table) string {
	row := func(r doc.TableRow) string {
		cells := make([]string, len(r.Cells))
		for i, c := range r.Cells {
			cells[i] = textwrap.Collapse(mdInlines(c.Content))
		}
		return "| " + strings.Join(cells, " | ") + " |"
	}

	sep := make([]string, len(t.Header.Cells))
	for i := range sep {
		align := doc.AlignDefault
		if i < len(t.Alignments) {
			align = t.Alignments[i]
		}
		switch align {
		case doc.AlignLeft:
			sep[i] = ":---"
		case doc.AlignCenter:
			sep[i] = ":---:"
		case doc.AlignRight:
			sep[i] = "---:"
		default:
			sep[i] = "---"
		}
	}

	lines := []string{row(t.Header), "|" + strings.Join(sep, "|") + "|"}
	for _, r := range t.Rows {
		lines = append(lines, row(r))
	}
	return strings.Join(lines, "\n")
}

func mdInlines(ins []doc.Inline) string {
	var b strings.Builder
	for _, in := range ins {
		switch v := in.(type) {
		case doc.Text:
			b.WriteString(v.Text)
		case doc.Emph:
			b.WriteString("*" + mdInlines(v.Content) + "*")
		case doc.Strong:
			b.WriteString("**" + mdInlines(v.Content) + "**")
		case doc.Strikeout:
			b.WriteString("~~" + mdInlines(v.Content) + "~~")
		case doc.Code:
			b.WriteString("`" + v.Text + "`")
		case doc.Link:
			b.WriteString("[" + mdInlines(v.Content) + "](" + mdTarget(v.Target, v.Title) + ")")
		case doc.Image:
			b.WriteString("![" + mdInlines(v.Alt) + "](" + mdTarget(v.Target, v.Title) + ")")
		case doc.HardBreak:
			b.WriteString(hardBreakMark)
		case doc.RawInline:
			if v.Format == "html" || v.Format == "markdown" {
				b.WriteString(v.Text)
			}
		}
	}
	return b.String()
}

func mdTarget(target, title string) string {
	if title == "" {
		return target
	}
	return target + ` "` + title + `"`
}

// prefixLines prepends prefix to every line, trimming trailing spaces on
// lines that would otherwise hold only the prefix.
func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = strings.TrimRight(prefix, " ")
		} else {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
