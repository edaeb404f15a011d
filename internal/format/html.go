package format

import (
	"fmt"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"

	"github.com/Zipheir/pandoc-tar/internal/doc"
)

// HTML writer extension names.
const (
	extUnsafe = "unsafe" // pass raw HTML through instead of dropping it
)

// htmlToMarkdown converts sanitized HTML into markdown text. Built once;
// the converter is safe for concurrent use.
var htmlToMarkdown = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// htmlSanitizer strips scripts, event handlers, and other active content
// before conversion. Markup that survives sanitization is the only markup
// that can reach the document model.
var htmlSanitizer = bluemonday.UGCPolicy()

// readHTML parses HTML by sanitizing it, lowering it to markdown, and
// reusing the markdown reader. Front-matter handling does not apply; the
// HTML parser accepts full documents and fragments alike.
func readHTML(src string, opts ReadOptions) (*doc.Document, error) {
	md, err := htmlToMarkdown.ConvertString(htmlSanitizer.Sanitize(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	mdOpts := ReadOptions{
		Extensions: Extensions{extGFM: true},
		Standalone: false,
	}
	return readMarkdown(md, mdOpts)
}

// writeHTML renders the interchange representation as an HTML5 fragment,
// or a full document when a standalone template is set.
func writeHTML(d *doc.Document, opts WriteOptions) (string, error) {
	var b strings.Builder
	for _, blk := range d.Blocks {
		if err := htmlBlock(&b, blk, opts); err != nil {
			return "", err
		}
	}
	return finish(d, b.String(), opts)
}

func htmlBlock(b *strings.Builder, blk doc.Block, opts WriteOptions) error {
	switch v := blk.(type) {
	case doc.Heading:
		id := ""
		if v.ID != "" {
			id = ` id="` + html.EscapeString(v.ID) + `"`
		}
		fmt.Fprintf(b, "<h%d%s>%s</h%d>\n", v.Level, id, htmlInlines(v.Content, opts), v.Level)
	case doc.Paragraph:
		fmt.Fprintf(b, "<p>%s</p>\n", htmlInlines(v.Content, opts))
	case doc.CodeBlock:
		return htmlCodeBlock(b, v)
	case doc.BlockQuote:
		b.WriteString("<blockquote>\n")
		for _, inner := range v.Blocks {
			if err := htmlBlock(b, inner, opts); err != nil {
				return err
			}
		}
		b.WriteString("</blockquote>\n")
	case doc.List:
		return htmlList(b, v, opts)
	case doc.Table:
		htmlTable(b, v, opts)
	case doc.Rule:
		b.WriteString("<hr />\n")
	case doc.RawBlock:
		if v.Format == "html" && opts.Extensions[extUnsafe] {
			b.WriteString(v.Text)
			b.WriteString("\n")
		}
	}
	return nil
}

// htmlCodeBlock emits a fenced code block, syntax-highlighted when the
// language is known. Highlighting uses CSS classes, so the markup stays
// compact and styling remains an external concern.
func htmlCodeBlock(b *strings.Builder, v doc.CodeBlock) error {
	lexer := lexers.Get(v.Language)
	if lexer == nil {
		class := ""
		if v.Language != "" {
			class = ` class="language-` + html.EscapeString(v.Language) + `"`
		}
		fmt.Fprintf(b, "<pre><code%s>%s\n</code></pre>\n", class, html.EscapeString(v.Text))
		return nil
	}

	iterator, err := lexer.Tokenise(nil, v.Text+"\n")
	if err != nil {
		return fmt.Errorf("%w: highlighting %q code: %v", ErrRender, v.Language, err)
	}
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.Format(b, styles.Fallback, iterator); err != nil {
		return fmt.Errorf("%w: highlighting %q code: %v", ErrRender, v.Language, err)
	}
	b.WriteString("\n")
	return nil
}

func htmlList(b *strings.Builder, v doc.List, opts WriteOptions) error {
	tag := "ul"
	attrs := ""
	if v.Ordered {
		tag = "ol"
		if v.Start != 1 {
			attrs = fmt.Sprintf(` start="%d"`, v.Start)
		}
	}
	fmt.Fprintf(b, "<%s%s>\n", tag, attrs)
	for _, item := range v.Items {
		b.WriteString("<li>")
		// Tight single-paragraph items render without <p> wrappers.
		if len(item.Blocks) == 1 {
			if p, ok := item.Blocks[0].(doc.Paragraph); ok {
				b.WriteString(htmlInlines(p.Content, opts))
				b.WriteString("</li>\n")
				continue
			}
		}
		b.WriteString("\n")
		for _, inner := range item.Blocks {
			if err := htmlBlock(b, inner, opts); err != nil {
				return err
			}
		}
		b.WriteString("</li>\n")
	}
	fmt.Fprintf(b, "</%s>\n", tag)
	return nil
}

func htmlTable(b *strings.Builder, v doc.Table, opts WriteOptions) {
	align := func(i int) string {
		if i >= len(v.Alignments) {
			return ""
		}
		switch v.Alignments[i] {
		case doc.AlignLeft:
			return ` style="text-align: left"`
		case doc.AlignCenter:
			return ` style="text-align: center"`
		case doc.AlignRight:
			return ` style="text-align: right"`
		}
		return ""
	}

	b.WriteString("<table>\n<thead>\n<tr>\n")
	for i, c := range v.Header.Cells {
		fmt.Fprintf(b, "<th%s>%s</th>\n", align(i), htmlInlines(c.Content, opts))
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")
	for _, r := range v.Rows {
		b.WriteString("<tr>\n")
		for i, c := range r.Cells {
			fmt.Fprintf(b, "<td%s>%s</td>\n", align(i), htmlInlines(c.Content, opts))
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n")
}

func htmlInlines(ins []doc.Inline, opts WriteOptions) string {
	var b strings.Builder
	for _, in := range ins {
		switch v := in.(type) {
		case doc.Text:
			b.WriteString(html.EscapeString(v.Text))
		case doc.Emph:
			b.WriteString("<em>" + htmlInlines(v.Content, opts) + "</em>")
		case doc.Strong:
			b.WriteString("<strong>" + htmlInlines(v.Content, opts) + "</strong>")
		case doc.Strikeout:
			b.WriteString("<del>" + htmlInlines(v.Content, opts) + "</del>")
		case doc.Code:
			b.WriteString("<code>" + html.EscapeString(v.Text) + "</code>")
		case doc.Link:
			title := ""
			if v.Title != "" {
				title = ` title="` + html.EscapeString(v.Title) + `"`
			}
			b.WriteString(`<a href="` + html.EscapeString(v.Target) + `"` + title + ">" +
				htmlInlines(v.Content, opts) + "</a>")
		case doc.Image:
			title := ""
			if v.Title != "" {
				title = ` title="` + html.EscapeString(v.Title) + `"`
			}
			b.WriteString(`<img src="` + html.EscapeString(v.Target) + `" alt="` +
				html.EscapeString(doc.PlainText(v.Alt)) + `"` + title + " />")
		case doc.HardBreak:
			b.WriteString("<br />\n")
		case doc.RawInline:
			if v.Format == "html" && opts.Extensions[extUnsafe] {
				b.WriteString(v.Text)
			}
		}
	}
	return b.String()
}
