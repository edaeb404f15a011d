package format

import (
	"fmt"
	"strings"

	"github.com/Zipheir/pandoc-tar/internal/doc"
	"github.com/Zipheir/pandoc-tar/internal/textwrap"
)

// writePlain renders the document as bare text: markup dropped, block
// structure kept as blank-line-separated chunks. There is no plain reader.
func writePlain(d *doc.Document, opts WriteOptions) (string, error) {
	body := strings.Join(plainBlocks(d.Blocks, opts), "\n\n")
	if body != "" {
		body += "\n"
	}
	return finish(d, body, opts)
}

func plainBlocks(blocks []doc.Block, opts WriteOptions) []string {
	var out []string
	for _, b := range blocks {
		if s, ok := plainBlock(b, opts); ok {
			out = append(out, s)
		}
	}
	return out
}

func plainBlock(b doc.Block, opts WriteOptions) (string, bool) {
	switch v := b.(type) {
	case doc.Heading:
		return textwrap.Collapse(doc.PlainText(v.Content)), true
	case doc.Paragraph:
		lines := strings.Split(doc.PlainText(v.Content), "\n")
		for i, line := range lines {
			switch opts.Wrap {
			case WrapNone, WrapPreserve:
				lines[i] = textwrap.Collapse(line)
			default:
				lines[i] = textwrap.Fill(line, opts.Columns)
			}
		}
		return strings.Join(lines, "\n"), true
	case doc.CodeBlock:
		return v.Text, true
	case doc.BlockQuote:
		inner := strings.Join(plainBlocks(v.Blocks, opts), "\n\n")
		return prefixLines(inner, "  "), true
	case doc.List:
		var items []string
		for i, item := range v.Items {
			marker := "- "
			if v.Ordered {
				marker = fmt.Sprintf("%d. ", v.Start+i)
			}
			inner := strings.Join(plainBlocks(item.Blocks, opts), "\n\n")
			items = append(items, marker+inner)
		}
		return strings.Join(items, "\n"), true
	case doc.Table:
		var lines []string
		rowText := func(r doc.TableRow) string {
			cells := make([]string, len(r.Cells))
			for i, c := range r.Cells {
				cells[i] = textwrap.Collapse(doc.PlainText(c.Content))
			}
			return strings.Join(cells, "  ")
		}
		lines = append(lines, rowText(v.Header))
		for _, r := range v.Rows {
			lines = append(lines, rowText(r))
		}
		return strings.Join(lines, "\n"), true
	case doc.Rule:
		return strings.Repeat("-", 10), true
	case doc.RawBlock:
		return "", false
	}
	return "", false
}
