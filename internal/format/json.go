package format

import (
	"encoding/json"
	"fmt"

	"github.com/Zipheir/pandoc-tar/internal/doc"
)

// apiVersion is the interchange serialization version, bumped on any
// incompatible change to the node encoding.
var apiVersion = []int{1, 0}

// jsonDocument is the top-level interchange serialization.
type jsonDocument struct {
	Version []int      `json:"pandoc-tar-api-version"`
	Meta    doc.Meta   `json:"meta,omitempty"`
	Blocks  []jsonNode `json:"blocks"`
}

// jsonNode is the wire form of one block or inline. The "t" tag selects
// the variant; the remaining fields are populated per variant.
type jsonNode struct {
	T          string       `json:"t"`
	Level      int          `json:"level,omitempty"`
	ID         string       `json:"id,omitempty"`
	Language   string       `json:"language,omitempty"`
	Text       string       `json:"text,omitempty"`
	Target     string       `json:"target,omitempty"`
	Title      string       `json:"title,omitempty"`
	Format     string       `json:"format,omitempty"`
	Ordered    bool         `json:"ordered,omitempty"`
	Start      int          `json:"start,omitempty"`
	Alignments []string     `json:"alignments,omitempty"`
	Content    []jsonNode   `json:"content,omitempty"`
	Blocks     []jsonNode   `json:"blocks,omitempty"`
	Items      [][]jsonNode `json:"items,omitempty"`
	Header     [][]jsonNode `json:"header,omitempty"`
	Rows       [][]jsonNode `json:"rows,omitempty"`
}

// writeJSON renders the interchange representation as JSON. Wrap policy
// and columns do not apply.
func writeJSON(d *doc.Document, opts WriteOptions) (string, error) {
	jd := jsonDocument{
		Version: apiVersion,
		Meta:    d.Meta,
		Blocks:  encodeBlocks(d.Blocks),
	}
	data, err := json.Marshal(jd)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return finish(d, string(data)+"\n", opts)
}

// readJSON parses the interchange serialization back into a document.
func readJSON(src string, opts ReadOptions) (*doc.Document, error) {
	var jd jsonDocument
	if err := json.Unmarshal([]byte(src), &jd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	blocks, err := decodeBlocks(jd.Blocks)
	if err != nil {
		return nil, err
	}
	return &doc.Document{Meta: jd.Meta, Blocks: blocks}, nil
}

func encodeBlocks(blocks []doc.Block) []jsonNode {
	out := make([]jsonNode, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, encodeBlock(b))
	}
	return out
}

func encodeBlock(b doc.Block) jsonNode {
	switch v := b.(type) {
	case doc.Heading:
		return jsonNode{T: "Heading", Level: v.Level, ID: v.ID, Content: encodeInlines(v.Content)}
	case doc.Paragraph:
		return jsonNode{T: "Para", Content: encodeInlines(v.Content)}
	case doc.CodeBlock:
		return jsonNode{T: "CodeBlock", Language: v.Language, Text: v.Text}
	case doc.BlockQuote:
		return jsonNode{T: "BlockQuote", Blocks: encodeBlocks(v.Blocks)}
	case doc.List:
		items := make([][]jsonNode, 0, len(v.Items))
		for _, it := range v.Items {
			items = append(items, encodeBlocks(it.Blocks))
		}
		return jsonNode{T: "List", Ordered: v.Ordered, Start: v.Start, Items: items}
	case doc.Table:
		n := jsonNode{T: "Table", Header: encodeRow(v.Header)}
		for _, a := range v.Alignments {
			n.Alignments = append(n.Alignments, encodeAlignment(a))
		}
		for _, r := range v.Rows {
			n.Rows = append(n.Rows, flattenRow(encodeRow(r)))
		}
		return n
	case doc.Rule:
		return jsonNode{T: "Rule"}
	case doc.RawBlock:
		return jsonNode{T: "RawBlock", Format: v.Format, Text: v.Text}
	}
	return jsonNode{T: "Null"}
}

// encodeRow encodes each table cell as one inline list.
func encodeRow(r doc.TableRow) [][]jsonNode {
	out := make([][]jsonNode, 0, len(r.Cells))
	for _, c := range r.Cells {
		out = append(out, encodeInlines(c.Content))
	}
	return out
}

// flattenRow wraps a row's cells in Cell nodes so body rows fit the
// two-level Rows field.
func flattenRow(cells [][]jsonNode) []jsonNode {
	out := make([]jsonNode, 0, len(cells))
	for _, c := range cells {
		out = append(out, jsonNode{T: "Cell", Content: c})
	}
	return out
}

func encodeAlignment(a doc.Alignment) string {
	switch a {
	case doc.AlignLeft:
		return "left"
	case doc.AlignCenter:
		return "center"
	case doc.AlignRight:
		return "right"
	}
	return "default"
}

func encodeInlines(ins []doc.Inline) []jsonNode {
	out := make([]jsonNode, 0, len(ins))
	for _, in := range ins {
		out = append(out, encodeInline(in))
	}
	return out
}

func encodeInline(in doc.Inline) jsonNode {
	switch v := in.(type) {
	case doc.Text:
		return jsonNode{T: "Text", Text: v.Text}
	case doc.Emph:
		return jsonNode{T: "Emph", Content: encodeInlines(v.Content)}
	case doc.Strong:
		return jsonNode{T: "Strong", Content: encodeInlines(v.Content)}
	case doc.Strikeout:
		return jsonNode{T: "Strikeout", Content: encodeInlines(v.Content)}
	case doc.Code:
		return jsonNode{T: "Code", Text: v.Text}
	case doc.Link:
		return jsonNode{T: "Link", Target: v.Target, Title: v.Title, Content: encodeInlines(v.Content)}
	case doc.Image:
		return jsonNode{T: "Image", Target: v.Target, Title: v.Title, Content: encodeInlines(v.Alt)}
	case doc.HardBreak:
		return jsonNode{T: "HardBreak"}
	case doc.RawInline:
		return jsonNode{T: "RawInline", Format: v.Format, Text: v.Text}
	}
	return jsonNode{T: "Null"}
}

func decodeBlocks(nodes []jsonNode) ([]doc.Block, error) {
	var out []doc.Block
	for _, n := range nodes {
		b, err := decodeBlock(n)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func decodeBlock(n jsonNode) (doc.Block, error) {
	switch n.T {
	case "Heading":
		content, err := decodeInlines(n.Content)
		if err != nil {
			return nil, err
		}
		return doc.Heading{Level: n.Level, ID: n.ID, Content: content}, nil
	case "Para":
		content, err := decodeInlines(n.Content)
		if err != nil {
			return nil, err
		}
		return doc.Paragraph{Content: content}, nil
	case "CodeBlock":
		return doc.CodeBlock{Language: n.Language, Text: n.Text}, nil
	case "BlockQuote":
		blocks, err := decodeBlocks(n.Blocks)
		if err != nil {
			return nil, err
		}
		return doc.BlockQuote{Blocks: blocks}, nil
	case "List":
		l := doc.List{Ordered: n.Ordered, Start: n.Start}
		for _, it := range n.Items {
			blocks, err := decodeBlocks(it)
			if err != nil {
				return nil, err
			}
			l.Items = append(l.Items, doc.ListItem{Blocks: blocks})
		}
		return l, nil
	case "Table":
		return decodeTable(n)
	case "Rule":
		return doc.Rule{}, nil
	case "RawBlock":
		return doc.RawBlock{Format: n.Format, Text: n.Text}, nil
	}
	return nil, fmt.Errorf("%w: unknown block type %q", ErrParse, n.T)
}

func decodeTable(n jsonNode) (doc.Block, error) {
	t := doc.Table{}
	for _, a := range n.Alignments {
		t.Alignments = append(t.Alignments, decodeAlignment(a))
	}
	for _, cell := range n.Header {
		content, err := decodeInlines(cell)
		if err != nil {
			return nil, err
		}
		t.Header.Cells = append(t.Header.Cells, doc.TableCell{Content: content})
	}
	for _, row := range n.Rows {
		r := doc.TableRow{}
		for _, cell := range row {
			if cell.T != "Cell" {
				return nil, fmt.Errorf("%w: unknown table node %q", ErrParse, cell.T)
			}
			content, err := decodeInlines(cell.Content)
			if err != nil {
				return nil, err
			}
			r.Cells = append(r.Cells, doc.TableCell{Content: content})
		}
		t.Rows = append(t.Rows, r)
	}
	return t, nil
}

func decodeAlignment(s string) doc.Alignment {
	switch s {
	case "left":
		return doc.AlignLeft
	case "center":
		return doc.AlignCenter
	case "right":
		return doc.AlignRight
	}
	return doc.AlignDefault
}

func decodeInlines(nodes []jsonNode) ([]doc.Inline, error) {
	var out []doc.Inline
	for _, n := range nodes {
		in, err := decodeInline(n)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

func decodeInline(n jsonNode) (doc.Inline, error) {
	decode := func(nodes []jsonNode) ([]doc.Inline, error) { return decodeInlines(nodes) }
	switch n.T {
	case "Text":
		return doc.Text{Text: n.Text}, nil
	case "Emph":
		content, err := decode(n.Content)
		if err != nil {
			return nil, err
		}
		return doc.Emph{Content: content}, nil
	case "Strong":
		content, err := decode(n.Content)
		if err != nil {
			return nil, err
		}
		return doc.Strong{Content: content}, nil
	case "Strikeout":
		content, err := decode(n.Content)
		if err != nil {
			return nil, err
		}
		return doc.Strikeout{Content: content}, nil
	case "Code":
		return doc.Code{Text: n.Text}, nil
	case "Link":
		content, err := decode(n.Content)
		if err != nil {
			return nil, err
		}
		return doc.Link{Content: content, Target: n.Target, Title: n.Title}, nil
	case "Image":
		alt, err := decode(n.Content)
		if err != nil {
			return nil, err
		}
		return doc.Image{Alt: alt, Target: n.Target, Title: n.Title}, nil
	case "HardBreak":
		return doc.HardBreak{}, nil
	case "RawInline":
		return doc.RawInline{Format: n.Format, Text: n.Text}, nil
	}
	return nil, fmt.Errorf("%w: unknown inline type %q", ErrParse, n.T)
}
