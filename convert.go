package pandoctar

import (
	"github.com/Zipheir/pandoc-tar/internal/format"
	"github.com/Zipheir/pandoc-tar/internal/template"
)

// Convert runs one document conversion described by p and returns the
// converted text. It performs no I/O and has no observable side effects;
// every failure mode surfaces as an error wrapping one of the sentinels in
// errors.go, and no partial output is ever returned.
func Convert(p Parameters) (string, error) {
	read, readExts, err := format.Reader(p.from())
	if err != nil {
		return "", err
	}
	write, writeExts, err := format.Writer(p.to())
	if err != nil {
		return "", err
	}

	tmpl, err := resolveTemplate(p)
	if err != nil {
		return "", err
	}

	d, err := read(p.Text, format.ReadOptions{
		Extensions: readExts,
		Standalone: p.Standalone,
	})
	if err != nil {
		return "", err
	}

	return write(d, format.WriteOptions{
		Extensions: writeExts,
		Wrap:       p.wrap(),
		Columns:    p.columns(),
		Template:   tmpl,
	})
}

// resolveTemplate compiles the supplied template source, or loads the
// embedded default for the target format's base name. Returns nil when
// standalone output was not requested: template fields are then ignored,
// so a broken TemplateSource cannot fail a fragment conversion.
func resolveTemplate(p Parameters) (*template.Template, error) {
	if !p.Standalone {
		return nil, nil
	}
	if p.TemplateSource != "" {
		return template.Compile(p.to(), p.TemplateSource)
	}
	return template.Default(format.BaseName(p.to()))
}
