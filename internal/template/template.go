// Package template compiles standalone-document templates and serves the
// embedded per-format defaults.
//
// Templates use text/template syntax. The data passed at render time is
// always a Data value; a template never receives any capability to touch
// the filesystem or network.
package template

import (
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/Zipheir/pandoc-tar/internal/doc"
)

//go:embed templates/*.tmpl
var defaults embed.FS

// Sentinel errors for template operations.
var (
	ErrCompile  = errors.New("template compilation failed")
	ErrNotFound = errors.New("no default template for format")
	ErrRender   = errors.New("template rendering failed")
)

// Data is the context available to a standalone template.
type Data struct {
	Body  string // rendered document fragment
	Title string // metadata title, "" when absent
	Meta  doc.Meta
}

// Template is a compiled standalone-document template.
type Template struct {
	tmpl *template.Template
}

// Compile parses src as a template for the named target format.
// The name is used only for error reporting.
func Compile(name, src string) (*Template, error) {
	t, err := template.New(name).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompile, err)
	}
	return &Template{tmpl: t}, nil
}

// Default loads and compiles the embedded default template for a format
// base name. The lookup is case-insensitive.
func Default(baseName string) (*Template, error) {
	name := strings.ToLower(baseName)
	src, err := defaults.ReadFile("templates/" + name + ".tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, baseName)
	}
	return Compile(name, string(src))
}

// Render executes the template over data.
func (t *Template) Render(data Data) (string, error) {
	var b strings.Builder
	if err := t.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return b.String(), nil
}
