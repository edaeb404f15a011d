package template

import (
	"errors"
	"strings"
	"testing"

	"github.com/Zipheir/pandoc-tar/internal/doc"
)

func TestCompile(t *testing.T) {
	t.Parallel()

	t.Run("valid template renders", func(t *testing.T) {
		t.Parallel()
		tmpl, err := Compile("html", "<title>{{.Title}}</title>{{.Body}}")
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		got, err := tmpl.Render(Data{Body: "<p>hi</p>", Title: "T"})
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		want := "<title>T</title><p>hi</p>"
		if got != want {
			t.Errorf("Render = %q, want %q", got, want)
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()
		if _, err := Compile("html", "{{.Body"); !errors.Is(err, ErrCompile) {
			t.Errorf("err = %v, want ErrCompile", err)
		}
	})
}

func TestDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		format   string
		body     string
		contains []string
	}{
		{
			name:     "html wraps body in document",
			format:   "html",
			body:     "<h1>Hi</h1>",
			contains: []string{"<!DOCTYPE html>", "<h1>Hi</h1>", "</html>"},
		},
		{
			name:     "json passes body through",
			format:   "json",
			body:     `{"blocks":[]}`,
			contains: []string{`{"blocks":[]}`},
		},
		{
			name:     "markdown emits body",
			format:   "markdown",
			body:     "# Hi",
			contains: []string{"# Hi"},
		},
		{
			name:     "case-insensitive lookup",
			format:   "HTML",
			body:     "x",
			contains: []string{"<!DOCTYPE html>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tmpl, err := Default(tt.format)
			if err != nil {
				t.Fatalf("Default(%q): %v", tt.format, err)
			}
			got, err := tmpl.Render(Data{Body: tt.body})
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output %q missing %q", got, want)
				}
			}
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()
		if _, err := Default("nosuch"); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestRenderTitleFromMeta(t *testing.T) {
	t.Parallel()

	tmpl, err := Default("html")
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	meta := doc.Meta{"title": "My Doc"}
	got, err := tmpl.Render(Data{Body: "x", Title: meta.Title(), Meta: meta})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, "<title>My Doc</title>") {
		t.Errorf("output missing metadata title: %q", got)
	}
}
