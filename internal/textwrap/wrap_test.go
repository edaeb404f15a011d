package textwrap

import (
	"strings"
	"testing"
)

func TestFill(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{
			name:  "empty input",
			text:  "",
			width: 10,
			want:  "",
		},
		{
			name:  "whitespace only",
			text:  "   \n\t  ",
			width: 10,
			want:  "",
		},
		{
			name:  "fits on one line",
			text:  "one two three",
			width: 20,
			want:  "one two three",
		},
		{
			name:  "wraps at width",
			text:  "one two three four",
			width: 9,
			want:  "one two\nthree\nfour",
		},
		{
			name:  "word longer than width stands alone",
			text:  "a verylongword b",
			width: 5,
			want:  "a\nverylongword\nb",
		},
		{
			name:  "existing newlines reflow",
			text:  "one\ntwo\nthree",
			width: 80,
			want:  "one two three",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Fill(tt.text, tt.width); got != tt.want {
				t.Errorf("Fill(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestFillDefaultWidth(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("word ", 40)
	got := Fill(long, 0)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > DefaultColumns {
			t.Errorf("line %q exceeds default width %d", line, DefaultColumns)
		}
	}
}

func TestCollapse(t *testing.T) {
	t.Parallel()

	got := Collapse("one\n  two\tthree  ")
	want := "one two three"
	if got != want {
		t.Errorf("Collapse = %q, want %q", got, want)
	}
}
