package tarball

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

// buildArchive assembles a tar stream from (header, body) pairs.
func buildArchive(t *testing.T, entries ...Entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		if err := tw.WriteHeader(e.Header); err != nil {
			t.Fatalf("WriteHeader: %v", err)
		}
		if len(e.Body) > 0 {
			if _, err := tw.Write(e.Body); err != nil {
				t.Fatalf("Write: %v", err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return buf.Bytes()
}

func dirEntry(name string) Entry {
	return Entry{
		Header: &tar.Header{
			Typeflag: tar.TypeDir,
			Name:     name,
			Mode:     0o755,
			ModTime:  time.Unix(0, 0).UTC(),
		},
		Kind: KindDir,
	}
}

func TestReaderDecodesEntries(t *testing.T) {
	t.Parallel()

	archive := buildArchive(t,
		NewFileEntry("a.md", []byte("# Hi")),
		dirEntry("sub/"),
		NewFileEntry("sub/b.md", []byte("text")),
	)

	r := NewReader(bytes.NewReader(archive))

	e1, err := r.Next()
	if err != nil {
		t.Fatalf("Next 1: %v", err)
	}
	if e1.Kind != KindFile || e1.Path() != "a.md" || string(e1.Body) != "# Hi" {
		t.Errorf("entry 1 = %v %q %q", e1.Kind, e1.Path(), e1.Body)
	}

	e2, err := r.Next()
	if err != nil {
		t.Fatalf("Next 2: %v", err)
	}
	if e2.Kind != KindDir || e2.Body != nil {
		t.Errorf("entry 2 = %v, body %v; want dir with nil body", e2.Kind, e2.Body)
	}

	if _, err := r.Next(); err != nil {
		t.Fatalf("Next 3: %v", err)
	}

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next 4 err = %v, want io.EOF", err)
	}
}

func TestReaderCorruptStream(t *testing.T) {
	t.Parallel()

	archive := buildArchive(t, NewFileEntry("good.md", []byte("ok")))
	// Valid first entry followed by garbage instead of a header.
	trunc := archive[:1024]
	corrupt := append(append([]byte{}, trunc...), bytes.Repeat([]byte{0xff}, 512)...)

	r := NewReader(bytes.NewReader(corrupt))
	if _, err := r.Next(); err != nil {
		t.Fatalf("first entry should decode: %v", err)
	}
	_, err := r.Next()
	if !errors.Is(err, ErrDecode) {
		t.Errorf("err = %v, want ErrDecode", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	in := []Entry{
		NewFileEntry("one.md", []byte("first")),
		dirEntry("d/"),
		NewFileEntry("d/two.md", []byte("second")),
	}
	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	r := NewReader(bytes.NewReader(data))
	var out []Entry
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, e)
	}

	if len(out) != len(in) {
		t.Fatalf("decoded %d entries, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i].Path() != in[i].Path() {
			t.Errorf("entry %d path = %q, want %q", i, out[i].Path(), in[i].Path())
		}
		if !bytes.Equal(out[i].Body, in[i].Body) {
			t.Errorf("entry %d body = %q, want %q", i, out[i].Body, in[i].Body)
		}
		if out[i].Kind != in[i].Kind {
			t.Errorf("entry %d kind = %v, want %v", i, out[i].Kind, in[i].Kind)
		}
	}
}

func TestEncodeEmptyArchive(t *testing.T) {
	t.Parallel()

	data, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// An empty archive is still validly terminated: two zero blocks.
	if len(data) != 1024 {
		t.Errorf("len = %d, want 1024", len(data))
	}
	if data[0] != 0 {
		t.Error("expected zero-filled trailer")
	}
}

func TestNewFileEntryMetadata(t *testing.T) {
	t.Parallel()

	e := NewFileEntry("x.md", []byte("abc"))
	if e.Header.Size != 3 {
		t.Errorf("size = %d, want 3", e.Header.Size)
	}
	if e.Header.Mode != 0o644 {
		t.Errorf("mode = %o, want 644", e.Header.Mode)
	}
	if e.Header.Typeflag != tar.TypeReg {
		t.Errorf("typeflag = %v, want TypeReg", e.Header.Typeflag)
	}
}

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		isDir   bool
		want    string
		wantErr bool
	}{
		{name: "simple file", raw: "a.md", want: "a.md"},
		{name: "nested file", raw: "dir/a.md", want: "dir/a.md"},
		{name: "leading slash stripped", raw: "/etc/a.md", want: "etc/a.md"},
		{name: "redundant segments cleaned", raw: "./a/./b.md", want: "a/b.md"},
		{name: "backslashes normalized", raw: `dir\a.md`, want: "dir/a.md"},
		{name: "directory gains slash", raw: "dir", isDir: true, want: "dir/"},
		{name: "empty path", raw: "", wantErr: true},
		{name: "dot path", raw: ".", wantErr: true},
		{name: "traversal escape", raw: "../evil", wantErr: true},
		{name: "inner traversal escape", raw: "a/../../evil", wantErr: true},
		{
			name: "long but splittable",
			raw:  strings.Repeat("d/", 60) + "file.md",
			want: strings.Repeat("d/", 60) + "file.md",
		},
		{
			name:    "single component too long",
			raw:     strings.Repeat("x", 120),
			wantErr: true,
		},
		{
			name:    "unsplittable long path",
			raw:     strings.Repeat("y", 200) + "/" + strings.Repeat("x", 120),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizePath(tt.raw, tt.isDir)
			if tt.wantErr {
				if !errors.Is(err, ErrPathEncoding) {
					t.Fatalf("err = %v, want ErrPathEncoding", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePath(%q): %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
