package pandoctar

import (
	"archive/tar"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Zipheir/pandoc-tar/internal/tarball"
)

func dirEntry(name string) tarball.Entry {
	return tarball.Entry{
		Header: &tar.Header{
			Typeflag: tar.TypeDir,
			Name:     name,
			Mode:     0o755,
			ModTime:  time.Unix(0, 0).UTC(),
		},
		Kind: tarball.KindDir,
	}
}

func TestTranscodeConvertsFile(t *testing.T) {
	t.Parallel()

	in := tarball.NewFileEntry("docs/a.md", []byte("# Hi"))
	in.Header.Mode = 0o600
	in.Header.Uname = "alice"
	in.Header.ModTime = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	out := Transcode(Parameters{}, in)

	if out.Kind != tarball.KindFile {
		t.Fatalf("kind = %v, want file", out.Kind)
	}
	if out.Path() != "docs/a.md" {
		t.Errorf("path = %q, want docs/a.md", out.Path())
	}
	if !strings.Contains(string(out.Body), `"t":"Heading"`) {
		t.Errorf("body %q not converted", out.Body)
	}
	// The converted entry is a fresh file, not a metadata-preserving patch.
	if out.Header.Mode != 0o644 {
		t.Errorf("mode = %o, want synthesized 644", out.Header.Mode)
	}
	if out.Header.Uname != "" {
		t.Errorf("uname = %q, want empty", out.Header.Uname)
	}
	if out.Header.Size != int64(len(out.Body)) {
		t.Errorf("size = %d, want %d", out.Header.Size, len(out.Body))
	}
}

func TestTranscodeNonFilePassthrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry tarball.Entry
	}{
		{name: "directory", entry: dirEntry("sub/")},
		{
			name: "symlink",
			entry: tarball.Entry{
				Header: &tar.Header{Typeflag: tar.TypeSymlink, Name: "ln", Linkname: "a.md"},
				Kind:   tarball.KindSymlink,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := Transcode(Parameters{}, tt.entry)
			if out.Header != tt.entry.Header {
				t.Error("non-file entry should pass through with its original header")
			}
			if out.Body != nil {
				t.Errorf("body = %v, want nil", out.Body)
			}
		})
	}
}

func TestTranscodeFailurePassthrough(t *testing.T) {
	t.Parallel()

	body := []byte{0xff, 0xfe, 0x01}
	in := tarball.NewFileEntry("bin.dat", body)
	out := Transcode(Parameters{}, in)

	if out.Header != in.Header {
		t.Error("failed entry should keep its original header")
	}
	if !bytes.Equal(out.Body, body) {
		t.Errorf("body = %v, want original %v", out.Body, body)
	}
}

func TestTranscodeBadTargetFormatPassthrough(t *testing.T) {
	t.Parallel()

	in := tarball.NewFileEntry("a.md", []byte("# Hi"))
	out := Transcode(Parameters{ToFormat: "pdf"}, in)
	if out.Header != in.Header || !bytes.Equal(out.Body, in.Body) {
		t.Error("entry should pass through when the target format is not text-writable")
	}
}

func TestTranscodePathNormalization(t *testing.T) {
	t.Parallel()

	t.Run("path renormalized on success", func(t *testing.T) {
		t.Parallel()
		in := tarball.NewFileEntry("/abs/./a.md", []byte("# Hi"))
		out := Transcode(Parameters{}, in)
		if out.Path() != "abs/a.md" {
			t.Errorf("path = %q, want abs/a.md", out.Path())
		}
	})

	t.Run("unencodable path falls back to original", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("y", 200) + "/" + strings.Repeat("x", 120)
		in := tarball.NewFileEntry(long, []byte("# Hi"))
		out := Transcode(Parameters{}, in)
		if out.Path() != long {
			t.Errorf("path = %q, want original long path", out.Path())
		}
		if !strings.Contains(string(out.Body), `"t":"Heading"`) {
			t.Error("conversion should still succeed despite the path issue")
		}
	})
}
