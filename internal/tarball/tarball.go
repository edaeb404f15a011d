// Package tarball is the archive codec: a lazy tar decoder, an ordered
// encoder, and the path rules entries must satisfy.
//
// Entries carry their original header so that untouched entries round-trip
// with their metadata intact. Content kind is modeled as a tagged variant
// rather than by inspecting type flags at every call site.
package tarball

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Sentinel errors for archive operations.
var (
	ErrDecode       = errors.New("archive decoding failed")
	ErrPathEncoding = errors.New("path violates archive constraints")
)

// Kind is an entry's content kind.
type Kind int

// Entry content kinds.
const (
	KindFile Kind = iota // regular file; Body holds the content
	KindDir
	KindSymlink
	KindHardlink
	KindChar
	KindBlock
	KindFifo
	KindOther // extended headers, sparse files, vendor types
)

// Entry is one logical item in an archive.
type Entry struct {
	Header *tar.Header
	Kind   Kind
	Body   []byte // nil unless Kind == KindFile
}

// Path returns the entry's stored path.
func (e Entry) Path() string {
	return e.Header.Name
}

// kindOf maps a tar type flag to the content kind.
func kindOf(flag byte) Kind {
	switch flag {
	case tar.TypeReg:
		return KindFile
	case tar.TypeDir:
		return KindDir
	case tar.TypeSymlink:
		return KindSymlink
	case tar.TypeLink:
		return KindHardlink
	case tar.TypeChar:
		return KindChar
	case tar.TypeBlock:
		return KindBlock
	case tar.TypeFifo:
		return KindFifo
	}
	return KindOther
}

// defaultFileMode is the permission set for synthesized file entries.
const defaultFileMode = 0o644

// NewFileEntry builds a fresh regular-file entry. All metadata is
// synthesized; nothing is inherited from any prior entry.
func NewFileEntry(name string, body []byte) Entry {
	return Entry{
		Header: &tar.Header{
			Typeflag: tar.TypeReg,
			Name:     name,
			Size:     int64(len(body)),
			Mode:     defaultFileMode,
			ModTime:  time.Unix(0, 0).UTC(),
		},
		Kind: KindFile,
		Body: body,
	}
}

// Reader lazily decodes entries from a tar stream.
type Reader struct {
	tr *tar.Reader
}

// NewReader wraps r for entry-at-a-time decoding.
func NewReader(r io.Reader) *Reader {
	return &Reader{tr: tar.NewReader(r)}
}

// Next decodes the next entry. It returns io.EOF at the natural end of the
// archive and a ErrDecode-wrapped error when the stream is corrupt; in both
// cases no further entries follow.
func (r *Reader) Next() (Entry, error) {
	hdr, err := r.tr.Next()
	if err == io.EOF {
		return Entry{}, io.EOF
	}
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	e := Entry{Header: hdr, Kind: kindOf(hdr.Typeflag)}
	if e.Kind == KindFile {
		body, err := io.ReadAll(r.tr)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: reading %q: %v", ErrDecode, hdr.Name, err)
		}
		e.Body = body
	}
	return e, nil
}

// Encode serializes entries, in order, into tar wire format including the
// end-of-archive marker.
func Encode(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		if err := tw.WriteHeader(e.Header); err != nil {
			return nil, fmt.Errorf("encoding header for %q: %w", e.Header.Name, err)
		}
		if e.Kind == KindFile {
			if _, err := tw.Write(e.Body); err != nil {
				return nil, fmt.Errorf("encoding body for %q: %w", e.Header.Name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	return buf.Bytes(), nil
}

// USTAR field widths. Paths that cannot be represented within them (even
// via the prefix split) are rejected rather than silently relying on
// extension headers.
const (
	ustarNameSize   = 100
	ustarPrefixSize = 155
)

// NormalizePath validates and canonicalizes an entry path: forward
// slashes, no leading slash, no traversal outside the archive root, and
// USTAR-representable length. Directories get a trailing slash.
func NormalizePath(raw string, isDir bool) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty path", ErrPathEncoding)
	}

	p := strings.ReplaceAll(raw, "\\", "/")
	p = strings.TrimPrefix(p, "/")
	p = path.Clean(p)
	if p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("%w: %q escapes the archive root", ErrPathEncoding, raw)
	}

	if isDir {
		p += "/"
	}
	if !ustarRepresentable(p) {
		return "", fmt.Errorf("%w: %q exceeds USTAR name limits", ErrPathEncoding, raw)
	}
	return p, nil
}

// ustarRepresentable reports whether p fits the USTAR name field, directly
// or through a prefix/name split at a slash.
func ustarRepresentable(p string) bool {
	if len(p) <= ustarNameSize {
		return true
	}
	// Find the rightmost split where prefix <= 155 and name <= 100.
	for i := len(p) - 1; i > 0; i-- {
		if p[i] != '/' {
			continue
		}
		prefix, name := p[:i], p[i+1:]
		if len(prefix) <= ustarPrefixSize && len(name) > 0 && len(name) <= ustarNameSize {
			return true
		}
	}
	return false
}
