package pandoctar

import (
	"fmt"
	"unicode/utf8"

	"github.com/Zipheir/pandoc-tar/internal/tarball"
)

// Transcode converts one archive entry under the parameter template.
// It is total: any conversion failure yields the original entry unchanged,
// so one unconvertible file cannot abort archive processing.
//
// A successful conversion produces a fresh file entry (new content, new
// size, synthesized metadata) rather than a patch of the original.
func Transcode(tpl Parameters, e tarball.Entry) tarball.Entry {
	out, _ := transcodeEntry(tpl, e)
	return out
}

// transcodeEntry is Transcode plus the reason an entry passed through,
// feeding the pipeline's report. The returned entry is always usable.
func transcodeEntry(tpl Parameters, e tarball.Entry) (tarball.Entry, error) {
	if e.Kind != tarball.KindFile {
		return e, nil
	}

	if !utf8.Valid(e.Body) {
		return e, fmt.Errorf("%w: %q content is not valid UTF-8", ErrParse, e.Path())
	}

	// Renormalize the output path; on failure keep the stored path
	// rather than failing the entry over a path issue.
	name := e.Path()
	if normalized, err := tarball.NormalizePath(name, false); err == nil {
		name = normalized
	}

	text, err := Convert(tpl.WithText(string(e.Body)))
	if err != nil {
		return e, err
	}
	return tarball.NewFileEntry(name, []byte(text)), nil
}
