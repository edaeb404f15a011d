package pandoctar

import (
	"github.com/Zipheir/pandoc-tar/internal/format"
	"github.com/Zipheir/pandoc-tar/internal/tarball"
	"github.com/Zipheir/pandoc-tar/internal/template"
)

// Conversion and archive error classes. These are the sentinels behind
// every failure the library reports; match them with errors.Is.
var (
	// ErrFormatUnknown: the requested format name is not in the registry.
	ErrFormatUnknown = format.ErrUnknownFormat

	// ErrFormatExtensionUnknown: a +ext/-ext modifier names no extension
	// of the resolved format.
	ErrFormatExtensionUnknown = format.ErrUnknownExtension

	// ErrFormatNotTextReadable / ErrFormatNotTextWritable: the resolved
	// capability cannot read or write character text.
	ErrFormatNotTextReadable = format.ErrNotTextReadable
	ErrFormatNotTextWritable = format.ErrNotTextWritable

	// ErrTemplate: a supplied standalone template failed to compile.
	ErrTemplate = template.ErrCompile

	// ErrParse: the reader rejected the input text.
	ErrParse = format.ErrParse

	// ErrRender: the writer failed while producing output.
	ErrRender = format.ErrRender

	// ErrArchiveDecode: the archive codec could not parse entry headers.
	ErrArchiveDecode = tarball.ErrDecode

	// ErrPathEncoding: an entry path exceeds the container's constraints.
	ErrPathEncoding = tarball.ErrPathEncoding
)
