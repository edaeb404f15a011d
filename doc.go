// Package pandoctar converts text documents inside tar archives.
//
// The library reads a tar stream, converts every regular-file entry from
// one document format to another (markdown to the JSON interchange form by
// default), and re-emits a valid tar stream. Entries that cannot be
// converted (non-files, binary content, documents the parser rejects)
// pass through byte-for-byte; a single bad entry never aborts a run.
//
// Conversion itself is pure: Convert performs no I/O of any kind, so
// untrusted archive content cannot cause effects merely by being read.
//
// Typical use:
//
//	params := pandoctar.Parameters{FromFormat: "markdown", ToFormat: "json"}
//	out, report, err := pandoctar.Run(params, archiveBytes)
package pandoctar
