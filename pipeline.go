package pandoctar

import (
	"bytes"
	"io"
	"runtime"
	"sync"

	"github.com/Zipheir/pandoc-tar/internal/tarball"
)

// EntryFailure records why one entry passed through unconverted.
type EntryFailure struct {
	Path string
	Err  error
}

// Report summarizes one pipeline run. It exists purely as an observability
// hook: failures reported here were already absorbed, never propagated.
type Report struct {
	Entries   int // entries decoded from the input archive
	Converted int // entries replaced with converted content
	Passed    int // entries passed through unchanged

	// Failures lists pass-throughs that were attempted but failed
	// conversion. Non-file entries pass through without an attempt and
	// are not listed.
	Failures []EntryFailure

	// DecodeErr is the decode error that ended the entry sequence early,
	// or nil when the archive terminated naturally.
	DecodeErr error
}

// Run decodes a tar archive from input, transcodes each entry under the
// parameter template, and re-encodes the result. Entry order and count are
// preserved; a decode error mid-stream ends the sequence but keeps every
// entry decoded before it. The returned error covers serialization only;
// conversion and decode failures are absorbed into the Report.
func Run(tpl Parameters, input []byte) ([]byte, *Report, error) {
	return RunWorkers(tpl, input, 1)
}

// RunWorkers is Run with entry transcoding fanned out to the given number
// of workers (values < 1 mean one per CPU). Output order always matches
// input order; per-entry work is independent, so parallelism cannot change
// the result.
func RunWorkers(tpl Parameters, input []byte, workers int) ([]byte, *Report, error) {
	report := &Report{}

	entries := decodeAll(input, report)
	results := make([]tarball.Entry, len(entries))
	reasons := make([]error, len(entries))

	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(entries) {
		workers = len(entries)
	}

	if workers <= 1 {
		for i, e := range entries {
			results[i], reasons[i] = transcodeEntry(tpl, e)
		}
	} else {
		indices := make(chan int)
		var wg sync.WaitGroup
		wg.Add(workers)
		for w := 0; w < workers; w++ {
			go func() {
				defer wg.Done()
				for i := range indices {
					results[i], reasons[i] = transcodeEntry(tpl, entries[i])
				}
			}()
		}
		for i := range entries {
			indices <- i
		}
		close(indices)
		wg.Wait()
	}

	for i := range entries {
		switch {
		case reasons[i] != nil:
			report.Passed++
			report.Failures = append(report.Failures, EntryFailure{
				Path: entries[i].Path(),
				Err:  reasons[i],
			})
		case results[i].Kind == tarball.KindFile && entries[i].Kind == tarball.KindFile:
			report.Converted++
		default:
			report.Passed++
		}
	}

	out, err := tarball.Encode(results)
	if err != nil {
		return nil, report, err
	}
	return out, report, nil
}

// decodeAll drains the lazy entry sequence. A decode error ends the
// sequence; entries already produced are kept (best-effort policy, in line
// with per-entry failure absorption).
func decodeAll(input []byte, report *Report) []tarball.Entry {
	var entries []tarball.Entry
	r := tarball.NewReader(bytes.NewReader(input))
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.DecodeErr = err
			break
		}
		entries = append(entries, e)
	}
	report.Entries = len(entries)
	return entries
}
