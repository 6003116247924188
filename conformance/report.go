package conformance

import (
	"fmt"
	"io"
	"os"

	"github.com/go-faster/jx"
)

// A Report gathers the results of a suite run.
type Report struct {
	Files []FileResult
}

// Totals returns the number of tests run and passed, and the number of files
// with at least one failure.
func (r *Report) Totals() (total, passed, failedFiles int) {
	for i := range r.Files {
		f := &r.Files[i]
		total += f.Total
		passed += f.Passed
		if f.Failed() {
			failedFiles++
		}
	}
	return total, passed, failedFiles
}

func (r *Report) Failed() bool {
	_, _, failed := r.Totals()
	return failed != 0
}

// WriteText writes a per-file summary followed by the overall counts. With
// details, the mismatches of each failed test are listed as well.
func (r *Report) WriteText(w io.Writer, details bool) error {
	ew := &errWriter{w: w}
	for i := range r.Files {
		f := &r.Files[i]
		status := "ok  "
		if f.Failed() {
			status = "FAIL"
		}
		ew.printf("%s %s %6d/%-6d %v\n", status, f.Name, f.Passed, f.Total, f.Duration.Round(1e6))
		if !details {
			continue
		}
		for _, res := range f.Failures {
			ew.printf("    test %q\n", res.Name)
			if res.Panic != nil {
				ew.printf("        panic: %v\n", res.Panic)
			}
			for _, m := range res.Mismatches {
				ew.printf("        %s\n", m)
			}
		}
	}

	total, passed, failed := r.Totals()
	ew.printf("\n%d/%d tests passed, %d/%d files with failures\n", passed, total, failed, len(r.Files))
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// Encode encodes the report as JSON.
func (r *Report) Encode(e *jx.Encoder) {
	total, passed, failed := r.Totals()
	e.Obj(func(e *jx.Encoder) {
		e.Field("total", func(e *jx.Encoder) { e.Int(total) })
		e.Field("passed", func(e *jx.Encoder) { e.Int(passed) })
		e.Field("failed_files", func(e *jx.Encoder) { e.Int(failed) })
		e.Field("files", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range r.Files {
					r.Files[i].encode(e)
				}
			})
		})
	})
}

func (f *FileResult) encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("name", func(e *jx.Encoder) { e.Str(f.Name) })
		e.Field("opcode", func(e *jx.Encoder) { e.Int(int(f.Opcode)) })
		e.Field("emulation", func(e *jx.Encoder) { e.Bool(f.Emulation) })
		e.Field("total", func(e *jx.Encoder) { e.Int(f.Total) })
		e.Field("passed", func(e *jx.Encoder) { e.Int(f.Passed) })
		e.Field("duration_ms", func(e *jx.Encoder) { e.Int64(f.Duration.Milliseconds()) })
		if len(f.Failures) == 0 {
			return
		}
		e.Field("failures", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range f.Failures {
					f.Failures[i].encode(e)
				}
			})
		})
	})
}

func (r *Result) encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("name", func(e *jx.Encoder) { e.Str(r.Name) })
		if r.Panic != nil {
			e.Field("panic", func(e *jx.Encoder) { e.Str(fmt.Sprint(r.Panic)) })
		}
		e.Field("mismatches", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, m := range r.Mismatches {
					e.Obj(func(e *jx.Encoder) {
						e.Field("cycle", func(e *jx.Encoder) { e.Int(m.Cycle) })
						e.Field("field", func(e *jx.Encoder) { e.Str(m.Field) })
						e.Field("want", func(e *jx.Encoder) { e.Str(m.Want) })
						e.Field("got", func(e *jx.Encoder) { e.Str(m.Got) })
					})
				}
			})
		})
	})
}

// WriteJSON writes the JSON report to a file.
func (r *Report) WriteJSON(path string) error {
	var e jx.Encoder
	e.SetIdent(2)
	r.Encode(&e)
	if err := os.WriteFile(path, e.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write JSON report: %w", err)
	}
	return nil
}
