package conformance

import (
	"cmp"
	"context"
	"runtime"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"w65816/emu/log"
)

// A Suite is a set of fixture files to run.
type Suite struct {
	Dir string

	// Opcodes to run. All 256 when empty.
	Opcodes []uint8

	// Modes to run each opcode in: true for emulation, false for native.
	// Both when empty.
	Modes []bool

	// Skip lists fixture files not to run, by name ("cb.e").
	Skip []string

	Options Options

	// Jobs is the maximum number of files run in parallel, the number of
	// CPUs when 0 or negative.
	Jobs int

	// MaxFail is the maximum number of failed tests kept per file, 0 keeps all.
	MaxFail int

	// When non-nil, Progress is called each time a file is done. Calls are
	// serialized.
	Progress func(done, total int)
}

// FileResult holds the results of a fixture file.
type FileResult struct {
	Name      string
	Opcode    uint8
	Emulation bool
	Total     int
	Passed    int
	Failures  []Result
	Duration  time.Duration
}

func (fr *FileResult) Failed() bool {
	return fr.Passed != fr.Total
}

type job struct {
	op  uint8
	emu bool
}

func (s *Suite) jobs() []job {
	opcodes := s.Opcodes
	if len(opcodes) == 0 {
		for op := range 256 {
			opcodes = append(opcodes, uint8(op))
		}
	}
	modes := s.Modes
	if len(modes) == 0 {
		modes = []bool{true, false}
	}

	var jobs []job
	for _, op := range opcodes {
		for _, emu := range modes {
			if slices.Contains(s.Skip, FileName(op, emu)) {
				log.ModConformance.DebugZ("skipping").String("file", FileName(op, emu)).End()
				continue
			}
			jobs = append(jobs, job{op: op, emu: emu})
		}
	}
	return jobs
}

// Run runs the suite. Files are run concurrently, the tests of a file
// sequentially. Run stops at the first file that can't be read, or when ctx
// is canceled.
func (s *Suite) Run(ctx context.Context) (*Report, error) {
	jobs := s.jobs()
	results := make([]FileResult, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism(s.Jobs))

	var (
		mu   sync.Mutex
		done int
	)

	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fr, err := s.runFile(j)
			if err != nil {
				return err
			}
			results[i] = fr

			if s.Progress != nil {
				mu.Lock()
				done++
				s.Progress(done, len(jobs))
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Report{Files: results}, nil
}

func (s *Suite) runFile(j job) (FileResult, error) {
	fr := FileResult{
		Name:      FileName(j.op, j.emu),
		Opcode:    j.op,
		Emulation: j.emu,
	}

	path, err := FindFile(s.Dir, j.op, j.emu)
	if err != nil {
		return fr, err
	}
	tests, err := ReadFile(path)
	if err != nil {
		return fr, err
	}

	start := time.Now()
	fr.Failures, fr.Passed = RunFile(tests, s.Options, s.MaxFail)
	fr.Total = len(tests)
	fr.Duration = time.Since(start)

	log.ModConformance.DebugZ("file done").
		String("file", fr.Name).
		Int("passed", fr.Passed).
		Int("total", fr.Total).
		Duration("took", fr.Duration).
		End()
	return fr, nil
}

// parallelism returns n, or the number of CPUs if n isn't positive. A
// negative limit would mean no limit at all to errgroup.
func parallelism(n int) int {
	return cmp.Or(max(n, 0), runtime.NumCPU())
}
