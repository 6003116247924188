package conformance

import (
	"fmt"
	"io"
	"sync"

	"w65816/emu/log"
	"w65816/hw"
	"w65816/hw/hwio"
)

// Options controls how tests are run and checked.
type Options struct {
	// Strict also checks VP, E, M, X and ML on each cycle. By default only
	// address, data, VDA, VPA and R/W are.
	Strict bool

	// When non-nil, the execution trace is written to Trace.
	Trace io.Writer
}

// FinalState is the Mismatch.Cycle value of mismatches of the final state.
const FinalState = -1

// A Mismatch is a difference between the expected and actual bus activity or
// final state.
type Mismatch struct {
	Cycle int // FinalState, or cycle index
	Field string
	Want  string
	Got   string
}

func (m Mismatch) String() string {
	where := "final"
	if m.Cycle != FinalState {
		where = fmt.Sprintf("cycle %d", m.Cycle)
	}
	return fmt.Sprintf("%s: %s: want %s, got %s", where, m.Field, m.Want, m.Got)
}

// Result is the outcome of a test.
type Result struct {
	Name       string
	Mismatches []Mismatch

	// Panic holds the recovered value when the core panicked, usually an
	// hw.InvalidCPUState.
	Panic any
}

func (r *Result) Failed() bool {
	return r.Panic != nil || len(r.Mismatches) != 0
}

func (r *Result) mismatch(cycle int, field, want, got string) {
	r.Mismatches = append(r.Mismatches, Mismatch{Cycle: cycle, Field: field, Want: want, Got: got})
}

func (r *Result) check8(cycle int, field string, want, got uint8) {
	if want != got {
		r.mismatch(cycle, field, fmt.Sprintf("%02X", want), fmt.Sprintf("%02X", got))
	}
}

func (r *Result) check16(cycle int, field string, want, got uint16) {
	if want != got {
		r.mismatch(cycle, field, fmt.Sprintf("%04X", want), fmt.Sprintf("%04X", got))
	}
}

func (r *Result) checkBool(cycle int, field string, want, got bool) {
	if want != got {
		r.mismatch(cycle, field, fmt.Sprint(want), fmt.Sprint(got))
	}
}

// Memories are big, they are recycled between tests.
var memPool = sync.Pool{
	New: func() any {
		return hwio.NewMem("ram")
	},
}

// Run runs a test on a new CPU.
func Run(t *Test, opts Options) (res Result) {
	res.Name = t.Name

	mem := memPool.Get().(*hwio.Mem)
	defer func() {
		mem.Reset()
		memPool.Put(mem)
	}()

	defer func() {
		if v := recover(); v != nil {
			res.Panic = v
			log.ModConformance.DebugZ("core panicked").
				String("test", t.Name).
				String("panic", fmt.Sprint(v)).
				End()
		}
	}()

	for _, b := range t.Initial.RAM {
		mem.Write8(b.Addr, b.Val)
	}

	cpu := hw.NewCPU(t.Initial.Core)
	if opts.Trace != nil {
		cpu.SetTraceOutput(opts.Trace)
		log.AddContext(cpu)
		defer log.RemoveContext(cpu)
	}

	var bus hw.Bus
	cpu.Drive(&bus)
	for i := range t.Cycles {
		bus.Service(mem)
		res.compareCycle(i, &t.Cycles[i], &bus, opts.Strict)
		cpu.Cycle(&bus)
	}

	res.compareCore(&t.Final.Core, cpu.Core())
	for _, b := range t.Final.RAM {
		res.check8(FinalState, fmt.Sprintf("ram[%06X]", b.Addr), b.Val, mem.Read8(b.Addr))
	}
	return res
}

func (r *Result) compareCycle(i int, want *Cycle, bus *hw.Bus, strict bool) {
	if want.HasAddr && want.Addr != bus.Linear() {
		r.mismatch(i, "addr", fmt.Sprintf("%06X", want.Addr), fmt.Sprintf("%06X", bus.Linear()))
	}
	if want.HasData {
		r.check8(i, "data", want.Data, bus.Data)
	}

	got := SignalsOf(bus)
	r.checkBool(i, "VDA", want.Signals.VDA, got.VDA)
	r.checkBool(i, "VPA", want.Signals.VPA, got.VPA)
	r.checkBool(i, "RW", want.Signals.Read, got.Read)
	if !strict {
		return
	}
	r.checkBool(i, "VP", want.Signals.VP, got.VP)
	r.checkBool(i, "E", want.Signals.E, got.E)
	r.checkBool(i, "M", want.Signals.M, got.M)
	r.checkBool(i, "X", want.Signals.X, got.X)
	r.checkBool(i, "ML", want.Signals.ML, got.ML)
}

func (r *Result) compareCore(want *hw.Core, got hw.Core) {
	const c = FinalState
	r.check16(c, "A", want.A, got.A)
	r.check16(c, "X", want.X, got.X)
	r.check16(c, "Y", want.Y, got.Y)
	r.check16(c, "S", want.S, got.S)
	r.check16(c, "D", want.D, got.D)
	r.check8(c, "DBR", want.DBR, got.DBR)
	r.check8(c, "PBR", want.PBR, got.PBR)
	r.check16(c, "PC", want.PC, got.PC)
	if want.P != got.P {
		r.mismatch(c, "P", fmt.Sprintf("%02X(%s)", uint8(want.P), want.P), fmt.Sprintf("%02X(%s)", uint8(got.P), got.P))
	}
	r.checkBool(c, "E", want.E, got.E)
}

// RunFile runs all the tests of a fixture file and returns the results of
// those that failed, at most maxFail of them (0 means no limit), and the number
// of tests that passed.
func RunFile(tests []Test, opts Options, maxFail int) (failed []Result, passed int) {
	for i := range tests {
		res := Run(&tests[i], opts)
		if !res.Failed() {
			passed++
			continue
		}
		if maxFail == 0 || len(failed) < maxFail {
			failed = append(failed, res)
		}
	}
	return failed, passed
}
