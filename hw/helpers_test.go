package hw

import (
	"bufio"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"w65816/hw/hwio"
)

func hasPanicked(f func()) (yes bool, msg any) {
	defer func() {
		msg = recover()
		if msg != nil {
			yes = true
		}
	}()
	f()
	return yes, msg
}

type dumpline struct {
	off   uint32
	bytes []byte
}

// loadDump parses a memory dump made of lines like '7E8000: a9 34 12'.
func loadDump(tb testing.TB, dump string) []dumpline {
	tb.Helper()

	var lines []dumpline
	scan := bufio.NewScanner(strings.NewReader(dump))
	for scan.Scan() {
		line := scan.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		off, octets, ok := strings.Cut(line, ":")
		if !ok {
			tb.Fatalf("malformed line: %s", line)
		}

		ioff, err := strconv.ParseUint(strings.TrimSpace(off), 16, 24)
		if err != nil {
			tb.Fatalf("malformed offset %s: %s", off, err)
		}
		var buf []byte
		for _, c := range octets {
			if c != ' ' && c != '\t' {
				buf = append(buf, byte(c))
			}
		}
		n, err := hex.Decode(buf, buf)
		if err != nil {
			tb.Fatalf("hex decode: %s", err)
		}
		lines = append(lines, dumpline{off: uint32(ioff), bytes: buf[:n]})
	}
	if scan.Err() != nil {
		tb.Fatalf("scan error: %s", scan.Err())
	}

	return lines
}

// busCycle is what the bus showed during a completed cycle.
type busCycle struct {
	Addr uint32
	Data uint8
	Sig  string
}

// testSystem is a CPU wired to 16MB of memory.
type testSystem struct {
	tb  testing.TB
	cpu *CPU
	mem *hwio.Mem
	bus Bus
}

type tbwriter struct{ tb testing.TB }

func (w tbwriter) Write(p []byte) (int, error) {
	w.tb.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// loadCPUWith creates a CPU in the state r, with memory loaded with a dump.
func loadCPUWith(tb testing.TB, r Core, dump string) *testSystem {
	tb.Helper()

	mem := hwio.NewMem("test")
	for _, line := range loadDump(tb, dump) {
		mem.Load(line.off, line.bytes)
	}

	s := &testSystem{tb: tb, cpu: NewCPU(r), mem: mem}
	if testing.Verbose() {
		s.cpu.SetTraceOutput(tbwriter{tb})
	}
	s.cpu.Drive(&s.bus)
	return s
}

// step services the bus and completes one cycle.
func (s *testSystem) step() busCycle {
	s.bus.Service(s.mem)
	bc := busCycle{Addr: s.bus.Linear(), Data: s.bus.Data, Sig: s.bus.String()}
	s.cpu.Cycle(&s.bus)
	return bc
}

// run runs n cycles.
func (s *testSystem) run(n int) []busCycle {
	var cycles []busCycle
	for range n {
		cycles = append(cycles, s.step())
	}
	return cycles
}

// runInstr runs cycles until the next boundary.
func (s *testSystem) runInstr() []busCycle {
	s.tb.Helper()

	var cycles []busCycle
	for {
		cycles = append(cycles, s.step())
		if s.cpu.AtBoundary() {
			return cycles
		}
		if len(cycles) > 64 {
			s.tb.Fatalf("no boundary after %d cycles:\n%s", len(cycles), spew.Sdump(s.cpu.Core()))
		}
	}
}

func (s *testSystem) wantMem8(addr uint32, want uint8) {
	s.tb.Helper()

	if got := s.mem.Read8(addr); got != want {
		s.tb.Errorf("$%06X = %02X want %02X", addr, got, want)
	}
}

func (s *testSystem) wantCore(want Core) {
	s.tb.Helper()

	if got := s.cpu.Core(); got != want {
		s.tb.Errorf("core mismatch\ngot:  %s\nwant: %s", got, want)
	}
}

// emu returns the state of a CPU in emulation mode, just after a reset,
// running at 00:8000.
func emu() Core {
	return Core{E: true, P: MemWidth | IndexWidth | IntDisable, S: 0x01FF, PC: 0x8000}
}

// native returns the state of a CPU in native mode with 16-bit registers,
// running at 00:8000.
func native() Core {
	return Core{P: IntDisable, S: 0x01FF, PC: 0x8000}
}
