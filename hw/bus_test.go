package hw

import (
	"testing"

	"w65816/hw/hwio"
)

func TestBusZeroValue(t *testing.T) {
	var b Bus
	if !b.RDY() {
		t.Error("zero Bus: RDY deasserted")
	}
	if b.RES() || b.IRQ() || b.NMI() {
		t.Error("zero Bus: input asserted")
	}
	if !b.RW() {
		t.Error("zero Bus: not a read")
	}
	if got := b.String(); got != "---r----" {
		t.Errorf("zero Bus String() = %q", got)
	}
}

func TestBusInputs(t *testing.T) {
	var b Bus
	b.SetRDY(false)
	b.SetIRQ(true)
	b.SetNMI(true)
	b.SetRES(true)
	if b.RDY() || !b.IRQ() || !b.NMI() || !b.RES() {
		t.Fatalf("inputs not set: rdy=%t irq=%t nmi=%t res=%t", b.RDY(), b.IRQ(), b.NMI(), b.RES())
	}

	// Driving the outputs leaves the inputs alone.
	cpu := NewCPU(emu())
	cpu.Drive(&b)
	if b.RDY() || !b.IRQ() || !b.NMI() || !b.RES() {
		t.Fatalf("Drive changed inputs: rdy=%t irq=%t nmi=%t res=%t", b.RDY(), b.IRQ(), b.NMI(), b.RES())
	}

	b.SetRDY(true)
	b.SetIRQ(false)
	if !b.RDY() || b.IRQ() {
		t.Fatalf("inputs not cleared: rdy=%t irq=%t", b.RDY(), b.IRQ())
	}
}

func TestBusOpcodeFetch(t *testing.T) {
	r := native()
	r.PBR = 0x12
	r.PC = 0x3456
	cpu := NewCPU(r)

	var b Bus
	cpu.Drive(&b)
	if got := b.Linear(); got != 0x123456 {
		t.Errorf("Linear() = %06X, want 123456", got)
	}
	if got := b.Cycle(); got != CycleOpcodeFetch {
		t.Errorf("Cycle() = %s, want %s", got, CycleOpcodeFetch)
	}
	if got, want := b.String(), "dp-r----"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBusSignalString(t *testing.T) {
	var b Bus
	b.pins = pinVDA | pinVP | pinE | pinM | pinX
	if got, want := b.String(), "d-vremx-"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	b.pins = pinWrite | pinVDA | pinML
	if got, want := b.String(), "d--w---l"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := b.Cycle(); got != CycleDataAccess {
		t.Errorf("Cycle() = %s, want %s", got, CycleDataAccess)
	}
	b.pins = pinVPA
	if got := b.Cycle(); got != CycleProgramFetch {
		t.Errorf("Cycle() = %s, want %s", got, CycleProgramFetch)
	}
	b.pins = 0
	if got := b.Cycle(); got != CycleInternal {
		t.Errorf("Cycle() = %s, want %s", got, CycleInternal)
	}
}

func TestBusService(t *testing.T) {
	mem := hwio.NewMem("test")
	mem.Write8(0x7E1234, 0xAB)

	var b Bus
	b.Bank, b.Addr = 0x7E, 0x1234
	b.Service(mem)
	if b.Data != 0xAB {
		t.Errorf("read: Data = %02X, want AB", b.Data)
	}

	b.pins = pinWrite | pinVDA
	b.Data = 0xCD
	b.Service(mem)
	if got := mem.Read8(0x7E1234); got != 0xCD {
		t.Errorf("write: mem = %02X, want CD", got)
	}
}
