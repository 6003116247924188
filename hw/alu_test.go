package hw

import (
	"fmt"
	"testing"
)

func TestAddCarry(t *testing.T) {
	m8 := native().withP(MemWidth)
	m16 := native()

	tests := []struct {
		name  string
		r     Core
		a     uint16
		data  uint16
		sub   bool
		p     P // carry and decimal flags in
		wantA uint16
		wantP P // C, Z, V, N out
	}{
		{"bin 8", m8, 0x12, 0x34, false, 0, 0x46, 0},
		{"bin 8 carry in", m8, 0x12, 0x34, false, Carry, 0x47, 0},
		{"bin 8 overflow", m8, 0x50, 0x50, false, 0, 0xA0, Overflow | Negative},
		{"bin 8 carry out", m8, 0xFF, 0x01, false, 0, 0x00, Carry | Zero},
		{"bin 8 sub", m8, 0x50, 0x30, true, Carry, 0x20, Carry},
		{"bin 8 sub borrow", m8, 0x00, 0x01, true, Carry, 0xFF, Negative},
		{"bin 8 sub overflow", m8, 0x80, 0x01, true, Carry, 0x7F, Carry | Overflow},
		{"bin 16 overflow", m16, 0x7FFF, 0x0001, false, 0, 0x8000, Overflow | Negative},
		{"bin 16 sub borrow", m16, 0x0000, 0x0001, true, Carry, 0xFFFF, Negative},
		{"bin 16 carry out", m16, 0xFFFF, 0x0001, false, 0, 0x0000, Carry | Zero},
		{"bcd 8", m8, 0x15, 0x27, false, Decimal, 0x42, 0},
		{"bcd 8 carry out", m8, 0x99, 0x01, false, Decimal, 0x00, Carry | Zero},
		{"bcd 8 sub", m8, 0x42, 0x15, true, Decimal | Carry, 0x27, Carry},
		{"bcd 8 sub borrow", m8, 0x00, 0x01, true, Decimal | Carry, 0x99, Negative},
		{"bcd 16", m16, 0x1234, 0x4321, false, Decimal, 0x5555, 0},
		{"bcd 16 carry out", m16, 0x9999, 0x0001, false, Decimal, 0x0000, Carry | Zero},
		{"bcd 16 sub", m16, 0x1000, 0x0001, true, Decimal | Carry, 0x0999, Carry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.r
			r.A = tt.a
			r.P |= tt.p
			c := NewCPU(r)
			c.addCarry(tt.data, tt.sub)

			if got := c.accu(); got != tt.wantA {
				t.Errorf("A = %04X, want %04X", got, tt.wantA)
			}
			const outFlags = Carry | Zero | Overflow | Negative
			if got := c.P & outFlags; got != tt.wantP {
				t.Errorf("P = %s, want %s", got, tt.wantP)
			}
		})
	}
}

func TestAddCarryKeepsB(t *testing.T) {
	r := native().withP(MemWidth)
	r.A = 0xAB10
	c := NewCPU(r)
	c.addCarry(0x05, false)
	if c.A != 0xAB15 {
		t.Errorf("A = %04X, want AB15", c.A)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		reg, data uint16
		wide      bool
		want      P
	}{
		{0x10, 0x10, false, Carry | Zero},
		{0x10, 0x20, false, Negative},
		{0x20, 0x10, false, Carry},
		{0xFF10, 0x10, false, Carry | Zero},
		{0x8000, 0x0001, true, Carry},
		{0x0001, 0x8000, true, Negative},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%04X-%04X", tt.reg, tt.data), func(t *testing.T) {
			c := NewCPU(native())
			c.compare(tt.reg, tt.data, tt.wide)
			if got := c.P & (Carry | Zero | Negative); got != tt.want {
				t.Errorf("P = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestShifts(t *testing.T) {
	type shift func(*CPU, uint16) uint16

	tests := []struct {
		name  string
		op    shift
		r     Core
		v     uint16
		want  uint16
		wantC bool
	}{
		{"asl 8", (*CPU).asl, emu(), 0x81, 0x02, true},
		{"asl 16", (*CPU).asl, native(), 0x4081, 0x8102, false},
		{"lsr 8", (*CPU).lsr, emu(), 0x81, 0x40, true},
		{"rol 8 carry in", (*CPU).rol, emu().withP(Carry), 0x80, 0x01, true},
		{"ror 8 carry in", (*CPU).ror, emu().withP(Carry), 0x01, 0x80, true},
		{"ror 16 carry in", (*CPU).ror, native().withP(Carry), 0x0002, 0x8001, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCPU(tt.r)
			got := tt.op(c, tt.v)
			if got != tt.want {
				t.Errorf("got %04X, want %04X", got, tt.want)
			}
			if c.P.C() != tt.wantC {
				t.Errorf("C = %t, want %t", c.P.C(), tt.wantC)
			}
		})
	}
}

func TestIncDec(t *testing.T) {
	c := NewCPU(emu().withP(Carry))
	if got := c.inc(0xFF); got != 0 || !c.P.Z() || !c.P.C() {
		t.Errorf("inc 8: got %02X, P = %s", got, c.P)
	}
	c = NewCPU(native())
	if got := c.dec(0); got != 0xFFFF || !c.P.N() {
		t.Errorf("dec 16: got %04X, P = %s", got, c.P)
	}
}

func TestBIT(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		s := loadCPUWith(t, emu().withA(0x01), `
			008000: 24 10
			000010: c0`)
		s.runInstr()
		p := s.cpu.Core().P
		if !p.N() || !p.V() || !p.Z() {
			t.Errorf("P = %s, want N V Z set", p)
		}
	})
	t.Run("immediate", func(t *testing.T) {
		s := loadCPUWith(t, emu().withA(0x01), `008000: 89 c1`)
		s.runInstr()
		p := s.cpu.Core().P
		if p.N() || p.V() || p.Z() {
			t.Errorf("P = %s, want N V Z clear", p)
		}
	})
}
