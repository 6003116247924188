package hw

// P is the processor status register.
//
// Bits 4 and 5 are the index and accumulator width flags in native mode. In
// emulation mode they read as the 6502 break flag and the always-set bit; the
// CPU keeps both set while E is set, so the stored byte always tells the
// effective register widths.
type P uint8

const (
	Carry P = 1 << iota
	Zero
	IntDisable
	Decimal
	IndexWidth // X: 8-bit index registers (B in emulation mode)
	MemWidth   // M: 8-bit accumulator and memory (always 1 in emulation mode)
	Overflow
	Negative

	Break = IndexWidth
)

func (p P) C() bool { return p&Carry != 0 }
func (p P) Z() bool { return p&Zero != 0 }
func (p P) I() bool { return p&IntDisable != 0 }
func (p P) D() bool { return p&Decimal != 0 }
func (p P) X() bool { return p&IndexWidth != 0 }
func (p P) M() bool { return p&MemWidth != 0 }
func (p P) V() bool { return p&Overflow != 0 }
func (p P) N() bool { return p&Negative != 0 }

func (p P) with(flag P, v bool) P {
	if v {
		return p | flag
	}
	return p &^ flag
}

func (p P) SetC(v bool) P { return p.with(Carry, v) }
func (p P) SetZ(v bool) P { return p.with(Zero, v) }
func (p P) SetI(v bool) P { return p.with(IntDisable, v) }
func (p P) SetD(v bool) P { return p.with(Decimal, v) }
func (p P) SetX(v bool) P { return p.with(IndexWidth, v) }
func (p P) SetM(v bool) P { return p.with(MemWidth, v) }
func (p P) SetV(v bool) P { return p.with(Overflow, v) }
func (p P) SetN(v bool) P { return p.with(Negative, v) }

func (p *P) setC(v bool) { *p = p.with(Carry, v) }
func (p *P) setZ(v bool) { *p = p.with(Zero, v) }
func (p *P) setI(v bool) { *p = p.with(IntDisable, v) }
func (p *P) setD(v bool) { *p = p.with(Decimal, v) }
func (p *P) setV(v bool) { *p = p.with(Overflow, v) }
func (p *P) setN(v bool) { *p = p.with(Negative, v) }

func (p *P) checkNZ8(v uint8) {
	p.setN(v&0x80 != 0)
	p.setZ(v == 0)
}

func (p *P) checkNZ16(v uint16) {
	p.setN(v&0x8000 != 0)
	p.setZ(v == 0)
}

// String shows native mode flags, upper case when set.
func (p P) String() string {
	const bits = "nvmxdizcNVMXDIZC"

	s := make([]byte, 8)
	for i := 0; i < 8; i++ {
		ibit := (uint8(p) & (1 << (7 - i))) >> (7 - i)
		s[i] = bits[i+int(8*ibit)]
	}
	return string(s)
}
