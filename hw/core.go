package hw

import "fmt"

// Core is the architectural state of the 65816. It's a plain comparable value:
// two cores are equal when all their registers are.
type Core struct {
	A   uint16 // accumulator (B:A in 8-bit mode)
	D   uint16 // direct page
	DBR uint8  // data bank
	E   bool   // emulation mode
	P   P
	PBR uint8 // program bank
	PC  uint16
	S   uint16
	X   uint16
	Y   uint16
}

// m8 reports an 8-bit accumulator and memory width.
func (r *Core) m8() bool { return r.E || r.P.M() }

// x8 reports 8-bit index registers.
func (r *Core) x8() bool { return r.E || r.P.X() }

// Normalize brings r into a state the processor can be in: emulation mode
// forces 8-bit registers and a page 1 stack, 8-bit index registers have their
// high byte cleared.
func (r *Core) Normalize() {
	if r.E {
		r.P |= MemWidth | IndexWidth
		r.S = 0x0100 | r.S&0xFF
	}
	if r.P.X() {
		r.X &= 0xFF
		r.Y &= 0xFF
	}
}

// Flags renders P the way it's meaningful in the current mode.
func (r Core) Flags() string {
	if !r.E {
		return r.P.String()
	}
	const bits = "nv1bdizcNV1BDIZC"

	s := make([]byte, 8)
	for i := 0; i < 8; i++ {
		ibit := (uint8(r.P) & (1 << (7 - i))) >> (7 - i)
		s[i] = bits[i+int(8*ibit)]
	}
	return string(s)
}

func (r Core) String() string {
	e := 0
	if r.E {
		e = 1
	}
	return fmt.Sprintf("A:%04X X:%04X Y:%04X S:%04X D:%04X DB:%02X PB:%02X PC:%04X P:%02X(%s) E:%d",
		r.A, r.X, r.Y, r.S, r.D, r.DBR, r.PBR, r.PC, uint8(r.P), r.Flags(), e)
}
