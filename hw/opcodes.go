package hw

import "fmt"

// width tells which flag gives the size of an operand.
type width uint8

const (
	byM width = iota // accumulator and memory
	byX              // index registers
)

// opdef defines an instruction. Instructions operating on memory or on an
// immediate value only define the operation, r, st or rw, and let the mode
// drive the cycles. The others, f, do everything after the opcode fetch.
type opdef struct {
	n  string   // mnemonic
	m  addrMode // operand
	w  width
	r  func(*CPU, uint16)        // read: consumes the operand
	st func(*CPU) uint16         // write: value to store
	rw func(*CPU, uint16) uint16 // read-modify-write: modified value
	f  func(*CPU)
}

var opcodes = [256]opdef{
	0x00: {n: "BRK", m: modeImmediate8, f: brk},
	0x01: {n: "ORA", m: modeDirectXIndirect, r: ora},
	0x02: {n: "COP", m: modeImmediate8, f: cop},
	0x03: {n: "ORA", m: modeStackRelative, r: ora},
	0x04: {n: "TSB", m: modeDirect, rw: (*CPU).tsb},
	0x05: {n: "ORA", m: modeDirect, r: ora},
	0x06: {n: "ASL", m: modeDirect, rw: (*CPU).asl},
	0x07: {n: "ORA", m: modeDirectIndirectLong, r: ora},
	0x08: {n: "PHP", m: modeImplied, f: php},
	0x09: {n: "ORA", m: modeImmediate, r: ora},
	0x0A: {n: "ASL", m: modeAccumulator, f: onA((*CPU).asl)},
	0x0B: {n: "PHD", m: modeImplied, f: phd},
	0x0C: {n: "TSB", m: modeAbsolute, rw: (*CPU).tsb},
	0x0D: {n: "ORA", m: modeAbsolute, r: ora},
	0x0E: {n: "ASL", m: modeAbsolute, rw: (*CPU).asl},
	0x0F: {n: "ORA", m: modeLong, r: ora},
	0x10: {n: "BPL", m: modeRelative, f: branchIf(Negative, false)},
	0x11: {n: "ORA", m: modeDirectIndirectY, r: ora},
	0x12: {n: "ORA", m: modeDirectIndirect, r: ora},
	0x13: {n: "ORA", m: modeStackRelativeIndirectY, r: ora},
	0x14: {n: "TRB", m: modeDirect, rw: (*CPU).trb},
	0x15: {n: "ORA", m: modeDirectX, r: ora},
	0x16: {n: "ASL", m: modeDirectX, rw: (*CPU).asl},
	0x17: {n: "ORA", m: modeDirectIndirectLongY, r: ora},
	0x18: {n: "CLC", m: modeImplied, f: clc},
	0x19: {n: "ORA", m: modeAbsoluteY, r: ora},
	0x1A: {n: "INC", m: modeAccumulator, f: onA((*CPU).inc)},
	0x1B: {n: "TCS", m: modeImplied, f: tcs},
	0x1C: {n: "TRB", m: modeAbsolute, rw: (*CPU).trb},
	0x1D: {n: "ORA", m: modeAbsoluteX, r: ora},
	0x1E: {n: "ASL", m: modeAbsoluteX, rw: (*CPU).asl},
	0x1F: {n: "ORA", m: modeLongX, r: ora},
	0x20: {n: "JSR", m: modeAbsolute, f: jsr},
	0x21: {n: "AND", m: modeDirectXIndirect, r: and},
	0x22: {n: "JSL", m: modeLong, f: jsl},
	0x23: {n: "AND", m: modeStackRelative, r: and},
	0x24: {n: "BIT", m: modeDirect, r: bit},
	0x25: {n: "AND", m: modeDirect, r: and},
	0x26: {n: "ROL", m: modeDirect, rw: (*CPU).rol},
	0x27: {n: "AND", m: modeDirectIndirectLong, r: and},
	0x28: {n: "PLP", m: modeImplied, f: plp},
	0x29: {n: "AND", m: modeImmediate, r: and},
	0x2A: {n: "ROL", m: modeAccumulator, f: onA((*CPU).rol)},
	0x2B: {n: "PLD", m: modeImplied, f: pld},
	0x2C: {n: "BIT", m: modeAbsolute, r: bit},
	0x2D: {n: "AND", m: modeAbsolute, r: and},
	0x2E: {n: "ROL", m: modeAbsolute, rw: (*CPU).rol},
	0x2F: {n: "AND", m: modeLong, r: and},
	0x30: {n: "BMI", m: modeRelative, f: branchIf(Negative, true)},
	0x31: {n: "AND", m: modeDirectIndirectY, r: and},
	0x32: {n: "AND", m: modeDirectIndirect, r: and},
	0x33: {n: "AND", m: modeStackRelativeIndirectY, r: and},
	0x34: {n: "BIT", m: modeDirectX, r: bit},
	0x35: {n: "AND", m: modeDirectX, r: and},
	0x36: {n: "ROL", m: modeDirectX, rw: (*CPU).rol},
	0x37: {n: "AND", m: modeDirectIndirectLongY, r: and},
	0x38: {n: "SEC", m: modeImplied, f: sec},
	0x39: {n: "AND", m: modeAbsoluteY, r: and},
	0x3A: {n: "DEC", m: modeAccumulator, f: onA((*CPU).dec)},
	0x3B: {n: "TSC", m: modeImplied, f: tsc},
	0x3C: {n: "BIT", m: modeAbsoluteX, r: bit},
	0x3D: {n: "AND", m: modeAbsoluteX, r: and},
	0x3E: {n: "ROL", m: modeAbsoluteX, rw: (*CPU).rol},
	0x3F: {n: "AND", m: modeLongX, r: and},
	0x40: {n: "RTI", m: modeImplied, f: rti},
	0x41: {n: "EOR", m: modeDirectXIndirect, r: eor},
	0x42: {n: "WDM", m: modeImmediate8, f: wdm},
	0x43: {n: "EOR", m: modeStackRelative, r: eor},
	0x44: {n: "MVP", m: modeBlockMove, f: mvp},
	0x45: {n: "EOR", m: modeDirect, r: eor},
	0x46: {n: "LSR", m: modeDirect, rw: (*CPU).lsr},
	0x47: {n: "EOR", m: modeDirectIndirectLong, r: eor},
	0x48: {n: "PHA", m: modeImplied, f: pha},
	0x49: {n: "EOR", m: modeImmediate, r: eor},
	0x4A: {n: "LSR", m: modeAccumulator, f: onA((*CPU).lsr)},
	0x4B: {n: "PHK", m: modeImplied, f: phk},
	0x4C: {n: "JMP", m: modeAbsolute, f: jmp},
	0x4D: {n: "EOR", m: modeAbsolute, r: eor},
	0x4E: {n: "LSR", m: modeAbsolute, rw: (*CPU).lsr},
	0x4F: {n: "EOR", m: modeLong, r: eor},
	0x50: {n: "BVC", m: modeRelative, f: branchIf(Overflow, false)},
	0x51: {n: "EOR", m: modeDirectIndirectY, r: eor},
	0x52: {n: "EOR", m: modeDirectIndirect, r: eor},
	0x53: {n: "EOR", m: modeStackRelativeIndirectY, r: eor},
	0x54: {n: "MVN", m: modeBlockMove, f: mvn},
	0x55: {n: "EOR", m: modeDirectX, r: eor},
	0x56: {n: "LSR", m: modeDirectX, rw: (*CPU).lsr},
	0x57: {n: "EOR", m: modeDirectIndirectLongY, r: eor},
	0x58: {n: "CLI", m: modeImplied, f: cli},
	0x59: {n: "EOR", m: modeAbsoluteY, r: eor},
	0x5A: {n: "PHY", m: modeImplied, f: phy},
	0x5B: {n: "TCD", m: modeImplied, f: tcd},
	0x5C: {n: "JML", m: modeLong, f: jml},
	0x5D: {n: "EOR", m: modeAbsoluteX, r: eor},
	0x5E: {n: "LSR", m: modeAbsoluteX, rw: (*CPU).lsr},
	0x5F: {n: "EOR", m: modeLongX, r: eor},
	0x60: {n: "RTS", m: modeImplied, f: rts},
	0x61: {n: "ADC", m: modeDirectXIndirect, r: adc},
	0x62: {n: "PER", m: modeRelativeLong, f: per},
	0x63: {n: "ADC", m: modeStackRelative, r: adc},
	0x64: {n: "STZ", m: modeDirect, st: stz},
	0x65: {n: "ADC", m: modeDirect, r: adc},
	0x66: {n: "ROR", m: modeDirect, rw: (*CPU).ror},
	0x67: {n: "ADC", m: modeDirectIndirectLong, r: adc},
	0x68: {n: "PLA", m: modeImplied, f: pla},
	0x69: {n: "ADC", m: modeImmediate, r: adc},
	0x6A: {n: "ROR", m: modeAccumulator, f: onA((*CPU).ror)},
	0x6B: {n: "RTL", m: modeImplied, f: rtl},
	0x6C: {n: "JMP", m: modeAbsoluteIndirect, f: jmpIndirect},
	0x6D: {n: "ADC", m: modeAbsolute, r: adc},
	0x6E: {n: "ROR", m: modeAbsolute, rw: (*CPU).ror},
	0x6F: {n: "ADC", m: modeLong, r: adc},
	0x70: {n: "BVS", m: modeRelative, f: branchIf(Overflow, true)},
	0x71: {n: "ADC", m: modeDirectIndirectY, r: adc},
	0x72: {n: "ADC", m: modeDirectIndirect, r: adc},
	0x73: {n: "ADC", m: modeStackRelativeIndirectY, r: adc},
	0x74: {n: "STZ", m: modeDirectX, st: stz},
	0x75: {n: "ADC", m: modeDirectX, r: adc},
	0x76: {n: "ROR", m: modeDirectX, rw: (*CPU).ror},
	0x77: {n: "ADC", m: modeDirectIndirectLongY, r: adc},
	0x78: {n: "SEI", m: modeImplied, f: sei},
	0x79: {n: "ADC", m: modeAbsoluteY, r: adc},
	0x7A: {n: "PLY", m: modeImplied, f: ply},
	0x7B: {n: "TDC", m: modeImplied, f: tdc},
	0x7C: {n: "JMP", m: modeAbsoluteXIndirect, f: jmpIndirectX},
	0x7D: {n: "ADC", m: modeAbsoluteX, r: adc},
	0x7E: {n: "ROR", m: modeAbsoluteX, rw: (*CPU).ror},
	0x7F: {n: "ADC", m: modeLongX, r: adc},
	0x80: {n: "BRA", m: modeRelative, f: bra},
	0x81: {n: "STA", m: modeDirectXIndirect, st: sta},
	0x82: {n: "BRL", m: modeRelativeLong, f: brl},
	0x83: {n: "STA", m: modeStackRelative, st: sta},
	0x84: {n: "STY", m: modeDirect, w: byX, st: sty},
	0x85: {n: "STA", m: modeDirect, st: sta},
	0x86: {n: "STX", m: modeDirect, w: byX, st: stx},
	0x87: {n: "STA", m: modeDirectIndirectLong, st: sta},
	0x88: {n: "DEY", m: modeImplied, f: dey},
	0x89: {n: "BIT", m: modeImmediate, r: bitImm},
	0x8A: {n: "TXA", m: modeImplied, f: txa},
	0x8B: {n: "PHB", m: modeImplied, f: phb},
	0x8C: {n: "STY", m: modeAbsolute, w: byX, st: sty},
	0x8D: {n: "STA", m: modeAbsolute, st: sta},
	0x8E: {n: "STX", m: modeAbsolute, w: byX, st: stx},
	0x8F: {n: "STA", m: modeLong, st: sta},
	0x90: {n: "BCC", m: modeRelative, f: branchIf(Carry, false)},
	0x91: {n: "STA", m: modeDirectIndirectY, st: sta},
	0x92: {n: "STA", m: modeDirectIndirect, st: sta},
	0x93: {n: "STA", m: modeStackRelativeIndirectY, st: sta},
	0x94: {n: "STY", m: modeDirectX, w: byX, st: sty},
	0x95: {n: "STA", m: modeDirectX, st: sta},
	0x96: {n: "STX", m: modeDirectY, w: byX, st: stx},
	0x97: {n: "STA", m: modeDirectIndirectLongY, st: sta},
	0x98: {n: "TYA", m: modeImplied, f: tya},
	0x99: {n: "STA", m: modeAbsoluteY, st: sta},
	0x9A: {n: "TXS", m: modeImplied, f: txs},
	0x9B: {n: "TXY", m: modeImplied, f: txy},
	0x9C: {n: "STZ", m: modeAbsolute, st: stz},
	0x9D: {n: "STA", m: modeAbsoluteX, st: sta},
	0x9E: {n: "STZ", m: modeAbsoluteX, st: stz},
	0x9F: {n: "STA", m: modeLongX, st: sta},
	0xA0: {n: "LDY", m: modeImmediate, w: byX, r: ldy},
	0xA1: {n: "LDA", m: modeDirectXIndirect, r: lda},
	0xA2: {n: "LDX", m: modeImmediate, w: byX, r: ldx},
	0xA3: {n: "LDA", m: modeStackRelative, r: lda},
	0xA4: {n: "LDY", m: modeDirect, w: byX, r: ldy},
	0xA5: {n: "LDA", m: modeDirect, r: lda},
	0xA6: {n: "LDX", m: modeDirect, w: byX, r: ldx},
	0xA7: {n: "LDA", m: modeDirectIndirectLong, r: lda},
	0xA8: {n: "TAY", m: modeImplied, f: tay},
	0xA9: {n: "LDA", m: modeImmediate, r: lda},
	0xAA: {n: "TAX", m: modeImplied, f: tax},
	0xAB: {n: "PLB", m: modeImplied, f: plb},
	0xAC: {n: "LDY", m: modeAbsolute, w: byX, r: ldy},
	0xAD: {n: "LDA", m: modeAbsolute, r: lda},
	0xAE: {n: "LDX", m: modeAbsolute, w: byX, r: ldx},
	0xAF: {n: "LDA", m: modeLong, r: lda},
	0xB0: {n: "BCS", m: modeRelative, f: branchIf(Carry, true)},
	0xB1: {n: "LDA", m: modeDirectIndirectY, r: lda},
	0xB2: {n: "LDA", m: modeDirectIndirect, r: lda},
	0xB3: {n: "LDA", m: modeStackRelativeIndirectY, r: lda},
	0xB4: {n: "LDY", m: modeDirectX, w: byX, r: ldy},
	0xB5: {n: "LDA", m: modeDirectX, r: lda},
	0xB6: {n: "LDX", m: modeDirectY, w: byX, r: ldx},
	0xB7: {n: "LDA", m: modeDirectIndirectLongY, r: lda},
	0xB8: {n: "CLV", m: modeImplied, f: clv},
	0xB9: {n: "LDA", m: modeAbsoluteY, r: lda},
	0xBA: {n: "TSX", m: modeImplied, f: tsx},
	0xBB: {n: "TYX", m: modeImplied, f: tyx},
	0xBC: {n: "LDY", m: modeAbsoluteX, w: byX, r: ldy},
	0xBD: {n: "LDA", m: modeAbsoluteX, r: lda},
	0xBE: {n: "LDX", m: modeAbsoluteY, w: byX, r: ldx},
	0xBF: {n: "LDA", m: modeLongX, r: lda},
	0xC0: {n: "CPY", m: modeImmediate, w: byX, r: cpy},
	0xC1: {n: "CMP", m: modeDirectXIndirect, r: cmpA},
	0xC2: {n: "REP", m: modeImmediate8, f: rep},
	0xC3: {n: "CMP", m: modeStackRelative, r: cmpA},
	0xC4: {n: "CPY", m: modeDirect, w: byX, r: cpy},
	0xC5: {n: "CMP", m: modeDirect, r: cmpA},
	0xC6: {n: "DEC", m: modeDirect, rw: (*CPU).dec},
	0xC7: {n: "CMP", m: modeDirectIndirectLong, r: cmpA},
	0xC8: {n: "INY", m: modeImplied, f: iny},
	0xC9: {n: "CMP", m: modeImmediate, r: cmpA},
	0xCA: {n: "DEX", m: modeImplied, f: dex},
	0xCB: {n: "WAI", m: modeImplied, f: wai},
	0xCC: {n: "CPY", m: modeAbsolute, w: byX, r: cpy},
	0xCD: {n: "CMP", m: modeAbsolute, r: cmpA},
	0xCE: {n: "DEC", m: modeAbsolute, rw: (*CPU).dec},
	0xCF: {n: "CMP", m: modeLong, r: cmpA},
	0xD0: {n: "BNE", m: modeRelative, f: branchIf(Zero, false)},
	0xD1: {n: "CMP", m: modeDirectIndirectY, r: cmpA},
	0xD2: {n: "CMP", m: modeDirectIndirect, r: cmpA},
	0xD3: {n: "CMP", m: modeStackRelativeIndirectY, r: cmpA},
	0xD4: {n: "PEI", m: modeDirectIndirect, f: pei},
	0xD5: {n: "CMP", m: modeDirectX, r: cmpA},
	0xD6: {n: "DEC", m: modeDirectX, rw: (*CPU).dec},
	0xD7: {n: "CMP", m: modeDirectIndirectLongY, r: cmpA},
	0xD8: {n: "CLD", m: modeImplied, f: cld},
	0xD9: {n: "CMP", m: modeAbsoluteY, r: cmpA},
	0xDA: {n: "PHX", m: modeImplied, f: phx},
	0xDB: {n: "STP", m: modeImplied, f: stp},
	0xDC: {n: "JML", m: modeAbsoluteIndirectLong, f: jmlIndirect},
	0xDD: {n: "CMP", m: modeAbsoluteX, r: cmpA},
	0xDE: {n: "DEC", m: modeAbsoluteX, rw: (*CPU).dec},
	0xDF: {n: "CMP", m: modeLongX, r: cmpA},
	0xE0: {n: "CPX", m: modeImmediate, w: byX, r: cpx},
	0xE1: {n: "SBC", m: modeDirectXIndirect, r: sbc},
	0xE2: {n: "SEP", m: modeImmediate8, f: sep},
	0xE3: {n: "SBC", m: modeStackRelative, r: sbc},
	0xE4: {n: "CPX", m: modeDirect, w: byX, r: cpx},
	0xE5: {n: "SBC", m: modeDirect, r: sbc},
	0xE6: {n: "INC", m: modeDirect, rw: (*CPU).inc},
	0xE7: {n: "SBC", m: modeDirectIndirectLong, r: sbc},
	0xE8: {n: "INX", m: modeImplied, f: inx},
	0xE9: {n: "SBC", m: modeImmediate, r: sbc},
	0xEA: {n: "NOP", m: modeImplied, f: nop},
	0xEB: {n: "XBA", m: modeImplied, f: xba},
	0xEC: {n: "CPX", m: modeAbsolute, w: byX, r: cpx},
	0xED: {n: "SBC", m: modeAbsolute, r: sbc},
	0xEE: {n: "INC", m: modeAbsolute, rw: (*CPU).inc},
	0xEF: {n: "SBC", m: modeLong, r: sbc},
	0xF0: {n: "BEQ", m: modeRelative, f: branchIf(Zero, true)},
	0xF1: {n: "SBC", m: modeDirectIndirectY, r: sbc},
	0xF2: {n: "SBC", m: modeDirectIndirect, r: sbc},
	0xF3: {n: "SBC", m: modeStackRelativeIndirectY, r: sbc},
	0xF4: {n: "PEA", m: modeAbsolute, f: pea},
	0xF5: {n: "SBC", m: modeDirectX, r: sbc},
	0xF6: {n: "INC", m: modeDirectX, rw: (*CPU).inc},
	0xF7: {n: "SBC", m: modeDirectIndirectLongY, r: sbc},
	0xF8: {n: "SED", m: modeImplied, f: sed},
	0xF9: {n: "SBC", m: modeAbsoluteY, r: sbc},
	0xFA: {n: "PLX", m: modeImplied, f: plx},
	0xFB: {n: "XCE", m: modeImplied, f: xce},
	0xFC: {n: "JSR", m: modeAbsoluteXIndirect, f: jsrIndirectX},
	0xFD: {n: "SBC", m: modeAbsoluteX, r: sbc},
	0xFE: {n: "INC", m: modeAbsoluteX, rw: (*CPU).inc},
	0xFF: {n: "SBC", m: modeLongX, r: sbc},
}

// ops holds the instruction bodies, run after the opcode fetch.
var ops [256]func(*CPU)

func init() {
	for i := range opcodes {
		d := &opcodes[i]
		switch {
		case d.f != nil:
			ops[i] = d.f
		case d.r != nil:
			ops[i] = func(c *CPU) { c.readOp(d) }
		case d.st != nil:
			ops[i] = func(c *CPU) { c.writeOp(d) }
		case d.rw != nil:
			ops[i] = func(c *CPU) { c.modifyOp(d) }
		default:
			panic(fmt.Sprintf("opcode %02X %s: no operation", i, d.n))
		}
	}
}

func (c *CPU) wide(w width) bool {
	if w == byX {
		return !c.x8()
	}
	return !c.m8()
}

func (c *CPU) readOp(d *opdef) {
	wide := c.wide(d.w)

	var v uint16
	if d.m == modeImmediate {
		v = uint16(c.fetch())
		if wide {
			v |= uint16(c.fetch()) << 8
		}
	} else {
		ea := c.resolve(d.m, accRead)
		v = uint16(c.read(ea.addr))
		if wide {
			v |= uint16(c.read(ea.next())) << 8
		}
	}
	d.r(c, v)
}

func (c *CPU) writeOp(d *opdef) {
	ea := c.resolve(d.m, accWrite)
	v := d.st(c)
	c.write(ea.addr, uint8(v))
	if c.wide(d.w) {
		c.write(ea.next(), uint8(v>>8))
	}
}

// modifyOp reads the operand, spends a cycle modifying it and writes it back,
// high byte first. The memory lock signal is asserted for all these cycles.
func (c *CPU) modifyOp(d *opdef) {
	ea := c.resolve(d.m, accModify)
	wide := c.wide(d.w)

	c.lock = true
	v := uint16(c.read(ea.addr))
	if wide {
		v |= uint16(c.read(ea.next())) << 8
		c.idle(ea.next())
	} else {
		// Unmodified byte written back.
		c.access(ea.addr, pinWrite, uint8(v))
	}

	v = d.rw(c, v)
	if wide {
		c.write(ea.next(), uint8(v>>8))
	}
	c.write(ea.addr, uint8(v))
	c.lock = false
}
