package hw

import "fmt"

// DisasmOp is a disassembled instruction.
type DisasmOp struct {
	Opcode string
	Oper   string
	Buf    []byte
	PBR    uint8
	PC     uint16
}

func (d DisasmOp) String() string {
	return string(d.Bytes())
}

// Bytes returns the string representation of a DisasmOp, this is optimized
// version, suitable for the execution tracer.
func (d DisasmOp) Bytes() []byte {
	const totalLen = 52
	buf := make([]byte, totalLen)

	hexEncode(buf[0:], d.PBR)
	buf[2] = ':'
	hexEncode(buf[3:], byte(d.PC>>8))
	hexEncode(buf[5:], byte(d.PC))
	buf[7] = ' '
	buf[8] = ' '

	off := 9
	for i := range d.Buf {
		hexEncode(buf[off:], d.Buf[i])
		buf[off+2] = ' '
		off += 3
	}

	for ; off < 22; off++ {
		buf[off] = ' '
	}

	off += copy(buf[off:], d.Opcode)
	buf[off] = ' '
	off++

	buf = append(buf[:off], d.Oper...)
	off += len(d.Oper)
	if len(buf) > totalLen {
		buf = append(buf, ' ')
	} else {
		buf = buf[:totalLen]
		for i := off; i < totalLen; i++ {
			buf[i] = ' '
		}
	}

	return buf
}

// operandSize returns the number of operand bytes following the opcode.
func (r *Core) operandSize(op uint8) int {
	d := &opcodes[op]
	switch d.m {
	case modeImplied, modeAccumulator:
		return 0
	case modeImmediate:
		if (d.w == byX && r.x8()) || (d.w == byM && r.m8()) {
			return 1
		}
		return 2
	case modeRelativeLong, modeAbsolute, modeAbsoluteX, modeAbsoluteY,
		modeAbsoluteIndirect, modeAbsoluteXIndirect, modeAbsoluteIndirectLong,
		modeBlockMove:
		return 2
	case modeLong, modeLongX:
		return 3
	}
	return 1
}

// Disasm disassembles the instruction at the start of code, located at
// PBR:PC in r. The widths of immediate operands are the ones in r. Missing
// operand bytes read as zero.
func Disasm(r Core, code []byte) DisasmOp {
	var op uint8
	if len(code) > 0 {
		op = code[0]
	}
	d := &opcodes[op]

	buf := make([]byte, 1+r.operandSize(op))
	copy(buf, code)

	var v uint32
	for i := len(buf) - 1; i > 0; i-- {
		v = v<<8 | uint32(buf[i])
	}

	return DisasmOp{
		Opcode: d.n,
		Oper:   formatOperand(d.m, v, len(buf)-1, r.PC),
		Buf:    buf,
		PBR:    r.PBR,
		PC:     r.PC,
	}
}

func formatOperand(m addrMode, v uint32, size int, pc uint16) string {
	switch m {
	case modeImplied:
		return ""
	case modeAccumulator:
		return "A"
	case modeImmediate, modeImmediate8:
		if size == 1 {
			return fmt.Sprintf("#$%02X", v)
		}
		return fmt.Sprintf("#$%04X", v)
	case modeRelative:
		return fmt.Sprintf("$%04X", pc+2+uint16(int8(v)))
	case modeRelativeLong:
		return fmt.Sprintf("$%04X", pc+3+uint16(v))
	case modeDirect:
		return fmt.Sprintf("$%02X", v)
	case modeDirectX:
		return fmt.Sprintf("$%02X,X", v)
	case modeDirectY:
		return fmt.Sprintf("$%02X,Y", v)
	case modeDirectIndirect:
		return fmt.Sprintf("($%02X)", v)
	case modeDirectXIndirect:
		return fmt.Sprintf("($%02X,X)", v)
	case modeDirectIndirectY:
		return fmt.Sprintf("($%02X),Y", v)
	case modeDirectIndirectLong:
		return fmt.Sprintf("[$%02X]", v)
	case modeDirectIndirectLongY:
		return fmt.Sprintf("[$%02X],Y", v)
	case modeAbsolute:
		return fmt.Sprintf("$%04X", v)
	case modeAbsoluteX:
		return fmt.Sprintf("$%04X,X", v)
	case modeAbsoluteY:
		return fmt.Sprintf("$%04X,Y", v)
	case modeLong:
		return fmt.Sprintf("$%06X", v)
	case modeLongX:
		return fmt.Sprintf("$%06X,X", v)
	case modeStackRelative:
		return fmt.Sprintf("$%02X,S", v)
	case modeStackRelativeIndirectY:
		return fmt.Sprintf("($%02X,S),Y", v)
	case modeAbsoluteIndirect:
		return "(" + formatAddr(uint16(v)) + ")"
	case modeAbsoluteXIndirect:
		return fmt.Sprintf("($%04X,X)", v)
	case modeAbsoluteIndirectLong:
		return "[" + formatAddr(uint16(v)) + "]"
	case modeBlockMove:
		// Source bank is the second operand byte.
		return fmt.Sprintf("$%02X,$%02X", v>>8, v&0xFF)
	}
	return ""
}

var addressLabels = map[uint16]string{
	COPNativeVector:   "CopVector_FFE4",
	BRKNativeVector:   "BrkVector_FFE6",
	ABORTNativeVector: "AbortVector_FFE8",
	NMINativeVector:   "NmiVector_FFEA",
	IRQNativeVector:   "IrqVector_FFEE",
	COPVector:         "CopVectorEmu_FFF4",
	ABORTVector:       "AbortVectorEmu_FFF8",
	NMIVector:         "NmiVectorEmu_FFFA",
	ResetVector:       "ResetVector_FFFC",
	IRQVector:         "IrqBrkVectorEmu_FFFE",
}

func formatAddr(addr uint16) string {
	if label, ok := addressLabels[addr]; ok {
		return label
	}
	return fmt.Sprintf("$%04X", addr)
}
