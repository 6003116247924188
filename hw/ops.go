package hw

/* operations on a memory or immediate operand */

func ora(c *CPU, v uint16) {
	c.setA(c.accu() | v)
	c.checkNZ(c.accu(), !c.m8())
}

func and(c *CPU, v uint16) {
	c.setA(c.accu() & v)
	c.checkNZ(c.accu(), !c.m8())
}

func eor(c *CPU, v uint16) {
	c.setA(c.accu() ^ v)
	c.checkNZ(c.accu(), !c.m8())
}

func adc(c *CPU, v uint16) { c.addCarry(v, false) }
func sbc(c *CPU, v uint16) { c.addCarry(v, true) }

func cmpA(c *CPU, v uint16) { c.compare(c.A, v, !c.m8()) }
func cpx(c *CPU, v uint16) { c.compare(c.X, v, !c.x8()) }
func cpy(c *CPU, v uint16) { c.compare(c.Y, v, !c.x8()) }

func bit(c *CPU, v uint16) {
	c.P.setZ(v&c.accu() == 0)
	c.P.setV(v&(c.msb()>>1) != 0)
	c.P.setN(v&c.msb() != 0)
}

// bitImm is BIT #, which only affects Z.
func bitImm(c *CPU, v uint16) {
	c.P.setZ(v&c.accu() == 0)
}

func lda(c *CPU, v uint16) {
	c.setA(v)
	c.checkNZ(v, !c.m8())
}

func ldx(c *CPU, v uint16) {
	c.setX(v)
	c.checkNZ(v, !c.x8())
}

func ldy(c *CPU, v uint16) {
	c.setY(v)
	c.checkNZ(v, !c.x8())
}

func sta(c *CPU) uint16 { return c.A }
func stx(c *CPU) uint16 { return c.X }
func sty(c *CPU) uint16 { return c.Y }
func stz(c *CPU) uint16 { return 0 }

func (c *CPU) tsb(v uint16) uint16 {
	c.P.setZ(v&c.accu() == 0)
	return v | c.accu()
}

func (c *CPU) trb(v uint16) uint16 {
	c.P.setZ(v&c.accu() == 0)
	return v &^ c.accu()
}

// onA turns a read-modify-write operation into its accumulator form.
func onA(op func(*CPU, uint16) uint16) func(*CPU) {
	return func(c *CPU) {
		c.idle(c.pc())
		c.setA(op(c, c.accu()))
	}
}

/* branches and jumps */

func (c *CPU) branch(taken bool) {
	off := int8(c.fetch())
	if !taken {
		return
	}
	target := c.PC + uint16(off)
	c.idle(c.pc())
	if c.E && target&0xFF00 != c.PC&0xFF00 {
		c.idle(c.pc())
	}
	c.PC = target
}

// branchIf returns a branch taken when flag is set (or clear).
func branchIf(flag P, set bool) func(*CPU) {
	return func(c *CPU) {
		c.branch((c.P&flag != 0) == set)
	}
}

func bra(c *CPU) { c.branch(true) }

func brl(c *CPU) {
	off := c.fetch16()
	c.idle(c.operand())
	c.PC += off
}

func jmp(c *CPU) {
	c.PC = c.fetch16()
}

func jml(c *CPU) {
	addr := c.fetch24()
	c.PBR = uint8(addr >> 16)
	c.PC = uint16(addr)
}

// jmpIndirect is JMP ($1234), the pointer is in bank 0.
func jmpIndirect(c *CPU) {
	ptr := c.fetch16()
	lo := c.read(uint32(ptr))
	hi := c.read(uint32(ptr + 1))
	c.PC = uint16(hi)<<8 | uint16(lo)
}

// jmpIndirectX is JMP ($1234,X), the pointer is in the program bank.
func jmpIndirectX(c *CPU) {
	ptr := c.fetch16()
	c.idle(c.operand())
	ptr += c.X
	lo := c.read(bank(c.PBR, ptr))
	hi := c.read(bank(c.PBR, ptr+1))
	c.PC = uint16(hi)<<8 | uint16(lo)
}

func jmlIndirect(c *CPU) {
	ptr := c.fetch16()
	lo := c.read(uint32(ptr))
	hi := c.read(uint32(ptr + 1))
	bk := c.read(uint32(ptr + 2))
	c.PBR = bk
	c.PC = uint16(hi)<<8 | uint16(lo)
}

// jsr pushes the address of the last byte of the instruction.
func jsr(c *CPU) {
	addr := c.fetch16()
	c.idle(c.operand())
	ret := c.PC - 1
	c.push8(uint8(ret >> 8))
	c.push8(uint8(ret))
	c.PC = addr
}

func jsl(c *CPU) {
	addr := c.fetch16()
	c.pushN(c.PBR)
	c.idle(uint32(c.S))
	bk := c.fetch()
	ret := c.PC - 1
	c.pushN(uint8(ret >> 8))
	c.pushN(uint8(ret))
	c.wrapStack()
	c.PBR = bk
	c.PC = addr
}

func jsrIndirectX(c *CPU) {
	lo := c.fetch()
	ret := c.PC
	c.pushN(uint8(ret >> 8))
	c.pushN(uint8(ret))
	hi := c.fetch()
	c.idle(c.operand())
	ptr := (uint16(hi)<<8 | uint16(lo)) + c.X
	plo := c.read(bank(c.PBR, ptr))
	phi := c.read(bank(c.PBR, ptr+1))
	c.wrapStack()
	c.PC = uint16(phi)<<8 | uint16(plo)
}

func rts(c *CPU) {
	c.idle(c.pc())
	c.idle(c.pc())
	lo := c.pull8()
	hi := c.pull8()
	c.idle(uint32(c.S))
	c.PC = (uint16(hi)<<8 | uint16(lo)) + 1
}

func rtl(c *CPU) {
	c.idle(c.pc())
	c.idle(c.pc())
	lo := c.pullN()
	hi := c.pullN()
	bk := c.pullN()
	c.wrapStack()
	c.PBR = bk
	c.PC = (uint16(hi)<<8 | uint16(lo)) + 1
}

func rti(c *CPU) {
	c.idle(c.pc())
	c.idle(c.pc())
	c.setP(P(c.pull8()))
	lo := c.pull8()
	hi := c.pull8()
	c.PC = uint16(hi)<<8 | uint16(lo)
	if !c.E {
		c.PBR = c.pull8()
	}
}

// brk and cop fetch a signature byte, ignored, before the interrupt entry.
func brk(c *CPU) {
	c.fetch()
	c.interrupt(BRKNativeVector, IRQVector, true)
}

func cop(c *CPU) {
	c.fetch()
	c.interrupt(COPNativeVector, COPVector, true)
}

/* stack */

func pha(c *CPU) {
	c.idle(c.pc())
	c.push16(c.A, !c.m8())
}

func phx(c *CPU) {
	c.idle(c.pc())
	c.push16(c.X, !c.x8())
}

func phy(c *CPU) {
	c.idle(c.pc())
	c.push16(c.Y, !c.x8())
}

func php(c *CPU) {
	c.idle(c.pc())
	c.push8(uint8(c.P))
}

func phb(c *CPU) {
	c.idle(c.pc())
	c.push8(c.DBR)
}

func phk(c *CPU) {
	c.idle(c.pc())
	c.push8(c.PBR)
}

func phd(c *CPU) {
	c.idle(c.pc())
	c.pushN(uint8(c.D >> 8))
	c.pushN(uint8(c.D))
	c.wrapStack()
}

func pla(c *CPU) {
	c.idle(c.pc())
	c.idle(c.pc())
	v := c.pull16(!c.m8())
	c.setA(v)
	c.checkNZ(v, !c.m8())
}

func plx(c *CPU) {
	c.idle(c.pc())
	c.idle(c.pc())
	v := c.pull16(!c.x8())
	c.setX(v)
	c.checkNZ(v, !c.x8())
}

func ply(c *CPU) {
	c.idle(c.pc())
	c.idle(c.pc())
	v := c.pull16(!c.x8())
	c.setY(v)
	c.checkNZ(v, !c.x8())
}

func plp(c *CPU) {
	c.idle(c.pc())
	c.idle(c.pc())
	c.setP(P(c.pull8()))
}

func plb(c *CPU) {
	c.idle(c.pc())
	c.idle(c.pc())
	c.DBR = c.pull8()
	c.P.checkNZ8(c.DBR)
}

func pld(c *CPU) {
	c.idle(c.pc())
	c.idle(c.pc())
	lo := c.pullN()
	hi := c.pullN()
	c.wrapStack()
	c.D = uint16(hi)<<8 | uint16(lo)
	c.P.checkNZ16(c.D)
}

func pea(c *CPU) {
	v := c.fetch16()
	c.pushN(uint8(v >> 8))
	c.pushN(uint8(v))
	c.wrapStack()
}

// pei pushes the 16-bit word at a direct page address, which doesn't wrap
// within the page in emulation mode.
func pei(c *CPU) {
	off := c.fetch()
	c.directIdle()
	dp := c.D + uint16(off)
	lo := c.read(uint32(dp))
	hi := c.read(uint32(dp + 1))
	c.pushN(hi)
	c.pushN(lo)
	c.wrapStack()
}

func per(c *CPU) {
	off := c.fetch16()
	c.idle(c.operand())
	v := c.PC + off
	c.pushN(uint8(v >> 8))
	c.pushN(uint8(v))
	c.wrapStack()
}

/* status register */

func clc(c *CPU) { c.idle(c.pc()); c.P.setC(false) }
func sec(c *CPU) { c.idle(c.pc()); c.P.setC(true) }
func cli(c *CPU) { c.idle(c.pc()); c.P.setI(false) }
func sei(c *CPU) { c.idle(c.pc()); c.P.setI(true) }
func cld(c *CPU) { c.idle(c.pc()); c.P.setD(false) }
func sed(c *CPU) { c.idle(c.pc()); c.P.setD(true) }
func clv(c *CPU) { c.idle(c.pc()); c.P.setV(false) }

func rep(c *CPU) {
	v := c.fetch()
	c.idle(c.operand())
	c.setP(c.P &^ P(v))
}

func sep(c *CPU) {
	v := c.fetch()
	c.idle(c.operand())
	c.setP(c.P | P(v))
}

// xce exchanges the carry and emulation flags. Entering emulation mode forces
// 8-bit registers and a page 1 stack.
func xce(c *CPU) {
	c.idle(c.pc())
	carry := c.P.C()
	c.P.setC(c.E)
	c.E = carry
	if c.E {
		c.setP(c.P)
		c.wrapStack()
	}
}

/* transfers */

func tax(c *CPU) {
	c.idle(c.pc())
	c.setX(c.A)
	c.checkNZ(c.X, !c.x8())
}

func tay(c *CPU) {
	c.idle(c.pc())
	c.setY(c.A)
	c.checkNZ(c.Y, !c.x8())
}

func txa(c *CPU) {
	c.idle(c.pc())
	c.setA(c.X)
	c.checkNZ(c.accu(), !c.m8())
}

func tya(c *CPU) {
	c.idle(c.pc())
	c.setA(c.Y)
	c.checkNZ(c.accu(), !c.m8())
}

func txy(c *CPU) {
	c.idle(c.pc())
	c.setY(c.X)
	c.checkNZ(c.Y, !c.x8())
}

func tyx(c *CPU) {
	c.idle(c.pc())
	c.setX(c.Y)
	c.checkNZ(c.X, !c.x8())
}

func tsx(c *CPU) {
	c.idle(c.pc())
	c.setX(c.S)
	c.checkNZ(c.X, !c.x8())
}

func txs(c *CPU) {
	c.idle(c.pc())
	c.S = c.X
	c.wrapStack()
}

func tcs(c *CPU) {
	c.idle(c.pc())
	c.S = c.A
	c.wrapStack()
}

func tsc(c *CPU) {
	c.idle(c.pc())
	c.A = c.S
	c.P.checkNZ16(c.A)
}

func tcd(c *CPU) {
	c.idle(c.pc())
	c.D = c.A
	c.P.checkNZ16(c.D)
}

func tdc(c *CPU) {
	c.idle(c.pc())
	c.A = c.D
	c.P.checkNZ16(c.A)
}

// xba swaps the two bytes of the accumulator, N and Z come from the new low
// byte regardless of M.
func xba(c *CPU) {
	c.idle(c.pc())
	c.idle(c.pc())
	c.A = c.A<<8 | c.A>>8
	c.P.checkNZ8(uint8(c.A))
}

/* index registers */

func inx(c *CPU) {
	c.idle(c.pc())
	c.setX(c.X + 1)
	c.checkNZ(c.X, !c.x8())
}

func iny(c *CPU) {
	c.idle(c.pc())
	c.setY(c.Y + 1)
	c.checkNZ(c.Y, !c.x8())
}

func dex(c *CPU) {
	c.idle(c.pc())
	c.setX(c.X - 1)
	c.checkNZ(c.X, !c.x8())
}

func dey(c *CPU) {
	c.idle(c.pc())
	c.setY(c.Y - 1)
	c.checkNZ(c.Y, !c.x8())
}

/* block moves */

// blockMove moves one byte from the source bank at X to the destination bank
// at Y, then steps X and Y. While the counter in A doesn't wrap to $FFFF, PC
// goes back to the instruction so that it's executed again.
func (c *CPU) blockMove(step uint16) {
	dst := c.fetch()
	src := c.fetch()
	c.DBR = dst
	v := c.read(bank(src, c.X))
	c.write(bank(dst, c.Y), v)
	c.idle(bank(dst, c.Y))
	c.idle(bank(dst, c.Y))
	c.setX(c.X + step)
	c.setY(c.Y + step)
	c.A--
	if c.A != 0xFFFF {
		c.PC -= 3
	}
}

func mvn(c *CPU) { c.blockMove(1) }
func mvp(c *CPU) { c.blockMove(0xFFFF) }

/* miscellaneous */

func nop(c *CPU) { c.idle(c.pc()) }

// wdm is reserved for future expansion, it's a 2-byte NOP.
func wdm(c *CPU) { c.fetch() }

// wai and stp complete after two internal cycles, the CPU then idles at the
// following instruction.
func wai(c *CPU) {
	c.idle(c.pc())
	c.idle(c.pc())
	c.next = seqWait
}

func stp(c *CPU) {
	c.idle(c.pc())
	c.idle(c.pc())
	c.next = seqStop
}
