package hw

import "fmt"

//go:generate go tool stringer -type=addrMode -trimprefix=mode

// An addrMode describes the operand of an instruction: its size and how it's
// written. For the instructions going through resolve, it also tells how the
// effective address is computed.
type addrMode uint8

const (
	modeImplied                addrMode = iota // no operand
	modeAccumulator                            // A
	modeImmediate                              // #$12 or #$1234, by M or X
	modeImmediate8                             // #$12
	modeRelative                               // $1234 (8-bit offset)
	modeRelativeLong                           // $1234 (16-bit offset)
	modeDirect                                 // $12
	modeDirectX                                // $12,X
	modeDirectY                                // $12,Y
	modeDirectIndirect                         // ($12)
	modeDirectXIndirect                        // ($12,X)
	modeDirectIndirectY                        // ($12),Y
	modeDirectIndirectLong                     // [$12]
	modeDirectIndirectLongY                    // [$12],Y
	modeAbsolute                               // $1234
	modeAbsoluteX                              // $1234,X
	modeAbsoluteY                              // $1234,Y
	modeLong                                   // $123456
	modeLongX                                  // $123456,X
	modeStackRelative                          // $12,S
	modeStackRelativeIndirectY                 // ($12,S),Y
	modeAbsoluteIndirect                       // ($1234)
	modeAbsoluteXIndirect                      // ($1234,X)
	modeAbsoluteIndirectLong                   // [$1234]
	modeBlockMove                              // $12,$34
)

// access is the kind of memory access an effective address is computed for.
type access uint8

const (
	accRead access = iota
	accWrite
	accModify
)

// An ea is an effective address.
type ea struct {
	addr  uint32
	bank0 bool // the following bytes wrap within bank 0
}

// next returns the address of the byte following e.
func (e ea) next() uint32 {
	if e.bank0 {
		return uint32(uint16(e.addr + 1))
	}
	return (e.addr + 1) & 0xFFFFFF
}

// direct returns the direct page address at offset off+idx. In emulation mode
// with the low byte of D cleared, the 6502-era modes wrap within the page.
func (c *CPU) direct(off uint8, idx uint16) uint16 {
	if c.E && uint8(c.D) == 0 {
		return c.D&0xFF00 | uint16(off+uint8(idx))
	}
	return c.D + uint16(off) + idx
}

// directIdle is the extra cycle taken by direct page modes when the low byte
// of D isn't zero.
func (c *CPU) directIdle() {
	if uint8(c.D) != 0 {
		c.idle(c.operand())
	}
}

func (c *CPU) directPointer(off uint8, idx uint16) uint16 {
	lo := c.read(uint32(c.direct(off, idx)))
	hi := c.read(uint32(c.direct(off, idx+1)))
	return uint16(hi)<<8 | uint16(lo)
}

// indexed adds idx to base. Reads take an extra cycle when the index is 16-bit
// or when a page is crossed, writes and read-modify-writes always do.
func (c *CPU) indexed(base uint32, idx uint16, acc access) ea {
	addr := (base + uint32(idx)) & 0xFFFFFF
	if acc != accRead || !c.x8() || base&0xFFFF00 != addr&0xFFFF00 {
		// Index added to the low byte only.
		c.idle(base&0xFFFF00 | (base+uint32(idx))&0xFF)
	}
	return ea{addr: addr}
}

// resolve fetches the operand of an instruction in the memory addressing mode
// m and returns the effective address.
func (c *CPU) resolve(m addrMode, acc access) ea {
	switch m {
	case modeDirect:
		off := c.fetch()
		c.directIdle()
		return ea{addr: uint32(c.direct(off, 0)), bank0: true}

	case modeDirectX, modeDirectY:
		off := c.fetch()
		c.directIdle()
		c.idle(c.operand())
		idx := c.X
		if m == modeDirectY {
			idx = c.Y
		}
		return ea{addr: uint32(c.direct(off, idx)), bank0: true}

	case modeDirectIndirect:
		off := c.fetch()
		c.directIdle()
		ptr := c.directPointer(off, 0)
		return ea{addr: bank(c.DBR, ptr)}

	case modeDirectXIndirect:
		off := c.fetch()
		c.directIdle()
		c.idle(c.operand())
		ptr := c.directPointer(off, c.X)
		return ea{addr: bank(c.DBR, ptr)}

	case modeDirectIndirectY:
		off := c.fetch()
		c.directIdle()
		ptr := c.directPointer(off, 0)
		return c.indexed(bank(c.DBR, ptr), c.Y, acc)

	case modeDirectIndirectLong, modeDirectIndirectLongY:
		off := c.fetch()
		c.directIdle()
		dp := c.D + uint16(off)
		lo := c.read(uint32(dp))
		hi := c.read(uint32(dp + 1))
		bk := c.read(uint32(dp + 2))
		addr := bank(bk, uint16(hi)<<8|uint16(lo))
		if m == modeDirectIndirectLongY {
			addr = (addr + uint32(c.Y)) & 0xFFFFFF
		}
		return ea{addr: addr}

	case modeAbsolute:
		return ea{addr: bank(c.DBR, c.fetch16())}

	case modeAbsoluteX:
		return c.indexed(bank(c.DBR, c.fetch16()), c.X, acc)

	case modeAbsoluteY:
		return c.indexed(bank(c.DBR, c.fetch16()), c.Y, acc)

	case modeLong:
		return ea{addr: c.fetch24()}

	case modeLongX:
		return ea{addr: (c.fetch24() + uint32(c.X)) & 0xFFFFFF}

	case modeStackRelative:
		off := c.fetch()
		c.idle(c.operand())
		return ea{addr: uint32(c.S + uint16(off)), bank0: true}

	case modeStackRelativeIndirectY:
		off := c.fetch()
		c.idle(c.operand())
		sp := c.S + uint16(off)
		lo := c.read(uint32(sp))
		hi := c.read(uint32(sp + 1))
		c.idle(uint32(sp + 1))
		ptr := bank(c.DBR, uint16(hi)<<8|uint16(lo))
		return ea{addr: (ptr + uint32(c.Y)) & 0xFFFFFF}
	}

	panic(fmt.Sprintf("no effective address for addressing mode %s", m))
}
