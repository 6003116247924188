package hw

/* register helpers, applying the widths */

// accu returns the accumulator at the M width.
func (c *CPU) accu() uint16 {
	if c.m8() {
		return c.A & 0xFF
	}
	return c.A
}

// setA sets the accumulator at the M width. In 8-bit mode, B is unaffected.
func (c *CPU) setA(v uint16) {
	if c.m8() {
		c.A = c.A&0xFF00 | v&0xFF
		return
	}
	c.A = v
}

func (c *CPU) setX(v uint16) {
	if c.x8() {
		v &= 0xFF
	}
	c.X = v
}

func (c *CPU) setY(v uint16) {
	if c.x8() {
		v &= 0xFF
	}
	c.Y = v
}

func (c *CPU) checkNZ(v uint16, wide bool) {
	if wide {
		c.P.checkNZ16(v)
	} else {
		c.P.checkNZ8(uint8(v))
	}
}

/* arithmetic */

// addCarry adds data and the carry to the accumulator, at the M width, in
// binary or decimal mode. With sub, data is complemented first, which makes it
// a subtraction with borrow.
func (c *CPU) addCarry(data uint16, sub bool) {
	digits, msb, mask := 2, 0x80, 0xFF
	if !c.m8() {
		digits, msb, mask = 4, 0x8000, 0xFFFF
	}

	a, d := int(c.accu()), int(data)
	if sub {
		d = ^d & mask
	}
	cf := 0
	if c.P.C() {
		cf = 1
	}

	var r int
	if !c.P.D() {
		r = a + d + cf
	} else {
		// Digit by digit, with the carry of each adjusted digit going into
		// the next. The last digit is adjusted after V is computed.
		low := 0
		for i := 0; i < digits; i++ {
			sh := 4 * i
			nib := 0xF << sh
			r = a&nib + d&nib + cf<<sh + r&low
			if i == digits-1 {
				break
			}
			switch {
			case !sub && r > 0xA<<sh-1:
				r += 6 << sh
			case sub && r < 0x10<<sh:
				r -= 6 << sh
			}
			cf = 0
			if r > 0x10<<sh-1 {
				cf = 1
			}
			low = 0x10<<sh - 1
		}
	}

	c.P.setV(^(a^d)&(a^r)&msb != 0)
	if c.P.D() {
		sh := 4 * (digits - 1)
		switch {
		case !sub && r > 0xA<<sh-1:
			r += 6 << sh
		case sub && r < 0x10<<sh:
			r -= 6 << sh
		}
	}
	c.P.setC(r > mask)

	v := uint16(r & mask)
	c.checkNZ(v, !c.m8())
	c.setA(v)
}

// compare sets the flags for reg - data, at the given width.
func (c *CPU) compare(reg, data uint16, wide bool) {
	if !wide {
		reg &= 0xFF
	}
	r := int(reg) - int(data)
	c.P.setC(r >= 0)
	c.checkNZ(uint16(r), wide)
}

/* shifts and rotates, at the M width */

func (c *CPU) msb() uint16 {
	if c.m8() {
		return 0x80
	}
	return 0x8000
}

func (c *CPU) asl(v uint16) uint16 {
	c.P.setC(v&c.msb() != 0)
	v <<= 1
	if c.m8() {
		v &= 0xFF
	}
	c.checkNZ(v, !c.m8())
	return v
}

func (c *CPU) lsr(v uint16) uint16 {
	c.P.setC(v&1 != 0)
	v >>= 1
	c.checkNZ(v, !c.m8())
	return v
}

func (c *CPU) rol(v uint16) uint16 {
	carry := c.P.C()
	c.P.setC(v&c.msb() != 0)
	v <<= 1
	if carry {
		v |= 1
	}
	if c.m8() {
		v &= 0xFF
	}
	c.checkNZ(v, !c.m8())
	return v
}

func (c *CPU) ror(v uint16) uint16 {
	carry := c.P.C()
	c.P.setC(v&1 != 0)
	v >>= 1
	if carry {
		v |= c.msb()
	}
	c.checkNZ(v, !c.m8())
	return v
}

func (c *CPU) inc(v uint16) uint16 {
	v++
	if c.m8() {
		v &= 0xFF
	}
	c.checkNZ(v, !c.m8())
	return v
}

func (c *CPU) dec(v uint16) uint16 {
	v--
	if c.m8() {
		v &= 0xFF
	}
	c.checkNZ(v, !c.m8())
	return v
}
