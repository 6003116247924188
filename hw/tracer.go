package hw

import (
	"fmt"
	"io"
)

type tracer struct {
	w io.Writer
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

// write the execution trace line of an instruction: r is the state it started
// with, code the bytes it fetched, clock the cycle count after it.
func (t *tracer) write(r Core, code []byte, clock int64) {
	const totalLen = 120
	buf := make([]byte, totalLen)

	buf = append(buf[:0], Disasm(r, code).Bytes()...)
	off := len(buf)
	buf = buf[:max(totalLen, len(buf))]

	reg := func(name string, v uint16, wide bool) {
		off += copy(buf[off:], name)
		buf[off] = ':'
		off++
		if wide {
			hexEncode(buf[off:], byte(v>>8))
			off += 2
		}
		hexEncode(buf[off:], byte(v))
		off += 2
		buf[off] = ' '
		off++
	}

	reg("A", r.A, true)
	reg("X", r.X, true)
	reg("Y", r.Y, true)
	reg("S", r.S, true)
	reg("D", r.D, true)
	reg("DB", uint16(r.DBR), false)
	reg("P", uint16(r.P), false)

	mode := 'N'
	if r.E {
		mode = 'E'
	}
	buf = fmt.Appendf(buf[:off], "%s %c CYC:%d\n", r.Flags(), mode, clock)
	t.w.Write(buf)
}
