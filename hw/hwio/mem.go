package hwio

import (
	"w65816/emu/log"
)

const (
	AddrBits = 24
	AddrMask = 1<<AddrBits - 1
	PageSize = 0x100
	NumPages = (AddrMask + 1) / PageSize
)

type page [PageSize]uint8

// Mem is the flat 16MiB memory behind a 65816 bus. Pages are allocated on
// first write, so an empty Mem is cheap and reads of untouched addresses
// return 0.
type Mem struct {
	Name string

	pages [NumPages]*page
	used  Bitset // allocated pages
}

func NewMem(name string) *Mem {
	return &Mem{Name: name}
}

func (m *Mem) Read8(addr uint32) uint8 {
	p := m.pages[(addr&AddrMask)/PageSize]
	if p == nil {
		return 0
	}
	return p[addr%PageSize]
}

func (m *Mem) Write8(addr uint32, val uint8) {
	addr &= AddrMask
	ipage := uint(addr / PageSize)
	p := m.pages[ipage]
	if p == nil {
		if val == 0 {
			return
		}
		log.ModMem.DebugZ("allocating page").
			String("name", m.Name).
			Hex24("page", addr&^(PageSize-1)).
			End()
		p = new(page)
		m.pages[ipage] = p
		m.used.Set(ipage)
	}
	p[addr%PageSize] = val
}

// Load copies buf at addr, wrapping around the end of the address space.
func (m *Mem) Load(addr uint32, buf []byte) {
	for i, b := range buf {
		m.Write8(addr+uint32(i), b)
	}
}

// Reset zeroes the memory. Allocated pages are kept for reuse and are the
// only ones visited.
func (m *Mem) Reset() {
	m.used.Each(func(i uint) {
		clear(m.pages[i][:])
	})
}
