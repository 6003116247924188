package hw

//go:generate go tool stringer -type=CycleType -trimprefix=Cycle

// A Bus is the set of wires between the CPU and the rest of the system, as
// they are during one clock cycle.
//
// The CPU drives the address, the output signals and, on write cycles, the
// data byte. The system drives the data byte on read cycles and the input
// signals (RDY, RES, IRQ, NMI). The zero value has RDY asserted and no other
// input active.
type Bus struct {
	Addr uint16
	Bank uint8
	Data uint8

	pins pins
}

type pins uint16

const (
	pinWrite pins = 1 << iota // R/W low
	pinVDA
	pinVPA
	pinVP
	pinML
	pinE
	pinM
	pinX

	pinNotReady // RDY deasserted
	pinRES
	pinIRQ
	pinNMI

	outputPins = pinWrite | pinVDA | pinVPA | pinVP | pinML | pinE | pinM | pinX
)

func (b *Bus) pin(p pins) bool { return b.pins&p != 0 }

func (b *Bus) setPin(p pins, v bool) {
	if v {
		b.pins |= p
	} else {
		b.pins &^= p
	}
}

// Linear returns the 24-bit address on the bus.
func (b *Bus) Linear() uint32 { return uint32(b.Bank)<<16 | uint32(b.Addr) }

// RW is true on read cycles, false on write cycles.
func (b *Bus) RW() bool { return !b.pin(pinWrite) }

func (b *Bus) VDA() bool { return b.pin(pinVDA) }
func (b *Bus) VPA() bool { return b.pin(pinVPA) }

// VP is asserted while an interrupt or reset vector is being read.
func (b *Bus) VP() bool { return b.pin(pinVP) }

// ML is asserted during the memory cycles of read-modify-write instructions.
func (b *Bus) ML() bool { return b.pin(pinML) }

func (b *Bus) E() bool { return b.pin(pinE) }
func (b *Bus) M() bool { return b.pin(pinM) }
func (b *Bus) X() bool { return b.pin(pinX) }

func (b *Bus) RDY() bool { return !b.pin(pinNotReady) }
func (b *Bus) RES() bool { return b.pin(pinRES) }
func (b *Bus) IRQ() bool { return b.pin(pinIRQ) }
func (b *Bus) NMI() bool { return b.pin(pinNMI) }

// SetRDY deasserting RDY (false) stretches read cycles: the CPU keeps
// requesting the same read until RDY is asserted again.
func (b *Bus) SetRDY(v bool) { b.setPin(pinNotReady, !v) }

// SetRES asserts the reset line. RES seen on any completed cycle makes the
// CPU run the reset sequence at the next instruction boundary, ahead of any
// interrupt.
func (b *Bus) SetRES(v bool) { b.setPin(pinRES, v) }

// SetIRQ drives the level-sensitive interrupt request line.
func (b *Bus) SetIRQ(v bool) { b.setPin(pinIRQ, v) }

// SetNMI drives the NMI line. Only a low-to-high transition of the value
// requests an interrupt.
func (b *Bus) SetNMI(v bool) { b.setPin(pinNMI, v) }

// A CycleType is what VDA and VPA tell about a cycle.
type CycleType uint8

const (
	CycleInternal     CycleType = iota // no valid address
	CycleProgramFetch                  // operand fetch
	CycleDataAccess                    // data access or vector pull
	CycleOpcodeFetch                   // opcode fetch
)

// Cycle decodes VDA and VPA.
func (b *Bus) Cycle() CycleType {
	var t CycleType
	if b.VPA() {
		t |= CycleProgramFetch
	}
	if b.VDA() {
		t |= CycleDataAccess
	}
	return t
}

// String renders the output signals, in the order of the d p v r e m x l
// letters, a '-' standing for a deasserted signal. R/W shows as 'r' or 'w'.
func (b *Bus) String() string {
	s := []byte("--------")
	set := func(i int, p pins, c byte) {
		if b.pin(p) {
			s[i] = c
		}
	}
	set(0, pinVDA, 'd')
	set(1, pinVPA, 'p')
	set(2, pinVP, 'v')
	s[3] = 'r'
	if !b.RW() {
		s[3] = 'w'
	}
	set(4, pinE, 'e')
	set(5, pinM, 'm')
	set(6, pinX, 'x')
	set(7, pinML, 'l')
	return string(s)
}

// Memory is the storage on the other side of the bus.
type Memory interface {
	Read8(addr uint32) uint8
	Write8(addr uint32, val uint8)
}

// Service performs the transfer requested on the bus: on a read cycle the
// byte at the bus address is put on the data lines, on a write cycle the data
// byte is stored.
func (b *Bus) Service(mem Memory) {
	if b.RW() {
		b.Data = mem.Read8(b.Linear())
		return
	}
	mem.Write8(b.Linear(), b.Data)
}
