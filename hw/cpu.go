package hw

import (
	"fmt"
	"io"

	"w65816/emu/log"
)

// Locations reserved for vector pointers, in bank 0.
const (
	COPNativeVector   = uint16(0xFFE4)
	BRKNativeVector   = uint16(0xFFE6)
	ABORTNativeVector = uint16(0xFFE8)
	NMINativeVector   = uint16(0xFFEA)
	IRQNativeVector   = uint16(0xFFEE)

	COPVector   = uint16(0xFFF4)
	ABORTVector = uint16(0xFFF8)
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE) // BRK too, in emulation mode
)

// A sequence is what the CPU runs between two boundaries.
type sequence uint8

const (
	seqFetch sequence = iota // fetch and execute one instruction
	seqReset
	seqNMI
	seqIRQ
	seqWait // after WAI, one idle cycle at a time until an interrupt
	seqStop // after STP, one idle cycle at a time until a reset
)

// request is what the CPU drives on the bus for the cycle in progress.
type request struct {
	addr uint32
	data uint8 // written byte
	pins pins
}

// core gives CPU its registers as promoted fields (c.A, c.PC...) while
// leaving the Core name to the accessor.
type core = Core

// CPU is a cycle-accurate 65816. It doesn't own memory: each call to Cycle
// completes the bus cycle the CPU requested and gets the next request onto
// the bus.
//
// Sequences (instructions, interrupt entries, reset) are straight-line code in
// which every bus access is one cycle. At each cycle the running sequence is
// run again from the state it started with: accesses for which a byte has
// been latched return it, the first one beyond becomes the next request and
// whatever the sequence does after it is discarded.
type CPU struct {
	core

	cycles int64

	seq     sequence
	entry   Core    // state at the start of the running sequence
	latched []uint8 // data of the completed cycles of the running sequence
	code    []uint8 // opcode and operand bytes fetched by the running sequence
	req     request

	// replay state
	cursor int
	yield  bool     // a cycle that hasn't happened yet has been reached
	held   Core     // state when the yield occurred
	lock   bool     // ML asserted for the accesses being issued
	next   sequence // set by WAI and STP

	nmiLine bool // NMI level at the previous cycle
	nmi     bool // NMI edge detected and not yet serviced
	irq     bool
	res     bool // RES seen since the last boundary

	// Non-nil when execution tracing is enabled.
	tracer *tracer
	dbg    Debugger
}

// NewCPU creates a CPU with the state r, about to fetch the opcode at PBR:PC.
// r is first normalized.
func NewCPU(r Core) *CPU {
	c := &CPU{
		dbg:     nopDebugger{},
		latched: make([]uint8, 0, 16),
		code:    make([]uint8, 0, 4),
	}
	c.SetCore(r)
	return c
}

// SetCore drops whatever the CPU was doing and puts it at an instruction
// boundary with the state r (normalized), about to fetch the opcode at PBR:PC.
// Pending interrupts are forgotten.
func (c *CPU) SetCore(r Core) {
	r.Normalize()
	c.core = r
	c.seq = seqFetch
	c.next = seqFetch
	c.nmi, c.irq, c.nmiLine, c.res = false, false, false, false
	c.latched = c.latched[:0]
	c.code = c.code[:0]
	c.boundary()
	c.run()
}

// Core returns the registers. Between two cycles they reflect every cycle
// completed so far.
func (c *CPU) Core() Core { return c.core }

// Cycles returns the number of completed clock cycles.
func (c *CPU) Cycles() int64 { return c.cycles }

// Waiting reports whether the CPU executed WAI and waits for an interrupt.
func (c *CPU) Waiting() bool { return c.seq == seqWait }

// Stopped reports whether the CPU executed STP and waits for a reset.
func (c *CPU) Stopped() bool { return c.seq == seqStop }

// AtBoundary reports whether the request on the bus is the first cycle of an
// instruction, interrupt entry or reset.
func (c *CPU) AtBoundary() bool { return len(c.latched) == 0 }

// Reset abandons the running sequence and starts the reset sequence right
// away, as on power-on. Call Drive to get its first cycle onto the bus.
func (c *CPU) Reset() {
	c.abandon()
	c.run()
}

// Drive puts the request of the cycle in progress on the bus. It only changes
// the address, the output signals and, for a write, the data byte.
func (c *CPU) Drive(bus *Bus) {
	bus.Bank = uint8(c.req.addr >> 16)
	bus.Addr = uint16(c.req.addr)
	bus.pins = bus.pins&^outputPins | c.req.pins
	if c.req.pins&pinWrite != 0 {
		bus.Data = c.req.data
	}
}

// Cycle completes the cycle in progress and drives the next request. The
// caller must have serviced the request, putting the data on the bus for a
// read, and set the input signals.
//
// A read cycle with RDY deasserted doesn't complete: the same request stays on
// the bus and nothing else changes.
func (c *CPU) Cycle(bus *Bus) {
	write := c.req.pins&pinWrite != 0
	if !write && !bus.RDY() {
		c.Drive(bus)
		return
	}

	data := c.req.data
	if write {
		c.dbg.WatchWrite(c.req.addr, data)
	} else {
		data = bus.Data
		if c.req.pins&(pinVDA|pinVPA) != 0 {
			c.dbg.WatchRead(c.req.addr)
		}
	}
	c.latched = append(c.latched, data)
	if c.req.pins&pinVPA != 0 {
		c.code = append(c.code, data)
	}
	c.cycles++

	nmi := bus.NMI()
	if nmi && !c.nmiLine {
		c.nmi = true
	}
	c.nmiLine = nmi
	c.irq = bus.IRQ()

	// A reset already under way ignores the line.
	if bus.RES() && c.seq != seqReset {
		c.res = true
	}

	c.run()
	c.Drive(bus)
}

// abandon drops the rest of the running sequence in favor of the reset
// sequence. Cycles already performed stay performed.
func (c *CPU) abandon() {
	log.ModCPU.DebugZ("reset").Hex24("addr", c.pc()).End()

	c.seq = seqReset
	c.nmi, c.res = false, false
	c.entry = c.core
	c.latched = c.latched[:0]
	c.code = c.code[:0]
}

// run runs the current sequence against the latched data, until a cycle that
// hasn't happened yet is reached. Sequences completing along the way are
// committed.
func (c *CPU) run() {
	for {
		c.core = c.entry
		c.cursor = 0
		c.yield = false
		c.lock = false
		c.next = seqFetch

		c.exec()

		if c.yield {
			c.core = c.held
			return
		}
		c.boundary()
	}
}

func (c *CPU) exec() {
	switch c.seq {
	case seqFetch:
		ops[c.fetchOpcode()](c)
	case seqReset:
		c.reset()
	case seqNMI:
		c.hwInterrupt(NMINativeVector, NMIVector)
	case seqIRQ:
		c.hwInterrupt(IRQNativeVector, IRQVector)
	case seqWait, seqStop:
		c.idle(c.pc())
	}
}

// boundary commits the completed sequence and selects the next one.
func (c *CPU) boundary() {
	c.checkInvariants()

	prev := c.seq
	switch prev {
	case seqFetch:
		c.traceOp()
	case seqNMI, seqIRQ:
		c.dbg.Interrupt(bank(c.entry.PBR, c.entry.PC), c.pc(), prev == seqNMI)
	case seqReset:
		c.dbg.Reset()
	}

	next := c.next
	if prev == seqWait || prev == seqStop {
		next = prev
	}
	switch {
	case c.res:
		log.ModCPU.DebugZ("reset").Hex24("addr", c.pc()).End()
		c.res, c.nmi = false, false
		next = seqReset
	case next == seqStop:
	case c.nmi:
		c.nmi = false
		next = seqNMI
	case c.irq && !c.P.I():
		next = seqIRQ
	case next == seqWait && c.irq:
		// Masked IRQ: WAI completes, no interrupt is taken.
		next = seqFetch
	}

	if next == seqStop && prev != seqStop {
		log.ModCPU.InfoZ("CPU stopped").Hex24("addr", c.pc()).End()
		c.dbg.Break("STP")
	}

	c.seq = next
	c.entry = c.core
	c.latched = c.latched[:0]
	c.code = c.code[:0]

	if next == seqFetch {
		c.dbg.Trace(c.pc())
	}
}

// InvalidCPUState is the panic value raised when an update leaves the CPU in
// a state the processor can't be in.
type InvalidCPUState struct {
	Core   Core
	Reason string
}

func (e InvalidCPUState) Error() string {
	return fmt.Sprintf("invalid CPU state: %s [%s]", e.Reason, e.Core)
}

func (c *CPU) checkInvariants() {
	var reason string
	switch {
	case c.E && !(c.P.M() && c.P.X()):
		reason = "16-bit registers in emulation mode"
	case c.E && c.S>>8 != 0x01:
		reason = "stack out of page 1 in emulation mode"
	case c.P.X() && (c.X|c.Y)>>8 != 0:
		reason = "index registers high byte with 8-bit index"
	default:
		return
	}
	panic(InvalidCPUState{Core: c.core, Reason: reason})
}

/* bus access, one cycle each */

func bank(b uint8, off uint16) uint32 {
	return uint32(b)<<16 | uint32(off)
}

func (c *CPU) pc() uint32 { return bank(c.PBR, c.PC) }

// operand returns the address of the last program byte fetched.
func (c *CPU) operand() uint32 { return bank(c.PBR, c.PC-1) }

func (c *CPU) access(addr uint32, p pins, val uint8) uint8 {
	if c.yield {
		return 0
	}
	if c.cursor < len(c.latched) {
		v := c.latched[c.cursor]
		c.cursor++
		return v
	}

	c.yield = true
	c.held = c.core
	if c.lock {
		p |= pinML
	}
	if c.E {
		p |= pinE
	}
	if c.m8() {
		p |= pinM
	}
	if c.x8() {
		p |= pinX
	}
	c.req = request{addr: addr & 0xFFFFFF, data: val, pins: p}
	return 0
}

func (c *CPU) fetchOpcode() uint8 {
	v := c.access(c.pc(), pinVDA|pinVPA, 0)
	c.PC++
	return v
}

func (c *CPU) fetch() uint8 {
	v := c.access(c.pc(), pinVPA, 0)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch()
	hi := c.fetch()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) fetch24() uint32 {
	lo := c.fetch16()
	bk := c.fetch()
	return bank(bk, lo)
}

func (c *CPU) read(addr uint32) uint8 {
	return c.access(addr, pinVDA, 0)
}

func (c *CPU) write(addr uint32, val uint8) {
	c.access(addr, pinVDA|pinWrite, val)
}

// idle is an internal operation cycle.
func (c *CPU) idle(addr uint32) {
	c.access(addr, 0, 0)
}

func (c *CPU) vector(addr uint16) uint8 {
	return c.access(uint32(addr), pinVDA|pinVP, 0)
}

/* stack operations */

// wrapStack keeps S in page 1 in emulation mode.
func (c *CPU) wrapStack() {
	if c.E {
		c.S = 0x0100 | c.S&0xFF
	}
}

// push8 and pull8 are the 6502 stack accesses, which wrap within page 1 in
// emulation mode.
func (c *CPU) push8(val uint8) {
	c.write(uint32(c.S), val)
	c.S--
	c.wrapStack()
}

func (c *CPU) pull8() uint8 {
	c.S++
	c.wrapStack()
	return c.read(uint32(c.S))
}

// pushN and pullN are the stack accesses of instructions the 6502 doesn't
// have. They don't wrap in emulation mode, wrapStack must be called when the
// instruction is done with the stack.
func (c *CPU) pushN(val uint8) {
	c.write(uint32(c.S), val)
	c.S--
}

func (c *CPU) pullN() uint8 {
	c.S++
	return c.read(uint32(c.S))
}

func (c *CPU) push16(val uint16, wide bool) {
	if wide {
		c.push8(uint8(val >> 8))
	}
	c.push8(uint8(val))
}

func (c *CPU) pull16(wide bool) uint16 {
	v := uint16(c.pull8())
	if wide {
		v |= uint16(c.pull8()) << 8
	}
	return v
}

/* reset and interrupts */

func (c *CPU) reset() {
	c.E = true
	c.D, c.DBR, c.PBR = 0, 0, 0
	c.setP(c.P&^Decimal | IntDisable)
	c.wrapStack()

	c.idle(c.pc())
	c.idle(c.pc())
	// The stack accesses of an interrupt entry, turned into reads.
	for range 3 {
		c.read(uint32(c.S))
		c.S--
		c.wrapStack()
	}
	lo := c.vector(ResetVector)
	hi := c.vector(ResetVector + 1)
	c.PC = uint16(hi)<<8 | uint16(lo)
}

// hwInterrupt is the entry of IRQ and NMI, the opcode fetch being replaced by
// two internal cycles.
func (c *CPU) hwInterrupt(native, emu uint16) {
	c.idle(c.pc())
	c.idle(c.pc())
	c.interrupt(native, emu, false)
}

// interrupt pushes the return address and status, then jumps through the
// vector. In emulation mode the pushed status has B set when brk is.
func (c *CPU) interrupt(native, emu uint16, brk bool) {
	vec := native
	p := c.P
	if c.E {
		vec = emu
		p = p.with(Break, brk)
	} else {
		c.push8(c.PBR)
	}
	c.push8(uint8(c.PC >> 8))
	c.push8(uint8(c.PC))
	c.push8(uint8(p))

	c.P.setI(true)
	c.P.setD(false)
	c.PBR = 0
	lo := c.vector(vec)
	hi := c.vector(vec + 1)
	c.PC = uint16(hi)<<8 | uint16(lo)
}

// setP sets the status register, applying the side effects of the width
// flags.
func (c *CPU) setP(p P) {
	c.P = p
	if c.E {
		c.P |= MemWidth | IndexWidth
	}
	if c.P.X() {
		c.X &= 0xFF
		c.Y &= 0xFF
	}
}

/* tracing / debugging */

func (c *CPU) traceOp() {
	if c.tracer != nil && len(c.code) != 0 {
		c.tracer.write(c.entry, c.code, c.cycles)
	}
}

// SetTraceOutput writes a line to w for each executed instruction.
func (c *CPU) SetTraceOutput(w io.Writer) {
	c.tracer = &tracer{w: w}
}

func (c *CPU) SetDebugger(dbg Debugger) {
	if dbg == nil {
		dbg = nopDebugger{}
	}
	c.dbg = dbg
}

// AddLogContext adds the address of the running sequence to log entries.
func (c *CPU) AddLogContext(z *log.EntryZ) {
	z.Hex24("pc", bank(c.entry.PBR, c.entry.PC))
}
