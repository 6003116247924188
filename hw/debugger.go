package hw

// A Debugger controls and monitors a CPU. Addresses are 24-bit.
type Debugger interface {
	// Reset is called when the reset sequence is complete.
	Reset()

	// Trace is called before each opcode fetch. This is the main entry point
	// for debugging activity, as the debugger can stop the CPU execution by
	// making this function blocking until user interaction finishes.
	Trace(pc uint32)

	// Interrupt is called when an interrupt entry is complete. prevpc is the
	// address of the instruction that was about to be executed, curpc is the
	// address of the interrupt handler, and isNMI is true if the interrupt is
	// a non-maskable interrupt.
	Interrupt(prevpc, curpc uint32, isNMI bool)

	// WatchRead/WatchWrite are called when a memory cycle completes. They can
	// be used by the debugger to implement watchpoints.
	WatchRead(addr uint32)
	WatchWrite(addr uint32, val uint8)

	// Break is called by the CPU core to force breaking into the debugger,
	// for instance when STP is executed.
	Break(msg string)
}

type nopDebugger struct{}

func (nopDebugger) Reset()                                     {}
func (nopDebugger) Trace(pc uint32)                            {}
func (nopDebugger) Interrupt(prevpc, curpc uint32, isNMI bool) {}
func (nopDebugger) WatchRead(addr uint32)                      {}
func (nopDebugger) WatchWrite(addr uint32, val uint8)          {}
func (nopDebugger) Break(msg string)                           {}
