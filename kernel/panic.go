package kernel

import (
	"fmt"

	"microbian/internal/buildinfo"
)

// PanicInfo describes a fatal kernel error: which process was running
// (if any — Panic can also fire before Boot) and the formatted message.
type PanicInfo struct {
	PID     ProcID
	Process string
	Message string
	Stack   []byte
}

// SetPanicHandler installs a handler invoked, at most once for this
// Kernel, on the first call to Panic, before the goroutine unwinds. It
// must not itself panic.
func (k *Kernel) SetPanicHandler(fn func(PanicInfo)) {
	k.panicHandler = fn
}

// Panic implements spec §7's fatal error path: format a diagnostic, log
// it, mask interrupts and unwind. On the C original there is nowhere to
// unwind to, so it spins in place after printing over the UART; a Go
// process always has a caller, so Panic instead masks interrupts (as the
// original does, if only cosmetically at that point) and calls the
// builtin panic with the formatted message. In cmd/kernelsim an
// unrecovered panic crashes the process — the equivalent of halting a
// single-purpose board — and host tests can recover it like any other
// Go panic.
func (k *Kernel) Panic(format string, args ...any) {
	info := PanicInfo{Message: fmt.Sprintf(format, args...)}
	if k.table.current != nil {
		info.PID = k.table.current.pid
		info.Process = k.table.current.name
	}
	info.Stack = captureStack()

	k.panicOnce.Do(func() {
		if l := k.hw.Logger(); l != nil {
			l.WriteLineString("panic: " + info.Message)
			if info.Process != "" {
				l.WriteLineString("  in process " + info.Process)
			}
		}
		if k.panicHandler != nil {
			k.panicHandler(info)
		}
	})

	k.hw.CPU().DisableInterrupts()
	panic(info.Message)
}

// BadMessage panics with the unexpected message type, for user processes
// that switch on message type and hit a default case (microbian's
// badmesg).
func (k *Kernel) BadMessage(typ int) {
	k.Panic("bad message type %d", typ)
}

// Dump prints a diagnostic table of every process: pid, state, stack
// base, stack usage and name, matching microbian_dump's layout.
func (k *Kernel) Dump() {
	l := k.hw.Logger()
	if l == nil {
		return
	}
	l.WriteLineString("PROCESS DUMP (" + buildinfo.Short() + ")")
	for pid := ProcID(0); pid < k.table.nprocs; pid++ {
		p := k.table.procs[pid]
		l.WriteLineString(fmt.Sprintf("%2d: [%-8s] base=%p stk=%d/%d %s",
			pid, p.state, p.stack, p.StackUsed(), p.StackSize(), p.name))
	}
}
