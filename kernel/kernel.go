// Package kernel implements the CORE of the micro-kernel: the process
// table, the three-level priority ready queues and scheduler, the
// synchronous rendezvous IPC protocol, the interrupt-to-message bridge,
// and the syscall dispatcher's contract with the trap entry.
//
// Everything below the syscall dispatcher (the SVC/PendSV/IRQ assembly
// trampolines that actually save and restore register banks) is outside
// this package and is not part of this repository, as spec §1 scopes it:
// this package only ever sees register state as a saved frame, a
// []uint32 view over a process's stack laid out by hal.BuildInitialFrame,
// never a raw stack pointer into hardware memory.
package kernel

import (
	"sync"

	"microbian/hal"
)

const idleStackBytes = 128

// Kernel is the aggregate of all kernel-owned mutable state: the process
// table, ready queues, IRQ registration table and bump allocator. It is
// mutated only from within the syscall dispatcher and the interrupt
// bridge, which on real hardware run with interrupts masked or as the
// trap/IRQ handler itself — so, per spec §5, no additional locking is
// needed here.
type Kernel struct {
	table   Table
	sched   scheduler
	arena   *Arena
	hw      hal.HAL
	startup startupState

	handler [32]ProcID // IRQ number -> handler pid, 0 meaning unregistered

	// onSwitch, when set, is notified after chooseProc actually changes
	// the current process. Engine installs this to park/unpark the
	// goroutines standing in for process bodies; pure state-machine
	// tests leave it nil and simply observe the new value of Current().
	onSwitch func(prevPID, nextPID ProcID)

	panicOnce    sync.Once
	panicHandler func(PanicInfo)
}

// New creates a kernel bound to a hardware abstraction layer and installs
// the idle process as pid 0. It corresponds to microbian's os_init.
func New(hw hal.HAL) *Kernel {
	k := &Kernel{hw: hw}
	k.arena = NewArena(hw.Memory())
	k.sched.table = &k.table

	idle := k.newProcess("IDLE", idleStackBytes)
	idle.state = IDLING
	idle.priority = P_IDLE
	k.table.idle = idle

	return k
}

// newProcess allocates a descriptor and stack and registers it densely in
// the process table. It does not make the process ready; callers do that
// once they have finished initialising the descriptor.
func (k *Kernel) newProcess(name string, stksize int) *Descriptor {
	if k.table.nprocs >= NPROCS {
		k.Panic("too many processes")
	}
	d := k.arena.AllocDescriptor()
	d.name = name
	d.stack = k.arena.AllocStack(stksize)
	d.priority = P_LOW
	d.msgtype = ANY
	k.table.add(d)
	return d
}

// Table exposes the process table for diagnostics (Dump) and tests.
func (k *Kernel) Table() *Table { return &k.table }

// reschedule runs choose_proc and, if it actually changed the current
// process, notifies onSwitch. This is the single place every blocking
// syscall and the interrupt-return path funnel through.
func (k *Kernel) reschedule() {
	prev := k.table.current
	k.sched.chooseProc()
	if k.onSwitch != nil && prev != k.table.current {
		k.onSwitch(prev.pid, k.table.current.pid)
	}
}

// setCurrent is a test/engine hook: it lets a caller act as a specific
// process for the next kernel call, standing in for "the trap arrived
// while this process was running" without needing a real context switch.
func (k *Kernel) setCurrent(pid ProcID) {
	k.table.current = k.table.procs[pid]
}
