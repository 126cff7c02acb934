package kernel

import "microbian/hal"

// Body is a process's entry point, invoked with the integer argument
// passed to Start. Only meaningful once an Engine is driving the kernel;
// the pure Kernel type stores it but never calls it (see engine.go). A
// body only ever touches kernel state through its Engine, never through
// a *Kernel directly, so that Engine can serialise every process's
// syscalls the way the trap trampoline serialises them on real hardware.
type Body func(e *Engine, arg uint32)

// startupState records whether Boot has run (booted); Start may only be
// called before it.
type startupState struct {
	booted bool
}

// Start allocates a stack and descriptor for a new process, primes a
// synthetic initial exception frame at the top of its stack, and makes
// the process ready. The frame carries arg in R0 and a PSR with the Thumb
// bit set; its saved PC and LR are zero, not the addresses of body and
// Exit. body and arg are stored on the descriptor instead: Engine runs
// body(arg) on the process's own goroutine and calls Exit when it
// returns. It corresponds to microbian's start(), and like it may only be
// called before Boot.
func (k *Kernel) Start(name string, body Body, arg uint32, stksize int) ProcID {
	if k.startup.booted {
		k.Panic("start() called after scheduler startup")
	}

	d := k.newProcess(name, stksize)
	d.body = body
	d.arg = arg
	d.sp = hal.BuildInitialFrame(d.stack, 0, 0, arg)

	k.sched.makeReady(d, d.priority)
	return d.pid
}

// Boot makes the idle process current and picks a real process to run
// for the first time. It only performs the bookkeeping: it marks startup
// complete and runs the scheduler once. Neither Kernel nor Engine runs a
// wait-for-interrupt loop for idle (hal.CPU.WaitForInterrupt is never
// called): under Engine, idle is the goroutine that called Engine.Boot
// or Engine.RaiseInterrupt, blocked until the scheduler picks pid 0
// again.
func (k *Kernel) Boot() {
	k.startup.booted = true
	k.table.current = k.table.idle
	k.reschedule() // pick a real process to run
}
