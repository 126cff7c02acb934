package kernel

import (
	"sync"

	"microbian/hal"
)

// Engine drives a Kernel end to end: it runs each process's Body on its
// own goroutine and uses the goroutines themselves, handed a baton one at
// a time, as the stand-in for the real context switch that on hardware
// happens inside the SVC/PendSV/IRQ trampoline. At most one goroutine
// ever touches Kernel state at once, matching spec §5's "only one
// context executes kernel code at a time" — here enforced by Engine's
// lock and turn-taking instead of by running on a single physical core
// with interrupts masked.
//
// The goroutine that calls Boot plays the role of microbian's idle
// process: os_start morphs its caller into idle, and Boot does the same
// here, blocking until the ready queues drain and idle is scheduled
// again. Interrupt injection follows the same pattern (RaiseInterrupt may
// only be called by whichever goroutine currently holds the idle
// identity), except when a body has explicitly parked itself at a
// Checkpoint to let a test raise an interrupt while it is "running
// non-receive code" (spec §8, scenario 2) without racing the two
// goroutines against each other.
type Engine struct {
	k  *Kernel
	mu sync.Mutex

	turn   [NPROCS]chan struct{}
	ckpt   [NPROCS]chan struct{}
	resume [NPROCS]chan struct{}
}

// NewEngine wires itself into k's reschedule notifications and returns
// ready to Spawn process bodies and Boot the scheduler.
func NewEngine(k *Kernel) *Engine {
	e := &Engine{k: k}
	for i := range e.turn {
		e.turn[i] = make(chan struct{}, 1)
		e.ckpt[i] = make(chan struct{})
		e.resume[i] = make(chan struct{})
	}
	k.onSwitch = func(prev, next ProcID) {
		e.turn[next] <- struct{}{}
	}
	return e
}

// runSyscall calls fn (which may reschedule) and then, if the caller is
// no longer current, releases the lock and waits for its own turn to
// come back around. Callers must hold e.mu on entry; it is held again on
// return, whether or not a wait happened in between.
func (e *Engine) runSyscall(me ProcID, fn func()) {
	fn()
	for e.k.table.current.pid != me {
		e.mu.Unlock()
		<-e.turn[me]
		e.mu.Lock()
	}
}

// Spawn registers a process with the scheduler (via Start) and starts
// the goroutine that will run its body the first time it is scheduled.
func (e *Engine) Spawn(name string, body Body, arg uint32, stksize int) ProcID {
	pid := e.k.Start(name, body, arg, stksize)
	go e.runBody(pid, body, arg)
	return pid
}

func (e *Engine) runBody(pid ProcID, body Body, arg uint32) {
	<-e.turn[pid]
	e.mu.Lock()
	body(e, arg)
	e.runSyscall(pid, e.k.Exit)
	// Exit leaves this process DEAD and never reschedules it again, so
	// the wait above blocks forever: the goroutine parks here for good,
	// standing in for the fact that a dead descriptor's resources (this
	// goroutine's stack included) are never reclaimed (spec Non-goals).
}

// Boot starts the scheduler, taking on the idle identity for the calling
// goroutine, and blocks until the system goes idle: either nothing was
// ever made ready, or every spawned process has exited or blocked.
func (e *Engine) Boot() {
	e.mu.Lock()
	me := e.k.table.idle.pid
	e.runSyscall(me, e.k.Boot)
	e.mu.Unlock()
}

// Yield, Send, Receive and SendRec are the Engine-mediated equivalents
// of the identically-named Kernel methods: a Body calls these, never the
// Kernel ones directly, so that a block or preemption parks the right
// goroutine.
func (e *Engine) Yield() {
	pid := e.k.table.current.pid
	e.runSyscall(pid, e.k.Yield)
}

func (e *Engine) Send(dest ProcID, typ int, msg *Message) {
	pid := e.k.table.current.pid
	e.runSyscall(pid, func() { e.k.Send(dest, typ, msg) })
}

func (e *Engine) Receive(typ int, msg *Message) {
	pid := e.k.table.current.pid
	e.runSyscall(pid, func() { e.k.Receive(typ, msg) })
}

func (e *Engine) SendRec(dest ProcID, typ int, msg *Message) {
	pid := e.k.table.current.pid
	e.runSyscall(pid, func() { e.k.SendRec(dest, typ, msg) })
}

// Connect, Priority and Dump never block or reschedule, so they need
// none of runSyscall's turn-taking; they pass straight through.
func (e *Engine) Connect(irq int)  { e.k.Connect(irq) }
func (e *Engine) Priority(p int)   { e.k.Priority(p) }
func (e *Engine) Dump()            { e.k.Dump() }
func (e *Engine) Kernel() *Kernel  { return e.k }

// Checkpoint lets a running Body hand the CPU to whichever goroutine is
// waiting on AwaitCheckpoint, without performing any real syscall: the
// process stays exactly as it was (still current, state unchanged), the
// same way a process running plain, non-kernel code between two syscalls
// remains current on real hardware. It is a test seam only: production
// bodies never need it.
func (e *Engine) Checkpoint() {
	me := e.k.table.current.pid
	e.ckpt[me] <- struct{}{}
	e.mu.Unlock()
	<-e.resume[me]
	e.mu.Lock()
}

// AwaitCheckpoint blocks until pid reaches a Checkpoint call, then
// acquires the engine lock on the caller's behalf: the returned state is
// safe to inspect or feed to Interrupt, exactly as if the interrupt
// arrived while pid was genuinely running.
func (e *Engine) AwaitCheckpoint(pid ProcID) {
	<-e.ckpt[pid]
	e.mu.Lock()
}

// ResumeCheckpoint releases the lock acquired by AwaitCheckpoint and lets
// pid's Checkpoint call return.
func (e *Engine) ResumeCheckpoint(pid ProcID) {
	e.mu.Unlock()
	e.resume[pid] <- struct{}{}
}

// deliverInterrupt is the shared core of RaiseInterrupt and
// InterruptLocked: call through to Kernel.Interrupt and, only if that
// actually requested a reschedule (dest was waiting and outranked
// whoever is running), complete the interrupt-return path with
// CxtSwitch, exactly as spec §4.G describes the IRQ path doing on
// return. If no reschedule was requested — dest's pending flag was
// merely set — the interrupted process keeps running uninterrupted.
func (e *Engine) deliverInterrupt(dest ProcID) {
	before := e.k.table.current
	cpu := e.k.hw.CPU().(*hal.HostCPU)
	e.k.Interrupt(dest)
	if cpu.TakeRescheduleRequest() {
		e.k.CxtSwitch(before.sp)
	}
}

// RaiseInterrupt simulates an interrupt arriving while the calling
// goroutine holds the idle identity (spec §8 scenario 4: an interrupt
// while nothing else is ready). It must only be called after Boot has
// returned, i.e. once the system has gone idle, and it blocks again
// until the system goes idle a second time — the CPU only comes back to
// idle once the handler it may have woken has run to its next block.
func (e *Engine) RaiseInterrupt(dest ProcID) {
	e.mu.Lock()
	me := e.k.table.idle.pid
	e.runSyscall(me, func() { e.deliverInterrupt(dest) })
	e.mu.Unlock()
}

// InterruptLocked delivers an interrupt while a process is parked at a
// Checkpoint (spec §8 scenario 2: an interrupt while a handler is
// "running non-receive code"). The caller must be holding the lock
// acquired by AwaitCheckpoint(dest) — or by AwaitCheckpoint of whichever
// process happens to be current — and dest need not be that same
// process: an interrupt destined for some other, currently-blocked
// process is unaffected by who else happens to be running.
func (e *Engine) InterruptLocked(dest ProcID) {
	e.deliverInterrupt(dest)
}
