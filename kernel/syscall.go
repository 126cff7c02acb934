package kernel

// Syscall numbers, matching the operand carried by the SVC instruction's
// 8-bit immediate on the baremetal build.
const (
	SysYield = iota
	SysSend
	SysReceive
	SysSendRec
	SysExit
	SysDump
)

// Yield re-queues the caller at its own priority and picks a new process.
func (k *Kernel) Yield() {
	cur := k.table.current
	k.sched.makeReady(cur, cur.priority)
	k.reschedule()
}

// Exit marks the caller DEAD and picks a new process. There is no
// resource reclamation: a dead descriptor's stack and table slot are
// simply never reused (spec Non-goals).
func (k *Kernel) Exit() {
	k.table.current.state = DEAD
	k.reschedule()
}

// Dispatch is the syscall dispatcher's entry point from the trap: it
// saves the caller's frame, decodes op, and routes to the scheduler or
// to one of the IPC operations, returning the frame the trampoline
// should restore next. It corresponds to microbian's system_call, with
// register decoding already done by the (out-of-scope) trap trampoline —
// dest/typ/msg are only meaningful for the SysSend/SysReceive/SysSendRec
// operations and are ignored otherwise.
func (k *Kernel) Dispatch(op int, frame []uint32, dest ProcID, typ int, msg *Message) []uint32 {
	k.table.current.sp = frame

	switch op {
	case SysYield:
		k.Yield()
	case SysSend:
		k.Send(dest, typ, msg)
	case SysReceive:
		k.Receive(typ, msg)
	case SysSendRec:
		k.SendRec(dest, typ, msg)
	case SysExit:
		k.Exit()
	case SysDump:
		k.Dump()
	default:
		k.Panic("unknown syscall %d", op)
	}

	return k.table.current.sp
}

// CxtSwitch is the interrupt-return path's equivalent of Dispatch: save
// the interrupted process's frame, re-queue it at its own priority (it
// was, after all, merely interrupted, not blocked), and pick a new
// process. It corresponds to microbian's cxt_switch.
func (k *Kernel) CxtSwitch(frame []uint32) []uint32 {
	cur := k.table.current
	cur.sp = frame
	k.sched.makeReady(cur, cur.priority)
	k.reschedule()
	return k.table.current.sp
}
