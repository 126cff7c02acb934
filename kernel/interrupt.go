package kernel

// Connect registers the calling process as the handler for peripheral
// irq, raises it to the highest priority (P_HANDLER), and enables the
// IRQ at the NVIC. Only non-negative peripheral IRQs may be connected;
// the 16 CPU exceptions (irq < 0) are not routed through the message
// bridge.
func (k *Kernel) Connect(irq int) {
	if irq < 0 {
		k.Panic("can't connect to CPU exceptions")
	}
	cur := k.table.current
	cur.priority = P_HANDLER
	k.handler[irq] = cur.pid
	k.hw.NVIC().EnableIRQ(irq)
}

// Priority sets the calling process's priority. Only P_HANDLER, P_HIGH
// and P_LOW are legal for a process to request explicitly.
func (k *Kernel) Priority(p int) {
	if p < P_HANDLER || p > P_LOW {
		k.Panic("bad priority %d", p)
	}
	k.table.current.priority = p
}

// Interrupt delivers a synthetic HARDWARE/INTERRUPT message to dest. If
// dest is already RECEIVING with a matching filter it is woken and, when
// the currently running process has lower priority, a reschedule is
// requested so the handler preempts immediately. Otherwise dest's
// pending flag is set, collapsing this and any further interrupt before
// the handler next receives into a single deferred notification.
//
// Called only from the interrupt bridge, never from user code.
func (k *Kernel) Interrupt(dest ProcID) {
	pdest := k.table.procs[dest]

	if accept(pdest, INTERRUPT) {
		deliver(pdest.message, HARDWARE, INTERRUPT, nil)
		k.sched.makeReady(pdest, P_HANDLER)
		if k.table.current.priority > P_HANDLER {
			k.hw.CPU().RequestReschedule()
		}
	} else {
		pdest.pending = true
	}
}

// DefaultHandler is the common entry point for all peripheral IRQs: it
// looks up the registered handler for the currently active interrupt,
// disables that IRQ at the NVIC (the handler re-enables it once it has
// drained the device), and delivers the interrupt message.
func (k *Kernel) DefaultHandler() {
	irq := k.hw.NVIC().ActiveIRQ()
	var task ProcID
	if irq >= 0 {
		task = k.handler[irq]
	}
	if irq < 0 || task == 0 {
		k.Panic("unexpected interrupt %d", irq)
	}
	k.hw.NVIC().DisableIRQ(irq)
	k.Interrupt(task)
}
