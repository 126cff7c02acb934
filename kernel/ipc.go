package kernel

// accept reports whether pdest is currently RECEIVING a message whose
// filter admits typ.
func accept(pdest *Descriptor, typ int) bool {
	return pdest.state == RECEIVING && (pdest.msgtype == ANY || pdest.msgtype == typ)
}

func setState(p *Descriptor, state State, typ int, msg *Message) {
	p.state = state
	p.msgtype = typ
	p.message = msg
}

// enqueueSender appends the calling process to pdest's sender queue, in
// arrival order.
func (k *Kernel) enqueueSender(pdest *Descriptor) {
	cur := k.table.current
	cur.next = nil
	if pdest.waiting == nil {
		pdest.waiting = cur
	} else {
		r := pdest.waiting
		for r.next != nil {
			r = r.next
		}
		r.next = cur
	}
}

func (k *Kernel) destOrPanic(dest ProcID) *Descriptor {
	if dest >= k.table.nprocs {
		k.Panic("sending to a non-existent process %d", dest)
	}
	pdest := k.table.procs[dest]
	if pdest.state == DEAD {
		k.Panic("sending to a non-existent process %d", dest)
	}
	return pdest
}

// Send delivers msg of the given type to dest. If dest is already
// RECEIVING with a matching filter the message is copied straight into
// its buffer and it is made ready; otherwise the caller blocks, joining
// dest's sender queue in arrival order, until a matching receive occurs.
func (k *Kernel) Send(dest ProcID, typ int, msg *Message) {
	src := k.table.current.pid
	pdest := k.destOrPanic(dest)

	if accept(pdest, typ) {
		deliver(pdest.message, src, typ, msg)
		k.sched.makeReady(pdest, pdest.priority)
		return
	}

	setState(k.table.current, SENDING, typ, msg)
	k.enqueueSender(pdest)
	k.reschedule()
}

// Receive accepts a message matching typ (ANY or an exact type). A
// pending interrupt notification is always checked first when the filter
// admits INTERRUPT. Failing that, the caller's sender queue is searched
// in FIFO order for the first matching sender; if none matches, the
// caller blocks.
func (k *Kernel) Receive(typ int, msg *Message) {
	cur := k.table.current

	if cur.pending && (typ == ANY || typ == INTERRUPT) {
		cur.pending = false
		deliver(msg, HARDWARE, INTERRUPT, nil)
		return
	}

	if typ != INTERRUPT {
		var prev *Descriptor
		for psrc := cur.waiting; psrc != nil; psrc = psrc.next {
			if typ == ANY || psrc.msgtype == typ {
				if prev == nil {
					cur.waiting = psrc.next
				} else {
					prev.next = psrc.next
				}

				deliver(msg, psrc.pid, psrc.msgtype, psrc.message)
				if psrc.state == SENDING {
					k.sched.makeReady(psrc, psrc.priority)
				} else {
					// A SENDREC sender waits off all lists for its reply.
					setState(psrc, RECEIVING, REPLY, psrc.message)
				}
				return
			}
			prev = psrc
		}
	}

	setState(cur, RECEIVING, typ, msg)
	k.reschedule()
}

// SendRec delivers msg to dest and then blocks until a REPLY-typed
// message arrives, as a single atomic rendezvous-then-reply: the caller
// is only ever admitted into RECEIVING-REPLY by this call, so no message
// of any other type can reach it in between. The sender of the REPLY is
// not checked: any process that sends a REPLY-typed message to the
// caller while it waits is accepted.
func (k *Kernel) SendRec(dest ProcID, typ int, msg *Message) {
	src := k.table.current.pid
	pdest := k.destOrPanic(dest)
	cur := k.table.current

	if accept(pdest, typ) {
		deliver(pdest.message, src, typ, msg)
		k.sched.makeReady(pdest, pdest.priority)
		setState(cur, RECEIVING, REPLY, msg)
	} else {
		setState(cur, SENDREC, typ, msg)
		k.enqueueSender(pdest)
	}

	k.reschedule()
}
