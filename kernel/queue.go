package kernel

// readyQueue is a FIFO of descriptors threaded through Descriptor.next.
type readyQueue struct {
	head, tail *Descriptor
}

func (q *readyQueue) append(d *Descriptor) {
	d.next = nil
	if q.head == nil {
		q.head = d
	} else {
		q.tail.next = d
	}
	q.tail = d
}

func (q *readyQueue) popFront() *Descriptor {
	d := q.head
	if d != nil {
		q.head = d.next
		if q.head == nil {
			q.tail = nil
		}
	}
	return d
}

// scheduler holds the three priority-level ready queues and picks the
// next process to run. It is strictly priority-preemptive with
// round-robin within a priority; the running process is never reinserted
// except at explicit yield points.
type scheduler struct {
	ready [nPriorities]readyQueue
	table *Table
}

// makeReady appends p to the tail of its priority's ready queue and marks
// it ACTIVE. The idle process (priority P_IDLE) is never queued: it is
// selected implicitly whenever every real queue is empty.
func (s *scheduler) makeReady(p *Descriptor, prio int) {
	if prio == P_IDLE {
		return
	}
	p.state = ACTIVE
	p.priority = prio
	s.ready[prio].append(p)
}

// chooseProc scans the ready queues in ascending priority order (0
// highest) and makes the head of the first non-empty queue the new
// current process. If every queue is empty, the idle process runs.
func (s *scheduler) chooseProc() {
	for prio := 0; prio < nPriorities; prio++ {
		if d := s.ready[prio].popFront(); d != nil {
			s.table.current = d
			return
		}
	}
	s.table.current = s.table.idle
}
