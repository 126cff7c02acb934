package kernel

// ProcID names a process by its index in the process table.
type ProcID uint16

// NPROCS is the fixed capacity of the process table.
const NPROCS = 32

// State is one of the six lifecycle states a descriptor can be in.
type State int

const (
	DEAD State = iota
	ACTIVE
	SENDING
	RECEIVING
	SENDREC
	IDLING
)

func (s State) String() string {
	switch s {
	case DEAD:
		return "DEAD"
	case ACTIVE:
		return "ACTIVE"
	case SENDING:
		return "SENDING"
	case RECEIVING:
		return "RECEIVING"
	case SENDREC:
		return "SENDREC"
	case IDLING:
		return "IDLING"
	default:
		return "???"
	}
}

// Priority levels. 0 is highest; P_IDLE is a sentinel never used for a
// real ready queue.
const (
	P_HANDLER = 0
	P_HIGH    = 1
	P_LOW     = 2
	P_IDLE    = 3

	nPriorities = 3 // number of real (non-idle) ready queues
)

// BLANK paints fresh stack regions so unused depth can be measured.
const BLANK = 0xDEADBEEF

// Descriptor is one process table entry. It is on at most one list at a
// time: a ready queue (via next) when ACTIVE, or a receiver's sender
// queue (also via next) when SENDING or SENDREC. RECEIVING and IDLING
// descriptors are on no list.
type Descriptor struct {
	pid      ProcID
	name     string
	state    State
	sp       []uint32 // saved exception frame, a view over this process's own stack
	stack    []uint32
	priority int

	waiting *Descriptor // head of the queue of processes sending to this one
	pending bool        // HARDWARE interrupt notification pending
	msgtype int         // type this process is sending, or filtering on in Receive
	message *Message    // caller-supplied buffer for the in-flight operation

	next *Descriptor // link within whichever single list this descriptor is on

	body Body   // entry point, run by Engine once scheduled
	arg  uint32 // argument passed to body
}

// PID returns the descriptor's process id.
func (d *Descriptor) PID() ProcID { return d.pid }

// Name returns the descriptor's human-readable name.
func (d *Descriptor) Name() string { return d.name }

// State returns the descriptor's current lifecycle state.
func (d *Descriptor) State() State { return d.state }

// StackUsed scans the stack region for the first non-BLANK word from the
// base and returns how many bytes below the top have been touched.
func (d *Descriptor) StackUsed() int {
	i := 0
	for i < len(d.stack) && d.stack[i] == BLANK {
		i++
	}
	return (len(d.stack) - i) * 4
}

// StackSize returns the byte size of the descriptor's stack region.
func (d *Descriptor) StackSize() int { return len(d.stack) * 4 }

// Table is the fixed-capacity process table: a dense array of descriptor
// references indexed by pid. Table also tracks os_current and the idle
// process, mirroring microbian's global os_ptable/os_current/idle_proc.
type Table struct {
	procs   [NPROCS]*Descriptor
	nprocs  ProcID
	current *Descriptor
	idle    *Descriptor
}

// NProcs returns one past the highest allocated pid.
func (t *Table) NProcs() ProcID { return t.nprocs }

// Current returns the running process. While inside a syscall it still
// refers to the caller until the scheduler chooses a replacement.
func (t *Table) Current() *Descriptor { return t.current }

// ByPID returns the descriptor for pid, or nil if pid is out of range.
func (t *Table) ByPID(pid ProcID) *Descriptor {
	if pid >= t.nprocs {
		return nil
	}
	return t.procs[pid]
}

func (t *Table) add(d *Descriptor) {
	d.pid = t.nprocs
	t.procs[t.nprocs] = d
	t.nprocs++
}
