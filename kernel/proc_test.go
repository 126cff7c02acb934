package kernel

import "testing"

func TestNewProcessAssignsDensePIDs(t *testing.T) {
	k, _ := newTestKernel()
	a := k.newProcess("A", 256)
	b := k.newProcess("B", 256)
	if a.pid != 1 {
		t.Fatalf("first spawned pid = %d, want 1 (idle takes 0)", a.pid)
	}
	if b.pid != a.pid+1 {
		t.Fatalf("pids not dense: a=%d b=%d", a.pid, b.pid)
	}
	if k.table.ByPID(a.pid) != a || k.table.ByPID(b.pid) != b {
		t.Fatal("ByPID did not round-trip")
	}
}

func TestNewProcessPanicsWhenTableFull(t *testing.T) {
	k, _ := newTestKernel()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when process table is exhausted")
		}
	}()
	for i := 0; i < NPROCS; i++ {
		k.newProcess("P", 64)
	}
}

func TestStackUsedReportsUntouchedDepth(t *testing.T) {
	k, _ := newTestKernel()
	p := k.newProcess("P", 64)
	if got, want := p.StackUsed(), 0; got != want {
		t.Fatalf("StackUsed on a fresh stack = %d, want %d", got, want)
	}
	p.stack[len(p.stack)-1] = 0x12345678
	if got := p.StackUsed(); got != 4 {
		t.Fatalf("StackUsed after touching the top word = %d, want 4", got)
	}
	if got, want := p.StackSize(), 64; got != want {
		t.Fatalf("StackSize = %d, want %d", got, want)
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		DEAD: "DEAD", ACTIVE: "ACTIVE", SENDING: "SENDING",
		RECEIVING: "RECEIVING", SENDREC: "SENDREC", IDLING: "IDLING",
		State(99): "???",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}
