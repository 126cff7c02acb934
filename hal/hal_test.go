//go:build !tinygo

package hal

import "testing"

func TestBuildInitialFrameLaysOutArgAndEntryPoint(t *testing.T) {
	stack := make([]uint32, 32)
	const bodyPC = 0x08001234
	const exitPC = 0x08005678
	const arg = 0xCAFEBABE

	sp := BuildInitialFrame(stack, bodyPC, exitPC, arg)

	frame := ReadFrame(sp)
	if frame.R0 != arg {
		t.Fatalf("R0 = %#x, want arg %#x", frame.R0, uint32(arg))
	}
	if frame.LR != exitPC {
		t.Fatalf("LR = %#x, want exitPC %#x", frame.LR, uint32(exitPC))
	}
	if frame.PC != bodyPC&^1 {
		t.Fatalf("PC = %#x, want bodyPC with Thumb bit cleared %#x", frame.PC, uint32(bodyPC)&^1)
	}
	if frame.PSR&initPSR == 0 {
		t.Fatal("PSR must have the Thumb bit set or the CPU faults on return")
	}
	if len(sp) != FrameWords {
		t.Fatalf("len(sp) = %d, want %d", len(sp), FrameWords)
	}
}

func TestHostNVICEnableDisableAndActive(t *testing.T) {
	n := newHostNVIC()
	if n.ActiveIRQ() != -1 {
		t.Fatal("a fresh NVIC has no active IRQ")
	}

	n.EnableIRQ(5)
	if !n.IsEnabled(5) {
		t.Fatal("EnableIRQ must mark the IRQ enabled")
	}

	n.setActive(5)
	if n.ActiveIRQ() != 5 {
		t.Fatal("setActive must be reflected by ActiveIRQ")
	}

	n.DisableIRQ(5)
	if n.IsEnabled(5) {
		t.Fatal("DisableIRQ must clear the enabled flag")
	}
	if n.ActiveIRQ() != -1 {
		t.Fatal("disabling the currently active IRQ must clear ActiveIRQ too")
	}
}

func TestHostCPURescheduleRequestIsCheckAndClear(t *testing.T) {
	c := newHostCPU()
	if c.TakeRescheduleRequest() {
		t.Fatal("a fresh CPU has nothing pending")
	}

	c.RequestReschedule()
	if !c.TakeRescheduleRequest() {
		t.Fatal("expected the pending request to be observed")
	}
	if c.TakeRescheduleRequest() {
		t.Fatal("TakeRescheduleRequest must clear the flag, not just peek at it")
	}
}

func TestHostCPUInterruptMask(t *testing.T) {
	c := newHostCPU()
	if c.InterruptsDisabled() {
		t.Fatal("interrupts start enabled")
	}
	c.DisableInterrupts()
	if !c.InterruptsDisabled() {
		t.Fatal("DisableInterrupts must be observable")
	}
	c.RestoreInterrupts()
	if c.InterruptsDisabled() {
		t.Fatal("RestoreInterrupts must clear the mask")
	}
}

func TestBufferLoggerCollectsLines(t *testing.T) {
	l := &BufferLogger{}
	l.WriteLineString("first")
	l.WriteLineString("second")

	lines := l.Lines()
	if len(lines) != 2 || lines[0] != "first" || lines[1] != "second" {
		t.Fatalf("Lines() = %v, want [first second]", lines)
	}
}
