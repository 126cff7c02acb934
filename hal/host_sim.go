//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
)

// HostHAL is an in-process simulation of the hardware surface: a plain
// slice for memory, a logger that either buffers lines for tests or
// writes them to stderr, an NVIC that a test can drive by hand, and a
// CPU whose WaitForInterrupt blocks on a channel instead of executing a
// WFI instruction. It exists so the kernel package's tests, and
// cmd/kernelsim's host build, run without a board.
type HostHAL struct {
	logger Logger
	memory *HostMemory
	nvic   *HostNVIC
	cpu    *HostCPU
}

// NewHostHAL builds a HostHAL with wordCount words of simulated RAM and
// the given logger.
func NewHostHAL(wordCount int, logger Logger) *HostHAL {
	return &HostHAL{
		logger: logger,
		memory: &HostMemory{words: make([]uint32, wordCount)},
		nvic:   newHostNVIC(),
		cpu:    newHostCPU(),
	}
}

func (h *HostHAL) Logger() Logger       { return h.logger }
func (h *HostHAL) Memory() MemoryRegion { return h.memory }
func (h *HostHAL) NVIC() NVIC           { return h.nvic }
func (h *HostHAL) CPU() CPU             { return h.cpu }

// SetActiveIRQ marks irq as the interrupt currently being serviced, as
// if the NVIC had just taken it. A test drives this directly instead of
// simulating an actual peripheral.
func (h *HostHAL) SetActiveIRQ(irq int) { h.nvic.setActive(irq) }

// HostMemory is a fixed-size word-addressed arena backed by a plain
// slice, standing in for the linker-supplied free-RAM region.
type HostMemory struct {
	words []uint32
}

func (m *HostMemory) Words() []uint32 { return m.words }

// HostNVIC simulates the interrupt controller: which IRQs are enabled,
// and which one (if any) is currently active.
type HostNVIC struct {
	mu      sync.Mutex
	enabled [32]bool
	active  int
}

func newHostNVIC() *HostNVIC { return &HostNVIC{active: -1} }

func (n *HostNVIC) EnableIRQ(irq int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled[irq] = true
}

func (n *HostNVIC) DisableIRQ(irq int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled[irq] = false
	if n.active == irq {
		n.active = -1
	}
}

func (n *HostNVIC) ActiveIRQ() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active
}

func (n *HostNVIC) setActive(irq int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.active = irq
}

// IsEnabled reports whether irq is currently enabled, for tests.
func (n *HostNVIC) IsEnabled(irq int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.enabled[irq]
}

// HostCPU simulates the two CPU primitives the scheduler needs and the
// interrupt lock/restore discipline spec §5 grants trusted code. It has
// TakeRescheduleRequest, beyond the CPU interface, because Engine needs
// to observe and clear the pending reschedule request directly: on real
// hardware that request is a PendSV exception the trampoline consumes
// implicitly, but nothing here plays the trampoline's role.
type HostCPU struct {
	mu                  sync.Mutex
	interruptsDisabled  bool
	rescheduleRequested bool
	wake                chan struct{}
}

func newHostCPU() *HostCPU {
	return &HostCPU{wake: make(chan struct{}, 1)}
}

func (c *HostCPU) WaitForInterrupt() {
	<-c.wake
}

// Signal wakes a goroutine blocked in WaitForInterrupt, standing in for
// an interrupt line going high. Only meaningful for demos that actually
// use WaitForInterrupt as their idle loop; Engine's own idle handling
// does not depend on it.
func (c *HostCPU) Signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *HostCPU) RequestReschedule() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rescheduleRequested = true
}

// TakeRescheduleRequest reports whether RequestReschedule has been
// called since the last call to TakeRescheduleRequest, clearing the
// flag. Engine calls this once per delivered interrupt to decide whether
// the interrupt-return path needs to run CxtSwitch.
func (c *HostCPU) TakeRescheduleRequest() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.rescheduleRequested
	c.rescheduleRequested = false
	return v
}

func (c *HostCPU) DisableInterrupts() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interruptsDisabled = true
}

func (c *HostCPU) RestoreInterrupts() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interruptsDisabled = false
}

// InterruptsDisabled reports the current mask state, for tests that
// check kprintf/panic actually take the lock.
func (c *HostCPU) InterruptsDisabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interruptsDisabled
}

// BufferLogger collects WriteLineString calls in memory, for tests that
// want to assert on kernel.Dump or panic output without touching stdio.
type BufferLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *BufferLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

// Lines returns a snapshot of everything written so far.
func (l *BufferLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// StderrLogger writes each line to the process's standard error, for
// cmd/kernelsim's host build.
type StderrLogger struct{}

func (StderrLogger) WriteLineString(s string) {
	fmt.Fprintln(os.Stderr, s)
}
