//go:build tinygo && baremetal

package hal

import (
	"machine"
	"runtime/interrupt"

	"device/arm"
)

// arenaWords sizes the free-RAM arena the kernel carves stacks and
// descriptors from. Board startup and the linker script that would
// normally supply the real __end/__stack_limit symbols are out of scope
// here (spec §1); a fixed-size static array stands in for them.
const arenaWords = 4096

var arena [arenaWords]uint32

type cortexM0HAL struct {
	logger *uartLogger
	memory *staticMemory
	nvic   *cortexM0NVIC
	cpu    *cortexM0CPU
}

// New returns the HAL for a Cortex-M0 target, backed by the board's
// primary UART for diagnostics.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{BaudRate: 115200})
	return &cortexM0HAL{
		logger: &uartLogger{uart: uart},
		memory: &staticMemory{words: arena[:]},
		nvic:   &cortexM0NVIC{},
		cpu:    &cortexM0CPU{},
	}
}

func (h *cortexM0HAL) Logger() Logger       { return h.logger }
func (h *cortexM0HAL) Memory() MemoryRegion { return h.memory }
func (h *cortexM0HAL) NVIC() NVIC           { return h.nvic }
func (h *cortexM0HAL) CPU() CPU             { return h.cpu }

type staticMemory struct{ words []uint32 }

func (m *staticMemory) Words() []uint32 { return m.words }

type uartLogger struct{ uart *machine.UART }

func (l *uartLogger) WriteLineString(s string) {
	l.uart.Write([]byte(s))
	l.uart.Write([]byte{'\r', '\n'})
}

// cortexM0NVIC wraps runtime/interrupt, tracking which peripheral IRQ is
// currently being serviced so DefaultHandler can look it up: the
// Cortex-M0 has no dedicated "active IRQ" register readable from Go, so
// each registered handler stub is expected to record itself here before
// calling into the kernel (spec explicitly scopes that trampoline out;
// this field is the contract it must honour).
type cortexM0NVIC struct{ active int }

func (n *cortexM0NVIC) EnableIRQ(irq int) {
	interrupt.Interrupt(irq).Enable()
}

func (n *cortexM0NVIC) DisableIRQ(irq int) {
	interrupt.Interrupt(irq).Disable()
	if n.active == irq {
		n.active = -1
	}
}

func (n *cortexM0NVIC) ActiveIRQ() int { return n.active }

// SetActiveIRQ is called by an IRQ stub immediately before it invokes
// DefaultHandler.
func (n *cortexM0NVIC) SetActiveIRQ(irq int) { n.active = irq }

// cortexM0CPU implements the CPU primitives with the actual WFI
// instruction and the PRIMASK-based global interrupt mask; there is no
// software PendSV request queue to speak of on this target beyond
// what the (out-of-scope) trampoline already provides, so
// RequestReschedule here just records that the trampoline should
// tail-chain into a reschedule on IRQ return.
type cortexM0CPU struct {
	rescheduleRequested bool
	mask                interrupt.State
}

func (c *cortexM0CPU) WaitForInterrupt() {
	arm.Asm("wfi")
}

func (c *cortexM0CPU) RequestReschedule() {
	c.rescheduleRequested = true
}

func (c *cortexM0CPU) DisableInterrupts() {
	c.mask = interrupt.Disable()
}

func (c *cortexM0CPU) RestoreInterrupts() {
	interrupt.Restore(c.mask)
}
