//go:build tinygo && baremetal

package main

import (
	"microbian/driver/uart"
	"microbian/hal"
	"microbian/kernel"
)

func main() {
	hw := hal.New()
	k := kernel.New(hw)
	e := kernel.NewEngine(k)

	dev := uart.NewMachineUART()
	uartPID := e.Spawn("UART", uart.Body(dev, uartIRQ), 0, 512)
	e.Spawn("PING", pingBody(uartPID), 0, 512)

	e.Boot()
}

// uartIRQ is the board's UART0 interrupt number; wiring an IRQ stub that
// calls kernel.DefaultHandler for it is the assembly trampoline's job,
// out of scope here (spec §1).
const uartIRQ = 3

func pingBody(uartPID kernel.ProcID) kernel.Body {
	return func(e *kernel.Engine, arg uint32) {
		var msg kernel.Message
		for _, c := range []byte("ping\n") {
			msg.Body[0] = c
			e.Send(uartPID, uart.MPutc, &msg)
		}
		for i := 0; i < 3; i++ {
			e.SendRec(uartPID, uart.MGetc, &msg)
		}
	}
}
