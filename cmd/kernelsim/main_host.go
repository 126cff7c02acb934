//go:build !tinygo

// Command kernelsim boots the kernel on the host, running a small demo
// scenario instead of real application processes, so the scheduler, IPC
// and interrupt bridge can be exercised without hardware.
package main

import (
	"flag"
	"fmt"
	"os"

	"microbian/driver/uart"
	"microbian/hal"
	"microbian/internal/buildinfo"
	"microbian/kernel"
)

func main() {
	dump := flag.Bool("dump", false, "print a process dump once the demo settles")
	flag.Parse()

	fmt.Fprintf(os.Stderr, "kernelsim %s (host)\n", buildinfo.Short())

	hw := hal.NewHostHAL(8192, hal.StderrLogger{})
	k := kernel.New(hw)
	e := kernel.NewEngine(k)

	dev := &uart.LoopbackDevice{}
	dev.Feed('h', 'i', '\n')

	uartPID := e.Spawn("UART", uart.Body(dev, demoUARTIRQ), 0, 512)
	e.Spawn("PING", pingBody(uartPID), 0, 512)

	e.Boot() // blocks until the system goes idle: PING waiting on its first MGetc reply, UART in Receive

	// The demo's bytes were queued directly into the loopback device
	// above, standing in for the wire; nothing wakes UART's Receive loop
	// until its interrupt is actually delivered.
	e.RaiseInterrupt(uartPID)

	if *dump {
		e.Dump()
	}
}

const demoUARTIRQ = 3

// pingBody sends a handful of bytes to the UART driver and then asks for
// three bytes back, discarding them, demonstrating a two-process
// rendezvous chain: PING -> UART (MPutc) and UART -> PING (REPLY, via
// MGetc).
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
