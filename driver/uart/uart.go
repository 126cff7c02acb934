// Package uart is a representative device-driver process: the one
// boundary the microkernel's own spec allows a concrete peripheral
// implementation for. It is not part of the kernel proper — it is
// ordinary user code built entirely out of Connect/Receive/Send/Interrupt
// — but demonstrates the interrupt bridge against a real UART instead of
// a synthetic test double.
package uart

import "microbian/kernel"

// Message types this driver understands, in addition to
// kernel.INTERRUPT, which arrives whenever the peripheral's IRQ fires.
const (
	// MPutc asks the driver to transmit one byte, carried in Body[0].
	MPutc = iota
	// MGetc asks the driver to deliver the next received byte to the
	// caller as a reply (via SendRec).
	MGetc
)

// Device is the minimal surface this driver needs from a UART
// peripheral: transmit one byte, and try to read one without blocking
// (ReadByte returns an error, not a block, when the receive FIFO is
// empty — the driver only calls it after being told by an interrupt
// that a byte is waiting).
type Device interface {
	WriteByte(c byte) error
	ReadByte() (byte, error)
}

// driver is the process state: the peripheral, the IRQ it is wired to,
// and the queue of processes waiting on a byte via MGetc.
type driver struct {
	dev Device
	irq int

	waiting []kernel.ProcID
}

// Body returns a process entry point that connects to irq, then
// services MPutc/MGetc requests and drains dev on every interrupt,
// exactly the shape of microbian's serial.c: a driver is nothing but a
// Receive loop plus an interrupt handler branch.
func Body(dev Device, irq int) kernel.Body {
	d := &driver{dev: dev, irq: irq}
	return d.run
}

func (d *driver) run(e *kernel.Engine, arg uint32) {
	e.Connect(d.irq)

	var msg kernel.Message
	for {
		e.Receive(kernel.ANY, &msg)
		switch msg.Type {
		case kernel.INTERRUPT:
			d.drain(e)
		case MPutc:
			d.dev.WriteByte(msg.Body[0])
		case MGetc:
			d.waiting = append(d.waiting, msg.Sender)
		default:
			e.Kernel().BadMessage(msg.Type)
		}
	}
}

// drain reads one buffered byte per waiting MGetc caller and replies to
// each, in the order they asked, until either the callers or the
// peripheral's buffered bytes run out; bytes beyond the number of waiting
// callers stay in the peripheral — matching microbian's convention that a driver
// answers a client with Send(sender, REPLY, &reply) once its request is
// satisfied, since MGetc itself was a SendRec on the client side.
func (d *driver) drain(e *kernel.Engine) {
	for len(d.waiting) > 0 {
		b, err := d.dev.ReadByte()
		if err != nil {
			return
		}
		client := d.waiting[0]
		d.waiting = d.waiting[1:]
		var reply kernel.Message
		reply.Body[0] = b
		e.Send(client, kernel.REPLY, &reply)
	}
}
