//go:build !tinygo

package uart

import (
	"testing"
	"time"

	"microbian/hal"
	"microbian/kernel"
)

const testTimeout = 2 * time.Second

func newTestEngine() *kernel.Engine {
	hw := hal.NewHostHAL(4096, &hal.BufferLogger{})
	k := kernel.New(hw)
	return kernel.NewEngine(k)
}

// TestDriverEchoesBufferedBytesOnInterrupt queues two clients behind a
// single MGetc request each before the interrupt ever fires, then checks
// that one interrupt drains the device and answers both, in the order
// they asked, exactly the "as many waiting MGetc callers as there are
// bytes" contract documented on drain.
func TestDriverEchoesBufferedBytesOnInterrupt(t *testing.T) {
	e := newTestEngine()
	dev := &LoopbackDevice{}
	dev.Feed('h', 'i')

	got := make(chan byte, 2)
	driverPID := e.Spawn("UART", Body(dev, 3), 0, 512)
	client := func(e *kernel.Engine, arg uint32) {
		var reply kernel.Message
		e.SendRec(driverPID, MGetc, &reply)
		got <- reply.Body[0]
	}
	e.Spawn("CLIENT1", client, 0, 512)
	e.Spawn("CLIENT2", client, 0, 512)

	e.Boot() // settles with both clients queued behind the driver's MGetc
	e.RaiseInterrupt(driverPID)

	want := []byte{'h', 'i'}
	for i, w := range want {
		select {
		case b := <-got:
			if b != w {
				t.Fatalf("byte %d = %q, want %q", i, b, w)
			}
		case <-time.After(testTimeout):
			t.Fatalf("timed out waiting for byte %d", i)
		}
	}
}

func TestDriverWritesPutcBytesToDevice(t *testing.T) {
	e := newTestEngine()
	dev := &LoopbackDevice{}

	done := make(chan struct{})
	driverPID := e.Spawn("UART", Body(dev, 3), 0, 512)
	e.Spawn("CLIENT", func(e *kernel.Engine, arg uint32) {
		var msg kernel.Message
		for _, c := range []byte("ok") {
			msg.Body[0] = c
			e.Send(driverPID, MPutc, &msg)
		}
		close(done)
	}, 0, 512)

	e.Boot()

	select {
	case <-done:
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for the client to finish sending")
	}

	if string(dev.Written) != "ok" {
		t.Fatalf("device.Written = %q, want %q", dev.Written, "ok")
	}
}

func TestLoopbackDeviceReadByteReportsEmptyFIFO(t *testing.T) {
	dev := &LoopbackDevice{}
	if _, err := dev.ReadByte(); err == nil {
		t.Fatal("expected an error reading from an empty receive FIFO")
	}
	dev.Feed('x')
	b, err := dev.ReadByte()
	if err != nil || b != 'x' {
		t.Fatalf("ReadByte() = %q, %v; want 'x', nil", b, err)
	}
}
