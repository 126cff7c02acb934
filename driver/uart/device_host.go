//go:build !tinygo

package uart

import (
	"errors"
	"sync"
)

// LoopbackDevice simulates a UART for host builds and tests: bytes
// written with WriteByte are appended to Written, and bytes queued with
// Feed become available to ReadByte, standing in for the receive FIFO a
// real peripheral would fill on an interrupt.
type LoopbackDevice struct {
	mu      sync.Mutex
	Written []byte
	rx      []byte
}

func (d *LoopbackDevice) WriteByte(c byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Written = append(d.Written, c)
	return nil
}

var errEmpty = errors.New("uart: receive fifo empty")

func (d *LoopbackDevice) ReadByte() (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.rx) == 0 {
		return 0, errEmpty
	}
	b := d.rx[0]
	d.rx = d.rx[1:]
	return b, nil
}

// Feed queues bytes as if they had just arrived over the wire.
func (d *LoopbackDevice) Feed(b ...byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rx = append(d.rx, b...)
}
