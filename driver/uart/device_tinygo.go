//go:build tinygo && baremetal

package uart

import (
	"machine"

	drv "tinygo.org/x/drivers"
)

// machineUART adapts machine.UART0 to Device and, by satisfying
// drv.UART's WriteByte/Configure surface as well, stays interchangeable
// with any tinygo.org/x/drivers peripheral driver that expects a generic
// UART to talk over rather than a concrete *machine.UART.
type machineUART struct {
	uart *machine.UART
}

var _ drv.UART = (*machineUART)(nil)

// NewMachineUART configures UART0 at 115200 8N1 on the pins the board
// wires to the console header. It does not touch the IRQ: Body connects
// the UART0 interrupt number it is given once its process runs.
func NewMachineUART() Device {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	return &machineUART{uart: uart}
}

func (m *machineUART) WriteByte(c byte) error {
	return m.uart.WriteByte(c)
}

func (m *machineUART) ReadByte() (byte, error) {
	return m.uart.ReadByte()
}

func (m *machineUART) Configure(config drv.UARTConfig) error {
	m.uart.Configure(machine.UARTConfig{BaudRate: config.BaudRate})
	return nil
}
