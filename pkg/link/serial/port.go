// Package serial opens the UART the link runs over.
package serial

import (
	"io"

	"github.com/golang/glog"
	"go.bug.st/serial"
)

// DefaultBaud is the fixed link baud rate: 8 data bits, no parity,
// 1 stop bit, no flow control, shared ground between nodes.
const DefaultBaud = 115200

// Config selects the serial device.
type Config struct {
	Device string
	Baud   int
}

// Open opens the configured port. A zero Baud means DefaultBaud.
func (c Config) Open() (io.ReadWriteCloser, error) {
	baud := c.Baud
	if baud == 0 {
		baud = DefaultBaud
	}
	port, err := serial.Open(c.Device, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	glog.Infof("serial port %s open at %d baud", c.Device, baud)
	return port, nil
}

// ListPorts enumerates serial device names present on the system.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}
