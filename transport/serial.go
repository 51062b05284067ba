package transport

import (
	"time"

	"github.com/daedaluz/goserial"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SerialConfig describes how to open and configure a serial port for
// instrument control.
type SerialConfig struct {
	Device      string
	BaudRate    serial.CFlag
	ReadTimeout time.Duration
}

// DefaultSerialConfig is a common bench-instrument setting: 9600 8N1,
// blocking reads.
func DefaultSerialConfig(device string) SerialConfig {
	return SerialConfig{Device: device, BaudRate: serial.B9600, ReadTimeout: -1}
}

// OpenSerial opens and configures cfg.Device as a raw 8N1 serial port
// and wraps it in a Conn ready for transport.Serve.
func OpenSerial(cfg SerialConfig, log *logrus.Logger) (*Conn, error) {
	opts := serial.NewOptions().SetReadTimeout(cfg.ReadTimeout)
	port, err := serial.Open(cfg.Device, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "transport: open serial port %s", cfg.Device)
	}
	if err := port.MakeRaw(); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "transport: set raw mode")
	}
	attrs, err := port.GetAttr()
	if err != nil {
		port.Close()
		return nil, errors.Wrap(err, "transport: get attrs")
	}
	attrs.SetSpeed(cfg.BaudRate)
	if err := port.SetAttr(serial.TCSANOW, attrs); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "transport: set baud rate")
	}
	return NewConn(port, log), nil
}
