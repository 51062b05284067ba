// Package transport provides ready-made scpi.Interface implementations
// over serial ports and TCP sockets, plus a net.Listener-driven server
// loop that hands each accepted connection its own scpi.Context.
package transport

import (
	"bufio"
	"io"
	"net"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	scpi "github.com/instrument-tools/scpi-core"
)

// Conn bundles an io.ReadWriteCloser (a serial port or a net.Conn) with
// a logger, and exposes the scpi.Interface callbacks the driver needs.
type Conn struct {
	rw     io.ReadWriteCloser
	log    *logrus.Entry
	writer *bufio.Writer
}

// NewConn wraps rw for use as a scpi command source, logging through
// log with a "component" field; write and flush errors are wrapped and
// returned, not logged. log may be nil, in which case
// logrus.StandardLogger() is used.
func NewConn(rw io.ReadWriteCloser, log *logrus.Logger) *Conn {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Conn{
		rw:     rw,
		log:    log.WithField("component", "scpi-transport"),
		writer: bufio.NewWriter(rw),
	}
}

// Interface returns the scpi.Interface hooks bound to this connection.
func (c *Conn) Interface() *scpi.Interface {
	return &scpi.Interface{
		Write: c.write,
		Flush: c.flush,
		OnError: func(err *scpi.Error) {
			c.log.WithField("code", err.Code).Warn(err.Info)
		},
	}
}

func (c *Conn) write(data []byte) (int, error) {
	n, err := c.writer.Write(data)
	if err != nil {
		return n, errors.Wrap(err, "transport: write")
	}
	return n, nil
}

func (c *Conn) flush() error {
	if err := c.writer.Flush(); err != nil {
		return errors.Wrap(err, "transport: flush")
	}
	return nil
}

// Close releases the underlying connection.
func (c *Conn) Close() error {
	return c.rw.Close()
}

// Serve reads from the connection in a loop, feeding every chunk to
// ctx.Input, until rw returns an error (including io.EOF on an orderly
// close). It flushes any buffered-but-unterminated command on exit.
func Serve(ctx *scpi.Context, conn *Conn) error {
	buf := make([]byte, 4096)
	for {
		n, err := conn.rw.Read(buf)
		if n > 0 {
			if inputErr := ctx.Input(buf[:n]); inputErr != nil {
				conn.log.WithError(inputErr).Warn("scpi input error")
			}
		}
		if err != nil {
			ctx.Input(nil) // flush whatever is pending before giving up
			if err == io.EOF {
				return nil
			}
			return errors.Wrap(err, "transport: read")
		}
	}
}

// ListenAndServe accepts connections on l and runs Serve for each one
// on its own goroutine against a freshly built Context (via newContext,
// which receives that connection's scpi.Interface), logging accept and
// per-connection errors through log.
func ListenAndServe(l net.Listener, newContext func(*scpi.Interface) *scpi.Context, log *logrus.Logger) error {
	if log == nil {
		log = logrus.StandardLogger()
	}
	for {
		nc, err := l.Accept()
		if err != nil {
			return errors.Wrap(err, "transport: accept")
		}
		conn := NewConn(nc, log)
		ctx := newContext(conn.Interface())
		go func() {
			defer conn.Close()
			if err := Serve(ctx, conn); err != nil {
				log.WithError(err).WithField("remote", nc.RemoteAddr()).Warn("connection closed")
			}
		}()
	}
}
