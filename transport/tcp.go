package transport

import (
	"net"

	"github.com/pkg/errors"
)

// ListenTCP opens a TCP listener on addr (e.g. ":5025", the
// conventional SCPI raw-socket port) for use with ListenAndServe.
func ListenTCP(addr string) (net.Listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "transport: listen on %s", addr)
	}
	return l, nil
}
