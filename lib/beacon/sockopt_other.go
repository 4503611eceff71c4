//go:build !unix

package beacon

import (
	"errors"
	"syscall"
)

// The runtime already enables SO_BROADCAST on datagram sockets here.
func setBroadcast(conn syscall.Conn, enabled bool) error {
	if !enabled {
		return errors.ErrUnsupported
	}
	return nil
}

func broadcastEnabled(conn syscall.Conn) (bool, error) {
	return false, errors.ErrUnsupported
}
