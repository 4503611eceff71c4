//go:build unix

package beacon

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func setBroadcast(conn syscall.Conn, enabled bool) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}
	value := 0
	if enabled {
		value = 1
	}
	var serr error
	err = raw.Control(func(fd uintptr) {
		serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, value)
	})
	if err != nil {
		return err
	}
	return os.NewSyscallError("setsockopt", serr)
}

func broadcastEnabled(conn syscall.Conn) (enabled bool, err error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return
	}
	var value int
	var serr error
	err = raw.Control(func(fd uintptr) {
		value, serr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST)
	})
	if err != nil {
		return
	}
	if serr != nil {
		err = os.NewSyscallError("getsockopt", serr)
		return
	}
	enabled = value != 0
	return
}
