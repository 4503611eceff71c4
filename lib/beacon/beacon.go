package beacon

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// ErrInvalidInterval is returned by Run when the interval is not positive.
var ErrInvalidInterval = errors.New("interval must be positive")

// Target is the destination of every datagram a Broadcaster sends.
// It is fixed for the lifetime of a Broadcaster.
type Target struct {
	Address string
	Port    int
}

func (t Target) String() string {
	return net.JoinHostPort(t.Address, strconv.Itoa(t.Port))
}

func (t Target) validate() error {
	if t.Address == "" {
		return errors.New("empty target address")
	}
	if t.Port < 0 || t.Port > 65535 {
		return fmt.Errorf("target port %d out of range", t.Port)
	}
	return nil
}

// SocketInitError indicates that the broadcast socket could not be set up.
// It is only returned from New.
type SocketInitError struct {
	Op  string
	Err error
}

func (e *SocketInitError) Error() string {
	return "socket init: " + e.Op + ": " + e.Err.Error()
}

func (e *SocketInitError) Unwrap() error {
	return e.Err
}

// TransmitError indicates that a datagram could not be sent to the target.
type TransmitError struct {
	Target Target
	Err    error
}

func (e *TransmitError) Error() string {
	return "transmit to " + e.Target.String() + ": " + e.Err.Error()
}

func (e *TransmitError) Unwrap() error {
	return e.Err
}
