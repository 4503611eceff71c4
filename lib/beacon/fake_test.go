package beacon

import (
	"errors"
	"net"
	"sync"
	"time"
)

var errUnreachable = errors.New("network is unreachable")

var (
	bcastTarget = Target{Address: "255.255.255.255", Port: 55667}
	bcastAddr   = &net.UDPAddr{IP: net.IPv4bcast, Port: 55667}
)

// fakeConn records every datagram written to it.
// The write with number failAt (starting at 1) fails with err.
type fakeConn struct {
	mu      sync.Mutex
	writes  [][]byte
	times   []time.Time
	failAt  int
	err     error
	onWrite func(n int)
	closed  bool
}

func (c *fakeConn) WriteTo(p []byte, addr net.Addr) (int, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0, net.ErrClosed
	}
	n := len(c.times) + 1
	if c.failAt > 0 && n >= c.failAt {
		c.times = append(c.times, time.Now())
		c.mu.Unlock()
		return 0, c.err
	}
	c.writes = append(c.writes, append([]byte(nil), p...))
	c.times = append(c.times, time.Now())
	hook := c.onWrite
	c.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	return len(p), nil
}

func (c *fakeConn) Writes() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.writes...)
}

func (c *fakeConn) Times() []time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Time(nil), c.times...)
}

func (c *fakeConn) ReadFrom(p []byte) (int, net.Addr, error) {
	return 0, nil, errors.New("fakeConn does not read")
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) LocalAddr() net.Addr {
	return &net.UDPAddr{IP: net.IPv4zero, Port: 40000}
}

func (c *fakeConn) SetDeadline(t time.Time) error      { return nil }
func (c *fakeConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *fakeConn) SetWriteDeadline(t time.Time) error { return nil }
