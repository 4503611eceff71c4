package beacon

import (
	"context"
	"errors"
	"io"
	"net"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Broadcaster sends datagrams to a single broadcast Target.
// It owns its socket exclusively: apart from Close, its methods
// must not be called concurrently.
type Broadcaster struct {
	conn   net.PacketConn
	target Target
	addr   net.Addr
	log    zerolog.Logger

	sent   atomic.Uint64
	closed atomic.Bool
}

type Option func(b *Broadcaster)

// WithLogger makes the Broadcaster log socket and send events to log.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Broadcaster) {
		b.log = log
	}
}

// New opens a UDP socket with broadcasting enabled that sends to target.
// All failures are reported as a *SocketInitError.
func New(target Target, opts ...Option) (*Broadcaster, error) {
	if err := target.validate(); err != nil {
		return nil, &SocketInitError{Op: "resolve", Err: err}
	}
	addr, err := net.ResolveUDPAddr("udp4", target.String())
	if err != nil {
		return nil, &SocketInitError{Op: "resolve", Err: err}
	}
	conn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		return nil, &SocketInitError{Op: "listen", Err: err}
	}
	err = setBroadcast(conn, true)
	if err != nil {
		_ = conn.Close() // the socket is useless without the option
		return nil, &SocketInitError{Op: "setsockopt", Err: err}
	}
	return newBroadcaster(conn, target, addr, opts...), nil
}

// newBroadcaster wraps an already configured connection.
// Tests use it to substitute the network.
func newBroadcaster(conn net.PacketConn, target Target, addr net.Addr, opts ...Option) *Broadcaster {
	b := &Broadcaster{
		conn:   conn,
		target: target,
		addr:   addr,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.log.Debug().
		Stringer("local", conn.LocalAddr()).
		Stringer("target", target).
		Msg("broadcast socket open")
	return b
}

func (b *Broadcaster) Target() Target {
	return b.target
}

func (b *Broadcaster) LocalAddr() net.Addr {
	return b.conn.LocalAddr()
}

// Sent returns the number of datagrams written successfully so far.
func (b *Broadcaster) Sent() uint64 {
	return b.sent.Load()
}

// Broadcast reports whether SO_BROADCAST is set on the underlying socket.
func (b *Broadcaster) Broadcast() (bool, error) {
	sc, ok := b.conn.(syscall.Conn)
	if !ok {
		return false, errors.ErrUnsupported
	}
	return broadcastEnabled(sc)
}

// SendOnce writes payload to the target as a single datagram.
// A failed write is returned as a *TransmitError and is not retried.
func (b *Broadcaster) SendOnce(payload []byte) error {
	if b.closed.Load() {
		return b.transmitError(net.ErrClosed)
	}
	n, err := b.conn.WriteTo(payload, b.addr)
	if err != nil {
		return b.transmitError(err)
	}
	if n != len(payload) {
		return b.transmitError(io.ErrShortWrite)
	}
	seq := b.sent.Add(1)
	b.log.Info().Uint64("seq", seq).Int("bytes", n).Msg("sending packet")
	return nil
}

func (b *Broadcaster) transmitError(err error) error {
	b.log.Error().Err(err).Stringer("target", b.target).Msg("send failed")
	return &TransmitError{Target: b.target, Err: err}
}

// Run sends payload right away and then once every interval
// until ctx is done. The stop condition is only checked between sends,
// a send that has already started is allowed to complete.
// Run returns nil once it stopped because of ctx,
// otherwise the first *TransmitError it encountered.
func (b *Broadcaster) Run(ctx context.Context, payload []byte, interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	data := append([]byte(nil), payload...)
	// One token per interval, the first one is available immediately.
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	for {
		// Wait also fails early if the next send would land past the deadline of ctx.
		if err := limiter.Wait(ctx); err != nil {
			b.log.Debug().Uint64("sent", b.Sent()).Msg("broadcast stopped")
			return nil
		}
		if err := b.SendOnce(data); err != nil {
			return err
		}
	}
}

// Close releases the socket. Calling Close more than once is a no-op.
func (b *Broadcaster) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := b.conn.Close()
	b.log.Debug().Uint64("sent", b.Sent()).Msg("broadcast socket closed")
	return err
}
