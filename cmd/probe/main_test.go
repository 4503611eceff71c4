package main

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/nettest"

	"projekt/probe/lib/config"
)

func TestResolveTarget_Address(t *testing.T) {
	target, err := resolveTarget(config.Default().Target)
	require.Nil(t, err)
	assert.Equal(t, "255.255.255.255", target.Address)
	assert.Equal(t, 55667, target.Port)
}

func TestResolveTarget_Interface(t *testing.T) {
	in, err := nettest.RoutedInterface("ip4", net.FlagUp|net.FlagBroadcast)
	if err != nil {
		t.Skip("no broadcast capable IPv4 network:", err)
	}
	target, err := resolveTarget(config.Target{Interface: in.Name, Port: 55667})
	require.Nil(t, err)
	ip := net.ParseIP(target.Address)
	require.NotNil(t, ip)
	assert.NotNil(t, ip.To4())
	assert.Equal(t, 55667, target.Port)
}

func TestResolveTarget_UnknownInterface(t *testing.T) {
	_, err := resolveTarget(config.Target{Interface: "no-such-interface0", Port: 55667})
	assert.NotNil(t, err)
}

func TestRun_SendsUntilStopped(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")
	t.Setenv("WATCHDOG_USEC", "")
	listener, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.Nil(t, err)
	defer listener.Close()

	cfg := config.Default()
	cfg.Target.Address = "127.0.0.1"
	cfg.Target.Port = listener.LocalAddr().(*net.UDPAddr).Port
	cfg.Interval = config.Duration(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	var out bytes.Buffer
	err = run(ctx, cfg, zerolog.New(&out))
	assert.Nil(t, err)
	assert.Contains(t, out.String(), `"sent":3`)

	buf := make([]byte, 64)
	for i := 0; i < 3; i++ {
		require.Nil(t, listener.SetReadDeadline(time.Now().Add(time.Second)))
		n, _, err := listener.ReadFrom(buf)
		require.Nil(t, err)
		assert.Equal(t, "hello", string(buf[:n]))
	}
}

func TestRun_InvalidTarget(t *testing.T) {
	cfg := config.Default()
	cfg.Target.Address = "::1"
	err := run(context.Background(), cfg, zerolog.Nop())
	assert.NotNil(t, err)
}
