package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"projekt/probe/lib/beacon"
	"projekt/probe/lib/config"
	"projekt/probe/lib/logging"
	"projekt/probe/lib/network"
)

func main() {
	argConfig := flag.String("config", "", "path to a yaml config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*argConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log, os.Stdout)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("probe failed")
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	target, err := resolveTarget(cfg.Target)
	if err != nil {
		return err
	}
	b, err := beacon.New(target, beacon.WithLogger(logging.Component(log, "beacon")))
	if err != nil {
		return err
	}
	defer func() {
		if e := b.Close(); e != nil {
			log.Warn().Err(e).Msg("failed to close broadcast socket")
		}
	}()

	notify(log, daemon.SdNotifyReady)
	defer notify(log, daemon.SdNotifyStopping)

	log.Info().
		Stringer("target", target).
		Stringer("interval", cfg.Interval).
		Int("bytes", len(cfg.Payload)).
		Msg("broadcasting")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.Run(gctx, []byte(cfg.Payload), cfg.Interval.Std())
	})
	if interval, err := daemon.SdWatchdogEnabled(false); err != nil {
		log.Warn().Err(err).Msg("invalid watchdog settings")
	} else if interval > 0 {
		g.Go(func() error {
			watchdog(gctx, log, interval/2)
			return nil
		})
	}
	err = g.Wait()
	log.Info().Uint64("sent", b.Sent()).Msg("stopped")
	return err
}

// resolveTarget picks the configured address, or the directed broadcast
// address of the configured interface.
func resolveTarget(cfg config.Target) (beacon.Target, error) {
	target := beacon.Target{Address: cfg.Address, Port: cfg.Port}
	if cfg.Interface == "" {
		return target, nil
	}
	n, err := network.Lookup(cfg.Interface)
	if err != nil {
		return target, fmt.Errorf("target.interface: %w", err)
	}
	ip, err := n.BroadcastIp()
	if err != nil {
		return target, fmt.Errorf("target.interface: %w", err)
	}
	target.Address = ip.String()
	return target, nil
}

func watchdog(ctx context.Context, log zerolog.Logger, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			notify(log, daemon.SdNotifyWatchdog)
		case <-ctx.Done():
			return
		}
	}
}

func notify(log zerolog.Logger, state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		log.Warn().Err(err).Str("state", state).Msg("sd_notify failed")
		return
	}
	if sent {
		log.Debug().Str("state", state).Msg("sd_notify")
	}
}
