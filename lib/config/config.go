// Package config describes how a probe is set up.
// Without a config file the probe broadcasts "hello" to
// 255.255.255.255:55667 every five seconds.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	yaml "go.yaml.in/yaml/v3"
)

const (
	DefaultAddress  = "255.255.255.255"
	DefaultPort     = 55667
	DefaultPayload  = "hello"
	DefaultInterval = 5 * time.Second

	// MaxPayload is the largest UDP payload that fits into an IPv4 datagram.
	MaxPayload = 65507
)

type Config struct {
	Target   Target   `yaml:"target"`
	Payload  string   `yaml:"payload"`
	Interval Duration `yaml:"interval"`
	Log      Log      `yaml:"log"`
}

type Target struct {
	Address   string `yaml:"address"`
	Port      int    `yaml:"port"`
	// Interface, when set, replaces Address with the directed
	// broadcast address of that interface.
	Interface string `yaml:"interface"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		Target: Target{
			Address: DefaultAddress,
			Port:    DefaultPort,
		},
		Payload:  DefaultPayload,
		Interval: Duration(DefaultInterval),
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML config from path on top of the defaults.
// An empty path yields the defaults.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(b)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
// Unknown fields are rejected.
func Parse(b []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Target.Port < 0 || c.Target.Port > 65535 {
		return fmt.Errorf("target.port: %d out of range 0-65535", c.Target.Port)
	}
	if strings.TrimSpace(c.Target.Address) == "" && strings.TrimSpace(c.Target.Interface) == "" {
		return errors.New("target.address: required unless target.interface is set")
	}
	if len(c.Payload) == 0 {
		return errors.New("payload: must not be empty")
	}
	if len(c.Payload) > MaxPayload {
		return fmt.Errorf("payload: %d bytes exceed the maximum of %d", len(c.Payload), MaxPayload)
	}
	if c.Interval <= 0 {
		return errors.New("interval: must be > 0")
	}
	if _, ok := levels[strings.ToLower(strings.TrimSpace(c.Log.Level))]; !ok {
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "console", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	return nil
}

var levels = map[string]struct{}{
	"trace": {}, "debug": {}, "info": {}, "warn": {}, "error": {},
}
