// Package node wires the link protocol, the reconciler and the hub
// bridge into the two node roles, configured from one YAML file.
package node

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the node configuration.
type Config struct {
	Link      LinkConfig      `yaml:"link"`
	Hub       HubConfig       `yaml:"hub"`
	Modes     ModesConfig     `yaml:"modes"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Pulse     PulseConfig     `yaml:"pulse"`
}

// LinkConfig selects the serial device and per-command call timeouts.
// The trigger timeout is longer because the command's side effect is
// inherently slower; it is configuration, not a protocol constant.
type LinkConfig struct {
	Device           string `yaml:"device"`
	Baud             int    `yaml:"baud"`
	CallTimeoutMs    int    `yaml:"call_timeout_ms"`
	TriggerTimeoutMs int    `yaml:"trigger_timeout_ms"`
}

// HubConfig selects the MQTT broker. An empty client id falls back to
// the machine-derived identity.
type HubConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
}

// ModesConfig names the selectable candidates; the list length defines N.
type ModesConfig struct {
	Names []string `yaml:"names"`
}

// ReconcileConfig carries the reconciler timings.
type ReconcileConfig struct {
	DebounceMs  int `yaml:"debounce_ms"`
	ReassertMs  int `yaml:"reassert_ms"`
	TickMs      int `yaml:"tick_ms"`
	SpacingMs   int `yaml:"spacing_ms"`
	SettleGapMs int `yaml:"settle_gap_ms"`
}

// PulseConfig carries the trigger pulse duration.
type PulseConfig struct {
	DurationMs int `yaml:"duration_ms"`
}

// Load reads, parses, validates and normalizes a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses, validates and normalizes config bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config parse failed: %v", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	Normalize(&cfg)
	return &cfg, nil
}

// Candidates returns N.
func (c *Config) Candidates() int {
	return len(c.Modes.Names)
}

// CallTimeout returns the default per-call response timeout.
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.Link.CallTimeoutMs) * time.Millisecond
}

// TriggerTimeout returns the extended timeout for trigger calls.
func (c *Config) TriggerTimeout() time.Duration {
	return time.Duration(c.Link.TriggerTimeoutMs) * time.Millisecond
}

// PulseDuration returns the trigger pulse duration.
func (c *Config) PulseDuration() time.Duration {
	return time.Duration(c.Pulse.DurationMs) * time.Millisecond
}
