package node

import (
	"fmt"

	"github.com/propworks/proplink/pkg/link/serial"
)

// Defaults filled in by Normalize.
const (
	DefaultCallTimeoutMs    = 1000
	DefaultTriggerTimeoutMs = 2000
	DefaultDebounceMs       = 200
	DefaultReassertMs       = 5000
	DefaultTickMs           = 10
	DefaultSpacingMs        = 10
	DefaultSettleGapMs      = 50
	DefaultPulseDurationMs  = 500
	DefaultCandidates       = 4
	DefaultBroker           = "mqtt://localhost:1883/proplink/"
)

// Normalize fills defaults into a validated config.
func Normalize(cfg *Config) {
	if cfg.Link.Baud == 0 {
		cfg.Link.Baud = serial.DefaultBaud
	}
	if cfg.Link.CallTimeoutMs == 0 {
		cfg.Link.CallTimeoutMs = DefaultCallTimeoutMs
	}
	if cfg.Link.TriggerTimeoutMs == 0 {
		cfg.Link.TriggerTimeoutMs = DefaultTriggerTimeoutMs
	}
	if cfg.Hub.Broker == "" {
		cfg.Hub.Broker = DefaultBroker
	}
	if len(cfg.Modes.Names) == 0 {
		for i := 0; i < DefaultCandidates; i++ {
			cfg.Modes.Names = append(cfg.Modes.Names, fmt.Sprintf("mode-%d", i))
		}
	}
	if cfg.Reconcile.DebounceMs == 0 {
		cfg.Reconcile.DebounceMs = DefaultDebounceMs
	}
	if cfg.Reconcile.ReassertMs == 0 {
		cfg.Reconcile.ReassertMs = DefaultReassertMs
	}
	if cfg.Reconcile.TickMs == 0 {
		cfg.Reconcile.TickMs = DefaultTickMs
	}
	if cfg.Reconcile.SpacingMs == 0 {
		cfg.Reconcile.SpacingMs = DefaultSpacingMs
	}
	if cfg.Reconcile.SettleGapMs == 0 {
		cfg.Reconcile.SettleGapMs = DefaultSettleGapMs
	}
	if cfg.Pulse.DurationMs == 0 {
		cfg.Pulse.DurationMs = DefaultPulseDurationMs
	}
}
