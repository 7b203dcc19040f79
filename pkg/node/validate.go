package node

import (
	"fmt"
)

const maxCandidates = 16

// Validate checks a parsed config without mutating it. Zero values are
// accepted where Normalize fills a default.
func Validate(cfg *Config) error {
	if cfg.Link.Device == "" {
		return fmt.Errorf("link.device is required")
	}
	if cfg.Link.Baud < 0 {
		return fmt.Errorf("link.baud must not be negative: %d", cfg.Link.Baud)
	}
	if cfg.Link.CallTimeoutMs < 0 {
		return fmt.Errorf("link.call_timeout_ms must not be negative: %d", cfg.Link.CallTimeoutMs)
	}
	if cfg.Link.TriggerTimeoutMs < 0 {
		return fmt.Errorf("link.trigger_timeout_ms must not be negative: %d", cfg.Link.TriggerTimeoutMs)
	}
	if len(cfg.Modes.Names) > maxCandidates {
		return fmt.Errorf("modes.names: at most %d candidates, got %d", maxCandidates, len(cfg.Modes.Names))
	}
	seen := make(map[string]struct{}, len(cfg.Modes.Names))
	for i, name := range cfg.Modes.Names {
		if name == "" {
			return fmt.Errorf("modes.names[%d] is empty", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("modes.names[%d] duplicates %q", i, name)
		}
		seen[name] = struct{}{}
	}
	for field, ms := range map[string]int{
		"reconcile.debounce_ms":   cfg.Reconcile.DebounceMs,
		"reconcile.reassert_ms":   cfg.Reconcile.ReassertMs,
		"reconcile.tick_ms":       cfg.Reconcile.TickMs,
		"reconcile.spacing_ms":    cfg.Reconcile.SpacingMs,
		"reconcile.settle_gap_ms": cfg.Reconcile.SettleGapMs,
		"pulse.duration_ms":       cfg.Pulse.DurationMs,
	} {
		if ms < 0 {
			return fmt.Errorf("%s must not be negative: %d", field, ms)
		}
	}
	return nil
}
