// Package reconcile implements the debounced mutual-exclusion engine
// that keeps exactly one of N selectable candidates "on" toward an
// eventually-consistent external observer.
package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Notifier is the attribute-report surface the reconciler pushes into.
// Pushes are fire-and-forget; the receiver may cache or delay them.
type Notifier interface {
	Report(candidate int, on bool) error
}

// PeerSync informs the peer node of a committed selection. It is best
// effort: a failure never rolls back the local state.
type PeerSync interface {
	SelectionChanged(ctx context.Context, candidate int) error
}

// Default timings. The observer sends write intents in rapid bursts and
// reflects pushed state back with unpredictable delay, so settlement is
// debounced and divergence is corrected exactly once per settlement.
const (
	DefaultDebounce      = 200 * time.Millisecond
	DefaultReassertAfter = 5 * time.Second
	DefaultTick          = 10 * time.Millisecond
	DefaultSpacing       = 10 * time.Millisecond
	DefaultSettleGap     = 50 * time.Millisecond
)

type pendingChange struct {
	target      int
	requestedAt time.Time
}

// Reconciler owns the authoritative selected candidate. Two event
// sources drive it: write intents from the observer (RequestSelect)
// and the periodic tick loop (Run). Local state is the source of
// truth; the observer and the peer are mirrors.
type Reconciler struct {
	Candidates int
	Notifier   Notifier
	Peer       PeerSync

	Debounce      time.Duration
	ReassertAfter time.Duration
	Tick          time.Duration
	Spacing       time.Duration
	SettleGap     time.Duration

	lock         sync.Mutex
	ready        bool
	current      int
	pending      *pendingChange
	lastSettled  time.Time
	reassertDone bool
	suppressEcho bool
}

// New creates a Reconciler for n candidates with default timings.
func New(n int, notifier Notifier) *Reconciler {
	return &Reconciler{
		Candidates:    n,
		Notifier:      notifier,
		Debounce:      DefaultDebounce,
		ReassertAfter: DefaultReassertAfter,
		Tick:          DefaultTick,
		Spacing:       DefaultSpacing,
		SettleGap:     DefaultSettleGap,
	}
}

// Name implements Named.
func (r *Reconciler) Name() string {
	return "reconciler"
}

// Current returns the authoritative selected candidate.
func (r *Reconciler) Current() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.current
}

// Pending reports whether a write intent is awaiting settlement.
func (r *Reconciler) Pending() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.pending != nil
}

// RequestSelect records a write intent from the observer. Intents
// observed while a push burst is in progress are the predictable
// reflection of the reconciler's own notifications and are discarded,
// never turned into a pending change. An out-of-range candidate is
// rejected and leaves state unchanged.
func (r *Reconciler) RequestSelect(candidate int) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if !r.ready || r.suppressEcho {
		glog.V(1).Infof("discard select %d: self echo", candidate)
		return
	}
	if candidate < 0 || candidate >= r.Candidates {
		glog.Warningf("reject select %d: out of range 0..%d", candidate, r.Candidates-1)
		return
	}
	glog.Infof("select %d requested, debouncing", candidate)
	r.pending = &pendingChange{target: candidate, requestedAt: time.Now()}
	r.reassertDone = false
}

// Run initializes the observer to the default candidate, then applies
// the settlement and reassertion rules at the tick interval until the
// context is canceled.
func (r *Reconciler) Run(ctx context.Context) error {
	r.initialize(ctx)
	ticker := time.NewTicker(r.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			r.step(ctx, now)
		}
	}
}

// initialize force-pushes a known state before any external write is
// accepted: off to every candidate, then on to the default. This
// clears whatever stale state the observer cached across restarts.
func (r *Reconciler) initialize(ctx context.Context) {
	r.lock.Lock()
	r.suppressEcho = true
	r.lock.Unlock()

	glog.Infof("initializing observer state: candidate 0 of %d on", r.Candidates)
	for i := 0; i < r.Candidates; i++ {
		r.report(i, false)
		time.Sleep(r.Spacing)
	}
	time.Sleep(r.SettleGap)
	r.report(0, true)

	r.lock.Lock()
	r.current = 0
	r.pending = nil
	r.lastSettled = time.Now()
	r.reassertDone = false
	r.suppressEcho = false
	r.ready = true
	r.lock.Unlock()
}

func (r *Reconciler) step(ctx context.Context, now time.Time) {
	r.lock.Lock()
	if p := r.pending; p != nil {
		if now.Sub(p.requestedAt) < r.Debounce {
			r.lock.Unlock()
			return
		}
		target := p.target
		if target == r.current {
			// Selecting the already-current candidate needs no burst;
			// dropping it here keeps reassertion unblocked.
			r.pending = nil
			r.lock.Unlock()
			return
		}
		r.suppressEcho = true
		r.lock.Unlock()

		glog.Infof("settling selection %d", target)
		if peer := r.Peer; peer != nil {
			if err := peer.SelectionChanged(ctx, target); err != nil {
				glog.Warningf("peer sync for %d failed: %v", target, err)
			}
		}
		r.burst(target)

		r.lock.Lock()
		r.current = target
		r.pending = nil
		r.lastSettled = now
		r.suppressEcho = false
		r.lock.Unlock()
		return
	}

	if !r.reassertDone && !r.lastSettled.IsZero() && now.Sub(r.lastSettled) >= r.ReassertAfter {
		target := r.current
		r.suppressEcho = true
		r.lock.Unlock()

		// One corrective re-push per settlement. The observer polls and
		// caches, so it may have drifted; re-pushing forever would fight
		// a legitimate later user action instead of healing drift.
		glog.Infof("reasserting selection %d", target)
		r.burst(target)

		r.lock.Lock()
		r.reassertDone = true
		r.suppressEcho = false
		r.lock.Unlock()
		return
	}
	r.lock.Unlock()
}

// burst pushes off to every candidate except the target, then on to
// the target. The target never receives an off push, so the observer
// never shows an off-to-on flicker for it.
func (r *Reconciler) burst(target int) {
	for i := 0; i < r.Candidates; i++ {
		if i == target {
			continue
		}
		r.report(i, false)
		time.Sleep(r.Spacing)
	}
	time.Sleep(r.SettleGap)
	r.report(target, true)
}

func (r *Reconciler) report(candidate int, on bool) {
	if err := r.Notifier.Report(candidate, on); err != nil {
		glog.Warningf("report %d=%v failed: %v", candidate, on, err)
	}
}
