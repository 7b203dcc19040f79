package node

import (
	"sync"
	"time"

	"github.com/golang/glog"
)

// Pulse is a one-shot actuator pulse. Only one pulse runs at a time;
// TryStart reports whether a new pulse was started.
type Pulse struct {
	Duration time.Duration
	// OnStart and OnEnd drive the actual output. Either may be nil.
	OnStart func()
	OnEnd   func()

	lock   sync.Mutex
	active bool
	timer  *time.Timer
}

// NewPulse creates a pulse with the given duration.
func NewPulse(duration time.Duration) *Pulse {
	return &Pulse{Duration: duration}
}

// TryStart starts a pulse unless one is already running.
func (p *Pulse) TryStart() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.active {
		return false
	}
	p.active = true
	p.timer = time.AfterFunc(p.Duration, p.end)
	glog.V(1).Infof("pulse start: %v", p.Duration)
	if p.OnStart != nil {
		p.OnStart()
	}
	return true
}

// Active reports whether a pulse is currently running.
func (p *Pulse) Active() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.active
}

func (p *Pulse) end() {
	p.lock.Lock()
	p.active = false
	p.lock.Unlock()
	glog.V(1).Info("pulse end")
	if p.OnEnd != nil {
		p.OnEnd()
	}
}
