package link

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultCallTimeout is the bounded wait for a correlated response.
// Commands with inherently slower side effects configure a longer
// per-command timeout; the value is not a protocol constant.
const DefaultCallTimeout = 1 * time.Second

// Coordinator is the initiator side of the request/response discipline:
// it sends one frame and blocks the calling goroutine until a frame in
// the response range arrives or the timeout elapses. Only one call may
// be outstanding at a time; overlapping calls fail fast with
// ErrLinkBusy instead of producing undefined correlation.
type Coordinator struct {
	Link *Link

	lock   sync.Mutex
	respCh chan *Frame
	stats  CallStats
}

// NewCoordinator creates a Coordinator over the link.
func NewCoordinator(l *Link) *Coordinator {
	return &Coordinator{Link: l}
}

// Call sends a command frame and waits for the response. A timeout of
// zero means DefaultCallTimeout. The returned frame may be any
// response-range frame, including ERR and BUSY; interpreting it is up
// to the caller. ErrTimeout is terminal for this call and nothing is
// retried automatically.
func (c *Coordinator) Call(ctx context.Context, cmd byte, payload []byte, timeout time.Duration) (*Frame, error) {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}

	ch := make(chan *Frame, 1)
	c.lock.Lock()
	if c.respCh != nil {
		c.lock.Unlock()
		return nil, ErrLinkBusy
	}
	c.respCh = ch
	c.lock.Unlock()
	defer c.release(ch)

	c.stats.Calls.Add(1)
	if err := c.Link.Send(&Frame{Cmd: cmd, Payload: payload}); err != nil {
		return nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case rsp := <-ch:
		return rsp, nil
	case <-timer.C:
		c.stats.Timeouts.Add(1)
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// HandleResponse delivers a response-range frame to the in-flight call.
// A response with no call waiting is counted and dropped; this happens
// when a response arrives after the call already timed out.
func (c *Coordinator) HandleResponse(ctx context.Context, f *Frame) {
	c.lock.Lock()
	ch := c.respCh
	c.respCh = nil
	c.lock.Unlock()
	if ch == nil {
		c.stats.Unmatched.Add(1)
		glog.Warningf("late response %s dropped", CodeName(f.Cmd))
		return
	}
	c.stats.countResponse(f.Cmd)
	ch <- f
}

// Stats returns a snapshot of the call counters.
func (c *Coordinator) Stats() CallStatsSnapshot {
	return c.stats.snapshot()
}

func (c *Coordinator) release(ch chan *Frame) {
	c.lock.Lock()
	if c.respCh == ch {
		c.respCh = nil
	}
	c.lock.Unlock()
}
