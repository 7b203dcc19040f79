package node

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/propworks/proplink/pkg/framework"
	"github.com/propworks/proplink/pkg/hub"
	"github.com/propworks/proplink/pkg/link"
	"github.com/propworks/proplink/pkg/reconcile"
)

// HubNode is the hub-attached role: it owns the authoritative
// selection, mirrors it to the hub through the bridge and to the peer
// over the link, and forwards trigger intents from the hub to the
// peer as link calls.
type HubNode struct {
	Link        *link.Link
	Coordinator *link.Coordinator
	Dispatcher  *link.Dispatcher
	Responder   *Responder
	Reconciler  *reconcile.Reconciler
	Bridge      *hub.Bridge

	callTimeout    time.Duration
	triggerTimeout time.Duration
}

// NewHubNode wires the hub role over an open serial stream and a
// connected (or connecting) queue.
func NewHubNode(cfg *Config, rw io.ReadWriter, queue *hub.Queue) *HubNode {
	l := link.New(rw)
	coord := link.NewCoordinator(l)
	disp := link.NewDispatcher(l)
	disp.Responses = coord
	l.Handler = disp

	n := &HubNode{
		Link:           l,
		Coordinator:    coord,
		Dispatcher:     disp,
		callTimeout:    cfg.CallTimeout(),
		triggerTimeout: cfg.TriggerTimeout(),
	}
	n.Responder = NewResponder(cfg.Modes.Names, NewPulse(cfg.PulseDuration()))
	n.Responder.Register(disp)

	n.Bridge = &hub.Bridge{Queue: queue, Candidates: cfg.Candidates()}
	n.Reconciler = reconcile.New(cfg.Candidates(), n.Bridge)
	n.Reconciler.Peer = n
	n.Reconciler.Debounce = time.Duration(cfg.Reconcile.DebounceMs) * time.Millisecond
	n.Reconciler.ReassertAfter = time.Duration(cfg.Reconcile.ReassertMs) * time.Millisecond
	n.Reconciler.Tick = time.Duration(cfg.Reconcile.TickMs) * time.Millisecond
	n.Reconciler.Spacing = time.Duration(cfg.Reconcile.SpacingMs) * time.Millisecond
	n.Reconciler.SettleGap = time.Duration(cfg.Reconcile.SettleGapMs) * time.Millisecond

	n.Bridge.OnSelect = n.Reconciler.RequestSelect
	n.Bridge.OnTrigger = func() {
		go func() {
			err := n.Trigger(context.Background())
			if err == nil {
				return
			}
			if rerr, ok := err.(*link.ResponseError); ok && rerr.IsBusy() {
				glog.Warning("trigger intent dropped, peer pulse active")
				return
			}
			glog.Warningf("trigger intent failed: %v", err)
		}()
	}
	queue.OnConnect = func(*hub.Queue) {
		n.notify(link.NotifyPaired)
	}
	queue.OnDisconnect = func(*hub.Queue) {
		n.notify(link.NotifyUnpaired)
	}
	return n
}

// SelectionChanged implements reconcile.PeerSync.
func (n *HubNode) SelectionChanged(ctx context.Context, candidate int) error {
	rsp, err := n.Coordinator.Call(ctx, link.CmdSetSelection, []byte{byte(candidate)}, n.callTimeout)
	if err != nil {
		return err
	}
	if rsp.Cmd != link.RspAck {
		return &link.ResponseError{Code: rsp.Cmd}
	}
	return nil
}

// Trigger forwards a trigger intent to the peer. A busy peer surfaces
// as a ResponseError rather than a retry.
func (n *HubNode) Trigger(ctx context.Context) error {
	rsp, err := n.Coordinator.Call(ctx, link.CmdTrigger, nil, n.triggerTimeout)
	if err != nil {
		return err
	}
	if rsp.Cmd != link.RspAck {
		return &link.ResponseError{Code: rsp.Cmd}
	}
	return nil
}

// Ping checks link liveness.
func (n *HubNode) Ping(ctx context.Context) error {
	rsp, err := n.Coordinator.Call(ctx, link.CmdPing, nil, n.callTimeout)
	if err != nil {
		return err
	}
	if rsp.Cmd != link.RspAck {
		return &link.ResponseError{Code: rsp.Cmd}
	}
	return nil
}

// Runnables returns the background loops for the process runner. The
// port is closed on cancel to unblock the link's read loop.
func (n *HubNode) Runnables(port io.Closer) []framework.Runnable {
	return []framework.Runnable{
		linkRunnable(n.Link, port),
		n.Reconciler,
	}
}

func (n *HubNode) notify(cmd byte) {
	if err := n.Link.Send(&link.Frame{Cmd: cmd}); err != nil {
		glog.Errorf("notify %s failed: %v", link.CodeName(cmd), err)
	}
}
