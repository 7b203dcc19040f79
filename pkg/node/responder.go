package node

import (
	"context"
	"sync"

	"github.com/golang/glog"

	"github.com/propworks/proplink/pkg/link"
)

// Responder implements the command handler set shared by both node
// roles. Replies always go out before the commanded work is performed,
// so the initiator's timeout only measures link latency.
type Responder struct {
	Modes []string
	Pulse *Pulse

	lock      sync.Mutex
	selection int
	// OnSelect observes applied selection changes. May be nil.
	OnSelect func(selection int)
}

// NewResponder creates a responder for the named candidates.
func NewResponder(modes []string, pulse *Pulse) *Responder {
	return &Responder{Modes: modes, Pulse: pulse}
}

// Register installs the responder's handlers on a dispatcher.
func (r *Responder) Register(d *link.Dispatcher) {
	d.HandleFunc(link.CmdHello, r.handleHello)
	d.HandleFunc(link.CmdPing, r.handlePing)
	d.HandleFunc(link.CmdSetSelection, r.handleSetSelection)
	d.HandleFunc(link.CmdTrigger, r.handleTrigger)
	d.HandleNotify(link.NotifyPaired, r.handlePaired)
	d.HandleNotify(link.NotifyUnpaired, r.handleUnpaired)
}

// Selection returns the last applied selection.
func (r *Responder) Selection() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.selection
}

func (r *Responder) handleHello(ctx context.Context, f *link.Frame, reply link.ReplyFunc) {
	if err := reply(link.RspAck, nil); err != nil {
		glog.Errorf("hello ack failed: %v", err)
		return
	}
	glog.Info("peer says hello")
}

func (r *Responder) handlePing(ctx context.Context, f *link.Frame, reply link.ReplyFunc) {
	if err := reply(link.RspAck, nil); err != nil {
		glog.Errorf("ping ack failed: %v", err)
	}
}

func (r *Responder) handleSetSelection(ctx context.Context, f *link.Frame, reply link.ReplyFunc) {
	if len(f.Payload) < 1 {
		glog.Warning("set selection without payload")
		r.replyErr(reply)
		return
	}
	target := int(f.Payload[0])
	if target >= len(r.Modes) {
		glog.Warningf("set selection out of range: %d", target)
		r.replyErr(reply)
		return
	}
	if err := reply(link.RspAck, nil); err != nil {
		glog.Errorf("set selection ack failed: %v", err)
		return
	}
	r.lock.Lock()
	r.selection = target
	onSelect := r.OnSelect
	r.lock.Unlock()
	glog.Infof("selection applied: %d (%s)", target, r.Modes[target])
	if onSelect != nil {
		onSelect(target)
	}
}

func (r *Responder) handleTrigger(ctx context.Context, f *link.Frame, reply link.ReplyFunc) {
	if !r.Pulse.TryStart() {
		glog.Warning("trigger while pulse active")
		if err := reply(link.RspBusy, nil); err != nil {
			glog.Errorf("trigger busy reply failed: %v", err)
		}
		return
	}
	if err := reply(link.RspAck, nil); err != nil {
		glog.Errorf("trigger ack failed: %v", err)
	}
}

func (r *Responder) handlePaired(ctx context.Context, f *link.Frame) {
	glog.Info("peer reports hub attached")
}

func (r *Responder) handleUnpaired(ctx context.Context, f *link.Frame) {
	glog.Info("peer reports hub detached")
}

func (r *Responder) replyErr(reply link.ReplyFunc) {
	if err := reply(link.RspErr, nil); err != nil {
		glog.Errorf("send ERR failed: %v", err)
	}
}
