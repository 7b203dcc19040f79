package node

import (
	"context"
	"io"
	"time"

	"github.com/propworks/proplink/pkg/framework"
	"github.com/propworks/proplink/pkg/link"
)

// PeerNode is the actuator role: it answers commands from the hub node
// and drives the pulse output. It initiates exactly one call itself,
// the hello at startup.
type PeerNode struct {
	Link        *link.Link
	Coordinator *link.Coordinator
	Dispatcher  *link.Dispatcher
	Responder   *Responder

	callTimeout time.Duration
}

// NewPeerNode wires the peer role over an open serial stream.
func NewPeerNode(cfg *Config, rw io.ReadWriter) *PeerNode {
	l := link.New(rw)
	coord := link.NewCoordinator(l)
	disp := link.NewDispatcher(l)
	disp.Responses = coord
	l.Handler = disp

	n := &PeerNode{
		Link:        l,
		Coordinator: coord,
		Dispatcher:  disp,
		callTimeout: cfg.CallTimeout(),
	}
	n.Responder = NewResponder(cfg.Modes.Names, NewPulse(cfg.PulseDuration()))
	n.Responder.Register(disp)
	return n
}

// Hello announces this node to the peer after the link comes up.
func (n *PeerNode) Hello(ctx context.Context) error {
	rsp, err := n.Coordinator.Call(ctx, link.CmdHello, nil, n.callTimeout)
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
func (n *PeerNode) Runnables(port io.Closer) []framework.Runnable {
	return []framework.Runnable{
		linkRunnable(n.Link, port),
	}
}

// linkRunnable ties the serial port's lifetime to the context: a
// canceled context closes the port, which fails the blocked Read and
// lets the link's run loop terminate.
func linkRunnable(l *link.Link, port io.Closer) framework.Runnable {
	return framework.NamedRun("link", framework.RunFunc(func(ctx context.Context) error {
		return framework.RunWithContextCloser(ctx, port, func() error {
			return l.Run(ctx)
		})
	}))
}
