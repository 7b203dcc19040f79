package link

import (
	"context"

	"github.com/golang/glog"
)

// ReplyFunc sends the acknowledgement/response frame for a command.
type ReplyFunc func(cmd byte, payload []byte) error

// Handler processes one received command. The ordering contract is a
// correctness requirement, not a nicety: a handler must call reply
// before performing any operation whose latency could approach the
// initiator's timeout window, otherwise the initiator sees a false
// timeout for a command that logically succeeded.
type Handler interface {
	HandleCommand(ctx context.Context, f *Frame, reply ReplyFunc)
}

// HandlerFunc is the func form of Handler.
type HandlerFunc func(ctx context.Context, f *Frame, reply ReplyFunc)

// HandleCommand implements Handler.
func (fn HandlerFunc) HandleCommand(ctx context.Context, f *Frame, reply ReplyFunc) {
	fn(ctx, f, reply)
}

// ResponseSink consumes response-range frames, normally the node's own
// Coordinator when it has one.
type ResponseSink interface {
	HandleResponse(ctx context.Context, f *Frame)
}

// Dispatcher routes every decoded frame on the responder side of a
// link. Commands go to the handler table, response-range frames go to
// the ResponseSink (they are replies to requests this node itself
// initiated and must never be redispatched as commands), and frames in
// the notification range go to notification handlers without any
// automatic response.
type Dispatcher struct {
	Link      *Link
	Responses ResponseSink

	handlers map[byte]Handler
	notify   map[byte]HandleFrameFunc
}

// NewDispatcher creates a Dispatcher sending replies over the link.
func NewDispatcher(l *Link) *Dispatcher {
	return &Dispatcher{
		Link:     l,
		handlers: make(map[byte]Handler),
		notify:   make(map[byte]HandleFrameFunc),
	}
}

// Handle registers the handler for a command code.
func (d *Dispatcher) Handle(cmd byte, h Handler) *Dispatcher {
	d.handlers[cmd] = h
	return d
}

// HandleFunc registers a func handler for a command code.
func (d *Dispatcher) HandleFunc(cmd byte, fn HandlerFunc) *Dispatcher {
	return d.Handle(cmd, fn)
}

// HandleNotify registers a handler for an unsolicited notification code.
func (d *Dispatcher) HandleNotify(cmd byte, fn HandleFrameFunc) *Dispatcher {
	d.notify[cmd] = fn
	return d
}

// HandleFrame implements FrameHandler. Unknown commands get an explicit
// ERR response rather than silence; unknown notifications are logged
// only, since nothing correlates them on the sending side. Both leave
// dispatcher state unchanged.
func (d *Dispatcher) HandleFrame(ctx context.Context, f *Frame) {
	if IsResponse(f.Cmd) {
		if sink := d.Responses; sink != nil {
			sink.HandleResponse(ctx, f)
			return
		}
		glog.Infof("response %s ignored, no coordinator attached", CodeName(f.Cmd))
		return
	}
	if IsNotification(f.Cmd) {
		if fn := d.notify[f.Cmd]; fn != nil {
			fn(ctx, f)
			return
		}
		glog.Infof("unhandled notification 0x%02x", f.Cmd)
		return
	}
	h := d.handlers[f.Cmd]
	if h == nil {
		glog.Warningf("unknown command 0x%02x", f.Cmd)
		if err := d.reply(RspErr, nil); err != nil {
			glog.Errorf("send ERR failed: %v", err)
		}
		return
	}
	h.HandleCommand(ctx, f, d.reply)
}

func (d *Dispatcher) reply(cmd byte, payload []byte) error {
	return d.Link.Send(&Frame{Cmd: cmd, Payload: payload})
}
