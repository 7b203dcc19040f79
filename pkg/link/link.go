package link

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"
)

// FrameHandler is called for every frame decoded from the byte stream.
type FrameHandler interface {
	HandleFrame(context.Context, *Frame)
}

// HandleFrameFunc is the func form of FrameHandler.
type HandleFrameFunc func(context.Context, *Frame)

// HandleFrame implements FrameHandler.
func (f HandleFrameFunc) HandleFrame(ctx context.Context, frame *Frame) {
	f(ctx, frame)
}

// Link sends and receives frames over a duplex byte channel. The
// channel may deliver bytes one at a time with arbitrary inter-byte
// delay; the parser tolerates partial reads.
type Link struct {
	ReadWriter io.ReadWriter
	Handler    FrameHandler

	parser    Parser
	writeLock sync.Mutex
	stats     LinkStats
}

// New creates a Link over the given byte channel.
func New(rw io.ReadWriter) *Link {
	return &Link{ReadWriter: rw}
}

// Send encodes and writes one frame. Concurrent senders are serialized
// so frames are never interleaved on the wire.
func (l *Link) Send(f *Frame) error {
	l.writeLock.Lock()
	defer l.writeLock.Unlock()
	if _, err := f.WriteTo(l.ReadWriter); err != nil {
		return err
	}
	l.stats.FramesOut.Add(1)
	if glog.V(2) {
		glog.Infof("link TX %s len=%d", CodeName(f.Cmd), len(f.Payload))
	}
	return nil
}

// Stats returns a snapshot of the link counters.
func (l *Link) Stats() LinkStatsSnapshot {
	return l.stats.snapshot()
}

// Run drains the byte channel and feeds the parser until the context
// is canceled or reading fails. It blocks only on the underlying Read.
func (l *Link) Run(ctx context.Context) error {
	byteCh, errCh := make(chan byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go l.readLoop(subCtx, byteCh, errCh)
	for {
		select {
		case b := <-byteCh:
			l.feed(ctx, b)
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Link) readLoop(ctx context.Context, byteCh chan byte, errCh chan error) {
	buf := make([]byte, 1)
	for {
		n, err := l.ReadWriter.Read(buf)
		if err != nil {
			errCh <- err
			return
		}
		if n == 0 {
			continue
		}
		select {
		case byteCh <- buf[0]:
		case <-ctx.Done():
			return
		}
	}
}

func (l *Link) feed(ctx context.Context, b byte) {
	pr := l.parser.Parse(b)
	switch pr.Err {
	case ErrCRCMismatch:
		l.stats.CRCErrors.Add(1)
		glog.Warningf("link RX dropped frame: %v", pr.Err)
	case ErrLengthOutOfRange:
		l.stats.LengthErrors.Add(1)
		glog.Warningf("link RX dropped frame: %v", pr.Err)
	}
	if pr.Frame == nil {
		return
	}
	l.stats.FramesIn.Add(1)
	if glog.V(2) {
		glog.Infof("link RX %s len=%d", CodeName(pr.Frame.Cmd), len(pr.Frame.Payload))
	}
	if h := l.Handler; h != nil {
		h.HandleFrame(ctx, pr.Frame)
	}
}
