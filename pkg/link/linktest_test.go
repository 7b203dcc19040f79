package link

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// pipeEnd is one end of an in-memory duplex byte channel.
type pipeEnd struct {
	r <-chan byte
	w chan<- byte
}

func (p *pipeEnd) Read(b []byte) (int, error) {
	v, ok := <-p.r
	if !ok {
		return 0, io.EOF
	}
	b[0] = v
	return 1, nil
}

func (p *pipeEnd) Write(b []byte) (int, error) {
	for _, v := range b {
		p.w <- v
	}
	return len(b), nil
}

func newPipe() (*pipeEnd, *pipeEnd) {
	ab := make(chan byte, 256)
	ba := make(chan byte, 256)
	return &pipeEnd{r: ba, w: ab}, &pipeEnd{r: ab, w: ba}
}

// linkPair is two Links joined end to end, both running.
type linkPair struct {
	a, b *Link
}

func newLinkPair(t *testing.T) *linkPair {
	endA, endB := newPipe()
	pair := &linkPair{a: New(endA), b: New(endB)}
	ctx, cancel := context.WithCancel(context.TODO())
	t.Cleanup(cancel)
	go pair.a.Run(ctx)
	go pair.b.Run(ctx)
	return pair
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func collectFrames(l *Link) <-chan *Frame {
	ch := make(chan *Frame, 16)
	l.Handler = HandleFrameFunc(func(ctx context.Context, f *Frame) {
		ch <- f
	})
	return ch
}

func requireFrame(t *testing.T, ch <-chan *Frame, cmd byte, payload []byte) *Frame {
	t.Helper()
	select {
	case f := <-ch:
		require.Equal(t, cmd, f.Cmd)
		if len(payload) == 0 {
			require.Empty(t, f.Payload)
		} else {
			require.Equal(t, payload, f.Payload)
		}
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("frame timeout")
		return nil
	}
}
