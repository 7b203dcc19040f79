package node

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/propworks/proplink/pkg/link"
)

// pipeEnd is one end of an in-memory duplex byte channel standing in
// for the serial port.
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

func testConfig(t *testing.T, extra string) *Config {
	t.Helper()
	cfg, err := Parse([]byte("link:\n  device: /dev/null\n" + extra))
	require.NoError(t, err)
	return cfg
}

// newTestPeer runs a peer node on one pipe end and returns a caller
// coordinator on the other.
func newTestPeer(t *testing.T, cfg *Config) (*link.Coordinator, *PeerNode) {
	t.Helper()
	endA, endB := newPipe()
	peer := NewPeerNode(cfg, endB)

	l := link.New(endA)
	coord := link.NewCoordinator(l)
	disp := link.NewDispatcher(l)
	disp.Responses = coord
	l.Handler = disp

	ctx, cancel := context.WithCancel(context.TODO())
	t.Cleanup(cancel)
	go peer.Link.Run(ctx)
	go l.Run(ctx)
	return coord, peer
}
