package link

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCallResponse(t *testing.T) {
	pair := newLinkPair(t)
	coord := NewCoordinator(pair.a)
	pair.a.Handler = HandleFrameFunc(coord.HandleResponse)

	disp := NewDispatcher(pair.b)
	disp.HandleFunc(CmdPing, func(ctx context.Context, f *Frame, reply ReplyFunc) {
		require.NoError(t, reply(RspAck, nil))
	})
	pair.b.Handler = disp

	rsp, err := coord.Call(context.TODO(), CmdPing, nil, 0)
	require.NoError(t, err)
	require.Equal(t, RspAck, rsp.Cmd)

	stats := coord.Stats()
	require.Equal(t, uint64(1), stats.Calls)
	require.Equal(t, uint64(1), stats.Responses)
	require.Equal(t, uint64(1), stats.Acks)
	require.Zero(t, stats.Timeouts)
}

func TestCallTimeout(t *testing.T) {
	// No responder attached: the call returns ErrTimeout at or after the
	// configured window, within scheduling slack.
	pair := newLinkPair(t)
	coord := NewCoordinator(pair.a)
	pair.a.Handler = HandleFrameFunc(coord.HandleResponse)

	const timeout = 100 * time.Millisecond
	start := time.Now()
	rsp, err := coord.Call(context.TODO(), CmdPing, nil, timeout)
	elapsed := time.Since(start)
	require.Nil(t, rsp)
	require.Equal(t, ErrTimeout, err)
	require.GreaterOrEqual(t, elapsed, timeout)
	require.Less(t, elapsed, timeout+500*time.Millisecond)
	require.Equal(t, uint64(1), coord.Stats().Timeouts)
}

func TestCallBusyGuard(t *testing.T) {
	pair := newLinkPair(t)
	coord := NewCoordinator(pair.a)
	pair.a.Handler = HandleFrameFunc(coord.HandleResponse)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := coord.Call(context.TODO(), CmdPing, nil, 300*time.Millisecond)
		require.Equal(t, ErrTimeout, err)
	}()
	waitFor(t, func() bool { return coord.Stats().Calls == 1 })

	_, err := coord.Call(context.TODO(), CmdHello, nil, 0)
	require.Equal(t, ErrLinkBusy, err)
	wg.Wait()

	// The guard releases once the first call settles.
	_, err = coord.Call(context.TODO(), CmdPing, nil, 50*time.Millisecond)
	require.Equal(t, ErrTimeout, err)
}

func TestCallCanceled(t *testing.T) {
	pair := newLinkPair(t)
	coord := NewCoordinator(pair.a)
	pair.a.Handler = HandleFrameFunc(coord.HandleResponse)

	ctx, cancel := context.WithCancel(context.TODO())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := coord.Call(ctx, CmdPing, nil, time.Second)
	require.Equal(t, context.Canceled, err)
}

func TestLateResponseDropped(t *testing.T) {
	pair := newLinkPair(t)
	coord := NewCoordinator(pair.a)
	pair.a.Handler = HandleFrameFunc(coord.HandleResponse)

	require.NoError(t, pair.b.Send(&Frame{Cmd: RspAck}))
	waitFor(t, func() bool { return coord.Stats().Unmatched == 1 })
	require.Zero(t, coord.Stats().Responses)
}
