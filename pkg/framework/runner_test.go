package framework

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeCloser unblocks its waiter when closed, like a serial port whose
// blocked Read fails once the descriptor goes away.
type fakeCloser struct {
	once sync.Once
	done chan struct{}
}

func newFakeCloser() *fakeCloser {
	return &fakeCloser{done: make(chan struct{})}
}

func (c *fakeCloser) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *fakeCloser) isClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func TestRunWithContextCloserOnCancel(t *testing.T) {
	closer := newFakeCloser()
	ctx, cancel := context.WithCancel(context.TODO())
	errCh := make(chan error, 1)
	go func() {
		errCh <- RunWithContextCloser(ctx, closer, func() error {
			// stands in for a Read that only fails once closed
			<-closer.done
			return errors.New("closed")
		})
	}()
	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(2 * time.Second):
		t.Fatal("not unblocked by close")
	}
	require.True(t, closer.isClosed())
}

func TestRunWithContextCloserOnExit(t *testing.T) {
	closer := newFakeCloser()
	err := RunWithContextCloser(context.TODO(), closer, func() error {
		return nil
	})
	require.NoError(t, err)
	require.True(t, closer.isClosed())
}

func TestRunnerWaitAggregates(t *testing.T) {
	runner := NewRunner()
	runner.Go(RunFunc(func(ctx context.Context) error {
		return nil
	}))
	runner.Go(RunFunc(func(ctx context.Context) error {
		return errors.New("boom")
	}))
	err := runner.Wait()
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
}
