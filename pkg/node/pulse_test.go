package node

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPulseExclusive(t *testing.T) {
	var starts, ends atomic.Int32
	p := NewPulse(60 * time.Millisecond)
	p.OnStart = func() { starts.Add(1) }
	p.OnEnd = func() { ends.Add(1) }

	require.True(t, p.TryStart())
	require.True(t, p.Active())
	require.False(t, p.TryStart(), "second pulse while active")
	require.Equal(t, int32(1), starts.Load())

	deadline := time.Now().Add(2 * time.Second)
	for p.Active() {
		if time.Now().After(deadline) {
			t.Fatal("pulse did not end")
		}
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, int32(1), ends.Load())
	require.True(t, p.TryStart(), "new pulse after expiry")
}
