package async

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	des "github.com/desimkit/des"
)

func TestTimeout_FiresOnTimeoutWhenNeverCompleted(t *testing.T) {
	rt := newTestRuntime(t, des.SimTime(5))
	b := NewBridge(rt, "m")

	var timedOut, succeeded bool
	b.Timeout(rt, time.Second,
		func(*des.Runtime) { timedOut = true },
		func(*des.Runtime) { succeeded = true },
	)

	rt.Run()
	require.True(t, timedOut)
	require.False(t, succeeded)
}

func TestTimeout_CompleteBeforeDeadlineCancelsTimeout(t *testing.T) {
	rt := newTestRuntime(t, des.SimTime(5))
	b := NewBridge(rt, "m")

	var timedOut, succeeded bool
	race := b.Timeout(rt, 2*time.Second,
		func(*des.Runtime) { timedOut = true },
		func(*des.Runtime) { succeeded = true },
	)

	_, err := b.Sleep(rt, time.Second, func(rt *des.Runtime) {
		race.Complete(rt)
	})
	require.NoError(t, err)

	rt.Run()
	require.True(t, succeeded)
	require.False(t, timedOut)
}

func TestTimeout_CompleteAfterFiringIsNoop(t *testing.T) {
	rt := newTestRuntime(t, des.SimTime(5))
	b := NewBridge(rt, "m")

	calls := 0
	race := b.Timeout(rt, time.Second,
		func(*des.Runtime) { calls++ },
		func(*des.Runtime) { calls++ },
	)

	rt.Run()
	require.Equal(t, 1, calls)

	race.Complete(rt)
	require.Equal(t, 1, calls, "Complete after the timeout already fired must be a no-op")
}
