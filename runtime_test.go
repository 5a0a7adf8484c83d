package des

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// noopApp is an Application that never schedules anything itself; tests
// seed their own events directly onto the Runtime after Build.
type noopApp struct{}

func (noopApp) AtSimStart(*Runtime) error { return nil }
func (noopApp) AtSimEnd(*Runtime)         {}

type reenqueueEvent struct {
	count *int
}

func (e *reenqueueEvent) Handle(rt *Runtime) error {
	*e.count++
	_, err := rt.AddEventIn(e, time.Second)
	return err
}

// A self-reenqueueing event with max_events=1000 ends in
// PrematureAbort{count=1000, remaining>=1}.
func TestRuntime_Run_EventCountCapAborts(t *testing.T) {
	rt, err := NewBuilder(noopApp{}).WithMaxEvents(1000).Build()
	require.NoError(t, err)

	count := 0
	_, err = rt.AddEvent(&reenqueueEvent{count: &count}, SimTimeZero)
	require.NoError(t, err)

	result := rt.Run()
	require.Equal(t, PrematureAbort, result.Kind)
	require.Equal(t, uint64(1000), result.Count)
	require.GreaterOrEqual(t, result.Remaining, 1)
	require.Equal(t, 1000, count)
}

func TestRuntime_Run_MaxTimeStopsDispatch(t *testing.T) {
	rt, err := NewBuilder(noopApp{}).WithMaxTime(SimTime(5)).Build()
	require.NoError(t, err)

	count := 0
	_, err = rt.AddEvent(&reenqueueEvent{count: &count}, SimTimeZero)
	require.NoError(t, err)

	result := rt.Run()
	require.Equal(t, PrematureAbort, result.Kind)
	require.LessOrEqual(t, result.Time, SimTime(5))
}

func TestRuntime_Run_EmptyQueueIsEmptySimulation(t *testing.T) {
	rt, err := NewBuilder(noopApp{}).Build()
	require.NoError(t, err)

	result := rt.Run()
	require.Equal(t, EmptySimulation, result.Kind)
	require.Equal(t, uint64(0), result.Count)
}

func TestRuntime_AddEvent_RejectsPastSchedule(t *testing.T) {
	rt, err := NewBuilder(noopApp{}).WithStartTime(SimTime(10)).Build()
	require.NoError(t, err)

	_, err = rt.AddEvent(FuncEvent(func(*Runtime) error { return nil }), SimTime(5))
	require.ErrorIs(t, err, ErrScheduleInPast)
}

func TestRuntime_AddEvent_RejectsNilValue(t *testing.T) {
	rt, err := NewBuilder(noopApp{}).Build()
	require.NoError(t, err)

	_, err = rt.AddEvent(nil, SimTimeZero)
	require.ErrorIs(t, err, ErrEventNil)
}

func TestRuntime_AddEvent_IgnoredAfterSimEnd(t *testing.T) {
	rt, err := NewBuilder(noopApp{}).Build()
	require.NoError(t, err)
	rt.Run()

	_, err = rt.AddEvent(FuncEvent(func(*Runtime) error { return nil }), rt.Now())
	require.ErrorIs(t, err, ErrScheduleAfterSimEnd)
}

func TestBuilder_Build_RejectsNilApplication(t *testing.T) {
	_, err := NewBuilder(nil).Build()
	require.ErrorIs(t, err, ErrApplicationNil)
}

func TestBuilder_WithConfig_OverridesZeroValueFields(t *testing.T) {
	cfg := &RuntimeConfig{MaxEvents: 42, Seed: 7}
	rt, err := NewBuilder(noopApp{}).WithConfig(cfg).Build()
	require.NoError(t, err)
	require.Equal(t, uint64(42), rt.maxEvents)
}

func TestBuilder_ExplicitOptionTakesPrecedenceOverConfig(t *testing.T) {
	cfg := &RuntimeConfig{MaxEvents: 42}
	rt, err := NewBuilder(noopApp{}).WithMaxEvents(100).WithConfig(cfg).Build()
	require.NoError(t, err)
	require.Equal(t, uint64(100), rt.maxEvents)
}

// Three hooks registered at priorities {0, 10, 100} for the same SimTime
// run in ascending-priority order; a hook's own priority is realized by the
// order its owner inserts it into the queue relative to its siblings, since
// same-time dispatch order follows the stable (time, seq) tie-break. A
// fourth event inserted between the priority-0 and priority-10
// registrations is dispatched between them.
func TestPeriodicHookPriorityOrdering(t *testing.T) {
	rt, err := NewBuilder(noopApp{}).WithMaxTime(SimTime(2)).Build()
	require.NoError(t, err)

	var order []string
	hook := func(label string) EventValue {
		return FuncEvent(func(*Runtime) error {
			order = append(order, label)
			return nil
		})
	}

	_, err = rt.AddEvent(hook("priority-0"), SimTime(1))
	require.NoError(t, err)
	_, err = rt.AddEvent(hook("between"), SimTime(1))
	require.NoError(t, err)
	_, err = rt.AddEvent(hook("priority-10"), SimTime(1))
	require.NoError(t, err)
	_, err = rt.AddEvent(hook("priority-100"), SimTime(1))
	require.NoError(t, err)

	rt.Run()

	require.Equal(t, []string{"priority-0", "between", "priority-10", "priority-100"}, order)
}
