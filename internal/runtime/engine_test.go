package runtime_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/aretw0/wheelsim/internal/runtime"
	"github.com/aretw0/wheelsim/pkg/domain"
	"github.com/aretw0/wheelsim/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arrived(reached bool) ports.DeviceStatus {
	return ports.DeviceStatusFunc(func(context.Context, domain.Leg) bool { return reached })
}

func connected() domain.Input {
	return domain.Received(domain.Inbound{State: domain.BCIConnected, Reason: "System start"})
}

func moveTo(n int) domain.Input {
	return domain.Received(domain.Inbound{MoveTo: domain.IntPtr(n)})
}

func stop(reason string) domain.Input {
	return domain.Received(domain.Inbound{State: domain.BCIStop, Reason: reason})
}

func TestEngine_Idle(t *testing.T) {
	engine := runtime.NewEngine(arrived(false))
	ctx := context.Background()

	t.Run("Tick", func(t *testing.T) {
		next, effects, err := engine.Step(ctx, domain.NewState(), domain.Tick())
		require.NoError(t, err)
		assert.Equal(t, domain.NewState(), next)
		assert.Empty(t, effects)
	})

	t.Run("Connected", func(t *testing.T) {
		next, effects, err := engine.Step(ctx, domain.NewState(), connected())
		require.NoError(t, err)
		assert.Equal(t, domain.StateStopped, next.ID)
		assert.Equal(t, []domain.Outbound{
			{State: "STOPPED", Reason: "Waiting for direction"},
		}, effects)
	})

	t.Run("Guard", func(t *testing.T) {
		for _, in := range []domain.Input{moveTo(3), stop("no"), domain.Received(domain.Inbound{State: "HELLO"})} {
			next, effects, err := engine.Step(ctx, domain.NewState(), in)
			assert.ErrorIs(t, err, domain.ErrProtocolMismatch)
			assert.Equal(t, domain.NewState(), next)
			assert.Empty(t, effects)
		}
	})
}

func TestEngine_Stopped(t *testing.T) {
	engine := runtime.NewEngine(arrived(false))
	ctx := context.Background()
	stopped := domain.Enter(domain.StateStopped)

	t.Run("Tick", func(t *testing.T) {
		next, effects, err := engine.Step(ctx, stopped, domain.Tick())
		require.NoError(t, err)
		assert.Equal(t, stopped, next)
		assert.Empty(t, effects)
	})

	t.Run("MoveTo", func(t *testing.T) {
		next, effects, err := engine.Step(ctx, stopped, moveTo(7))
		require.NoError(t, err)
		assert.Equal(t, domain.MovingTo(7), next)
		assert.False(t, next.Leg.DestinationReached)
		assert.Equal(t, []domain.Outbound{
			{State: "MOVING", Node: domain.IntPtr(7), Reason: "Requested by BCI"},
		}, effects)
	})

	t.Run("Missing MoveTo", func(t *testing.T) {
		for _, in := range []domain.Input{
			domain.Received(domain.Inbound{Reason: "go somewhere"}),
			connected(),
			stop("x"),
		} {
			next, effects, err := engine.Step(ctx, stopped, in)
			assert.ErrorIs(t, err, domain.ErrDecode)
			assert.NotErrorIs(t, err, domain.ErrProtocolMismatch)
			assert.Equal(t, stopped, next)
			assert.Empty(t, effects)
		}
	})
}

func TestEngine_Moving(t *testing.T) {
	ctx := context.Background()

	t.Run("Tick Not Reached", func(t *testing.T) {
		engine := runtime.NewEngine(arrived(false))
		state := domain.MovingTo(7)
		for i := 1; i <= 3; i++ {
			next, effects, err := engine.Step(ctx, state, domain.Tick())
			require.NoError(t, err)
			assert.Equal(t, domain.StateMoving, next.ID)
			assert.Equal(t, 7, next.Leg.Target)
			assert.Equal(t, i, next.Leg.Elapsed)
			assert.Empty(t, effects)
			state = next
		}
	})

	t.Run("Tick Reached Cascades", func(t *testing.T) {
		engine := runtime.NewEngine(arrived(true))
		next, effects, err := engine.Step(ctx, domain.MovingTo(7), domain.Tick())
		require.NoError(t, err)
		assert.Equal(t, domain.Enter(domain.StateStopped), next, "leg must be reset on leaving Moving")
		assert.Equal(t, []domain.Outbound{
			{State: "FINISHED", Reason: "Reached requested node"},
		}, effects)

		next, effects, err = engine.Step(ctx, next, domain.Tick())
		require.NoError(t, err)
		assert.Equal(t, domain.StateStopped, next.ID)
		assert.Empty(t, effects)
	})

	t.Run("Latched Flag Skips Device", func(t *testing.T) {
		called := false
		engine := runtime.NewEngine(ports.DeviceStatusFunc(func(context.Context, domain.Leg) bool {
			called = true
			return false
		}))
		state := domain.MovingTo(2)
		state.Leg.DestinationReached = true

		next, effects, err := engine.Step(ctx, state, domain.Tick())
		require.NoError(t, err)
		assert.False(t, called)
		assert.Equal(t, domain.StateStopped, next.ID)
		assert.Len(t, effects, 1)
	})

	t.Run("Device Sees Progress", func(t *testing.T) {
		var seen []domain.Leg
		engine := runtime.NewEngine(ports.DeviceStatusFunc(func(_ context.Context, leg domain.Leg) bool {
			seen = append(seen, leg)
			return leg.Elapsed >= 2
		}))
		state := domain.MovingTo(4)
		state, _, _ = engine.Step(ctx, state, domain.Tick())
		state, effects, _ := engine.Step(ctx, state, domain.Tick())

		assert.Equal(t, []domain.Leg{{Target: 4, Elapsed: 1}, {Target: 4, Elapsed: 2}}, seen)
		assert.Equal(t, domain.StateStopped, state.ID)
		assert.Equal(t, "FINISHED", effects[0].State)
	})

	t.Run("Stop", func(t *testing.T) {
		engine := runtime.NewEngine(arrived(false))
		next, effects, err := engine.Step(ctx, domain.MovingTo(7), stop("Requested by BCI user"))
		require.NoError(t, err)
		assert.Equal(t, domain.Enter(domain.StateStopped), next)
		assert.Equal(t, []domain.Outbound{
			{State: "STOPPED", Reason: "Requested by BCI user"},
		}, effects)
	})

	t.Run("Stop Without Reason", func(t *testing.T) {
		engine := runtime.NewEngine(arrived(false))
		_, effects, err := engine.Step(ctx, domain.MovingTo(7), stop(""))
		require.NoError(t, err)
		assert.Equal(t, domain.ReasonStopped, effects[0].Reason)
	})

	t.Run("Redirect", func(t *testing.T) {
		engine := runtime.NewEngine(arrived(false))
		state := domain.MovingTo(7)
		state.Leg.Elapsed = 4

		next, effects, err := engine.Step(ctx, state, moveTo(9))
		require.NoError(t, err)
		assert.Equal(t, domain.MovingTo(9), next, "progress restarts on a new target")
		assert.Equal(t, []domain.Outbound{
			{State: "MOVING", Node: domain.IntPtr(9), Reason: "Redirected by BCI"},
		}, effects)
	})

	t.Run("Guard", func(t *testing.T) {
		engine := runtime.NewEngine(arrived(true))
		state := domain.MovingTo(7)
		next, effects, err := engine.Step(ctx, state, connected())
		assert.ErrorIs(t, err, domain.ErrProtocolMismatch)
		assert.Equal(t, state, next)
		assert.Empty(t, effects)
	})
}

func TestEngine_Finished(t *testing.T) {
	engine := runtime.NewEngine(nil)
	next, effects, err := engine.Step(context.Background(), domain.Enter(domain.StateFinished), domain.Tick())
	require.NoError(t, err)
	assert.Equal(t, domain.StateStopped, next.ID)
	assert.Equal(t, []domain.Outbound{{State: "FINISHED", Reason: "Reached requested node"}}, effects)
}

func TestEngine_StopAnnouncement(t *testing.T) {
	engine := runtime.NewEngine(arrived(true), runtime.WithStopAnnouncement(true))
	next, effects, err := engine.Step(context.Background(), domain.MovingTo(1), domain.Tick())
	require.NoError(t, err)
	assert.Equal(t, domain.StateStopped, next.ID)
	assert.Equal(t, []domain.Outbound{
		{State: "FINISHED", Reason: "Reached requested node"},
		{State: "STOPPED", Reason: "Waiting for direction"},
	}, effects)
}

func TestEngine_UnknownState(t *testing.T) {
	engine := runtime.NewEngine(nil)
	state := domain.State{ID: "FLYING"}
	next, effects, err := engine.Step(context.Background(), state, domain.Tick())
	assert.ErrorIs(t, err, runtime.ErrUnknownState)
	assert.Equal(t, state, next)
	assert.Empty(t, effects)
}

func TestEngine_RejectionsLeaveStateUntouched(t *testing.T) {
	engine := runtime.NewEngine(arrived(false))
	ctx := context.Background()

	cases := map[domain.StateID]struct {
		inputs []domain.Input
		want   error
	}{
		domain.StateIdle:    {[]domain.Input{moveTo(1), stop("x"), domain.Received(domain.Inbound{})}, domain.ErrProtocolMismatch},
		domain.StateStopped: {[]domain.Input{connected(), stop("x"), domain.Received(domain.Inbound{State: "MOVING"})}, domain.ErrDecode},
		domain.StateMoving:  {[]domain.Input{connected(), domain.Received(domain.Inbound{Reason: "only a reason"})}, domain.ErrProtocolMismatch},
	}

	for id, tc := range cases {
		t.Run(string(id), func(t *testing.T) {
			state := domain.Enter(id)
			if id == domain.StateMoving {
				state = domain.MovingTo(5)
				state.Leg.Elapsed = 2
			}
			for _, in := range tc.inputs {
				next, effects, err := engine.Step(ctx, state, in)
				assert.ErrorIs(t, err, tc.want)
				assert.Equal(t, state, next)
				assert.Nil(t, effects)
			}
		})
	}
}

func TestEngine_RandomSequencesStayResting(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	engine := runtime.NewEngine(ports.DeviceStatusFunc(func(_ context.Context, leg domain.Leg) bool {
		return leg.Elapsed >= 3
	}))
	ctx := context.Background()

	inputs := []func() domain.Input{
		domain.Tick,
		connected,
		func() domain.Input { return moveTo(rng.IntN(20)) },
		func() domain.Input { return stop("random") },
		func() domain.Input { return domain.Received(domain.Inbound{State: "GARBAGE"}) },
	}

	for run := range 50 {
		state := domain.NewState()
		for i := range 200 {
			in := inputs[rng.IntN(len(inputs))]()
			next, effects, err := engine.Step(ctx, state, in)
			if err != nil {
				require.True(t, errors.Is(err, domain.ErrProtocolMismatch) || errors.Is(err, domain.ErrDecode), "run %d step %d: %v", run, i, err)
				require.Equal(t, state, next, "run %d step %d", run, i)
				require.Empty(t, effects)
			}
			require.True(t, next.ID.Resting(), "run %d step %d left machine in %s", run, i, next.ID)
			if next.ID != domain.StateMoving {
				require.Equal(t, domain.Leg{}, next.Leg)
			}
			if next.ID != state.ID {
				require.NotEmpty(t, effects, "state change without a message")
			}
			state = next
		}
	}
}
