package menu_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dasdy/pixmenu/device/sim"
	"github.com/dasdy/pixmenu/menu"
	"github.com/dasdy/pixmenu/model"
	"github.com/dasdy/pixmenu/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEmpty(t *testing.T) {
	t.Run("shows no-items indicator without polling", func(t *testing.T) {
		hub := sim.New()
		m := menu.New(hub)
		ctx, cancel := newTestContext()
		defer cancel()

		result, err := m.Run(ctx, menu.RunOptions{ShowStartup: true})

		require.NoError(t, err)
		assert.Equal(t, menu.ResultNoItems, result)
		assert.Equal(t, []string{"char ?"}, hub.Calls())
		assert.Equal(t, 0, hub.Polls())
		assert.Equal(t, menu.StateEmpty, m.State())
		assert.Equal(t, []time.Duration{time.Second}, hub.Waits())
	})
}

func TestRunScenario(t *testing.T) {
	a, b, c := &ActionMock{}, &ActionMock{}, &ActionMock{}

	build := func(hub *sim.Hub) *menu.Menu {
		m := menu.New(hub)
		require.NoError(t, m.AddItem(model.Number(0), a.Action()))
		require.NoError(t, m.AddItem(model.Number(5), b.Action()))
		require.NoError(t, m.AddItem(model.Number(10), c.Action()))

		return m
	}

	t.Run("two nexts show the bitmap for ten", func(t *testing.T) {
		hub := sim.New()
		m := build(hub)
		hub.Queue(taps(model.ButtonRight, model.ButtonRight, model.ButtonBluetooth)...)
		ctx, cancel := newTestContext()
		defer cancel()

		result, err := m.Run(ctx, menu.RunOptions{})

		require.NoError(t, err)
		assert.Equal(t, menu.ResultExited, result)
		assert.Equal(t, 2, m.Cursor())

		calls := hub.Calls()
		assert.Equal(t, "char 0", calls[1])
		assert.Equal(t, "char 5", calls[2])
		assert.True(t, containsSequence(calls, append(frameCalls(render.TeenFrame(10)), "char X", "off")))
	})

	t.Run("select invokes the item under the cursor", func(t *testing.T) {
		hub := sim.New()
		m := build(hub)
		hub.Queue(taps(model.ButtonRight, model.ButtonRight, model.ButtonCenter, model.ButtonBluetooth)...)
		ctx, cancel := newTestContext()
		defer cancel()

		_, err := m.Run(ctx, menu.RunOptions{AutoIncrement: false})

		require.NoError(t, err)
		assert.Equal(t, 0, a.CallCount)
		assert.Equal(t, 0, b.CallCount)
		assert.Equal(t, 1, c.CallCount)
		assert.Same(t, hub, c.LastHub)
		assert.Equal(t, 2, m.Cursor())
		assert.Equal(t, menu.StateExited, m.State())
	})
}

func TestRunIndicators(t *testing.T) {
	t.Run("startup, stop button and exit", func(t *testing.T) {
		hub := sim.New()
		m := menuWithNumbers(t, hub, 3)
		hub.Queue(tap(model.ButtonBluetooth)...)
		ctx, cancel := newTestContext()
		defer cancel()

		result, err := m.Run(ctx, menu.RunOptions{ShowStartup: true})

		require.NoError(t, err)
		assert.Equal(t, menu.ResultExited, result)
		assert.Equal(t, []string{"stop BLUETOOTH", "char M", "char 3", "char X", "off"}, hub.Calls())
		assert.Equal(t, model.ButtonBluetooth, hub.StopButton())
		assert.Equal(t, menu.StateExited, m.State())
	})

	t.Run("no startup indicator when disabled", func(t *testing.T) {
		hub := sim.New()
		m := menuWithNumbers(t, hub, 3)
		hub.Queue(tap(model.ButtonBluetooth)...)
		ctx, cancel := newTestContext()
		defer cancel()

		_, err := m.Run(ctx, menu.RunOptions{})

		require.NoError(t, err)
		assert.NotContains(t, hub.Calls(), "char M")
	})

	t.Run("successful action shows confirmation and green light", func(t *testing.T) {
		hub := sim.New()
		m := menuWithNumbers(t, hub, 3)
		hub.Queue(taps(model.ButtonCenter, model.ButtonBluetooth)...)
		ctx, cancel := newTestContext()
		defer cancel()

		_, err := m.Run(ctx, menu.RunOptions{})

		require.NoError(t, err)
		assert.True(t, containsSequence(hub.Calls(), []string{
			"icon TRUE", "blink GREEN 500ms 500ms", "char 3",
		}))
	})
}

func TestRunAutoIncrement(t *testing.T) {
	for _, tc := range []struct {
		name     string
		start    int
		expected int
	}{
		{"middle item", 1, 2},
		{"last item wraps", 3, 0},
		{"first item", 0, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			hub := sim.New()
			m := menuWithNumbers(t, hub, 1, 2, 3, 4)

			for range tc.start {
				require.NoError(t, m.Next(context.Background()))
			}

			hub.Queue(taps(model.ButtonCenter, model.ButtonBluetooth)...)
			ctx, cancel := newTestContext()
			defer cancel()

			_, err := m.Run(ctx, menu.RunOptions{AutoIncrement: true})

			require.NoError(t, err)
			assert.Equal(t, tc.expected, m.Cursor())
		})
	}

	t.Run("does not affect navigation", func(t *testing.T) {
		hub := sim.New()
		m := menuWithNumbers(t, hub, 1, 2, 3, 4)
		hub.Queue(taps(model.ButtonRight, model.ButtonLeft, model.ButtonLeft, model.ButtonBluetooth)...)
		ctx, cancel := newTestContext()
		defer cancel()

		_, err := m.Run(ctx, menu.RunOptions{AutoIncrement: true})

		require.NoError(t, err)
		assert.Equal(t, 3, m.Cursor())
	})
}

func TestRunActionFailure(t *testing.T) {
	t.Run("restores display and returns the error unchanged", func(t *testing.T) {
		hub := sim.New()
		failing := &ActionMock{ReturnError: errors.New("motor stalled")}
		m := menu.New(hub)
		require.NoError(t, m.AddItem(model.Number(1), menu.Func(func() error { return nil })))
		require.NoError(t, m.AddItem(model.Number(15), failing.Action()))
		hub.Queue(tap(model.ButtonRight)...)
		hub.Queue(model.Buttons(model.ButtonCenter))
		ctx, cancel := newTestContext()
		defer cancel()

		result, err := m.Run(ctx, menu.RunOptions{AutoIncrement: true})

		require.Error(t, err)
		assert.Equal(t, failing.ReturnError, err)
		assert.Equal(t, menu.ResultStopped, result)
		assert.Equal(t, menu.StateBrowsing, m.State())
		assert.Equal(t, 1, m.Cursor())

		calls := hub.Calls()
		expectedTail := append([]string{"blink RED 500ms 500ms"}, frameCalls(render.TeenFrame(15))...)
		assert.Equal(t, expectedTail, calls[len(calls)-len(expectedTail):])
	})

	t.Run("converts panics into errors", func(t *testing.T) {
		hub := sim.New()
		m := menu.New(hub)
		require.NoError(t, m.AddItem(model.Char("P"), menu.Func(func() error { panic("boom") })))
		hub.Queue(model.Buttons(model.ButtonCenter))
		ctx, cancel := newTestContext()
		defer cancel()

		_, err := m.Run(ctx, menu.RunOptions{})

		var panicErr *menu.PanicError
		require.ErrorAs(t, err, &panicErr)
		assert.Equal(t, "boom", panicErr.Value)
		assert.Equal(t, "char P", hub.Calls()[len(hub.Calls())-1])
	})

	t.Run("still reports action error when the light fails", func(t *testing.T) {
		hub := sim.New()
		actionErr := errors.New("sensor missing")
		m := menu.New(hub)
		require.NoError(t, m.AddItem(model.Number(2), menu.Func(func() error { return actionErr })))
		hub.FailOn("blink", errors.New("light broken"))
		hub.Queue(model.Buttons(model.ButtonCenter))
		ctx, cancel := newTestContext()
		defer cancel()

		_, err := m.Run(ctx, menu.RunOptions{})

		assert.Equal(t, actionErr, err)
	})
}

func TestRunButtonHandling(t *testing.T) {
	t.Run("honours one button per tick in priority order", func(t *testing.T) {
		hub := sim.New()
		action := &ActionMock{}
		m := menu.New(hub)
		require.NoError(t, m.AddItem(model.Number(1), action.Action()))
		require.NoError(t, m.AddItem(model.Number(2), action.Action()))
		require.NoError(t, m.AddItem(model.Number(3), action.Action()))
		hub.Queue(
			model.Buttons(model.ButtonLeft, model.ButtonRight, model.ButtonCenter, model.ButtonBluetooth),
			model.Buttons(),
			model.Buttons(model.ButtonRight, model.ButtonCenter, model.ButtonBluetooth),
			model.Buttons(),
			model.Buttons(model.ButtonCenter, model.ButtonBluetooth),
			model.Buttons(),
		)
		hub.Queue(tap(model.ButtonBluetooth)...)
		ctx, cancel := newTestContext()
		defer cancel()

		_, err := m.Run(ctx, menu.RunOptions{})

		require.NoError(t, err)
		assert.Equal(t, 0, m.Cursor())
		assert.Equal(t, 1, action.CallCount)
	})

	t.Run("held button moves only once", func(t *testing.T) {
		hub := sim.New()
		m := menuWithNumbers(t, hub, 1, 2, 3)
		right := model.Buttons(model.ButtonRight)
		hub.Queue(right, right, right, right, model.Buttons())
		hub.Queue(tap(model.ButtonBluetooth)...)
		ctx, cancel := newTestContext()
		defer cancel()

		_, err := m.Run(ctx, menu.RunOptions{})

		require.NoError(t, err)
		assert.Equal(t, 1, m.Cursor())
	})

	t.Run("ignores idle ticks", func(t *testing.T) {
		hub := sim.New()
		m := menuWithNumbers(t, hub, 1, 2)
		hub.Queue(model.Buttons(), model.Buttons(), model.Buttons())
		hub.Queue(taps(model.ButtonRight, model.ButtonBluetooth)...)
		ctx, cancel := newTestContext()
		defer cancel()

		_, err := m.Run(ctx, menu.RunOptions{})

		require.NoError(t, err)
		assert.Equal(t, 1, m.Cursor())
		assert.Contains(t, hub.Waits(), menu.DefaultTimings().Tick)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		hub := sim.New()
		m := menuWithNumbers(t, hub, 1)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := m.Run(ctx, menu.RunOptions{})

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, menu.ResultStopped, result)
	})

	t.Run("reports a display failure while exiting", func(t *testing.T) {
		hub := sim.New()
		m := menuWithNumbers(t, hub, 1)
		failure := errors.New("display gone")
		hub.FailOn("off", failure)
		hub.Queue(tap(model.ButtonBluetooth)...)
		ctx, cancel := newTestContext()
		defer cancel()

		result, err := m.Run(ctx, menu.RunOptions{})

		require.ErrorIs(t, err, failure)
		assert.Equal(t, menu.ResultStopped, result)
		assert.NotEqual(t, menu.StateExited, m.State())
	})

	t.Run("uses a custom keymap", func(t *testing.T) {
		hub := sim.New()
		action := &ActionMock{}
		m := menu.New(hub, menu.WithKeymap(menu.Keymap{
			Previous: model.ButtonRight,
			Next:     model.ButtonLeft,
			Select:   model.ButtonBluetooth,
			Exit:     model.ButtonCenter,
		}))
		require.NoError(t, m.AddItem(model.Number(1), action.Action()))
		require.NoError(t, m.AddItem(model.Number(2), action.Action()))
		hub.Queue(taps(model.ButtonLeft, model.ButtonBluetooth, model.ButtonCenter)...)
		ctx, cancel := newTestContext()
		defer cancel()

		_, err := m.Run(ctx, menu.RunOptions{})

		require.NoError(t, err)
		assert.Equal(t, 1, m.Cursor())
		assert.Equal(t, 1, action.CallCount)
		assert.Equal(t, model.ButtonCenter, hub.StopButton())
	})
}

func TestRunRecordsEvents(t *testing.T) {
	t.Run("journals the session", func(t *testing.T) {
		hub := sim.New()
		recorder := &RecorderMock{}
		m := menu.New(hub, menu.WithRecorder(recorder))
		require.NoError(t, m.Add(menu.Item{Content: model.Number(1), Action: menu.Func(func() error { return nil }), Description: "beep"}))
		require.NoError(t, m.AddItem(model.Char("L"), menu.Func(func() error { return errors.New("no motor") })))
		hub.Queue(taps(model.ButtonCenter, model.ButtonRight)...)
		hub.Queue(model.Buttons(model.ButtonCenter))
		ctx, cancel := newTestContext()
		defer cancel()

		_, err := m.Run(ctx, menu.RunOptions{})

		require.Error(t, err)
		assert.Equal(t, []model.EventKind{
			model.EventStart,
			model.EventSelect,
			model.EventActionDone,
			model.EventNavigate,
			model.EventSelect,
			model.EventActionFail,
		}, recorder.Kinds())
		assert.Equal(t, "beep", recorder.Events[1].Label)
		assert.Equal(t, 1, recorder.Events[5].Index)
		assert.Equal(t, "no motor", recorder.Events[5].Error)
	})

	t.Run("keeps running when the recorder fails", func(t *testing.T) {
		hub := sim.New()
		recorder := &RecorderMock{ReturnError: errors.New("disk full")}
		m := menu.New(hub, menu.WithRecorder(recorder))
		require.NoError(t, m.AddItem(model.Number(1), nil))
		hub.Queue(taps(model.ButtonRight, model.ButtonBluetooth)...)
		ctx, cancel := newTestContext()
		defer cancel()

		result, err := m.Run(ctx, menu.RunOptions{})

		require.NoError(t, err)
		assert.Equal(t, menu.ResultExited, result)
		assert.NotEmpty(t, recorder.Events)
	})
}
