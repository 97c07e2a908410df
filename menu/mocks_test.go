package menu_test

import (
	"context"
	"fmt"
	"time"

	"github.com/dasdy/pixmenu/device"
	"github.com/dasdy/pixmenu/device/sim"
	"github.com/dasdy/pixmenu/menu"
	"github.com/dasdy/pixmenu/model"
)

// RecorderMock keeps every recorded event in memory.
type RecorderMock struct {
	Events      []model.MenuEvent
	ReturnError error
}

func (r *RecorderMock) Record(_ context.Context, event model.MenuEvent) error {
	r.Events = append(r.Events, event)

	return r.ReturnError
}

func (r *RecorderMock) Kinds() []model.EventKind {
	result := make([]model.EventKind, len(r.Events))
	for i, e := range r.Events {
		result[i] = e.Kind
	}

	return result
}

// ActionMock counts calls and returns ReturnError.
type ActionMock struct {
	CallCount   int
	ReturnError error
	LastHub     device.Hub
}

func (a *ActionMock) Action() menu.Action {
	return func(_ context.Context, hub device.Hub) error {
		a.CallCount++
		a.LastHub = hub

		return a.ReturnError
	}
}

// tap is a press of b followed by its release.
func tap(b model.Button) []model.ButtonSet {
	return []model.ButtonSet{model.Buttons(b), model.Buttons()}
}

func taps(buttons ...model.Button) []model.ButtonSet {
	result := make([]model.ButtonSet, 0, 2*len(buttons))
	for _, b := range buttons {
		result = append(result, tap(b)...)
	}

	return result
}

func newTestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// frameCalls lists the calls drawing frame from scratch.
func frameCalls(frame model.Frame) []string {
	calls := []string{"off"}

	for row := range frame {
		for col, v := range frame[row] {
			if v != 0 {
				calls = append(calls, fmt.Sprintf("pixel %d %d %d", row, col, v))
			}
		}
	}

	return calls
}

// containsSequence reports whether want appears contiguously in calls.
func containsSequence(calls, want []string) bool {
	for start := 0; start+len(want) <= len(calls); start++ {
		match := true

		for i := range want {
			if calls[start+i] != want[i] {
				match = false

				break
			}
		}

		if match {
			return true
		}
	}

	return false
}
