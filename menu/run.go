package menu

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dasdy/pixmenu/device"
	"github.com/dasdy/pixmenu/logging"
	"github.com/dasdy/pixmenu/model"
)

const (
	noItemsChar = '?'
	startupChar = 'M'
	exitChar    = 'X'
)

type Result int

const (
	// ResultStopped goes with every error Run returns.
	ResultStopped Result = iota
	// ResultExited means the exit button ended the loop.
	ResultExited
	// ResultNoItems means there was nothing to show and no button was polled.
	ResultNoItems
)

func (r Result) String() string {
	switch r {
	case ResultExited:
		return "exited"
	case ResultNoItems:
		return "no items"
	default:
		return "stopped"
	}
}

type RunOptions struct {
	ShowStartup bool
	// AutoIncrement moves the cursor to the next item after a successful action.
	AutoIncrement bool
}

// Run shows the menu and handles buttons until the exit button is pressed, an
// action fails or ctx is done. A failing action's error is returned as is,
// after the current item has been drawn again. The result is ResultStopped
// whenever the error is not nil.
func (m *Menu) Run(ctx context.Context, opts RunOptions) (Result, error) {
	result, err := m.run(logging.WithPackage(ctx, "menu"), opts)
	if err != nil {
		return ResultStopped, err
	}

	return result, nil
}

func (m *Menu) run(ctx context.Context, opts RunOptions) (Result, error) {
	if len(m.items) == 0 {
		m.state = StateEmpty
		slog.InfoContext(ctx, "Menu has no items")

		if err := m.hub.Display().Char(noItemsChar); err != nil {
			return ResultStopped, fmt.Errorf("could not show empty menu: %w", err)
		}

		if err := m.hub.Wait(ctx, m.timings.NoItemsHold); err != nil {
			return ResultStopped, err
		}

		return ResultNoItems, nil
	}

	m.state = StateBrowsing

	// The exit button becomes the program stop so that select is free for the menu.
	if err := m.hub.SetStopButton(m.keymap.Exit); err != nil {
		return ResultStopped, fmt.Errorf("could not set stop button: %w", err)
	}

	if opts.ShowStartup {
		if err := m.hub.Display().Char(startupChar); err != nil {
			return ResultStopped, fmt.Errorf("could not show startup indicator: %w", err)
		}

		if err := m.hub.Wait(ctx, m.timings.Startup); err != nil {
			return ResultStopped, err
		}
	}

	slog.InfoContext(ctx, "Menu started", "items", len(m.items), "autoIncrement", opts.AutoIncrement)
	m.record(ctx, model.EventStart, nil)

	if err := m.renderCurrent(); err != nil {
		return ResultStopped, err
	}

	for {
		pressed, err := m.hub.Pressed()
		if err != nil {
			return ResultStopped, fmt.Errorf("could not poll buttons: %w", err)
		}

		switch {
		case pressed.Has(m.keymap.Previous):
			err = m.navigate(ctx, m.keymap.Previous, -1)
		case pressed.Has(m.keymap.Next):
			err = m.navigate(ctx, m.keymap.Next, 1)
		case pressed.Has(m.keymap.Select):
			err = m.execute(ctx, opts.AutoIncrement)
			if err == nil {
				err = m.waitRelease(ctx, m.keymap.Select)
			}
		case pressed.Has(m.keymap.Exit):
			err = m.exit(ctx)
			if err == nil {
				return ResultExited, nil
			}
		default:
			err = m.hub.Wait(ctx, m.timings.Tick)
		}

		if err != nil {
			return ResultStopped, err
		}
	}
}

func (m *Menu) navigate(ctx context.Context, button model.Button, delta int) error {
	if err := m.move(ctx, delta); err != nil {
		return err
	}

	return m.waitRelease(ctx, button)
}

// waitRelease polls every tick until button is no longer reported pressed.
func (m *Menu) waitRelease(ctx context.Context, button model.Button) error {
	for {
		pressed, err := m.hub.Pressed()
		if err != nil {
			return fmt.Errorf("could not poll buttons: %w", err)
		}

		if !pressed.Has(button) {
			return nil
		}

		if err := m.hub.Wait(ctx, m.timings.Tick); err != nil {
			return err
		}
	}
}

func (m *Menu) execute(ctx context.Context, autoIncrement bool) error {
	item, ok := m.Current()
	if !ok || item.Action == nil {
		return nil
	}

	m.state = StateExecuting
	ctx = logging.AppendCtx(ctx, slog.Int("item", m.cursor))

	slog.InfoContext(ctx, "Running action", "label", item.Label())
	m.record(ctx, model.EventSelect, nil)

	if err := m.hub.Display().Icon(model.IconTrue); err != nil {
		m.state = StateBrowsing

		return fmt.Errorf("could not show confirmation: %w", err)
	}

	if err := m.hub.Wait(ctx, m.timings.Confirm); err != nil {
		m.state = StateBrowsing

		return err
	}

	if actionErr := callAction(ctx, item.Action, m.hub); actionErr != nil {
		slog.ErrorContext(ctx, "Action failed", "error", actionErr)
		m.record(ctx, model.EventActionFail, actionErr)
		m.showFailure(ctx)
		m.state = StateBrowsing

		return actionErr
	}

	m.record(ctx, model.EventActionDone, nil)
	m.state = StateBrowsing

	if err := m.hub.Blink(model.ColorGreen, m.timings.Blink); err != nil {
		return fmt.Errorf("could not show completion: %w", err)
	}

	if err := m.hub.Wait(ctx, m.timings.Feedback); err != nil {
		return err
	}

	if autoIncrement && len(m.items) > 0 {
		m.cursor = (m.cursor + 1) % len(m.items)
	}

	m.clampCursor()

	return m.renderCurrent()
}

// showFailure blinks red and redraws the current item. Its own errors are only
// logged, the action error is what the caller gets.
func (m *Menu) showFailure(ctx context.Context) {
	if err := m.hub.Blink(model.ColorRed, m.timings.Blink); err != nil {
		slog.ErrorContext(ctx, "Could not show failure", "error", err)
	}

	if err := m.hub.Wait(ctx, m.timings.Feedback); err != nil {
		slog.WarnContext(ctx, "Failure indicator interrupted", "error", err)
	}

	m.clampCursor()

	if err := m.renderCurrent(); err != nil {
		slog.ErrorContext(ctx, "Could not redraw after failure", "error", err)
	}
}

func callAction(ctx context.Context, action Action, hub device.Hub) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()

	return action(ctx, hub)
}

// PanicError is returned when an action panics instead of returning an error.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("action panicked: %v", e.Value)
}

func (m *Menu) exit(ctx context.Context) error {
	slog.InfoContext(ctx, "Exiting menu")
	m.record(ctx, model.EventExit, nil)

	if err := m.hub.Display().Char(exitChar); err != nil {
		return fmt.Errorf("could not show exit indicator: %w", err)
	}

	if err := m.hub.Wait(ctx, m.timings.ExitHold); err != nil {
		return err
	}

	if err := m.hub.Display().Off(); err != nil {
		return fmt.Errorf("could not clear display: %w", err)
	}

	if err := m.waitRelease(ctx, m.keymap.Exit); err != nil {
		return err
	}

	m.state = StateExited

	return nil
}
