package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dasdy/pixmenu/db"
	"github.com/dasdy/pixmenu/device/sim"
)

// Run shows the simulator while loop runs against hub. It returns when the
// loop finishes or the user quits; quitting is not an error.
func Run(ctx context.Context, hub *sim.Hub, usage *db.UsageCounter, loop func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(New(hub, usage, cancel), tea.WithAltScreen())

	loopErr := make(chan error, 1)

	go func() {
		err := loop(ctx)
		loopErr <- err

		program.Send(ResultMsg{Err: err})
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("simulator failed: %w", err)
	}

	cancel()

	err := <-loopErr
	if errors.Is(err, context.Canceled) {
		slog.Debug("Menu loop cancelled from the simulator")

		return nil
	}

	return err
}
