// Package actions holds ready-made menu actions: a few built-in routines and
// Lua scripts that drive the hub.
package actions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dasdy/pixmenu/device"
	"github.com/dasdy/pixmenu/menu"
	"github.com/dasdy/pixmenu/model"
	"github.com/dasdy/pixmenu/render"
)

// Beep plays one tone.
func Beep(frequency int, d time.Duration) menu.Action {
	return func(_ context.Context, hub device.Hub) error {
		if err := hub.Beep(frequency, d); err != nil {
			return fmt.Errorf("could not beep: %w", err)
		}

		return nil
	}
}

// LightShow cycles the status light through colors rounds times, then turns it off.
func LightShow(colors []model.Color, rounds int, step time.Duration) menu.Action {
	return func(ctx context.Context, hub device.Hub) error {
		for range rounds {
			for _, c := range colors {
				if err := hub.Light(c); err != nil {
					return fmt.Errorf("could not set light to %s: %w", c, err)
				}

				if err := hub.Wait(ctx, step); err != nil {
					return err
				}
			}
		}

		if err := hub.LightOff(); err != nil {
			return fmt.Errorf("could not turn light off: %w", err)
		}

		return nil
	}
}

// Countdown shows from, from-1, ... 1 and then an exclamation mark.
func Countdown(from int, step time.Duration) menu.Action {
	return func(ctx context.Context, hub device.Hub) error {
		for i := from; i > 0; i-- {
			if err := render.Render(hub.Display(), model.Number(i)); err != nil {
				return err
			}

			if err := hub.Wait(ctx, step); err != nil {
				return err
			}
		}

		if err := hub.Display().Char('!'); err != nil {
			return fmt.Errorf("could not show countdown end: %w", err)
		}

		return hub.Wait(ctx, step/2)
	}
}

// Text scrolls s on the matrix and holds for hold afterwards.
func Text(s string, hold time.Duration) menu.Action {
	return func(ctx context.Context, hub device.Hub) error {
		if err := hub.Display().Text(s); err != nil {
			return fmt.Errorf("could not show text: %w", err)
		}

		return hub.Wait(ctx, hold)
	}
}

// Show draws content and holds it for hold.
func Show(content model.Content, hold time.Duration) (menu.Action, error) {
	if err := content.Validate(); err != nil {
		return nil, fmt.Errorf("could not build show action: %w", err)
	}

	return func(ctx context.Context, hub device.Hub) error {
		if err := render.Render(hub.Display(), content); err != nil {
			return err
		}

		return hub.Wait(ctx, hold)
	}, nil
}

// Sequence runs actions one after another and stops at the first error.
func Sequence(steps ...menu.Action) menu.Action {
	return func(ctx context.Context, hub device.Hub) error {
		for i, step := range steps {
			if err := step(ctx, hub); err != nil {
				slog.DebugContext(ctx, "Sequence step failed", "step", i, "error", err)

				return err
			}
		}

		return nil
	}
}
