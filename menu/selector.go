package menu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dasdy/pixmenu/device"
	"github.com/dasdy/pixmenu/model"
	"github.com/dasdy/pixmenu/render"
)

var ErrSelectionCancelled = errors.New("number selection cancelled")

// Selector lets the operator pick a number in 0..Modulus-1 with the previous and
// next buttons. Select confirms, exit cancels.
type Selector struct {
	Hub     device.Hub
	Keymap  Keymap
	Modulus int
	Tick    time.Duration
}

func NewSelector(hub device.Hub, modulus int) *Selector {
	return &Selector{
		Hub:     hub,
		Keymap:  DefaultKeymap(),
		Modulus: modulus,
		Tick:    DefaultTimings().Tick,
	}
}

// Pick shows start and returns the confirmed value. Buttons still held when
// Pick is called, like the select that started the calling action, are ignored
// until released.
func (s *Selector) Pick(ctx context.Context, start int) (int, error) {
	if s.Modulus < 1 || s.Modulus > model.MaxNumber+1 {
		return 0, fmt.Errorf("%w: modulus %d", render.ErrOutOfRange, s.Modulus)
	}

	value := ((start % s.Modulus) + s.Modulus) % s.Modulus

	if err := render.Render(s.Hub.Display(), model.Number(value)); err != nil {
		return 0, err
	}

	if err := s.waitAllReleased(ctx); err != nil {
		return 0, err
	}

	for {
		pressed, err := s.Hub.Pressed()
		if err != nil {
			return 0, fmt.Errorf("could not poll buttons: %w", err)
		}

		step := 0

		switch {
		case pressed.Has(s.Keymap.Previous):
			step = -1
		case pressed.Has(s.Keymap.Next):
			step = 1
		case pressed.Has(s.Keymap.Select):
			return value, s.waitAllReleased(ctx)
		case pressed.Has(s.Keymap.Exit):
			if err := s.waitAllReleased(ctx); err != nil {
				return 0, err
			}

			return 0, ErrSelectionCancelled
		}

		if step != 0 {
			// Wait for every button to come up before moving, so a held pair does not skip.
			if err := s.waitAllReleased(ctx); err != nil {
				return 0, err
			}

			value = (value + step + s.Modulus) % s.Modulus

			if err := render.Render(s.Hub.Display(), model.Number(value)); err != nil {
				return 0, err
			}

			continue
		}

		if err := s.Hub.Wait(ctx, s.Tick); err != nil {
			return 0, err
		}
	}
}

func (s *Selector) waitAllReleased(ctx context.Context) error {
	for {
		pressed, err := s.Hub.Pressed()
		if err != nil {
			return fmt.Errorf("could not poll buttons: %w", err)
		}

		if pressed.Empty() {
			return nil
		}

		if err := s.Hub.Wait(ctx, s.Tick); err != nil {
			return err
		}
	}
}
