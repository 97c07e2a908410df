package device

import (
	"context"
	"time"

	"github.com/dasdy/pixmenu/model"
)

// Display is the 5x5 matrix of the hub.
type Display interface {
	Off() error
	// Pixel lights the pixel at row/col with brightness in 0..100.
	Pixel(row, col, brightness int) error
	Char(r rune) error
	// Number uses the hub's own multi-digit number renderer.
	Number(n int) error
	Text(s string) error
	Icon(icon model.Icon) error
}

// Hub is everything the menu needs from the physical unit. Implementations are
// not required to be safe for concurrent use.
type Hub interface {
	Display() Display
	Pressed() (model.ButtonSet, error)
	// SetStopButton picks the button that terminates the program on the hub.
	SetStopButton(b model.Button) error
	Wait(ctx context.Context, d time.Duration) error

	Light(c model.Color) error
	Blink(c model.Color, pattern []time.Duration) error
	LightOff() error
	Beep(frequency int, d time.Duration) error
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
