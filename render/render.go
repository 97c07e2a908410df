// Package render draws menu content on the hub's 5x5 matrix.
package render

import (
	"errors"
	"fmt"

	"github.com/dasdy/pixmenu/device"
	"github.com/dasdy/pixmenu/model"
)

var ErrOutOfRange = errors.New("content out of displayable range")

// Render shows c on d. Numbers 0-9 use the hub's character glyph, 10-19 use the
// teen bitmaps and every other number (including negatives) goes to the hub's
// own number renderer. Char content shows only its first character.
func Render(d device.Display, c model.Content) error {
	switch c.Kind {
	case model.KindNumber:
		return renderNumber(d, c.Number)
	case model.KindChar:
		if c.Char == "" {
			return fmt.Errorf("could not render char: %w", model.ErrEmptyChar)
		}

		if err := d.Char(c.FirstRune()); err != nil {
			return fmt.Errorf("could not draw char %q: %w", c.FirstRune(), err)
		}

		return nil
	case model.KindGlyph:
		frame, err := model.ParseGlyph(c.Rows)
		if err != nil {
			return fmt.Errorf("could not render glyph: %w", err)
		}

		return DrawFrame(d, frame)
	default:
		return fmt.Errorf("could not render content: %w", model.ErrUnknownKind)
	}
}

func renderNumber(d device.Display, n int) error {
	if n < model.MinNumber || n > model.MaxNumber {
		return fmt.Errorf("%w: %d", ErrOutOfRange, n)
	}

	switch {
	case n >= 0 && n <= 9:
		if err := d.Char(rune('0' + n)); err != nil {
			return fmt.Errorf("could not draw digit %d: %w", n, err)
		}

		return nil
	case n >= 10 && n < len(teenPatterns):
		return DrawFrame(d, TeenFrame(n))
	default:
		if err := d.Number(n); err != nil {
			return fmt.Errorf("could not draw number %d: %w", n, err)
		}

		return nil
	}
}

// DrawFrame clears the matrix and lights every non-zero pixel of frame.
func DrawFrame(d device.Display, frame model.Frame) error {
	if err := d.Off(); err != nil {
		return fmt.Errorf("could not clear display: %w", err)
	}

	for row := range frame {
		for col, brightness := range frame[row] {
			if brightness == 0 {
				continue
			}

			if err := d.Pixel(row, col, brightness); err != nil {
				return fmt.Errorf("could not light pixel (%d, %d): %w", row, col, err)
			}
		}
	}

	return nil
}

// Frame returns the pixels c lights when drawn as a bitmap. The second value is
// false for content the hub draws with its own glyphs.
func Frame(c model.Content) (model.Frame, bool) {
	switch c.Kind {
	case model.KindGlyph:
		frame, err := model.ParseGlyph(c.Rows)

		return frame, err == nil
	case model.KindNumber:
		if c.Number >= 10 && c.Number < len(teenPatterns) {
			return TeenFrame(c.Number), true
		}
	}

	return model.Frame{}, false
}
