package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MatrixSize = 5

	// MinNumber and MaxNumber bound what the matrix can show for number content.
	MinNumber = -99
	MaxNumber = 99

	FullBrightness = 100
)

var (
	ErrNumberRange = errors.New("number out of displayable range")
	ErrEmptyChar   = errors.New("char content is empty")
	ErrInvalidChar = errors.New("char content does not start with valid UTF-8")
	ErrGlyphShape  = errors.New("glyph must be 5 rows of 5 cells")
	ErrUnknownKind = errors.New("unknown content kind")
)

type ContentKind int

const (
	KindNumber ContentKind = iota + 1
	KindChar
	KindGlyph
)

func (k ContentKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindChar:
		return "char"
	case KindGlyph:
		return "glyph"
	default:
		return "unknown"
	}
}

// Content is what a menu item shows on the matrix: a number, a character or a glyph.
// Only the field selected by Kind is meaningful.
type Content struct {
	Kind   ContentKind
	Number int
	Char   string
	Rows   []string
}

func Number(n int) Content {
	return Content{Kind: KindNumber, Number: n}
}

func Char(s string) Content {
	return Content{Kind: KindChar, Char: s}
}

// Glyph builds glyph content from 5 strings of 5 cells each. A space or '0' is
// an unlit pixel, '1'-'9' is a brightness level and anything else is fully lit.
func Glyph(rows ...string) Content {
	return Content{Kind: KindGlyph, Rows: rows}
}

func (c Content) Validate() error {
	switch c.Kind {
	case KindNumber:
		if c.Number < MinNumber || c.Number > MaxNumber {
			return fmt.Errorf("%w: %d not in %d..%d", ErrNumberRange, c.Number, MinNumber, MaxNumber)
		}
	case KindChar:
		if c.Char == "" {
			return ErrEmptyChar
		}

		if r, size := utf8.DecodeRuneInString(c.Char); r == utf8.RuneError && size <= 1 {
			return fmt.Errorf("%w: %q", ErrInvalidChar, c.Char)
		}
	case KindGlyph:
		if _, err := ParseGlyph(c.Rows); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownKind, c.Kind)
	}

	return nil
}

// FirstRune is the character actually drawn for char content.
func (c Content) FirstRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Char)

	return r
}

func (c Content) Equal(other Content) bool {
	if c.Kind != other.Kind {
		return false
	}

	switch c.Kind {
	case KindNumber:
		return c.Number == other.Number
	case KindChar:
		return c.Char == other.Char
	case KindGlyph:
		return strings.Join(c.Rows, "\n") == strings.Join(other.Rows, "\n")
	default:
		return false
	}
}

func (c Content) String() string {
	switch c.Kind {
	case KindNumber:
		return strconv.Itoa(c.Number)
	case KindChar:
		return strconv.Quote(c.Char)
	case KindGlyph:
		return "glyph[" + strings.Join(c.Rows, "|") + "]"
	default:
		return "<invalid>"
	}
}

// CellBrightness decodes a single glyph cell. Zero means the pixel stays dark.
func CellBrightness(cell rune) int {
	switch {
	case cell == ' ' || cell == '0':
		return 0
	case cell >= '1' && cell <= '9':
		return int(cell-'0') * 10
	default:
		return FullBrightness
	}
}

func ParseGlyph(rows []string) (Frame, error) {
	var frame Frame

	if len(rows) != MatrixSize {
		return Frame{}, fmt.Errorf("%w: got %d rows", ErrGlyphShape, len(rows))
	}

	for y, row := range rows {
		cells := []rune(row)
		if len(cells) != MatrixSize {
			return Frame{}, fmt.Errorf("%w: row %d has %d cells", ErrGlyphShape, y, len(cells))
		}

		for x, cell := range cells {
			frame[y][x] = CellBrightness(cell)
		}
	}

	return frame, nil
}
