package model

import (
	"strings"
)

// Button on the hub. The menu maps them onto previous/next/select/exit roles.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonCenter
	ButtonBluetooth
)

var buttonNames = []string{"LEFT", "RIGHT", "CENTER", "BLUETOOTH"}

func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}

	return "UNKNOWN"
}

// ParseButton accepts button names case-insensitively.
func ParseButton(name string) (Button, bool) {
	for i, n := range buttonNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Button(i), true
		}
	}

	return 0, false
}

// ButtonSet is the set of buttons reported pressed during one poll.
type ButtonSet uint8

func Buttons(buttons ...Button) ButtonSet {
	var s ButtonSet
	for _, b := range buttons {
		s = s.With(b)
	}

	return s
}

func (s ButtonSet) Has(b Button) bool {
	return s&(1<<b) != 0
}

func (s ButtonSet) With(b Button) ButtonSet {
	return s | (1 << b)
}

func (s ButtonSet) Without(b Button) ButtonSet {
	return s &^ (1 << b)
}

func (s ButtonSet) Empty() bool {
	return s == 0
}

func (s ButtonSet) List() []Button {
	result := make([]Button, 0, len(buttonNames))

	for i := range buttonNames {
		if s.Has(Button(i)) {
			result = append(result, Button(i))
		}
	}

	return result
}

func (s ButtonSet) String() string {
	names := make([]string, 0, len(buttonNames))
	for _, b := range s.List() {
		names = append(names, b.String())
	}

	return "{" + strings.Join(names, ",") + "}"
}

type Color string

const (
	ColorRed     Color = "RED"
	ColorGreen   Color = "GREEN"
	ColorBlue    Color = "BLUE"
	ColorYellow  Color = "YELLOW"
	ColorOrange  Color = "ORANGE"
	ColorCyan    Color = "CYAN"
	ColorMagenta Color = "MAGENTA"
	ColorWhite   Color = "WHITE"
)

var colors = []Color{
	ColorRed, ColorGreen, ColorBlue, ColorYellow,
	ColorOrange, ColorCyan, ColorMagenta, ColorWhite,
}

func ParseColor(name string) (Color, bool) {
	for _, c := range colors {
		if strings.EqualFold(string(c), strings.TrimSpace(name)) {
			return c, true
		}
	}

	return "", false
}

type Icon string

const (
	IconTrue  Icon = "TRUE"
	IconFalse Icon = "FALSE"
	IconHappy Icon = "HAPPY"
	IconSad   Icon = "SAD"
	IconHeart Icon = "HEART"
	IconPause Icon = "PAUSE"
)

// Frame is the brightness (0..100) of every pixel on the 5x5 matrix, indexed [row][col].
type Frame [MatrixSize][MatrixSize]int

func (f Frame) Lit() int {
	count := 0

	for _, row := range f {
		for _, v := range row {
			if v > 0 {
				count++
			}
		}
	}

	return count
}
