// Package preview draws what the hub's matrix and status light show, for
// terminals.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dasdy/pixmenu/device/sim"
	"github.com/dasdy/pixmenu/model"
	"github.com/dasdy/pixmenu/render"
)

const (
	litCell  = "██"
	darkCell = "··"
)

type Styles struct {
	Matrix  lipgloss.Style
	Dark    lipgloss.Style
	Caption lipgloss.Style
	Glyph   lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Matrix: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		Dark: lipgloss.NewStyle().
			Foreground(lipgloss.Color("236")),
		Caption: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		Glyph: lipgloss.NewStyle().
			Bold(true).
			Width(model.MatrixSize * len([]rune(litCell))).
			Height(model.MatrixSize).
			Align(lipgloss.Center, lipgloss.Center),
	}
}

// lightColors maps hub light colours onto terminal colours.
var lightColors = map[model.Color]lipgloss.Color{
	model.ColorRed:     lipgloss.Color("196"),
	model.ColorGreen:   lipgloss.Color("46"),
	model.ColorBlue:    lipgloss.Color("27"),
	model.ColorYellow:  lipgloss.Color("226"),
	model.ColorOrange:  lipgloss.Color("208"),
	model.ColorCyan:    lipgloss.Color("51"),
	model.ColorMagenta: lipgloss.Color("201"),
	model.ColorWhite:   lipgloss.Color("255"),
}

// shade picks a grey for a brightness in 1..100.
func shade(brightness int) lipgloss.Color {
	brightness = min(max(brightness, 1), model.FullBrightness)

	// 232..255 is the greyscale ramp, dim pixels start at 240 to stay visible.
	return lipgloss.Color(fmt.Sprint(240 + (brightness*15)/model.FullBrightness))
}

func (s Styles) Frame(f model.Frame) string {
	rows := make([]string, 0, model.MatrixSize)

	for _, row := range f {
		var b strings.Builder

		for _, v := range row {
			if v <= 0 {
				b.WriteString(s.Dark.Render(darkCell))

				continue
			}

			b.WriteString(lipgloss.NewStyle().Foreground(shade(v)).Render(litCell))
		}

		rows = append(rows, b.String())
	}

	return s.Matrix.Render(strings.Join(rows, "\n"))
}

// Screen draws the simulated matrix. Characters, numbers, text and icons are
// drawn by the hub firmware, so they are shown as text in the matrix box.
func (s Styles) Screen(screen sim.Screen) string {
	switch screen.Mode {
	case sim.ModePixels:
		return s.Frame(screen.Frame)
	case sim.ModeChar:
		return s.Matrix.Render(s.Glyph.Render(string(screen.Char)))
	case sim.ModeNumber:
		return s.Matrix.Render(s.Glyph.Render(fmt.Sprint(screen.Number)))
	case sim.ModeText:
		return s.Matrix.Render(s.Glyph.Render(screen.Text))
	case sim.ModeIcon:
		return s.Matrix.Render(s.Glyph.Render(string(screen.Icon)))
	case sim.ModeOff:
		return s.Frame(model.Frame{})
	default:
		return s.Frame(model.Frame{})
	}
}

// Light draws the status light.
func (s Styles) Light(c model.Color, on bool) string {
	if !on {
		return s.Caption.Render("○ off")
	}

	return lipgloss.NewStyle().Foreground(lightColors[c]).Render("●") + " " + s.Caption.Render(strings.ToLower(string(c)))
}

// Content renders c the way the menu would and draws the result.
func (s Styles) Content(c model.Content) (string, error) {
	hub := sim.New()

	if err := render.Render(hub.Display(), c); err != nil {
		return "", err
	}

	return s.Screen(hub.Screen()), nil
}

// Captioned draws content with a label under it.
func (s Styles) Captioned(c model.Content, label string) (string, error) {
	drawn, err := s.Content(c)
	if err != nil {
		return "", err
	}

	return lipgloss.JoinVertical(lipgloss.Center, drawn, s.Caption.Render(label)), nil
}
