package actions

import (
	"time"

	"github.com/dasdy/pixmenu/menu"
	"github.com/dasdy/pixmenu/model"
)

// Demo is the menu used when no menu file is given.
func Demo() []menu.Item {
	return []menu.Item{
		{Content: model.Number(1), Action: Beep(440, 200*time.Millisecond), Description: "Beep Sound"},
		{
			Content:     model.Number(2),
			Action:      LightShow([]model.Color{model.ColorRed, model.ColorGreen, model.ColorBlue, model.ColorYellow}, 3, 100*time.Millisecond),
			Description: "Light Show",
		},
		// no motor port over the wire, a low beep is what the hub does without a motor
		{Content: model.Number(3), Action: Beep(200, 100*time.Millisecond), Description: "Motor Demo"},
		{Content: model.Number(5), Action: Countdown(5, time.Second), Description: "Countdown"},
	}
}
