package main

import (
	"log/slog"
	"os"

	"github.com/dasdy/pixmenu/cmd/pixmenu"
	"github.com/dasdy/pixmenu/logging"
)

func main() {
	// slog.Default().Handler() cannot be wrapped here: SetDefault would make it
	// log through itself and deadlock.
	slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, slog.LevelInfo)))

	pixmenu.Execute()
}
