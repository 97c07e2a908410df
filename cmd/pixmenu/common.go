package pixmenu

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dasdy/pixmenu/actions"
	"github.com/dasdy/pixmenu/db"
	"github.com/dasdy/pixmenu/device"
	"github.com/dasdy/pixmenu/menu"
	"github.com/dasdy/pixmenu/menufile"
	"github.com/dasdy/pixmenu/model"
	"github.com/spf13/cobra"
)

var (
	menuPath    string
	journalPath string
	noJournal   bool
	tick        time.Duration
)

func addMenuFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&menuPath, "menu", "m", "",
		"YAML menu file; the demo menu is used when empty")
	cmd.Flags().StringVarP(&journalPath, "journal", "j", "./pixmenu.sqlite",
		"sqlite file the menu events are journaled to")
	cmd.Flags().BoolVar(&noJournal, "no-journal", false,
		"If provided, menu events are not journaled")
	cmd.Flags().DurationVar(&tick, "tick", menu.DefaultTimings().Tick,
		"Interval between button polls")
}

// loadMenu reads the menu file, or falls back to the demo menu.
func loadMenu(path string) ([]menu.Item, menu.RunOptions, error) {
	if path == "" {
		slog.Info("No menu file given, using the demo menu")

		return actions.Demo(), menu.RunOptions{ShowStartup: true}, nil
	}

	f, err := menufile.Load(path)
	if err != nil {
		return nil, menu.RunOptions{}, err
	}

	items, err := f.Build()
	if err != nil {
		return nil, menu.RunOptions{}, fmt.Errorf("could not build menu from %s: %w", path, err)
	}

	return items, f.RunOptions(), nil
}

func buildMenu(hub device.Hub, items []menu.Item, opts ...menu.Option) (*menu.Menu, error) {
	timings := menu.DefaultTimings()
	timings.Tick = tick

	m := menu.New(hub, append([]menu.Option{menu.WithTimings(timings)}, opts...)...)

	for _, item := range items {
		if err := m.Add(item); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// openJournal opens the journal unless journaling is off. A nil storage means
// no journal.
func openJournal() (*db.SQLiteStorage, error) {
	if noJournal {
		return nil, nil
	}

	storage, err := db.NewStorageFromPath(journalPath, false)
	if err != nil {
		return nil, fmt.Errorf("could not open %s as sqlite file: %w", journalPath, err)
	}

	return storage, nil
}

// parseContent reads content from the command line: an integer is a number,
// five rows separated by "/" are a glyph, anything else is a character.
func parseContent(arg string) model.Content {
	if n, err := strconv.Atoi(arg); err == nil {
		return model.Number(n)
	}

	if rows := strings.Split(arg, "/"); len(rows) == model.MatrixSize {
		return model.Glyph(rows...)
	}

	return model.Char(arg)
}
