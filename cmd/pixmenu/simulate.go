package pixmenu

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dasdy/pixmenu/db"
	"github.com/dasdy/pixmenu/device/sim"
	"github.com/dasdy/pixmenu/logging"
	"github.com/dasdy/pixmenu/menu"
	"github.com/dasdy/pixmenu/tui"
	"github.com/spf13/cobra"
)

var logFile string

// simulateCmd represents the simulate command.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a menu against a hub simulated in the terminal",
	Long: `Draws the matrix and status light in the terminal. Arrow keys browse,
enter selects, esc leaves the menu and q quits the simulator.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// The simulator owns the terminal, logs go to a file or nowhere.
		var logOut io.Writer = io.Discard

		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("could not open log file %s: %w", logFile, err)
			}
			defer f.Close()

			logOut = f
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		previous := slog.Default()
		defer slog.SetDefault(previous)

		items, opts, err := loadMenu(menuPath)
		if err != nil {
			return err
		}

		hub := sim.New(sim.WithRealTime())
		recorders := menu.Recorders{}

		storage, err := openJournal()
		if err != nil {
			return err
		}

		usage := db.NewUsageCounter()

		if storage != nil {
			defer storage.Close()

			usage, err = db.NewUsageCounterFromDB(storage, true)
			if err != nil {
				return fmt.Errorf("could not replay journal: %w", err)
			}

			recorders = append(recorders, storage)
		}

		recorders = append(recorders, usage)

		m, err := buildMenu(hub, items, menu.WithRecorder(recorders))
		if err != nil {
			return err
		}

		slog.SetDefault(slog.New(logging.NewHandler(logOut, level)))

		ctx := logging.WithPackage(cmd.Context(), "simulate")

		return tui.Run(ctx, hub, usage, func(ctx context.Context) error {
			result, err := m.Run(ctx, opts)
			slog.InfoContext(ctx, "Menu finished", "result", result, "error", err)

			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	addMenuFlags(simulateCmd)

	simulateCmd.Flags().StringVar(&logFile, "log-file", "",
		"Write logs to this file while the simulator runs")
}
