package pixmenu

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/dasdy/pixmenu/device/serialhub"
	"github.com/dasdy/pixmenu/logging"
	"github.com/dasdy/pixmenu/menu"
	"github.com/spf13/cobra"
)

var (
	portPath    string
	baudRate    int
	readTimeout time.Duration
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a menu on a hub attached over serial",
	Long: `Connects to the hub on the given serial port, or the first port that looks
like a hub, and runs the menu until the exit button is pressed.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		items, opts, err := loadMenu(menuPath)
		if err != nil {
			return err
		}

		path, err := resolvePort(portPath)
		if err != nil {
			return err
		}

		hub, err := serialhub.Open(path, baudRate, readTimeout)
		if err != nil {
			return err
		}
		defer hub.Close()

		var menuOpts []menu.Option

		storage, err := openJournal()
		if err != nil {
			return err
		}

		if storage != nil {
			defer storage.Close()

			menuOpts = append(menuOpts, menu.WithRecorder(storage))
		}

		m, err := buildMenu(hub, items, menuOpts...)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		ctx = logging.WithPackage(ctx, "run")
		slog.InfoContext(ctx, "Starting menu", "port", path, "items", m.Len())
		slog.DebugContext(ctx, m.String())

		result, err := m.Run(ctx, opts)
		if err != nil {
			var panicErr *menu.PanicError
			if errors.As(err, &panicErr) {
				slog.ErrorContext(ctx, "Menu action panicked", "item", m.Cursor()+1, "panic", panicErr.Value)
			}

			return fmt.Errorf("menu stopped: %w", err)
		}

		slog.InfoContext(ctx, "Menu finished", "result", result)

		return nil
	},
}

// resolvePort returns path, or the first port that looks like a hub.
func resolvePort(path string) (string, error) {
	if path != "" {
		return path, nil
	}

	ports, err := serialhub.GetAvailableDevices()
	if err != nil {
		return "", err
	}

	suggested, ok := serialhub.SuggestedPort(ports)
	if !ok {
		return "", fmt.Errorf("no port given and it does not seem like any hub is connected (found %d ports)", len(ports))
	}

	slog.Info("Using suggested port", "port", suggested)

	return suggested, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	addMenuFlags(runCmd)

	runCmd.Flags().StringVarP(&portPath, "port", "p", "",
		"Serial port of the hub; detected when empty")
	runCmd.Flags().IntVarP(&baudRate, "baud", "b", serialhub.DefaultBaudRate,
		"Baud rate of the serial port")
	runCmd.Flags().DurationVar(&readTimeout, "read-timeout", 2*time.Second,
		"How long to wait for the hub to answer a command")
}
