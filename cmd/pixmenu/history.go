package pixmenu

import (
	"fmt"
	"os"

	"github.com/dasdy/pixmenu/db"
	"github.com/dasdy/pixmenu/model"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var (
	replay    bool
	filenames []string
	mergeOut  string
)

// historyCmd represents the history command.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show how the menu items were used",
	Long: `Reads the journal written by run and simulate and shows, per item, how often
it was shown, selected and how often its action failed.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		storage, err := db.NewStorageFromPath(journalPath, true)
		if err != nil {
			return fmt.Errorf("could not open %s as sqlite file: %w", journalPath, err)
		}
		defer storage.Close()

		var usage []model.ItemUsage

		if replay {
			counter, err := db.NewUsageCounterFromDB(storage, true)
			if err != nil {
				return err
			}

			usage = counter.Gather()
			fmt.Fprintf(cmd.OutOrStdout(), "%d events replayed\n", counter.Events())
		} else {
			usage, err = storage.GatherAll()
			if err != nil {
				return err
			}
		}

		if len(usage) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("The journal is empty"))

			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), usageTable(usage))

		return nil
	},
}

func usageTable(usage []model.ItemUsage) *uitable.Table {
	table := uitable.New()
	table.AddRow("ITEM", "LABEL", "SHOWN", "SELECTED", "FAILED")

	for _, u := range usage {
		failed := fmt.Sprint(u.Failed)
		if u.Failed > 0 {
			failed = color.RedString(failed)
		}

		table.AddRow(u.Index+1, u.Label, u.Visits, u.Selected, failed)
	}

	return table
}

// mergeCmd represents the history merge command.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge journals into one",
	Long:  `Given several journal files, create a new one, which is just a union of the inputs`,
	RunE: func(_ *cobra.Command, _ []string) error {
		inputs := make([]*db.SQLiteStorage, 0, len(filenames))

		for _, fn := range filenames {
			store, err := db.NewStorageFromPath(fn, true)
			if err != nil {
				return err
			}
			defer store.Close()

			inputs = append(inputs, store)
		}

		if _, err := os.Stat(mergeOut); err == nil {
			return fmt.Errorf("output file %s already exists", mergeOut)
		}

		output, err := db.NewStorageFromPath(mergeOut, false)
		if err != nil {
			return err
		}
		defer output.Close()

		return db.Merge(inputs, output)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(mergeCmd)

	historyCmd.Flags().StringVarP(&journalPath, "journal", "j", "./pixmenu.sqlite",
		"Journal to read")
	historyCmd.Flags().BoolVar(&replay, "replay", false,
		"Replay every event instead of aggregating in sqlite")

	mergeCmd.Flags().StringSliceVarP(&filenames, "file", "f", []string{},
		"List of journals to merge")
	mergeCmd.Flags().StringVarP(&mergeOut, "out", "o", "./merged.sqlite",
		"Output path for the merged journal")
}
