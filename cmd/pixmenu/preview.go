package pixmenu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dasdy/pixmenu/preview"
	"github.com/spf13/cobra"
)

// previewCmd represents the preview command.
var previewCmd = &cobra.Command{
	Use:   "preview [content...]",
	Short: "Print how content looks on the matrix",
	Long: `Each argument is shown the way a menu item would render it: integers are
numbers, five rows joined by "/" are a glyph, anything else is a character.
Without arguments the items of the menu file (or the demo menu) are shown.`,
	Example: `  pixmenu preview 7 12 A "#   #/ # # /  #  / # # /#   #"
  pixmenu preview --menu menu.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		styles := preview.DefaultStyles()
		drawn := make([]string, 0, len(args))

		if len(args) > 0 {
			for _, arg := range args {
				c := parseContent(arg)

				out, err := styles.Captioned(c, c.String())
				if err != nil {
					return fmt.Errorf("could not preview %q: %w", arg, err)
				}

				drawn = append(drawn, out)
			}
		} else {
			items, _, err := loadMenu(menuPath)
			if err != nil {
				return err
			}

			for i, item := range items {
				out, err := styles.Captioned(item.Content, fmt.Sprintf("%d: %s", i+1, item.Label()))
				if err != nil {
					return fmt.Errorf("could not preview item %d: %w", i+1, err)
				}

				drawn = append(drawn, out)
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), joinRows(drawn, previewPerRow))

		return nil
	},
}

const previewPerRow = 4

func joinRows(drawn []string, perRow int) string {
	rows := make([]string, 0, len(drawn)/perRow+1)

	for start := 0; start < len(drawn); start += perRow {
		end := min(start+perRow, len(drawn))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, spaced(drawn[start:end])...))
	}

	return strings.Join(rows, "\n")
}

func spaced(drawn []string) []string {
	result := make([]string, 0, 2*len(drawn))
	for i, d := range drawn {
		if i > 0 {
			result = append(result, "  ")
		}

		result = append(result, d)
	}

	return result
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVarP(&menuPath, "menu", "m", "",
		"YAML menu file; the demo menu is used when empty")
}

