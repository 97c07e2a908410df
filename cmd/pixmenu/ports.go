package pixmenu

import (
	"fmt"

	"github.com/dasdy/pixmenu/device/serialhub"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

// portsCmd represents the ports command.
var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports and the ones that look like hubs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ports, err := serialhub.GetAvailableDevices()
		if err != nil {
			return err
		}

		if len(ports) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("No serial ports found"))

			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), portsTable(ports))

		return nil
	},
}

func portsTable(ports []serialhub.PortInfo) *uitable.Table {
	table := uitable.New()
	table.AddRow("PORT", "PRODUCT", "VID:PID", "HUB")

	for _, p := range ports {
		usbID := ""
		if p.VID != "" {
			usbID = p.VID + ":" + p.PID
		}

		hub := color.New(color.FgHiBlack).Sprint("no")
		if p.IsHub {
			hub = color.New(color.Bold, color.FgGreen).Sprint("yes")
		}

		table.AddRow(p.Name, p.Product, usbID, hub)
	}

	return table
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
