package serialhub

import (
	"fmt"
	"log/slog"
	"strings"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// legoVendorID is the USB vendor id of LEGO hubs.
const legoVendorID = "0694"

type PortInfo struct {
	Name    string
	Product string
	VID     string
	PID     string
	IsHub   bool
}

// LooksLikeHubDevice guesses from the device name alone whether it is a USB
// serial device a hub could be behind.
func LooksLikeHubDevice(path string) bool {
	name := path[strings.LastIndex(path, "/")+1:]

	return strings.HasPrefix(name, "tty.usbmodem") ||
		strings.HasPrefix(name, "cu.usbmodem") ||
		strings.HasPrefix(name, "ttyACM")
}

// GetAvailableDevices lists serial ports, flagging the ones that look like hubs.
func GetAvailableDevices() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		slog.Warn("Could not get detailed port list, falling back to names", "error", err)

		return portNamesOnly()
	}

	result := make([]PortInfo, 0, len(details))

	for _, d := range details {
		info := PortInfo{Name: d.Name, Product: d.Product}
		if d.IsUSB {
			info.VID, info.PID = d.VID, d.PID
		}

		info.IsHub = strings.EqualFold(info.VID, legoVendorID) || LooksLikeHubDevice(d.Name)
		result = append(result, info)
	}

	return result, nil
}

func portNamesOnly() ([]PortInfo, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("could not get list of serial ports: %w", err)
	}

	result := make([]PortInfo, 0, len(names))
	for _, n := range names {
		result = append(result, PortInfo{Name: n, IsHub: LooksLikeHubDevice(n)})
	}

	return result, nil
}

// SuggestedPort returns the first port that looks like a hub.
func SuggestedPort(ports []PortInfo) (string, bool) {
	for _, p := range ports {
		if p.IsHub {
			return p.Name, true
		}
	}

	return "", false
}
