// Package serialhub drives a hub over a serial line. The hub side runs a small
// command interpreter that answers every newline terminated command with either
// "OK [payload]" or "ERR message".
package serialhub

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dasdy/pixmenu/device"
	"github.com/dasdy/pixmenu/model"
	"go.bug.st/serial"
)

var (
	ErrDevice   = errors.New("hub reported an error")
	ErrProtocol = errors.New("unexpected hub response")
	ErrTimeout  = errors.New("hub did not answer in time")
)

const DefaultBaudRate = 115200

type Hub struct {
	rw     io.ReadWriter
	reader *bufio.Reader
	closer io.Closer
}

// New talks to a hub over rw, which is usually an open serial port.
func New(rw io.ReadWriter) *Hub {
	h := &Hub{rw: rw, reader: bufio.NewReader(timeoutReader{rw})}

	if c, ok := rw.(io.Closer); ok {
		h.closer = c
	}

	return h
}

// Open opens the serial port at path.
func Open(path string, baudRate int, readTimeout time.Duration) (*Hub, error) {
	port, err := serial.Open(path, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("could not open port %s: %w", path, err)
	}

	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()

		return nil, fmt.Errorf("could not set read timeout on %s: %w", path, err)
	}

	slog.Info("Opened hub port", "path", path, "baud", baudRate)

	return New(port), nil
}

func (h *Hub) Close() error {
	if h.closer == nil {
		return nil
	}

	return h.closer.Close()
}

// command sends one line and returns the payload of the OK response.
func (h *Hub) command(format string, args ...any) (string, error) {
	line := fmt.Sprintf(format, args...)

	if _, err := io.WriteString(h.rw, line+"\n"); err != nil {
		return "", fmt.Errorf("could not send %q: %w", line, err)
	}

	response, err := h.reader.ReadString('\n')
	if err != nil {
		// Drop a partial answer so it is not taken for the next command's.
		h.reader.Reset(timeoutReader{h.rw})

		return "", fmt.Errorf("could not read response to %q: %w", line, err)
	}

	response = strings.TrimRight(response, "\r\n")
	status, payload, _ := strings.Cut(response, " ")

	switch status {
	case "OK":
		return payload, nil
	case "ERR":
		return "", fmt.Errorf("%w: %s: %s", ErrDevice, line, payload)
	default:
		return "", fmt.Errorf("%w: %q to %q", ErrProtocol, response, line)
	}
}

func (h *Hub) exec(format string, args ...any) error {
	_, err := h.command(format, args...)

	return err
}

func (h *Hub) Display() device.Display {
	return display{h}
}

func (h *Hub) Pressed() (model.ButtonSet, error) {
	payload, err := h.command("BUTTONS")
	if err != nil {
		return 0, err
	}

	return ParseButtons(payload)
}

// ParseButtons reads a comma separated list of button names. Empty means none.
func ParseButtons(payload string) (model.ButtonSet, error) {
	var set model.ButtonSet

	payload = strings.TrimSpace(payload)
	if payload == "" {
		return set, nil
	}

	for _, name := range strings.Split(payload, ",") {
		b, ok := model.ParseButton(name)
		if !ok {
			return 0, fmt.Errorf("%w: unknown button %q", ErrProtocol, name)
		}

		set = set.With(b)
	}

	return set, nil
}

func (h *Hub) SetStopButton(b model.Button) error {
	return h.exec("STOP %s", b)
}

// Wait sleeps on this side of the line, the hub has nothing to do meanwhile.
func (h *Hub) Wait(ctx context.Context, d time.Duration) error {
	return device.SleepContext(ctx, d)
}

func (h *Hub) Light(c model.Color) error {
	return h.exec("LIGHT %s", c)
}

func (h *Hub) Blink(c model.Color, pattern []time.Duration) error {
	parts := make([]string, 0, len(pattern)+1)
	parts = append(parts, string(c))

	for _, d := range pattern {
		parts = append(parts, fmt.Sprint(d.Milliseconds()))
	}

	return h.exec("BLINK %s", strings.Join(parts, " "))
}

func (h *Hub) LightOff() error {
	return h.exec("LIGHTOFF")
}

func (h *Hub) Beep(frequency int, d time.Duration) error {
	return h.exec("BEEP %d %d", frequency, d.Milliseconds())
}

// timeoutReader reports an empty read as ErrTimeout. A serial port returns
// (0, nil) when its read timeout expires.
type timeoutReader struct {
	r io.Reader
}

func (t timeoutReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if n == 0 && err == nil && len(p) > 0 {
		return 0, ErrTimeout
	}

	return n, err
}

type display struct {
	h *Hub
}

func (d display) Off() error {
	return d.h.exec("OFF")
}

func (d display) Pixel(row, col, brightness int) error {
	return d.h.exec("PIXEL %d %d %d", row, col, brightness)
}

func (d display) Char(r rune) error {
	return d.h.exec("CHAR %c", r)
}

func (d display) Number(n int) error {
	return d.h.exec("NUMBER %d", n)
}

func (d display) Text(s string) error {
	return d.h.exec("TEXT %s", strings.ReplaceAll(s, "\n", " "))
}

func (d display) Icon(icon model.Icon) error {
	return d.h.exec("ICON %s", icon)
}
