// Package sim provides an in-memory hub. It records every display, light and
// speaker call, replays scripted button presses and keeps a model of what the
// matrix currently shows, which is what the terminal simulator draws.
package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dasdy/pixmenu/device"
	"github.com/dasdy/pixmenu/model"
)

var ErrOutOfBounds = errors.New("pixel out of bounds")

type ScreenMode int

const (
	ModeOff ScreenMode = iota
	ModePixels
	ModeChar
	ModeNumber
	ModeText
	ModeIcon
)

// Screen is the last thing drawn on the simulated matrix.
type Screen struct {
	Mode   ScreenMode
	Frame  model.Frame
	Char   rune
	Number int
	Text   string
	Icon   model.Icon
}

type Hub struct {
	lock sync.Mutex

	calls    []string
	waits    []time.Duration
	failures map[string]error

	queue []model.ButtonSet
	held  model.ButtonSet
	taps  map[model.Button]int
	polls int

	screen     Screen
	light      model.Color
	lightOn    bool
	stopButton model.Button

	realTime bool
}

type Option func(*Hub)

// WithRealTime makes Wait actually sleep. Without it waits return immediately.
func WithRealTime() Option {
	return func(h *Hub) {
		h.realTime = true
	}
}

func New(opts ...Option) *Hub {
	h := &Hub{
		failures:   make(map[string]error),
		taps:       make(map[model.Button]int),
		stopButton: model.ButtonCenter,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Queue appends button sets returned by the next polls, in order. Once the queue
// is drained, polls report held buttons and taps.
func (h *Hub) Queue(sets ...model.ButtonSet) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.queue = append(h.queue, sets...)
}

// Press holds b down until Release is called.
func (h *Hub) Press(b model.Button) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.held = h.held.With(b)
}

func (h *Hub) Release(b model.Button) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.held = h.held.Without(b)
}

// Tap reports b as pressed for the next polls polls.
func (h *Hub) Tap(b model.Button, polls int) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.taps[b] = polls
}

// FailOn makes every later call of op (the first word of a recorded call, like
// "pixel" or "beep") return err. A nil err clears the failure.
func (h *Hub) FailOn(op string, err error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if err == nil {
		delete(h.failures, op)

		return
	}

	h.failures[op] = err
}

func (h *Hub) Calls() []string {
	h.lock.Lock()
	defer h.lock.Unlock()

	return append([]string(nil), h.calls...)
}

func (h *Hub) ResetCalls() {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.calls = nil
	h.waits = nil
}

func (h *Hub) Waits() []time.Duration {
	h.lock.Lock()
	defer h.lock.Unlock()

	return append([]time.Duration(nil), h.waits...)
}

func (h *Hub) Polls() int {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.polls
}

func (h *Hub) Screen() Screen {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.screen
}

// LightState returns the status light colour and whether it is on.
func (h *Hub) LightState() (model.Color, bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.light, h.lightOn
}

func (h *Hub) StopButton() model.Button {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.stopButton
}

// record must be called with the lock held.
func (h *Hub) record(format string, args ...any) error {
	call := fmt.Sprintf(format, args...)
	h.calls = append(h.calls, call)

	op, _, _ := strings.Cut(call, " ")
	if err, ok := h.failures[op]; ok {
		return err
	}

	return nil
}

func (h *Hub) Display() device.Display {
	return &display{h}
}

func (h *Hub) Pressed() (model.ButtonSet, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.polls++

	if err, ok := h.failures["pressed"]; ok {
		return 0, err
	}

	if len(h.queue) > 0 {
		next := h.queue[0]
		h.queue = h.queue[1:]

		return next, nil
	}

	result := h.held

	for b, left := range h.taps {
		result = result.With(b)

		if left <= 1 {
			delete(h.taps, b)
		} else {
			h.taps[b] = left - 1
		}
	}

	return result, nil
}

func (h *Hub) SetStopButton(b model.Button) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.stopButton = b

	return h.record("stop %s", b)
}

func (h *Hub) Wait(ctx context.Context, d time.Duration) error {
	h.lock.Lock()
	h.waits = append(h.waits, d)
	realTime := h.realTime
	h.lock.Unlock()

	if realTime {
		return device.SleepContext(ctx, d)
	}

	return ctx.Err()
}

func (h *Hub) Light(c model.Color) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.light, h.lightOn = c, true

	return h.record("light %s", c)
}

func (h *Hub) Blink(c model.Color, pattern []time.Duration) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.light, h.lightOn = c, true

	parts := make([]string, len(pattern))
	for i, d := range pattern {
		parts[i] = d.String()
	}

	return h.record("blink %s %s", c, strings.Join(parts, " "))
}

func (h *Hub) LightOff() error {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lightOn = false

	return h.record("lightoff")
}

func (h *Hub) Beep(frequency int, d time.Duration) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.record("beep %d %s", frequency, d)
}

type display struct {
	h *Hub
}

func (d *display) Off() error {
	d.h.lock.Lock()
	defer d.h.lock.Unlock()

	d.h.screen = Screen{Mode: ModeOff}

	return d.h.record("off")
}

func (d *display) Pixel(row, col, brightness int) error {
	d.h.lock.Lock()
	defer d.h.lock.Unlock()

	if err := d.h.record("pixel %d %d %d", row, col, brightness); err != nil {
		return err
	}

	if row < 0 || row >= model.MatrixSize || col < 0 || col >= model.MatrixSize {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, row, col)
	}

	if d.h.screen.Mode != ModePixels {
		d.h.screen = Screen{Mode: ModePixels}
	}

	d.h.screen.Frame[row][col] = max(0, min(brightness, model.FullBrightness))

	return nil
}

func (d *display) Char(r rune) error {
	d.h.lock.Lock()
	defer d.h.lock.Unlock()

	d.h.screen = Screen{Mode: ModeChar, Char: r}

	return d.h.record("char %c", r)
}

func (d *display) Number(n int) error {
	d.h.lock.Lock()
	defer d.h.lock.Unlock()

	d.h.screen = Screen{Mode: ModeNumber, Number: n}

	return d.h.record("number %d", n)
}

func (d *display) Text(s string) error {
	d.h.lock.Lock()
	defer d.h.lock.Unlock()

	d.h.screen = Screen{Mode: ModeText, Text: s}

	return d.h.record("text %s", s)
}

func (d *display) Icon(icon model.Icon) error {
	d.h.lock.Lock()
	defer d.h.lock.Unlock()

	d.h.screen = Screen{Mode: ModeIcon, Icon: icon}

	return d.h.record("icon %s", icon)
}
