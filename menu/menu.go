// Package menu implements the button driven menu of the hub: an ordered list of
// items, a cursor, and the polling loop that browses and runs them.
package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dasdy/pixmenu/device"
	"github.com/dasdy/pixmenu/model"
	"github.com/dasdy/pixmenu/render"
)

var ErrInvalidContent = errors.New("invalid menu content")

// Action runs when its item is selected. It gets the hub the menu runs on.
type Action func(ctx context.Context, hub device.Hub) error

// Func adapts a callable that does not need the hub.
func Func(f func() error) Action {
	return func(context.Context, device.Hub) error {
		return f()
	}
}

type Item struct {
	Content     model.Content
	Action      Action
	Description string
}

// Label is the description when there is one, the content otherwise.
func (i Item) Label() string {
	if i.Description != "" {
		return i.Description
	}

	return i.Content.String()
}

type State int

const (
	StateEmpty State = iota
	StateBrowsing
	StateExecuting
	StateExited
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateBrowsing:
		return "browsing"
	case StateExecuting:
		return "executing"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// Keymap assigns hub buttons to menu roles.
type Keymap struct {
	Previous model.Button
	Next     model.Button
	Select   model.Button
	Exit     model.Button
}

func DefaultKeymap() Keymap {
	return Keymap{
		Previous: model.ButtonLeft,
		Next:     model.ButtonRight,
		Select:   model.ButtonCenter,
		Exit:     model.ButtonBluetooth,
	}
}

// Timings controls how long indicators stay up and how often buttons are polled.
type Timings struct {
	Tick        time.Duration
	Startup     time.Duration
	Confirm     time.Duration
	Feedback    time.Duration
	ExitHold    time.Duration
	NoItemsHold time.Duration
	Blink       []time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		Tick:        10 * time.Millisecond,
		Startup:     500 * time.Millisecond,
		Confirm:     200 * time.Millisecond,
		Feedback:    time.Second,
		ExitHold:    300 * time.Millisecond,
		NoItemsHold: time.Second,
		Blink:       []time.Duration{500 * time.Millisecond, 500 * time.Millisecond},
	}
}

// Recorder receives menu events, usually to journal them.
type Recorder interface {
	Record(ctx context.Context, event model.MenuEvent) error
}

// Recorders fans one event out to several recorders. Every recorder sees the
// event even if an earlier one failed.
type Recorders []Recorder

func (rs Recorders) Record(ctx context.Context, event model.MenuEvent) error {
	errs := make([]error, 0, len(rs))

	for _, r := range rs {
		if err := r.Record(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

type Menu struct {
	hub      device.Hub
	items    []Item
	cursor   int
	state    State
	keymap   Keymap
	timings  Timings
	recorder Recorder
}

type Option func(*Menu)

func WithKeymap(k Keymap) Option {
	return func(m *Menu) {
		m.keymap = k
	}
}

func WithTimings(t Timings) Option {
	return func(m *Menu) {
		m.timings = t
	}
}

func WithRecorder(r Recorder) Option {
	return func(m *Menu) {
		m.recorder = r
	}
}

// New creates an empty menu on hub. The menu does not own the hub.
func New(hub device.Hub, opts ...Option) *Menu {
	m := &Menu{
		hub:     hub,
		items:   make([]Item, 0),
		keymap:  DefaultKeymap(),
		timings: DefaultTimings(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// AddItem appends an item showing content. Content is validated here so that
// rendering never meets a bad item later.
func (m *Menu) AddItem(content model.Content, action Action) error {
	return m.Add(Item{Content: content, Action: action})
}

func (m *Menu) Add(item Item) error {
	if err := item.Content.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidContent, err)
	}

	if len(m.items) == 0 {
		m.cursor = 0
	}

	m.items = append(m.items, item)

	if m.state == StateEmpty {
		m.state = StateBrowsing
	}

	return nil
}

// RemoveItem deletes the item at index. The cursor keeps its position unless it
// would point past the end.
func (m *Menu) RemoveItem(index int) bool {
	if index < 0 || index >= len(m.items) {
		return false
	}

	m.items = append(m.items[:index], m.items[index+1:]...)
	m.clampCursor()

	return true
}

// RemoveContent deletes the first item showing content.
func (m *Menu) RemoveContent(content model.Content) bool {
	for i, item := range m.items {
		if item.Content.Equal(content) {
			return m.RemoveItem(i)
		}
	}

	return false
}

func (m *Menu) ClearItems() {
	m.items = m.items[:0]
	m.clampCursor()
}

func (m *Menu) clampCursor() {
	switch {
	case len(m.items) == 0:
		m.cursor = 0
		if m.state == StateBrowsing {
			m.state = StateEmpty
		}
	case m.cursor >= len(m.items):
		m.cursor = len(m.items) - 1
	}
}

func (m *Menu) Current() (Item, bool) {
	if len(m.items) == 0 {
		return Item{}, false
	}

	return m.items[m.cursor], true
}

func (m *Menu) Cursor() int {
	return m.cursor
}

func (m *Menu) Len() int {
	return len(m.items)
}

func (m *Menu) Items() []Item {
	return append([]Item(nil), m.items...)
}

func (m *Menu) State() State {
	return m.state
}

func (m *Menu) String() string {
	if len(m.items) == 0 {
		return "Menu: Empty"
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "Menu (%d items):", len(m.items))

	for i, item := range m.items {
		marker := " "
		if i == m.cursor {
			marker = ">"
		}

		fmt.Fprintf(&sb, "\n%s %s", marker, item.Content)

		if item.Description != "" {
			fmt.Fprintf(&sb, " (%s)", item.Description)
		}
	}

	return sb.String()
}

// Next moves the cursor forward, wrapping to the first item, and redraws.
func (m *Menu) Next(ctx context.Context) error {
	return m.move(ctx, 1)
}

// Previous moves the cursor back, wrapping to the last item, and redraws.
func (m *Menu) Previous(ctx context.Context) error {
	return m.move(ctx, -1)
}

func (m *Menu) move(ctx context.Context, delta int) error {
	if len(m.items) == 0 {
		return nil
	}

	m.cursor = (m.cursor + delta + len(m.items)) % len(m.items)

	slog.DebugContext(ctx, "Cursor moved", "cursor", m.cursor, "delta", delta)
	m.record(ctx, model.EventNavigate, nil)

	return m.renderCurrent()
}

func (m *Menu) renderCurrent() error {
	item, ok := m.Current()
	if !ok {
		if err := m.hub.Display().Char(noItemsChar); err != nil {
			return fmt.Errorf("could not show empty menu: %w", err)
		}

		return nil
	}

	if err := render.Render(m.hub.Display(), item.Content); err != nil {
		return fmt.Errorf("could not render item %d: %w", m.cursor, err)
	}

	return nil
}

func (m *Menu) record(ctx context.Context, kind model.EventKind, actionErr error) {
	if m.recorder == nil {
		return
	}

	event := model.MenuEvent{Kind: kind, Index: m.cursor}
	if item, ok := m.Current(); ok {
		event.Label = item.Label()
	}

	if actionErr != nil {
		event.Error = actionErr.Error()
	}

	if err := m.recorder.Record(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Could not record menu event", "kind", kind, "error", err)
	}
}
