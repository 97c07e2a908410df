// Package menufile loads menu definitions from YAML.
//
//	auto_increment: true
//	items:
//	  - number: 1
//	    description: beep
//	    action:
//	      beep: {frequency: 880, duration: 300ms}
//	  - char: S
//	    action:
//	      script_file: scripts/spin.lua
package menufile

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dasdy/pixmenu/actions"
	"github.com/dasdy/pixmenu/menu"
	"github.com/dasdy/pixmenu/model"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidItem   = errors.New("invalid menu item")
	ErrInvalidAction = errors.New("invalid action")
)

type File struct {
	AutoIncrement bool       `yaml:"auto_increment"`
	ShowStartup   *bool      `yaml:"show_startup"`
	Items         []ItemSpec `yaml:"items"`

	// Dir is where relative script paths are resolved from.
	Dir string `yaml:"-"`
}

type ItemSpec struct {
	Number      *int        `yaml:"number"`
	Char        string      `yaml:"char"`
	Glyph       []string    `yaml:"glyph"`
	Description string      `yaml:"description"`
	Action      *ActionSpec `yaml:"action"`
}

type ActionSpec struct {
	Beep       *BeepSpec      `yaml:"beep"`
	LightShow  *LightShowSpec `yaml:"light_show"`
	Countdown  *CountdownSpec `yaml:"countdown"`
	Text       *TextSpec      `yaml:"text"`
	Glyph      *GlyphSpec     `yaml:"glyph"`
	Script     string         `yaml:"script"`
	ScriptFile string         `yaml:"script_file"`
}

type BeepSpec struct {
	Frequency int           `yaml:"frequency"`
	Duration  time.Duration `yaml:"duration"`
}

type LightShowSpec struct {
	Colors []string      `yaml:"colors"`
	Rounds int           `yaml:"rounds"`
	Step   time.Duration `yaml:"step"`
}

type CountdownSpec struct {
	From int           `yaml:"from"`
	Step time.Duration `yaml:"step"`
}

type TextSpec struct {
	Text string        `yaml:"text"`
	Hold time.Duration `yaml:"hold"`
}

type GlyphSpec struct {
	Rows []string      `yaml:"rows"`
	Hold time.Duration `yaml:"hold"`
}

// Parse decodes a menu file. Unknown keys are rejected.
func Parse(data []byte, dir string) (*File, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var f File
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse menu file: %w", err)
	}

	f.Dir = dir

	return &f, nil
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file %s: %w", path, err)
	}

	slog.Info("Loading menu file", "path", path)

	return Parse(data, filepath.Dir(path))
}

// Content turns the item into matrix content. Exactly one of number, char and
// glyph must be set.
func (s ItemSpec) Content() (model.Content, error) {
	var (
		content model.Content
		set     int
	)

	if s.Number != nil {
		content = model.Number(*s.Number)
		set++
	}

	if s.Char != "" {
		content = model.Char(s.Char)
		set++
	}

	if s.Glyph != nil {
		content = model.Glyph(s.Glyph...)
		set++
	}

	if set != 1 {
		return model.Content{}, fmt.Errorf("%w: need exactly one of number, char or glyph, got %d", ErrInvalidItem, set)
	}

	return content, nil
}

// Action builds the menu action. Items without an action section get a nil
// action, which does nothing when selected.
func (s *ActionSpec) Action(dir string) (menu.Action, error) {
	if s == nil {
		return nil, nil
	}

	var (
		action menu.Action
		set    int
	)

	if s.Beep != nil {
		action = actions.Beep(defaultInt(s.Beep.Frequency, 440), defaultDuration(s.Beep.Duration, 200*time.Millisecond))
		set++
	}

	if s.LightShow != nil {
		colors, err := parseColors(s.LightShow.Colors)
		if err != nil {
			return nil, err
		}

		action = actions.LightShow(colors, defaultInt(s.LightShow.Rounds, 1), defaultDuration(s.LightShow.Step, 250*time.Millisecond))
		set++
	}

	if s.Countdown != nil {
		from := defaultInt(s.Countdown.From, 3)
		if err := model.Number(from).Validate(); err != nil {
			return nil, fmt.Errorf("%w: countdown: %w", ErrInvalidAction, err)
		}

		action = actions.Countdown(from, defaultDuration(s.Countdown.Step, time.Second))
		set++
	}

	if s.Text != nil {
		action = actions.Text(s.Text.Text, s.Text.Hold)
		set++
	}

	if s.Glyph != nil {
		show, err := actions.Show(model.Glyph(s.Glyph.Rows...), defaultDuration(s.Glyph.Hold, time.Second))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAction, err)
		}

		action = show
		set++
	}

	if s.Script != "" {
		script, err := actions.CompileScript("inline", s.Script)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAction, err)
		}

		action = script.Action()
		set++
	}

	if s.ScriptFile != "" {
		path := s.ScriptFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}

		script, err := actions.CompileScriptFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAction, err)
		}

		action = script.Action()
		set++
	}

	if set != 1 {
		return nil, fmt.Errorf("%w: need exactly one action kind, got %d", ErrInvalidAction, set)
	}

	return action, nil
}

// Build makes menu items of the file, stopping at the first invalid one.
func (f *File) Build() ([]menu.Item, error) {
	items := make([]menu.Item, 0, len(f.Items))

	for i, spec := range f.Items {
		content, err := spec.Content()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}

		if err := content.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w: %w", i+1, ErrInvalidItem, err)
		}

		action, err := spec.Action.Action(f.Dir)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}

		items = append(items, menu.Item{Content: content, Action: action, Description: spec.Description})
	}

	return items, nil
}

// Apply adds the file's items to m. Nothing is added if any item is invalid.
func (f *File) Apply(m *menu.Menu) error {
	items, err := f.Build()
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := m.Add(item); err != nil {
			return err
		}
	}

	return nil
}

// RunOptions are the run settings of the file.
func (f *File) RunOptions() menu.RunOptions {
	opts := menu.RunOptions{ShowStartup: true, AutoIncrement: f.AutoIncrement}
	if f.ShowStartup != nil {
		opts.ShowStartup = *f.ShowStartup
	}

	return opts
}

func parseColors(names []string) ([]model.Color, error) {
	if len(names) == 0 {
		return []model.Color{model.ColorRed, model.ColorGreen, model.ColorBlue}, nil
	}

	colors := make([]model.Color, 0, len(names))

	for _, name := range names {
		c, ok := model.ParseColor(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown color %q", ErrInvalidAction, name)
		}

		colors = append(colors, c)
	}

	return colors, nil
}

func defaultInt(v, def int) int {
	if v == 0 {
		return def
	}

	return v
}

func defaultDuration(v, def time.Duration) time.Duration {
	if v == 0 {
		return def
	}

	return v
}
