package menufile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dasdy/pixmenu/device/sim"
	"github.com/dasdy/pixmenu/menu"
	"github.com/dasdy/pixmenu/menufile"
	"github.com/dasdy/pixmenu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demo = `
auto_increment: true
show_startup: false
items:
  - number: 1
    description: beep
    action:
      beep: {frequency: 880, duration: 300ms}
  - char: L
    action:
      light_show: {colors: [red, green], rounds: 1, step: 10ms}
  - glyph:
      - "#   #"
      - " # # "
      - "  #  "
      - " # # "
      - "#   #"
  - number: 0
    action:
      countdown: {from: 2, step: 1s}
  - number: 15
    action:
      script: |
        hub.text("hi")
`

func TestParse(t *testing.T) {
	t.Run("reads items and options", func(t *testing.T) {
		f, err := menufile.Parse([]byte(demo), ".")
		require.NoError(t, err)

		items, err := f.Build()
		require.NoError(t, err)

		require.Len(t, items, 5)
		assert.True(t, items[0].Content.Equal(model.Number(1)))
		assert.Equal(t, "beep", items[0].Description)
		assert.True(t, items[1].Content.Equal(model.Char("L")))
		assert.Equal(t, model.KindGlyph, items[2].Content.Kind)
		assert.Nil(t, items[2].Action)
		assert.True(t, items[3].Content.Equal(model.Number(0)))

		assert.Equal(t, menu.RunOptions{ShowStartup: false, AutoIncrement: true}, f.RunOptions())
	})

	t.Run("startup indicator is on by default", func(t *testing.T) {
		f, err := menufile.Parse([]byte("items: []"), ".")
		require.NoError(t, err)

		assert.True(t, f.RunOptions().ShowStartup)
		assert.False(t, f.RunOptions().AutoIncrement)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		_, err := menufile.Parse([]byte("items:\n  - numbr: 3\n"), ".")

		require.Error(t, err)
	})

	t.Run("actions do what they say", func(t *testing.T) {
		f, err := menufile.Parse([]byte(demo), ".")
		require.NoError(t, err)
		items, err := f.Build()
		require.NoError(t, err)

		ctx := context.Background()
		hub := sim.New()

		require.NoError(t, items[0].Action(ctx, hub))
		require.NoError(t, items[1].Action(ctx, hub))
		require.NoError(t, items[4].Action(ctx, hub))

		assert.Equal(t, []string{
			"beep 880 300ms", "light RED", "light GREEN", "lightoff", "text hi",
		}, hub.Calls())
	})
}

func TestInvalidItems(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		err  error
	}{
		{"no content", "items:\n  - description: empty\n", menufile.ErrInvalidItem},
		{"two contents", "items:\n  - number: 1\n    char: A\n", menufile.ErrInvalidItem},
		{"number out of range", "items:\n  - number: 120\n", model.ErrNumberRange},
		{"bad glyph", "items:\n  - glyph: [\"#\"]\n", model.ErrGlyphShape},
		{"two actions", "items:\n  - number: 1\n    action:\n      beep: {}\n      countdown: {}\n", menufile.ErrInvalidAction},
		{"empty action", "items:\n  - number: 1\n    action: {}\n", menufile.ErrInvalidAction},
		{"unknown color", "items:\n  - number: 1\n    action:\n      light_show: {colors: [plaid]}\n", menufile.ErrInvalidAction},
		{"countdown too long", "items:\n  - number: 1\n    action:\n      countdown: {from: 120}\n", menufile.ErrInvalidAction},
		{"countdown past the matrix", "items:\n  - number: 1\n    action:\n      countdown: {from: 100}\n", model.ErrNumberRange},
		{"broken script", "items:\n  - number: 1\n    action:\n      script: \"for do\"\n", menufile.ErrInvalidAction},
		{"missing script file", "items:\n  - number: 1\n    action:\n      script_file: nope.lua\n", menufile.ErrInvalidAction},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := menufile.Parse([]byte(tc.yaml), t.TempDir())
			require.NoError(t, err)

			_, err = f.Build()

			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("resolves scripts next to the file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "hello.lua"), []byte(`hub.char("H")`), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "menu.yaml"), []byte(
			"items:\n  - char: A\n    action:\n      script_file: scripts/hello.lua\n"), 0o600))

		f, err := menufile.Load(filepath.Join(dir, "menu.yaml"))
		require.NoError(t, err)

		items, err := f.Build()
		require.NoError(t, err)

		hub := sim.New()
		require.NoError(t, items[0].Action(context.Background(), hub))
		assert.Equal(t, []string{"char H"}, hub.Calls())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := menufile.Load(filepath.Join(t.TempDir(), "absent.yaml"))

		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestApply(t *testing.T) {
	t.Run("adds every item", func(t *testing.T) {
		f, err := menufile.Parse([]byte(demo), ".")
		require.NoError(t, err)

		m := menu.New(sim.New())
		require.NoError(t, f.Apply(m))

		assert.Equal(t, 5, m.Len())
		assert.Equal(t, menu.StateBrowsing, m.State())
	})

	t.Run("adds nothing when an item is invalid", func(t *testing.T) {
		f, err := menufile.Parse([]byte("items:\n  - number: 1\n  - number: 500\n"), ".")
		require.NoError(t, err)

		m := menu.New(sim.New())
		require.Error(t, f.Apply(m))

		assert.Equal(t, 0, m.Len())
	})

	t.Run("runs the scenario from a file", func(t *testing.T) {
		f, err := menufile.Parse([]byte(demo), ".")
		require.NoError(t, err)

		hub := sim.New()
		m := menu.New(hub, menu.WithTimings(menu.Timings{Tick: time.Millisecond}))
		require.NoError(t, f.Apply(m))

		hub.Queue(
			model.Buttons(model.ButtonCenter), model.Buttons(),
			model.Buttons(model.ButtonBluetooth), model.Buttons(),
		)

		result, err := m.Run(context.Background(), f.RunOptions())

		require.NoError(t, err)
		assert.Equal(t, menu.ResultExited, result)
		assert.Contains(t, hub.Calls(), "beep 880 300ms")
		assert.Equal(t, 1, m.Cursor())
	})
}
