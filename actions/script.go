package actions

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dasdy/pixmenu/device"
	"github.com/dasdy/pixmenu/menu"
	"github.com/dasdy/pixmenu/model"
	"github.com/dasdy/pixmenu/render"
	glua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

var ErrScript = errors.New("script failed")

// Script is a compiled Lua chunk. Every run gets a fresh VM with a global "hub"
// table exposing the hub to the script.
type Script struct {
	name  string
	proto *glua.FunctionProto
}

func CompileScript(name, source string) (*Script, error) {
	chunk, err := parse.Parse(strings.NewReader(source), name)
	if err != nil {
		return nil, fmt.Errorf("could not parse script %s: %w", name, err)
	}

	proto, err := glua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("could not compile script %s: %w", name, err)
	}

	return &Script{name: name, proto: proto}, nil
}

func CompileScriptFile(path string) (*Script, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read script %s: %w", path, err)
	}

	return CompileScript(path, string(source))
}

func (s *Script) Name() string {
	return s.name
}

func (s *Script) Action() menu.Action {
	return s.Run
}

// Run executes the script against hub. Hub errors raised inside the script are
// returned wrapped, so errors.Is still finds them.
func (s *Script) Run(ctx context.Context, hub device.Hub) error {
	L := glua.NewState()
	defer L.Close()

	L.SetContext(ctx)

	api := &hubAPI{ctx: ctx, hub: hub}
	L.SetGlobal("hub", api.table(L))

	L.Push(L.NewFunctionFromProto(s.proto))

	if err := L.PCall(0, glua.MultRet, nil); err != nil {
		if api.lastErr != nil {
			return fmt.Errorf("%w: %s: %w", ErrScript, s.name, api.lastErr)
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %s: %w", ErrScript, s.name, ctxErr)
		}

		return fmt.Errorf("%w: %s: %s", ErrScript, s.name, err.Error())
	}

	return nil
}

type hubAPI struct {
	ctx     context.Context
	hub     device.Hub
	lastErr error
}

func (a *hubAPI) table(L *glua.LState) *glua.LTable {
	t := L.NewTable()

	L.SetFuncs(t, map[string]glua.LGFunction{
		"beep":      a.beep,
		"light":     a.light,
		"light_off": a.lightOff,
		"clear":     a.clear,
		"pixel":     a.pixel,
		"char":      a.char,
		"number":    a.number,
		"text":      a.text,
		"show":      a.show,
		"wait":      a.wait,
		"pressed":   a.pressed,
		"pick":      a.pick,
	})

	return t
}

// check raises a Lua error for err and remembers it for Run.
func (a *hubAPI) check(L *glua.LState, err error) {
	if err == nil {
		return
	}

	a.lastErr = err
	L.RaiseError("%s", err.Error())
}

func millis(L *glua.LState, n int, def int) time.Duration {
	return time.Duration(L.OptInt(n, def)) * time.Millisecond
}

func (a *hubAPI) beep(L *glua.LState) int {
	a.check(L, a.hub.Beep(L.OptInt(1, 440), millis(L, 2, 200)))

	return 0
}

func (a *hubAPI) light(L *glua.LState) int {
	name := L.CheckString(1)

	c, ok := model.ParseColor(name)
	if !ok {
		L.ArgError(1, "unknown color "+name)
	}

	a.check(L, a.hub.Light(c))

	return 0
}

func (a *hubAPI) lightOff(L *glua.LState) int {
	a.check(L, a.hub.LightOff())

	return 0
}

func (a *hubAPI) clear(L *glua.LState) int {
	a.check(L, a.hub.Display().Off())

	return 0
}

func (a *hubAPI) pixel(L *glua.LState) int {
	a.check(L, a.hub.Display().Pixel(L.CheckInt(1), L.CheckInt(2), L.OptInt(3, model.FullBrightness)))

	return 0
}

func (a *hubAPI) char(L *glua.LState) int {
	a.check(L, render.Render(a.hub.Display(), model.Char(L.CheckString(1))))

	return 0
}

func (a *hubAPI) number(L *glua.LState) int {
	a.check(L, render.Render(a.hub.Display(), model.Number(L.CheckInt(1))))

	return 0
}

func (a *hubAPI) text(L *glua.LState) int {
	a.check(L, a.hub.Display().Text(L.CheckString(1)))

	return 0
}

// show draws a glyph given as five row strings.
func (a *hubAPI) show(L *glua.LState) int {
	rows := make([]string, 0, model.MatrixSize)
	for i := 1; i <= L.GetTop(); i++ {
		rows = append(rows, L.CheckString(i))
	}

	a.check(L, render.Render(a.hub.Display(), model.Glyph(rows...)))

	return 0
}

func (a *hubAPI) wait(L *glua.LState) int {
	a.check(L, a.hub.Wait(a.ctx, millis(L, 1, 100)))

	return 0
}

func (a *hubAPI) pressed(L *glua.LState) int {
	set, err := a.hub.Pressed()
	a.check(L, err)

	t := L.NewTable()
	for _, b := range set.List() {
		t.Append(glua.LString(strings.ToLower(b.String())))
	}

	L.Push(t)

	return 1
}

// pick runs the number selector and returns the number, or nil when cancelled.
func (a *hubAPI) pick(L *glua.LState) int {
	selector := menu.NewSelector(a.hub, L.OptInt(1, 10))

	value, err := selector.Pick(a.ctx, L.OptInt(2, 0))
	if errors.Is(err, menu.ErrSelectionCancelled) {
		L.Push(glua.LNil)

		return 1
	}

	a.check(L, err)
	L.Push(glua.LNumber(value))

	return 1
}
