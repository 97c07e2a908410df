package render

import "github.com/dasdy/pixmenu/model"

// teenPatterns hold hand-drawn numbers 0-19. Numbers from 10 on use the left
// column as the tens marker. Only 10-19 are drawn from here, smaller numbers
// use the hub's character glyphs.
var teenPatterns = [20][model.MatrixSize]string{
	{" ■■■ ", " ■ ■ ", " ■ ■ ", " ■ ■ ", " ■■■ "},
	{"  ■  ", " ■■  ", "  ■  ", "  ■  ", " ■■■ "},
	{" ■■■ ", "   ■ ", " ■■■ ", " ■   ", " ■■■ "},
	{" ■■■ ", "   ■ ", " ■■■ ", "   ■ ", " ■■■ "},
	{" ■ ■ ", " ■ ■ ", " ■■■ ", "   ■ ", "   ■ "},
	{" ■■■ ", " ■   ", " ■■■ ", "   ■ ", " ■■■ "},
	{" ■■■ ", " ■   ", " ■■■ ", " ■ ■ ", " ■■■ "},
	{" ■■■ ", "   ■ ", "   ■ ", "   ■ ", "   ■ "},
	{" ■■■ ", " ■ ■ ", " ■■■ ", " ■ ■ ", " ■■■ "},
	{" ■■■ ", " ■ ■ ", " ■■■ ", "   ■ ", " ■■■ "},
	{"■ ■■■", "■ ■ ■", "■ ■ ■", "■ ■ ■", "■ ■■■"},
	{" ■  ■", "■■ ■■", " ■  ■", " ■  ■", " ■  ■"},
	{"■ ■■■", "■   ■", "■ ■■■", "■ ■  ", "■ ■■■"},
	{"■ ■■■", "■   ■", "■ ■■■", "■   ■", "■ ■■■"},
	{"■ ■ ■", "■ ■ ■", "■ ■■■", "■   ■", "■   ■"},
	{"■ ■■■", "■ ■  ", "■ ■■■", "■   ■", "■ ■■■"},
	{"■ ■■■", "■ ■  ", "■ ■■■", "■ ■ ■", "■ ■■■"},
	{"■ ■■■", "■   ■", "■   ■", "■   ■", "■   ■"},
	{"■ ■■■", "■ ■ ■", "■ ■■■", "■ ■ ■", "■ ■■■"},
	{"■ ■■■", "■ ■ ■", "■ ■■■", "■   ■", "■ ■■■"},
}

var teenFrames = func() [len(teenPatterns)]model.Frame {
	var frames [len(teenPatterns)]model.Frame

	for i, rows := range teenPatterns {
		frame, err := model.ParseGlyph(rows[:])
		if err != nil {
			panic(err)
		}

		frames[i] = frame
	}

	return frames
}()

// TeenFrame returns the bitmap for 0 <= n < 20. It panics for other values.
func TeenFrame(n int) model.Frame {
	return teenFrames[n]
}

// TeenRows returns the source rows of the bitmap for 0 <= n < 20.
func TeenRows(n int) []string {
	rows := teenPatterns[n]

	return rows[:]
}
