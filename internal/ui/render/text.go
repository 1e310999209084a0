package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	textutil "github.com/kk-code-lab/filecast/internal/textutil"
)

// drawTextLine writes text starting at startX, clipped to maxWidth cells,
// and returns the column after the last written cell.
func (r *Renderer) drawTextLine(startX, y, maxWidth int, text string, style tcell.Style) int {
	if maxWidth <= 0 {
		return startX
	}
	text = textutil.SanitizeTerminalText(text)
	x := startX
	limit := startX + maxWidth
	runes := []rune(text)
	for i := 0; i < len(runes); {
		mainc := runes[i]
		i++
		var combc []rune
		for i < len(runes) && runewidth.RuneWidth(runes[i]) == 0 {
			combc = append(combc, runes[i])
			i++
		}
		w := runewidth.RuneWidth(mainc)
		if x+w > limit {
			break
		}
		r.screen.SetContent(x, y, mainc, combc, style)
		x += w
	}
	return x
}

// fillLine paints blanks from startX up to endX.
func (r *Renderer) fillLine(startX, endX, y int, style tcell.Style) {
	for x := startX; x < endX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}

// drawRow draws text truncated to width and pads the rest of the row.
func (r *Renderer) drawRow(startX, y, width int, text string, style tcell.Style) {
	text = textutil.Truncate(textutil.SanitizeTerminalText(text), width)
	end := r.drawTextLine(startX, y, width, text, style)
	r.fillLine(end, startX+width, y, style)
}
