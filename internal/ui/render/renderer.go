package render

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/filecast/internal/search"
	statepkg "github.com/kk-code-lab/filecast/internal/state"
	textutil "github.com/kk-code-lab/filecast/internal/textutil"
)

const appTitle = "filecast"

// yankFlash is how long the status line stays highlighted after a yank.
const yankFlash = 150 * time.Millisecond

// Renderer handles all UI rendering
type Renderer struct {
	screen tcell.Screen
	theme  ColorTheme
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()

	w, h := r.screen.Size()
	if w <= 0 || h <= 0 {
		r.screen.Show()
		return
	}

	layout := r.computeLayout(w, h, state)

	r.drawHeader(state, w)
	if state.HasInputLine() && h > 2 {
		r.drawPrompt(state, w)
	}
	if state.Mode == statepkg.ModeLauncher {
		r.drawLauncherResults(state, layout)
	} else {
		r.drawFileList(state, layout)
	}
	if layout.showPreview {
		sepStyle := tcell.StyleDefault.Foreground(r.theme.SeparatorFg)
		for y := layout.listStartY; y < layout.listStartY+layout.listHeight; y++ {
			r.screen.SetContent(layout.previewStart-1, y, '│', nil, sepStyle)
		}
		r.drawPreviewPanel(state, layout)
	}
	if h > 1 {
		r.drawStatusLine(state, w, h)
	}

	r.screen.Show()
}

// drawHeader renders the title, the mode tag and the current directory.
func (r *Renderer) drawHeader(state *statepkg.AppState, w int) {
	style := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)

	x := r.drawTextLine(0, 0, w, appTitle+" ", style.Bold(true))
	if state.Mode != statepkg.ModeNormal {
		x = r.drawTextLine(x, 0, w-x, "["+state.Mode.String()+"] ", style.Foreground(r.theme.PromptFg))
	}

	path := state.CurrentPath
	if path == "" {
		path = string(filepath.Separator)
	}
	path = textutil.TruncateLeft(textutil.SanitizeTerminalText(path), w-x)
	x = r.drawTextLine(x, 0, w-x, path, style)
	r.fillLine(x, w, 0, style)
}

// drawPrompt renders the input line of the active mode.
func (r *Renderer) drawPrompt(state *statepkg.AppState, w int) {
	style := tcell.StyleDefault.Foreground(r.theme.PromptFg)

	var marker, input string
	switch state.Mode {
	case statepkg.ModeFilter:
		marker, input = "/", state.FilterInput
	case statepkg.ModeCommand:
		marker, input = ":", state.CommandInput
	case statepkg.ModeLauncher:
		marker, input = "> ", state.LauncherQuery
	default:
		marker, input = "/", state.Filter.Query()
		style = style.Dim(true)
	}

	// Keep the cursor end of long input visible.
	input = textutil.TruncateLeft(textutil.SanitizeTerminalText(input), w-len(marker)-1)
	x := r.drawTextLine(0, 1, w, marker+input, style)
	if state.Mode != statepkg.ModeNormal && x < w {
		r.screen.SetContent(x, 1, ' ', nil, style.Reverse(true))
		x++
	}
	if state.Mode == statepkg.ModeLauncher && state.LauncherInProgress {
		x = r.drawTextLine(x, 1, w-x, "  searching…", style.Dim(true))
	}
	r.fillLine(x, w, 1, tcell.StyleDefault)
}

func (r *Renderer) drawFileList(state *statepkg.AppState, layout layoutMetrics) {
	files := state.DisplayFiles()
	width := layout.listWidth

	if len(files) == 0 && layout.listHeight > 0 {
		msg := " (empty)"
		if state.Filter.Active() {
			msg = " No matches for " + state.Filter.Query()
		} else if state.DirectoryLoading() {
			msg = " Loading…"
		}
		r.drawRow(0, layout.listStartY, width, msg, tcell.StyleDefault.Foreground(r.theme.DetailFg))
		return
	}

	for row := 0; row < layout.listHeight; row++ {
		idx := state.ScrollOffset + row
		if idx >= len(files) {
			break
		}
		y := layout.listStartY + row
		r.drawFileRow(files[idx], idx == state.SelectedIndex, y, width)
	}
}

func (r *Renderer) drawFileRow(entry statepkg.FileEntry, selected bool, y, width int) {
	style := tcell.StyleDefault.Foreground(r.theme.Foreground)
	switch {
	case entry.IsSymlink:
		style = style.Foreground(r.theme.SymlinkFg)
	case entry.IsDir:
		style = style.Foreground(r.theme.DirectoryFg).Bold(true)
	}
	if entry.IsHidden() {
		style = style.Foreground(r.theme.HiddenFg)
	}
	if selected {
		style = tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
	}

	icon := search.IconFor(entry.FullPath, entry.IsDir)
	name := entry.Name
	if entry.IsDir && !entry.IsParent() {
		name += string(filepath.Separator)
	}

	detail := ""
	if !entry.IsDir {
		detail = humanize.IBytes(uint64(max(entry.Size, 0)))
	}

	nameWidth := width - 1
	if detail != "" {
		nameWidth -= textutil.DisplayWidth(detail) + 1
	}
	label := textutil.PadRight(" "+icon+" "+textutil.SanitizeTerminalText(name), max(nameWidth, 0))
	x := r.drawTextLine(0, y, width, label, style)
	if detail != "" && x < width {
		x = r.drawTextLine(x, y, width-x, " "+detail, style)
	}
	r.fillLine(x, width, y, style)
}

// drawLauncherResults renders one row per result: icon, name, then the
// description in a dimmer color.
func (r *Renderer) drawLauncherResults(state *statepkg.AppState, layout layoutMetrics) {
	width := layout.listWidth
	results := state.LauncherResults

	if len(results) == 0 && layout.listHeight > 0 {
		msg := " Type to search files and apps, @content, /names, :commands"
		if state.LauncherQuery != "" && !state.LauncherInProgress {
			msg = " No results"
		}
		r.drawRow(0, layout.listStartY, width, msg, tcell.StyleDefault.Foreground(r.theme.DetailFg))
		return
	}

	for row := 0; row < layout.listHeight; row++ {
		idx := state.LauncherScroll + row
		if idx >= len(results) {
			break
		}
		res := results[idx]
		y := layout.listStartY + row

		style := tcell.StyleDefault
		detailStyle := style.Foreground(r.theme.DetailFg)
		if idx == state.LauncherIndex {
			style = style.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
			detailStyle = style
		} else if res.Kind == search.KindApplication {
			style = style.Bold(true)
		}

		x := r.drawTextLine(0, y, width, " "+res.Icon+" "+textutil.Truncate(textutil.SanitizeTerminalText(res.Name), width/2), style)
		if res.Description != "" && x+3 < width {
			desc := textutil.Truncate(textutil.SanitizeTerminalText(res.Description), width-x-3)
			x = r.drawTextLine(x, y, width-x, "  "+desc, detailStyle)
		}
		r.fillLine(x, width, y, style)
	}
}

// drawPreviewPanel renders the preview title, metadata and content lines.
func (r *Renderer) drawPreviewPanel(state *statepkg.AppState, layout layoutMetrics) {
	preview := state.Preview
	startX := layout.previewStart
	width := layout.previewWidth
	y := layout.listStartY
	bottom := layout.listStartY + layout.listHeight
	if preview == nil || y >= bottom {
		return
	}

	base := tcell.StyleDefault.Foreground(r.theme.PreviewFg)
	r.drawRow(startX, y, width, " "+preview.Title, base.Bold(true))
	y++

	if meta := previewMeta(preview); meta != "" && y < bottom {
		r.drawRow(startX, y, width, " "+meta, base.Foreground(r.theme.DetailFg))
		y++
	}
	if y < bottom {
		y++
	}

	for _, line := range preview.Lines {
		if y >= bottom {
			break
		}
		line = textutil.ExpandTabs(line, previewTabWidth)
		r.drawRow(startX, y, width, " "+line, base)
		y++
	}
}

func previewMeta(preview *statepkg.PreviewData) string {
	if preview.Path == "" {
		return ""
	}
	if preview.IsDir {
		return preview.Mode.String()
	}
	meta := fmt.Sprintf("%s  %s", humanize.IBytes(uint64(max(preview.Size, 0))), preview.Mode.String())
	if !preview.Modified.IsZero() {
		meta += "  " + humanize.Time(preview.Modified)
	}
	return meta
}

// drawStatusLine renders the error, status message or selected path on the
// last row, with a short key hint on the right.
func (r *Renderer) drawStatusLine(state *statepkg.AppState, w, h int) {
	y := h - 1
	style := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	if !state.LastYankTime.IsZero() && time.Since(state.LastYankTime) < yankFlash {
		style = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	}

	text := statusText(state)
	textStyle := style
	if state.LastError != nil {
		textStyle = style.Foreground(r.theme.ErrorFg)
	}

	hint := footerHint(state)
	hintWidth := textutil.DisplayWidth(hint)
	if hintWidth+8 > w {
		hint, hintWidth = "", 0
	}

	x := r.drawTextLine(0, y, w-hintWidth, textutil.Truncate(" "+text, w-hintWidth), textStyle)
	r.fillLine(x, w-hintWidth, y, style)
	if hint != "" {
		r.drawTextLine(w-hintWidth, y, hintWidth, hint, style.Foreground(r.theme.DetailFg))
	}
}

func statusText(state *statepkg.AppState) string {
	switch {
	case state.LastError != nil:
		return "Error: " + state.LastError.Error()
	case state.StatusMessage != "":
		return state.StatusMessage
	case state.Mode == statepkg.ModeLauncher:
		if res := state.SelectedResult(); res != nil {
			return res.Kind.String() + ": " + res.Description
		}
		return ""
	default:
		return state.CurrentFilePath()
	}
}

func footerHint(state *statepkg.AppState) string {
	switch state.Mode {
	case statepkg.ModeFilter:
		return "↵ accept  Esc clear "
	case statepkg.ModeCommand:
		return "Tab complete  ↑↓ history  ↵ run  Esc cancel "
	case statepkg.ModeLauncher:
		return "↑↓ select  ↵ open  Esc close "
	}
	hint := "/ filter  : cmd  s search  . hidden "
	if state.ClipboardAvailable {
		hint = "y yank  " + hint
	}
	return hint
}
