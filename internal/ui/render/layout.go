package render

import statepkg "github.com/kk-code-lab/filecast/internal/state"

type layoutMetrics struct {
	listStartY   int
	listHeight   int
	listWidth    int
	previewStart int
	previewWidth int
	showPreview  bool
}

const (
	minListWidth            = 32
	minPreviewWidth         = 24
	minPreviewTerminalWidth = 80
	previewWidthRatio       = 0.45
	previewTabWidth         = 4
)

// computeLayout splits the body between the list and the preview pane. The
// launcher uses the full width for its two-line results.
func (r *Renderer) computeLayout(w, h int, state *statepkg.AppState) layoutMetrics {
	if w < 0 {
		w = 0
	}
	metrics := layoutMetrics{listStartY: 1, listWidth: w, previewStart: w}
	if state.HasInputLine() {
		metrics.listStartY = 2
	}
	metrics.listHeight = h - 1 - metrics.listStartY
	if metrics.listHeight < 0 {
		metrics.listHeight = 0
	}

	if state.Mode == statepkg.ModeLauncher || state.Preview == nil || w < minPreviewTerminalWidth {
		return metrics
	}

	previewWidth := int(float64(w)*previewWidthRatio + 0.5)
	listWidth := w - previewWidth - 1
	if listWidth < minListWidth {
		listWidth = minListWidth
		previewWidth = w - listWidth - 1
	}
	if previewWidth < minPreviewWidth {
		return metrics
	}

	metrics.showPreview = true
	metrics.listWidth = listWidth
	metrics.previewStart = listWidth + 1
	metrics.previewWidth = previewWidth
	return metrics
}
