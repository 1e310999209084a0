package state

import "path/filepath"

// DisplayFiles returns the listing currently on screen: the filtered set
// while a filter is active, the full listing otherwise.
func (s *AppState) DisplayFiles() []FileEntry {
	if s.Filter.Active() {
		return s.Filter.Visible()
	}
	return s.Files
}

// CurrentFile returns the selected entry, or nil when nothing is selected.
func (s *AppState) CurrentFile() *FileEntry {
	files := s.DisplayFiles()
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(files) {
		return nil
	}
	return &files[s.SelectedIndex]
}

// CurrentFilePath returns the absolute path of the selection, falling back
// to the current directory.
func (s *AppState) CurrentFilePath() string {
	if file := s.CurrentFile(); file != nil && file.FullPath != "" {
		return file.FullPath
	}
	current := s.CurrentPath
	if current == "" {
		current = "."
	}
	return filepath.Clean(current)
}

// SelectedResult returns the highlighted launcher result.
func (s *AppState) SelectedResult() *Result {
	if s.LauncherIndex < 0 || s.LauncherIndex >= len(s.LauncherResults) {
		return nil
	}
	return &s.LauncherResults[s.LauncherIndex]
}

// HasInputLine reports whether a prompt row sits above the list.
func (s *AppState) HasInputLine() bool {
	return s.Mode != ModeNormal || s.Filter.Active()
}

// ListHeight is the number of list rows between the header, the optional
// prompt and the status line.
func (s *AppState) ListHeight() int {
	h := s.ScreenHeight - 2
	if s.HasInputLine() {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (s *AppState) setSelection(idx int) {
	files := s.DisplayFiles()
	switch {
	case len(files) == 0:
		idx = 0
	case idx < 0:
		idx = 0
	case idx >= len(files):
		idx = len(files) - 1
	}
	s.SelectedIndex = idx
	s.updateScrollVisibility()
}

func (s *AppState) updateScrollVisibility() {
	s.ScrollOffset = clampScroll(s.SelectedIndex, s.ScrollOffset, len(s.DisplayFiles()), s.ListHeight())
}

func (s *AppState) centerScrollOnSelection() {
	visible := s.ListHeight()
	s.ScrollOffset = clampScroll(s.SelectedIndex, s.SelectedIndex-visible/2, len(s.DisplayFiles()), visible)
}

func (s *AppState) updateLauncherScroll() {
	s.LauncherScroll = clampScroll(s.LauncherIndex, s.LauncherScroll, len(s.LauncherResults), s.ListHeight())
}

func clampScroll(selected, offset, total, visible int) int {
	if visible < 1 {
		visible = 1
	}
	if selected < offset {
		offset = selected
	} else if selected >= offset+visible {
		offset = selected - visible + 1
	}
	maxOffset := total - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}
