package state

// NavigationHistory is the browser-style list of visited directories.
// It always holds at least one entry and index stays within bounds.
type NavigationHistory struct {
	entries []string
	index   int
}

// NewNavigationHistory starts a history at initial.
func NewNavigationHistory(initial string) *NavigationHistory {
	return &NavigationHistory{entries: []string{initial}}
}

// Push drops any forward entries and appends path as the new current entry.
func (h *NavigationHistory) Push(path string) {
	h.entries = append(h.entries[:h.index+1], path)
	h.index = len(h.entries) - 1
}

// Back moves one entry back and returns it.
func (h *NavigationHistory) Back() (string, bool) {
	if h.index == 0 {
		return "", false
	}
	h.index--
	return h.entries[h.index], true
}

// Forward moves one entry forward and returns it.
func (h *NavigationHistory) Forward() (string, bool) {
	if h.index >= len(h.entries)-1 {
		return "", false
	}
	h.index++
	return h.entries[h.index], true
}

func (h *NavigationHistory) CanBack() bool { return h.index > 0 }
func (h *NavigationHistory) CanForward() bool { return h.index < len(h.entries)-1 }

func (h *NavigationHistory) Current() string { return h.entries[h.index] }

func (h *NavigationHistory) Index() int { return h.index }

func (h *NavigationHistory) Len() int { return len(h.entries) }

// Entries returns a copy of the visited paths, oldest first.
func (h *NavigationHistory) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
