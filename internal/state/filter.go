package state

import "strings"

// DirectoryFilter narrows a listing to entries whose name contains the
// query, ignoring case. An empty query means no filtering.
type DirectoryFilter struct {
	query   string
	folded  string
	visible []FileEntry
	active  bool
}

// Apply sets the query and returns the entries to display.
func (f *DirectoryFilter) Apply(query string, listing []FileEntry) []FileEntry {
	if query == "" {
		f.Clear()
		return listing
	}
	f.query = query
	f.folded = strings.ToLower(query)
	f.active = true
	return f.Recompute(listing)
}

// Recompute re-runs the active query against a fresh listing.
func (f *DirectoryFilter) Recompute(listing []FileEntry) []FileEntry {
	if !f.active {
		return listing
	}
	visible := make([]FileEntry, 0, len(listing))
	for _, entry := range listing {
		if strings.Contains(strings.ToLower(entry.Name), f.folded) {
			visible = append(visible, entry)
		}
	}
	f.visible = visible
	return visible
}

// Clear drops the query and the cached filtered set.
func (f *DirectoryFilter) Clear() {
	f.query = ""
	f.folded = ""
	f.visible = nil
	f.active = false
}

func (f *DirectoryFilter) Active() bool { return f.active }
func (f *DirectoryFilter) Query() string { return f.query }
func (f *DirectoryFilter) Visible() []FileEntry { return f.visible }
