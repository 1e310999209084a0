package state

import (
	"os"
	"sort"
	"strings"
)

// CompletionResult describes one Tab press.
type CompletionResult struct {
	Buffer string
	Count  int // candidates for the token; 0 leaves Buffer untouched
	Index  int // position of the inserted candidate
}

// TabCompletionCycler completes the last space-delimited token of a
// command line against directory entries. Repeated calls cycle through
// the candidates until Invalidate is called.
type TabCompletionCycler struct {
	prefix     string
	candidates []string
	cursor     int
}

// SplitCompletionTarget returns the fixed prefix (up to and including the
// last space) and the token after it.
func SplitCompletionTarget(buffer string) (prefix, token string) {
	idx := strings.LastIndexByte(buffer, ' ')
	if idx < 0 {
		return "", buffer
	}
	return buffer[:idx+1], buffer[idx+1:]
}

// Active reports whether a candidate set is cached.
func (c *TabCompletionCycler) Active() bool {
	return len(c.candidates) > 0
}

// Candidates returns the cached candidate set.
func (c *TabCompletionCycler) Candidates() []string {
	return c.candidates
}

// Invalidate forgets the cached candidates.
func (c *TabCompletionCycler) Invalidate() {
	c.prefix = ""
	c.candidates = nil
	c.cursor = 0
}

// Complete performs one Tab press on buffer. list is consulted only when
// no candidate set is cached.
func (c *TabCompletionCycler) Complete(buffer string, list func() ([]FileEntry, error)) (CompletionResult, error) {
	if c.Active() {
		c.cursor = (c.cursor + 1) % len(c.candidates)
		return CompletionResult{
			Buffer: c.prefix + c.candidates[c.cursor],
			Count:  len(c.candidates),
			Index:  c.cursor,
		}, nil
	}

	prefix, token := SplitCompletionTarget(buffer)
	if token == "" {
		return CompletionResult{Buffer: buffer}, nil
	}

	entries, err := list()
	if err != nil {
		return CompletionResult{Buffer: buffer}, err
	}

	var matches []string
	for _, entry := range entries {
		if entry.IsParent() || !strings.HasPrefix(entry.Name, token) {
			continue
		}
		name := entry.Name
		if entry.IsDir {
			name += string(os.PathSeparator)
		}
		matches = append(matches, name)
	}
	sort.Strings(matches)

	switch len(matches) {
	case 0:
		return CompletionResult{Buffer: buffer}, nil
	case 1:
		c.Invalidate()
		return CompletionResult{Buffer: prefix + matches[0], Count: 1}, nil
	}

	c.prefix = prefix
	c.candidates = matches
	c.cursor = 0
	return CompletionResult{Buffer: prefix + matches[0], Count: len(matches)}, nil
}
