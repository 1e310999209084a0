package state

import (
	"errors"
	"fmt"
	"strings"

	fsutil "github.com/kk-code-lab/filecast/internal/fs"
)

const (
	previewMaxBytes = 100 * 1024
	previewMaxLines = 20
)

// buildPreview describes entry for the preview pane. Directories show an
// item count, small text files their first lines, anything else a summary.
func buildPreview(entry FileEntry, showHidden bool) *PreviewData {
	preview := &PreviewData{
		Path:     entry.FullPath,
		Title:    entry.Name,
		IsDir:    entry.IsDir,
		Size:     entry.Size,
		Modified: entry.Modified,
		Mode:     entry.Mode,
	}

	if entry.IsDir {
		preview.Title = "Directory: " + entry.Name
		entries, err := fsutil.ReadDirectory(entry.FullPath, showHidden)
		if err != nil {
			preview.Lines = []string{"Cannot read directory: " + errorCause(err)}
			return preview
		}
		count := 0
		for _, e := range entries {
			if !e.IsParent() {
				count++
			}
		}
		preview.Lines = []string{fmt.Sprintf("Items: %d", count)}
		return preview
	}

	if entry.Size >= previewMaxBytes {
		preview.Lines = []string{fmt.Sprintf("File too large for preview: %s (%d bytes)", entry.Name, entry.Size)}
		return preview
	}

	content, err := fsutil.ReadFileHead(entry.FullPath, previewMaxBytes)
	if err != nil || !fsutil.IsTextFile(entry.FullPath, content) {
		preview.Lines = []string{"Binary file or failed to read: " + entry.Name}
		return preview
	}
	preview.IsText = true
	preview.Lines = fsutil.HeadLines(content, previewMaxLines)
	return preview
}

// commandPreview renders the outcome of a shell command.
func commandPreview(command, output string, runErr error) *PreviewData {
	lines := []string{}
	if runErr != nil {
		lines = append(lines, "Command failed: "+runErr.Error())
	} else {
		lines = append(lines, "Command executed successfully:")
	}
	output = strings.TrimRight(output, "\n")
	if output != "" {
		lines = append(lines, strings.Split(output, "\n")...)
	}
	return &PreviewData{
		Title:  "$ " + command,
		Lines:  lines,
		IsText: true,
	}
}

func errorCause(err error) string {
	var listingErr *fsutil.ListingError
	if errors.As(err, &listingErr) && listingErr.Err != nil {
		return listingErr.Err.Error()
	}
	return err.Error()
}
