package search

import (
	"path/filepath"
	"strings"
)

const (
	IconDirectory   = "📁"
	IconFile        = "📄"
	IconApplication = "🚀"
	IconCommand     = "⚡"
	IconGrep        = "🔎"
)

var extensionIcons = map[string]string{}

func init() {
	groups := []struct {
		icon string
		exts []string
	}{
		{"🖼️", []string{"png", "jpg", "jpeg", "gif", "bmp", "svg", "webp", "ico", "tiff"}},
		{"🎬", []string{"mp4", "avi", "mkv", "mov", "wmv", "flv", "webm", "m4v", "mpeg", "mpg"}},
		{"🎵", []string{"mp3", "wav", "flac", "aac", "ogg", "wma", "m4a", "opus"}},
		{"📝", []string{"pdf", "doc", "docx", "txt", "rtf", "odt"}},
		{"📊", []string{"xls", "xlsx", "csv", "ods", "ppt", "pptx", "odp"}},
		{"📦", []string{"zip", "tar", "gz", "bz2", "7z", "rar", "xz", "tgz"}},
		{"💻", []string{"rs", "py", "js", "ts", "java", "c", "cpp", "h", "hpp", "go", "rb", "php", "tsx", "jsx"}},
		{"📋", []string{"html", "css", "json", "xml", "yaml", "yml", "toml"}},
		{"⚙️", []string{"exe", "bin", "sh", "bat", "cmd"}},
	}
	for _, g := range groups {
		for _, ext := range g.exts {
			extensionIcons[ext] = g.icon
		}
	}
}

// IconFor picks a glyph for a file name: directories get a folder,
// files are looked up by lower-cased extension.
func IconFor(name string, isDir bool) string {
	if isDir {
		return IconDirectory
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if icon, ok := extensionIcons[ext]; ok {
		return icon
	}
	return IconFile
}
