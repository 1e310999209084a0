package fs

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

const (
	sniffSampleSize         = 4096
	nonPrintablePercentages = 30
)

var binaryExtensions = map[string]struct{}{
	".7z": {}, ".avi": {}, ".bin": {}, ".bmp": {}, ".bz2": {}, ".class": {},
	".dll": {}, ".doc": {}, ".docx": {}, ".exe": {}, ".flac": {}, ".gif": {},
	".gz": {}, ".ico": {}, ".iso": {}, ".jar": {}, ".jpeg": {}, ".jpg": {},
	".mkv": {}, ".mov": {}, ".mp3": {}, ".mp4": {}, ".ogg": {}, ".pdf": {},
	".png": {}, ".so": {}, ".tar": {}, ".tgz": {}, ".wav": {}, ".webp": {},
	".xls": {}, ".xlsx": {}, ".xz": {}, ".zip": {},
}

// IsTextFile sniffs content (and the extension of path) to decide whether it
// can be shown as text.
func IsTextFile(path string, content []byte) bool {
	if _, ok := binaryExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return false
	}
	if len(content) == 0 {
		return true
	}

	sample := content
	if len(sample) > sniffSampleSize {
		sample = sample[:sniffSampleSize]
	}
	if hasUnicodeBOM(sample) {
		return true
	}
	if bytes.IndexByte(sample, 0x00) != -1 {
		return false
	}
	if utf8.Valid(sample) {
		return true
	}

	nonPrintable := 0
	for _, b := range sample {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != 0x1B {
			nonPrintable++
		}
	}
	return nonPrintable*100/len(sample) < nonPrintablePercentages
}

// ReadFileHead returns up to limit bytes from the beginning of path.
func ReadFileHead(path string, limit int64) ([]byte, error) {
	if limit <= 0 {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(io.LimitReader(f, limit))
}

// HeadLines decodes content and returns at most maxLines lines of it.
func HeadLines(content []byte, maxLines int) []string {
	text := DecodeText(content)
	lines := make([]string, 0, maxLines)
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() && len(lines) < maxLines {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	return lines
}

// DecodeText converts BOM-prefixed UTF-8/UTF-16 content to a UTF-8 string.
func DecodeText(content []byte) string {
	switch {
	case len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF:
		return string(content[3:])
	case len(content) >= 2 && content[0] == 0xFF && content[1] == 0xFE:
		return decodeUTF16(content, unicode.LittleEndian)
	case len(content) >= 2 && content[0] == 0xFE && content[1] == 0xFF:
		return decodeUTF16(content, unicode.BigEndian)
	default:
		return string(content)
	}
}

func hasUnicodeBOM(sample []byte) bool {
	if len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF {
		return true
	}
	return len(sample) >= 2 && ((sample[0] == 0xFF && sample[1] == 0xFE) || (sample[0] == 0xFE && sample[1] == 0xFF))
}

func decodeUTF16(content []byte, endian unicode.Endianness) string {
	out, err := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder().Bytes(content)
	if err != nil {
		return string(content)
	}
	return string(out)
}
