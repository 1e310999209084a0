//go:build windows

package fs

import "syscall"

const fileAttributeHidden = 0x02

// IsHidden honours the Windows hidden attribute and falls back to the
// dot-file convention when attributes cannot be read.
func IsHidden(fullPath string, name string) bool {
	dotFile := len(name) > 0 && name[0] == '.'

	target := fullPath
	if target == "" {
		target = name
	}
	if target == "" {
		return false
	}

	ptr, err := syscall.UTF16PtrFromString(target)
	if err != nil {
		return dotFile
	}
	attrs, err := syscall.GetFileAttributes(ptr)
	if err != nil {
		return dotFile
	}
	return dotFile || attrs&fileAttributeHidden != 0
}
