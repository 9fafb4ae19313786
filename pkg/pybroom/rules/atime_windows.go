//go:build windows

package rules

import (
	"os"
	"syscall"
	"time"
)

// accessTime returns the last access time for path. Falls back to the
// modification time if the attribute data is unavailable.
func accessTime(_ string, info os.FileInfo) time.Time {
	attr, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(0, attr.LastAccessTime.Nanoseconds())
}
