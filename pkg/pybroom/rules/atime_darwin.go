//go:build darwin

package rules

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// accessTime returns the last access time for path. Falls back to the
// modification time if the stat call fails.
func accessTime(path string, info os.FileInfo) time.Time {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return info.ModTime()
	}
	return time.Unix(st.Atimespec.Unix())
}
