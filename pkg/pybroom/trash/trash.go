// Package trash moves residue to the system trash where one exists,
// falling back to permanent deletion otherwise. It gives venv removal a
// recovery path: a trashed environment can be restored, a deleted one
// cannot.
package trash

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// commandTimeout bounds external trash helper invocations.
const commandTimeout = 30 * time.Second

// MoveToTrash moves a file or directory tree to the system trash.
// On macOS it asks Finder, on Linux it tries gio then trash-put. When
// no trash mechanism responds the path is deleted permanently.
func MoveToTrash(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot trash %q: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve absolute path for %q: %w", path, err)
	}

	switch runtime.GOOS {
	case "darwin":
		return trashDarwin(absPath)
	case "linux":
		return trashLinux(absPath)
	default:
		return deletePermanently(absPath)
	}
}

// trashDarwin moves a path to Trash via Finder, which preserves the
// "Put Back" metadata.
func trashDarwin(path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	script := fmt.Sprintf(`tell application "Finder" to delete POSIX file %q`, path)
	if err := exec.CommandContext(ctx, "osascript", "-e", script).Run(); err != nil {
		return deletePermanently(path)
	}
	return nil
}

// trashLinux tries the desktop trash tools in order of likelihood.
func trashLinux(path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if gio, err := exec.LookPath("gio"); err == nil {
		if err := exec.CommandContext(ctx, gio, "trash", path).Run(); err == nil {
			return nil
		}
	}
	if tp, err := exec.LookPath("trash-put"); err == nil {
		if err := exec.CommandContext(ctx, tp, path).Run(); err == nil {
			return nil
		}
	}
	return deletePermanently(path)
}

// deletePermanently removes a file or directory tree outright.
func deletePermanently(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to delete %q: %w", path, err)
	}
	return nil
}
