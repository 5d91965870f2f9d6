// Package runtimepath resolves where the daemon keeps its socket and log.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "bsptile"

// Dir returns the directory for the IPC socket: the XDG runtime directory
// when it exists, else a private per-user directory under os.TempDir.
func Dir() (string, error) {
	if isDir(xdg.RuntimeDir) {
		return xdg.RuntimeDir, nil
	}
	return privateTempDir()
}

// privateTempDir creates the fallback directory and keeps it mode 0700.
func privateTempDir() (string, error) {
	dir := filepath.Join(os.TempDir(), fmt.Sprintf("%s-runtime-%d", appName, os.Getuid()))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	info, err := os.Lstat(dir)
	if err != nil {
		return "", fmt.Errorf("failed to stat runtime dir: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("runtime dir %s is not a directory", dir)
	}
	if info.Mode().Perm() != 0o700 {
		if err := os.Chmod(dir, 0o700); err != nil {
			return "", fmt.Errorf("failed to restrict runtime dir: %w", err)
		}
	}
	return dir, nil
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".sock"), nil
}

// DefaultLogPath returns the log file used when none is configured.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, appName, appName+".log")
}
