package sandbox

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// sandboxSubdirs are created under a fresh sandbox home so the XDG
// directories and the claude state directory exist before first use.
var sandboxSubdirs = []string{".config", ".cache", ".local/share", ".claude"}

// copiedMarker gates the one-time claude credential copy.
const copiedMarker = ".copied"

// InitHome creates the sandbox home directory structure. Safe to call
// on every invocation; existing directories are reused.
func InitHome(sandboxHome string) error {
	for _, sub := range sandboxSubdirs {
		if err := os.MkdirAll(filepath.Join(sandboxHome, sub), 0o755); err != nil {
			return fmt.Errorf("creating sandbox directory: %w", err)
		}
	}
	return nil
}

// copyClaudeConfig seeds the sandbox with the host's claude state. The
// ~/.claude directory is copied once per sandbox home, gated by a
// marker file, and ~/.claude.json is copied while the destination is
// absent. Existing destination files are never overwritten.
func copyClaudeConfig(hostHome, sandboxHome string) error {
	hostDir := filepath.Join(hostHome, ".claude")
	sandboxDir := filepath.Join(sandboxHome, ".claude")
	marker := filepath.Join(sandboxDir, copiedMarker)

	if isDir(hostDir) && !exists(marker) {
		if err := copyTreeNoClobber(hostDir, sandboxDir); err != nil {
			return fmt.Errorf("copying %s: %w", hostDir, err)
		}
		if err := os.WriteFile(marker, nil, 0o644); err != nil {
			return err
		}
	}

	hostJSON := filepath.Join(hostHome, ".claude.json")
	sandboxJSON := filepath.Join(sandboxHome, ".claude.json")
	if isFile(hostJSON) && !exists(sandboxJSON) {
		if err := copyFile(hostJSON, sandboxJSON); err != nil {
			return fmt.Errorf("copying %s: %w", hostJSON, err)
		}
	}
	return nil
}

// copyTreeNoClobber copies src into dst recursively, leaving any entry
// that already exists at the destination untouched.
func copyTreeNoClobber(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyTreeNoClobber(from, to); err != nil {
				return err
			}
			continue
		}
		if exists(to) {
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 {
			// Recreate the link as-is, whatever it points at.
			target, err := os.Readlink(from)
			if err != nil {
				return err
			}
			if err := os.Symlink(target, to); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(from, to); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
