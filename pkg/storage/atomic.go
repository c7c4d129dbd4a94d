package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	// TempFilePrefix names in-flight session writes in the session directory.
	TempFilePrefix = ".noteguard-session-"

	sessionDirMode  os.FileMode = 0700
	sessionFileMode os.FileMode = 0600
)

// persist replaces the session file with data. The token never lands in a
// file readable by other users: the temp file is owner-only before the first
// byte is written, and the rename is flushed to the directory so a crash
// leaves either the old session or the new one.
func (s *FileStore) persist(data []byte) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, sessionDirMode); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to stage session file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := tmp.Chmod(sessionFileMode); err != nil && runtime.GOOS != "windows" {
		tmp.Close()
		return fmt.Errorf("failed to restrict session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close session file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("failed to replace session file %s: %w", s.Path, err)
	}
	committed = true

	if err := syncDir(dir); err != nil {
		s.logger.Debug("session directory not flushed", "dir", dir, "error", err)
	}
	return nil
}

// syncDir makes a completed rename durable. Windows cannot open directories
// for syncing, so it is a no-op there.
func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
