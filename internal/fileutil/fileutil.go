// Package fileutil writes output files atomically under an advisory lock.
package fileutil

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked reports that another process holds the output lock.
var ErrLocked = errors.New("output file is locked by another process")

// WriteOptions controls WriteAtomic.
type WriteOptions struct {
	// Lock takes a non-blocking flock on path+".lock" for the duration of
	// the write. The lock file is left in place.
	Lock bool
	// Mode is applied to the final file. Zero means 0o644.
	Mode os.FileMode
}

// LockPath returns the lock file guarding path.
func LockPath(path string) string {
	return path + ".lock"
}

// WriteAtomic streams write into a temporary file beside path and renames it
// over path once write and the flush succeed. Readers never observe a
// partially written file, and a failed write leaves any existing file intact.
func WriteAtomic(path string, opts WriteOptions, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if opts.Lock {
		lock := flock.New(LockPath(path))
		ok, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrLocked, path)
		}
		defer func() {
			_ = lock.Unlock()
		}()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	buffered := bufio.NewWriter(tmp)
	if err := write(buffered); err != nil {
		return err
	}
	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}

	mode := opts.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	committed = true
	return nil
}
