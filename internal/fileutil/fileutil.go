package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

// LockFileName is created inside a directory guarded by LockDir.
const LockFileName = ".anydl.lock"

// ErrDirLocked is returned when another process holds the directory lock.
var ErrDirLocked = errors.New("directory is locked by another anydl process")

// WriteFileAtomic writes data to a temporary file beside path, syncs it, and
// renames it into place. Readers never observe a partial file.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.part")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// ResolveTarget picks the destination path for filename inside dir. With
// overwrite the plain path is returned; otherwise " (n)" is appended before
// the extension until a free name is found.
func ResolveTarget(dir, filename string, overwrite bool) (string, error) {
	return resolveTarget(dir, filename, overwrite, nil)
}

func resolveTarget(dir, filename string, overwrite bool, taken func(string) bool) (string, error) {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	candidate := filepath.Join(dir, filename)
	for counter := 1; ; counter++ {
		if taken == nil || !taken(candidate) {
			info, err := os.Stat(candidate)
			switch {
			case err == nil && info.IsDir():
				return "", fmt.Errorf("target %q already exists as directory", candidate)
			case err == nil && overwrite:
				return candidate, nil
			case err != nil && os.IsNotExist(err):
				return candidate, nil
			case err != nil:
				return "", fmt.Errorf("stat candidate path: %w", err)
			}
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, counter, ext))
	}
}

// TargetSet resolves destinations for one batch of writes into dir. A path
// it has handed out is never handed out again, so two items sharing a
// filename land in separate files even with overwrite. Safe for concurrent
// use.
type TargetSet struct {
	dir       string
	overwrite bool

	mu      sync.Mutex
	claimed map[string]struct{}
}

// NewTargetSet returns an empty TargetSet for dir.
func NewTargetSet(dir string, overwrite bool) *TargetSet {
	return &TargetSet{dir: dir, overwrite: overwrite, claimed: make(map[string]struct{})}
}

// Claim resolves filename like ResolveTarget, skipping paths already claimed.
func (s *TargetSet) Claim(filename string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path, err := resolveTarget(s.dir, filename, s.overwrite, func(candidate string) bool {
		_, ok := s.claimed[candidate]
		return ok
	})
	if err != nil {
		return "", err
	}
	s.claimed[path] = struct{}{}
	return path, nil
}

// DirLock is an advisory lock on a directory.
type DirLock struct {
	lock *flock.Flock
}

// LockDir takes a non-blocking exclusive lock on dir. It returns ErrDirLocked
// if another process already holds it.
func LockDir(dir string) (*DirLock, error) {
	lock := flock.New(filepath.Join(dir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrDirLocked
	}
	return &DirLock{lock: lock}, nil
}

// Path returns the lock file location.
func (l *DirLock) Path() string {
	return l.lock.Path()
}

// Unlock releases the lock and removes the lock file.
func (l *DirLock) Unlock() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	_ = os.Remove(l.lock.Path())
	return nil
}
