package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// MediaBytes returns size bytes of a repeating pattern. A size <= 0 yields a
// single byte.
func MediaBytes(size int) []byte {
	if size <= 0 {
		size = 1
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = byte('A' + i%26)
	}
	return buf
}

// WriteFile fills the target path with the requested number of bytes,
// creating parent directories.
func WriteFile(t testing.TB, path string, size int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, MediaBytes(size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
