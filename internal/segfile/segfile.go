// Package segfile provides platform-specific helpers for acquiring the
// backing byte buffer for a segment: create a fresh, fixed-size file and
// map it, or map one an existing process already sized. The allocator
// and segment packages never import this package — the allocator does
// not own the mapping — it exists purely for hosts (and cmd/segctl) that
// want the same mmap-or-fallback acquisition hivekit uses for hive
// files.
package segfile

import (
	"fmt"
	"os"
)

// Create truncates (or creates) the file at path to exactly size bytes and
// maps it. The returned cleanup unmaps (or, on platforms without a real
// mmap, flushes) the buffer; callers must call it exactly once.
func Create(path string, size int64) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("segfile: size must be positive, got %d", size)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	if err := f.Truncate(size); err != nil {
		return nil, nil, err
	}
	return mapFile(f, size)
}

// Open maps the existing file at path, whose size becomes the segment's
// total size.
func Open(path string) ([]byte, func() error, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o600)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	return mapFile(f, info.Size())
}
