//go:build unix

package segfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapFile maps f read-write, shared, so the segment is visible to every
// process that maps the same file by path — a segment is typically
// mapped or inherited by multiple processes via a key.
func mapFile(f *os.File, size int64) ([]byte, func() error, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		if err := unix.Msync(data, unix.MS_SYNC); err != nil {
			return err
		}
		return unix.Munmap(data)
	}
	return data, cleanup, nil
}
