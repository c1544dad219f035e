//go:build !unix

package segfile

import "os"

// mapFile falls back to a plain in-memory copy on platforms without a real
// mmap in this module's build tags; the cleanup writes the buffer back so
// mutations are not lost. Unlike the unix path, concurrent mappings of the
// same file from other processes will not observe writes until cleanup
// runs.
func mapFile(f *os.File, size int64) ([]byte, func() error, error) {
	data := make([]byte, size)
	if _, err := f.ReadAt(data, 0); err != nil && !isEOFAtZero(err, size) {
		return nil, nil, err
	}
	path := f.Name()
	cleanup := func() error {
		return os.WriteFile(path, data, 0o600)
	}
	return data, cleanup, nil
}

func isEOFAtZero(err error, size int64) bool {
	return size == 0
}
