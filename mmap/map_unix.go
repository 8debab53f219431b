//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// MapFile opens a file and creates a read-only, private memory mapping over
// its full length. Open and stat failures are returned unwrapped so callers
// can inspect them with errors.Is; mapping failures are reported as *Error.
//
// The file descriptor is closed before MapFile returns: the mapping keeps
// the pages alive, so the Map owns only the mapping itself.
func MapFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &Map{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, &Error{Op: "mmap", Err: err}
	}

	return &Map{data: data, length: size}, nil
}

// Close releases the memory mapping. Close is idempotent; a Map over an
// empty file has nothing to release.
func (m *Map) Close() error {
	if m.data == nil {
		m.length = 0
		return nil
	}

	if err := unix.Munmap(m.data); err != nil {
		return &Error{Op: "munmap", Err: err}
	}
	m.data = nil
	m.length = 0
	return nil
}

// Advise provides hints to the kernel about memory usage patterns.
func (m *Map) Advise(advice int) error {
	if m.data == nil {
		return nil
	}
	return unix.Madvise(m.data, advice)
}

// AdviseSequential hints that pages will be accessed sequentially.
func (m *Map) AdviseSequential() error {
	return m.Advise(unix.MADV_SEQUENTIAL)
}

// AdviseRandom hints that pages will be accessed randomly.
func (m *Map) AdviseRandom() error {
	return m.Advise(unix.MADV_RANDOM)
}

// AdviseWillNeed hints that pages will be needed soon.
func (m *Map) AdviseWillNeed() error {
	return m.Advise(unix.MADV_WILLNEED)
}
