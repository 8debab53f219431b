// Package mmap provides cross-platform read-only memory mapping of files.
package mmap

// Map represents a read-only memory-mapped file region.
// This type wraps platform-specific mmap implementations.
//
// A Map over a zero-length file is valid: it owns no OS mapping and has a
// length of zero, so callers reject every access with an ordinary bounds
// check before the mapping would be touched.
type Map struct {
	data   []byte // Mapped memory region (nil for empty files and after Close)
	length int64  // Mapped size in bytes, fixed at creation
	// Windows-specific file-mapping handle (zero on Unix)
	mapping uintptr
}

// Data returns the mapped byte slice. The slice is valid only until Close.
func (m *Map) Data() []byte {
	return m.data
}

// Len returns the mapped size in bytes.
func (m *Map) Len() int64 {
	return m.length
}

// Error represents an mmap error.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "mmap: " + e.Op + ": " + e.Err.Error()
	}
	return "mmap: " + e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}
