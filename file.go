package mapread

import (
	"errors"
	"io/fs"
	"unsafe"

	"github.com/Giulio2002/mapread/internal/fault"
	"github.com/Giulio2002/mapread/mmap"
)

// Install makes memory faults on mapped reads recoverable for the lifetime
// of the process. It is idempotent and must be called once before the first
// read. If recovery is unavailable on this runtime, Install degrades to the
// default behavior (a fault during a read is fatal) rather than failing.
func Install() {
	fault.Install()
}

// Installed reports whether Install verified fault recovery.
func Installed() bool {
	return fault.Installed()
}

// File is a read-only memory-mapped file supporting fault tolerant
// fixed-width integer reads at arbitrary byte offsets.
//
// The mapped memory may be read from any number of goroutines concurrently;
// fault recovery is tracked per goroutine. Close must only be called once
// no goroutine is still reading: a File is a single-owner resource, and the
// owner performs teardown.
type File struct {
	m *mmap.Map
}

// Open maps the file at path read-only over its full length. A zero-length
// file yields a valid File of length 0 whose every read is out of bounds.
func Open(path string) (*File, error) {
	m, err := mmap.MapFile(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, WrapError(ErrNotFound, err)
		case isMapError(err):
			return nil, WrapError(ErrMapFailed, err)
		default:
			return nil, WrapError(ErrOpenFailed, err)
		}
	}
	return &File{m: m}, nil
}

func isMapError(err error) bool {
	var me *mmap.Error
	return errors.As(err, &me)
}

// Len returns the mapped length in bytes. It is fixed at Open.
func (f *File) Len() int64 {
	return f.m.Len()
}

// Close releases the mapping. Close is idempotent.
func (f *File) Close() error {
	return f.m.Close()
}

// AdviseRandom hints to the OS that reads will hit random offsets.
func (f *File) AdviseRandom() error {
	return f.m.AdviseRandom()
}

// checkBounds rejects reads that would extend past the mapped length.
// Offsets may come from untrusted indexes, so this is a reported error
// rather than a panic.
func (f *File) checkBounds(offset, width int64) error {
	if offset < 0 || offset > f.m.Len()-width {
		return errOutOfBounds
	}
	return nil
}

// ReadInt64 reads the native-endian signed 64-bit integer at the given byte
// offset. It returns ErrOutOfBounds without touching the mapping when the
// read would not fit, and ErrFault when the mapped memory could not be read.
// A fault fails only this read; no retry is performed.
func (f *File) ReadInt64(offset int64) (int64, error) {
	if err := f.checkBounds(offset, 8); err != nil {
		return 0, err
	}
	var v int64
	if !fault.Attempt(func() {
		v = *(*int64)(unsafe.Pointer(&f.m.Data()[offset]))
	}) {
		return 0, errFault
	}
	return v, nil
}

// ReadUint64 reads the native-endian unsigned 64-bit integer at offset.
func (f *File) ReadUint64(offset int64) (uint64, error) {
	if err := f.checkBounds(offset, 8); err != nil {
		return 0, err
	}
	var v uint64
	if !fault.Attempt(func() {
		v = *(*uint64)(unsafe.Pointer(&f.m.Data()[offset]))
	}) {
		return 0, errFault
	}
	return v, nil
}

// ReadInt32 reads the native-endian signed 32-bit integer at offset.
func (f *File) ReadInt32(offset int64) (int32, error) {
	if err := f.checkBounds(offset, 4); err != nil {
		return 0, err
	}
	var v int32
	if !fault.Attempt(func() {
		v = *(*int32)(unsafe.Pointer(&f.m.Data()[offset]))
	}) {
		return 0, errFault
	}
	return v, nil
}

// ReadUint32 reads the native-endian unsigned 32-bit integer at offset.
func (f *File) ReadUint32(offset int64) (uint32, error) {
	if err := f.checkBounds(offset, 4); err != nil {
		return 0, err
	}
	var v uint32
	if !fault.Attempt(func() {
		v = *(*uint32)(unsafe.Pointer(&f.m.Data()[offset]))
	}) {
		return 0, errFault
	}
	return v, nil
}
