//go:build windows

package fault

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// mapInaccessible reserves one committed page with no access protection, so
// any read of it raises the fault class Attempt must recover from.
func mapInaccessible() ([]byte, func(), error) {
	size := uintptr(os.Getpagesize())
	addr, err := windows.VirtualAlloc(0, size,
		windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return nil, nil, err
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	release := func() { _ = windows.VirtualFree(addr, 0, windows.MEM_RELEASE) }
	return data, release, nil
}
