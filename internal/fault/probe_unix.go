//go:build unix

package fault

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapInaccessible maps one anonymous page with no access permissions, so
// any read of it raises the fault class Attempt must recover from.
func mapInaccessible() ([]byte, func(), error) {
	data, err := unix.Mmap(-1, 0, os.Getpagesize(),
		unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	return data, func() { _ = unix.Munmap(data) }, nil
}
