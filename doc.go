// Package mapread reads fixed-width integers at arbitrary byte offsets from
// a read-only memory-mapped file, surviving the hardware faults a mapping
// can raise when its backing storage disappears mid-read.
//
// Long-running processes that keep large files mapped (object-store readers,
// index readers) cannot treat every access as infallible: if the file shrank
// or the device failed, the OS reports the broken read as an asynchronous
// fault rather than an error code, which normally kills the process. mapread
// confines that fault to the single read that triggered it and reports it as
// an ordinary error value. The file stays usable; later reads succeed or
// fail independently.
//
// Key properties:
//   - Bounds-checked reads: an out-of-range offset is a reported error and
//     never touches the mapping
//   - Per-goroutine fault recovery: concurrent readers do not interfere
//   - A zero-length file maps to a valid zero-length File
//   - Single-owner teardown: whoever holds the File closes it, exactly once
//
// Basic usage:
//
//	mapread.Install()
//
//	f, err := mapread.Open("/path/to/objects.pack")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	v, err := f.ReadInt64(offset)
//	switch {
//	case err == nil:
//	    fmt.Println(v)
//	case mapread.IsFault(err):
//	    // backing storage was unreadable for this one access; keep going
//	case mapread.IsOutOfBounds(err):
//	    // offset came from a bad index
//	}
package mapread
