// Package fault converts hardware memory faults (the SIGBUS class raised
// when a mapped page cannot be read) into recoverable per-attempt failures.
//
// The Go runtime already intercepts these faults; with
// debug.SetPanicOnFault armed it delivers them to the faulting goroutine as
// a runtime.Error panic instead of crashing the process. Attempt scopes
// that arming to a single guarded access, so the escape mechanism never
// leaks past this package.
package fault

import (
	"runtime"
	"runtime/debug"
	"sync"
)

var (
	installOnce sync.Once
	installed   bool
)

// Install verifies once, process-wide, that memory-fault recovery works on
// this runtime. Call it at startup before the first guarded access.
//
// Install never fails: if the probe cannot be set up or recovery does not
// trigger, the process simply keeps the pre-installation behavior (a fault
// during a guarded access is fatal) and Installed reports false.
func Install() {
	installOnce.Do(func() {
		installed = probe()
	})
}

// Installed reports whether Install verified fault recovery.
func Installed() bool {
	return installed
}

// probe maps a deliberately inaccessible page and checks that a guarded
// read of it is caught rather than fatal.
func probe() bool {
	data, release, err := mapInaccessible()
	if err != nil {
		return false
	}
	defer release()

	var sink byte
	ok := Attempt(func() {
		sink = data[0]
	})
	_ = sink
	return !ok
}

// Attempt runs fn and reports whether it completed without triggering a
// memory fault. On a fault the runtime aborts fn at the faulting
// instruction; any output fn was writing must be considered unusable.
//
// The trap state is per goroutine: concurrent Attempts on other goroutines
// are independent. Nesting Attempt on one goroutine is a fatal precondition
// violation, not a reported failure, because the saved recovery state would
// be clobbered. Panics other than the runtime's fault error are not ours to
// handle and propagate unchanged.
func Attempt(fn func()) (ok bool) {
	if debug.SetPanicOnFault(true) {
		panic("fault: Attempt re-entered on the same goroutine")
	}
	defer debug.SetPanicOnFault(false)
	defer func() {
		if r := recover(); r != nil {
			if !isMemFault(r) {
				panic(r)
			}
			ok = false
		}
	}()

	fn()
	return true
}

// isMemFault reports whether a recovered panic value is the runtime's
// memory-fault error. The runtime tags fault panics with an
// Addr() uintptr method; ordinary runtime errors (nil dereference, index
// out of range) don't carry it.
func isMemFault(r any) bool {
	err, ok := r.(runtime.Error)
	if !ok {
		return false
	}
	_, hasAddr := err.(interface{ Addr() uintptr })
	return hasAddr
}
