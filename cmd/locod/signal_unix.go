// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build !windows

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// shutdownSignals are the OS signals that trigger a graceful worker
// shutdown on POSIX hosts, named via x/sys/unix rather than syscall so the
// constants read the same as the kernel's own signal table.
func shutdownSignals() []os.Signal {
	return []os.Signal{unix.SIGINT, unix.SIGTERM}
}
