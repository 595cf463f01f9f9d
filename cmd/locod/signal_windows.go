// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build windows

package main

import "os"

// shutdownSignals falls back to os.Interrupt on Windows, which has no
// SIGTERM; x/sys/unix is POSIX-only.
func shutdownSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
