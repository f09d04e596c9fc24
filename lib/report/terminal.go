// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorEnabled reports whether output to file should be styled: file
// must be a terminal and the environment must not ask for plain
// output (NO_COLOR, CLICOLOR=0).
func ColorEnabled(file *os.File) bool {
	if file == nil || termenv.EnvNoColor() {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
