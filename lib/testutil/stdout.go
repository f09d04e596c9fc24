// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"io"
	"os"
	"testing"
)

// CaptureStdout runs fn with os.Stdout redirected to a pipe and
// returns everything fn wrote. The pipe is drained while fn runs, so
// output larger than the pipe buffer does not block.
//
//	output := testutil.CaptureStdout(t, func() {
//	    err = command.Execute(ctx, []string{"--json"})
//	})
func CaptureStdout(t testing.TB, fn func()) string {
	t.Helper()

	original := os.Stdout
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = writer

	captured := make(chan string)
	go func() {
		var buffer bytes.Buffer
		io.Copy(&buffer, reader)
		reader.Close()
		captured <- buffer.String()
	}()

	defer func() {
		os.Stdout = original
	}()
	fn()

	writer.Close()
	return <-captured
}
