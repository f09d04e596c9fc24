// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/bureau-foundation/toolhierarchy/lib/testutil"
)

func TestEmitJSON(t *testing.T) {
	type summary struct {
		ID      string `json:"id"`
		Queries int    `json:"queries"`
	}

	tests := []struct {
		name     string
		enabled  bool
		result   any
		wantDone bool
		want     string
	}{
		{
			name:     "disabled",
			result:   []summary{{ID: "file_read", Queries: 2}},
			wantDone: false,
			want:     "",
		},
		{
			name:     "listing",
			enabled:  true,
			result:   []summary{{ID: "file_read", Queries: 2}},
			wantDone: true,
			want:     "[\n  {\n    \"id\": \"file_read\",\n    \"queries\": 2\n  }\n]\n",
		},
		{
			name:     "nil listing",
			enabled:  true,
			result:   []summary(nil),
			wantDone: true,
			want:     "[]\n",
		},
		{
			name:     "nil pointer stays null",
			enabled:  true,
			result:   (*summary)(nil),
			wantDone: true,
			want:     "null\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			output := JSONOutput{OutputJSON: test.enabled}
			var done bool
			var err error
			printed := testutil.CaptureStdout(t, func() {
				done, err = output.EmitJSON(test.result)
			})
			if err != nil {
				t.Fatalf("EmitJSON: %v", err)
			}
			if done != test.wantDone {
				t.Errorf("done = %v, want %v", done, test.wantDone)
			}
			if printed != test.want {
				t.Errorf("output = %q, want %q", printed, test.want)
			}
		})
	}
}
