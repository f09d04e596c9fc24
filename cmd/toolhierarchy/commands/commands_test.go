// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/cli"
	"github.com/bureau-foundation/toolhierarchy/lib/config"
	"github.com/bureau-foundation/toolhierarchy/lib/testutil"
	"github.com/bureau-foundation/toolhierarchy/lib/version"
)

// walkCommands visits every command in the tree with its path.
func walkCommands(command *cli.Command, path []string, visit func(*cli.Command, []string)) {
	current := append(append([]string(nil), path...), command.Name)
	visit(command, current)
	for _, sub := range command.Subcommands {
		walkCommands(sub, current, visit)
	}
}

func TestCommandTree(t *testing.T) {
	root := Root()
	seen := make(map[string]bool)
	walkCommands(root, nil, func(command *cli.Command, path []string) {
		name := strings.Join(path, " ")
		if seen[name] {
			t.Errorf("%s: duplicate command", name)
		}
		seen[name] = true

		if len(path) > 1 && command.Summary == "" {
			t.Errorf("%s: missing Summary", name)
		}
		if command.Run == nil && len(command.Subcommands) == 0 {
			t.Errorf("%s: neither Run nor Subcommands", name)
		}
		if command.Flags != nil {
			// Building the flag set panics on a malformed params struct.
			command.Flags()
		}
	})

	for _, want := range []string{
		"toolhierarchy evaluate",
		"toolhierarchy compare",
		"toolhierarchy scale",
		"toolhierarchy match",
		"toolhierarchy catalog list",
		"toolhierarchy catalog show",
		"toolhierarchy catalog validate",
		"toolhierarchy report show",
		"toolhierarchy models",
		"toolhierarchy version",
	} {
		if !seen[want] {
			t.Errorf("command %q missing from the tree", want)
		}
	}
}

func TestVersion(t *testing.T) {
	var err error
	output := testutil.CaptureStdout(t, func() {
		err = Root().Execute(t.Context(), []string{"version", "--json"})
	})
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var info version.BuildInfo
	if err := json.Unmarshal([]byte(output), &info); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if info.Version != version.Version || info.GoVersion == "" {
		t.Errorf("info = %+v", info)
	}
}

func TestGlobalsReachSubcommands(t *testing.T) {
	t.Setenv(config.EnvVar, "")
	configPath := testutil.WriteFile(t, "run.yaml", `
log_level: error
strategies:
  - name: only-flat
    grouping: flat
scale:
  strategy: only-flat
`)

	var err error
	output := testutil.CaptureStdout(t, func() {
		err = Root().Execute(t.Context(), []string{"--config", configPath, "match", "open", "a", "file", "--json"})
	})
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !strings.Contains(output, `"strategy": "only-flat"`) {
		t.Errorf("config given before the command was not used:\n%s", output)
	}
}

func TestModels(t *testing.T) {
	t.Setenv(config.EnvVar, "")
	configPath := testutil.WriteFile(t, "run.yaml", `
log_level: error
models:
  - name: remote-small
    provider: openai
    endpoint: http://127.0.0.1:9/v1
  - name: hashing-64
    provider: hashing
    dimensions: 64
`)

	var err error
	output := testutil.CaptureStdout(t, func() {
		err = Root().Execute(t.Context(), []string{"--config", configPath, "models", "--json"})
	})
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	var models []modelSummary
	if err := json.Unmarshal([]byte(output), &models); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, output)
	}
	want := []modelSummary{
		{Name: "hashing-64", Provider: "hashing", Dimensions: 64},
		{Name: "remote-small", Provider: "openai", Endpoint: "http://127.0.0.1:9/v1"},
	}
	if !reflect.DeepEqual(models, want) {
		t.Errorf("models = %+v, want %+v", models, want)
	}

	output = testutil.CaptureStdout(t, func() {
		err = Root().Execute(t.Context(), []string{"--config", configPath, "models"})
	})
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	for _, line := range []string{"MODEL", "hashing-64", "remote-small"} {
		if !strings.Contains(output, line) {
			t.Errorf("text output missing %q:\n%s", line, output)
		}
	}
}
