// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestBindFlags_BasicTypes(t *testing.T) {
	type params struct {
		Strategy string        `flag:"strategy,s" desc:"strategy name"`
		Verbose  bool          `flag:"verbose,v" desc:"enable verbose output"`
		Top      int           `flag:"top" desc:"confusion pairs per row"`
		Weight   float64       `flag:"weight" desc:"domain weight"`
		Timeout  time.Duration `flag:"timeout" desc:"request timeout"`
		Models   []string      `flag:"models" desc:"model list"`
		Counts   []int         `flag:"counts" desc:"tool counts"`
		Untagged string        // no flag tag, skipped
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	err := flagSet.Parse([]string{
		"-s", "hybrid",
		"-v",
		"--top", "5",
		"--weight", "0.7",
		"--timeout", "30s",
		"--models", "hashing-64,hashing-256",
		"--counts", "15,30,60",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := params{
		Strategy: "hybrid",
		Verbose:  true,
		Top:      5,
		Weight:   0.7,
		Timeout:  30 * time.Second,
		Models:   []string{"hashing-64", "hashing-256"},
		Counts:   []int{15, 30, 60},
	}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("params = %+v, want %+v", p, want)
	}
}

func TestBindFlags_Defaults(t *testing.T) {
	type params struct {
		Format  string        `flag:"format" default:"text"`
		Top     int           `flag:"top" default:"3"`
		Weight  float64       `flag:"weight" default:"0.5"`
		Timeout time.Duration `flag:"timeout" default:"10s"`
		Color   bool          `flag:"color" default:"true"`
		Models  []string      `flag:"models" default:"a,b"`
		Counts  []int         `flag:"counts" default:"6,12"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := params{
		Format:  "text",
		Top:     3,
		Weight:  0.5,
		Timeout: 10 * time.Second,
		Color:   true,
		Models:  []string{"a", "b"},
		Counts:  []int{6, 12},
	}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("params = %+v, want %+v", p, want)
	}
}

func TestBindFlags_EmbeddedJSONOutput(t *testing.T) {
	type params struct {
		JSONOutput
		Strategy string `flag:"strategy"`
	}

	var p params
	flagSet := FlagsFromParams("test", &p)
	if err := flagSet.Parse([]string{"--json", "--strategy", "flat"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.OutputJSON || p.Strategy != "flat" {
		t.Errorf("params = %+v", p)
	}
}

func TestBindFlags_FlagBinderField(t *testing.T) {
	type params struct {
		Globals Globals
		Top     int `flag:"top"`
	}

	var p params
	flagSet := FlagsFromParams("test", &p)
	if err := flagSet.Parse([]string{"--config", "run.yaml", "--top", "2"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Globals.ConfigPath != "run.yaml" || p.Top != 2 {
		t.Errorf("params = %+v", p)
	}
}

func TestBindFlags_Errors(t *testing.T) {
	tests := []struct {
		name   string
		params any
		want   string
	}{
		{"not a pointer", struct{}{}, "pointer to a struct"},
		{"unsupported type", &struct {
			Bad map[string]string `flag:"bad"`
		}{}, "unsupported type"},
		{"bad default", &struct {
			Top int `flag:"top" default:"three"`
		}{}, "default for --top"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := BindFlags(test.params, pflag.NewFlagSet("test", pflag.ContinueOnError))
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Errorf("err = %v, want it to mention %q", err, test.want)
			}
		})
	}
}

func TestFlagsFromParams_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("FlagsFromParams did not panic for a non-pointer")
		}
	}()
	FlagsFromParams("test", struct{}{})
}
