// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"os"
	"reflect"
)

// JSONOutput adds a --json flag to a params struct. Commands embed it
// and hand their result to [JSONOutput.EmitJSON] before printing text:
//
//	type listParams struct {
//	    cli.JSONOutput
//	    Domain string `json:"domain" flag:"domain" desc:"only list tools in this domain"`
//	}
//
//	// In Run, after building the tool summaries:
//	if done, err := params.EmitJSON(summaries); done {
//	    return err
//	}
//	// ... tabwriter listing ...
//
// Evaluation reports, scale points, match results and tool listings
// all go through this path, so their JSON field names are the json
// tags of the library types.
type JSONOutput struct {
	OutputJSON bool `json:"-" flag:"json" desc:"output as JSON"`
}

// EmitJSON prints result as indented JSON on stdout when --json was
// given and reports whether it did. A false return means the caller
// prints its text form instead.
//
// A nil slice result prints as [] so that an empty tool listing or an
// empty report set is still a JSON array.
func (j *JSONOutput) EmitJSON(result any) (bool, error) {
	if !j.OutputJSON {
		return false, nil
	}
	return true, WriteJSON(emptyIfNilSlice(result))
}

// WriteJSON prints value as two-space indented JSON on stdout,
// regardless of --json.
func WriteJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// emptyIfNilSlice swaps a nil slice for an empty one of the same type.
// Any other value is returned as is.
func emptyIfNilSlice(value any) any {
	reflected := reflect.ValueOf(value)
	if reflected.Kind() != reflect.Slice || !reflected.IsNil() {
		return value
	}
	return reflect.MakeSlice(reflected.Type(), 0, 0).Interface()
}
