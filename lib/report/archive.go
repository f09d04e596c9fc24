// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/toolhierarchy/lib/clock"
	"github.com/bureau-foundation/toolhierarchy/lib/codec"
	"github.com/bureau-foundation/toolhierarchy/lib/evaluation"
	"github.com/bureau-foundation/toolhierarchy/lib/version"
)

// Archive is a saved evaluation run.
type Archive struct {
	// RunID identifies the run that produced the archive.
	RunID uuid.UUID `json:"run_id"`

	GeneratedAt time.Time         `json:"generated_at"`
	Build       version.BuildInfo `json:"build"`

	Reports []*evaluation.Report    `json:"reports"`
	Scale   []evaluation.ScalePoint `json:"scale,omitempty"`

	// Fingerprint is [Fingerprint] of Reports and Scale at the time the
	// archive was created.
	Fingerprint string `json:"fingerprint"`
}

// fingerprintInput is what a fingerprint covers: results only, never
// run ids, timestamps, build info or measured latencies.
type fingerprintInput struct {
	Reports []*evaluation.Report    `json:"reports"`
	Scale   []evaluation.ScalePoint `json:"scale"`
}

// Fingerprint returns the hex BLAKE3 hash of the deterministic CBOR
// encoding of reports and scale points with every latency zeroed, so
// two runs that predicted the same tools fingerprint the same however
// long they took.
func Fingerprint(reports []*evaluation.Report, scale []evaluation.ScalePoint) (string, error) {
	input := fingerprintInput{
		Reports: make([]*evaluation.Report, len(reports)),
		Scale:   make([]evaluation.ScalePoint, len(scale)),
	}
	for i, report := range reports {
		input.Reports[i] = untimed(report)
	}
	for i, point := range scale {
		point.MeanLatency = 0
		point.Report = untimed(point.Report)
		input.Scale[i] = point
	}
	data, err := codec.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("report: encoding reports for fingerprint: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// untimed returns a copy of report without latencies.
func untimed(report *evaluation.Report) *evaluation.Report {
	if report == nil {
		return nil
	}
	copied := *report
	copied.Latency = evaluation.Timing{}
	copied.Outcomes = make([]evaluation.QueryOutcome, len(report.Outcomes))
	for i, outcome := range report.Outcomes {
		outcome.Latency = 0
		copied.Outcomes[i] = outcome
	}
	return &copied
}

// NewArchive captures reports and scale points with a fresh run id.
func NewArchive(now clock.Clock, reports []*evaluation.Report, scale []evaluation.ScalePoint) (*Archive, error) {
	fingerprint, err := Fingerprint(reports, scale)
	if err != nil {
		return nil, err
	}
	return &Archive{
		RunID:       uuid.New(),
		GeneratedAt: now.Now().UTC(),
		Build:       version.Stamp(),
		Reports:     reports,
		Scale:       scale,
		Fingerprint: fingerprint,
	}, nil
}

// FingerprintError reports an archive whose contents no longer match
// its recorded fingerprint.
type FingerprintError struct {
	Recorded string
	Computed string
}

func (e *FingerprintError) Error() string {
	return fmt.Sprintf("report: archive fingerprint mismatch: recorded %s, computed %s", e.Recorded, e.Computed)
}

// Verify recomputes the fingerprint and compares it with the recorded
// one.
func (a *Archive) Verify() error {
	computed, err := Fingerprint(a.Reports, a.Scale)
	if err != nil {
		return err
	}
	if computed != a.Fingerprint {
		return &FingerprintError{Recorded: a.Fingerprint, Computed: computed}
	}
	return nil
}

// Table builds a renderable table from the archive.
func (a *Archive) Table(topConfusions int) *Table {
	return NewTable(a.Reports, a.Scale, topConfusions)
}

// CheckPath reports an error when path does not name an archive
// encoding, so callers can reject a bad path before doing the work.
func CheckPath(path string) error {
	_, _, err := archiveEncoding(path)
	return err
}

// archiveEncoding returns the encoding ("json" or "cbor") and
// compression implied by path.
func archiveEncoding(path string) (string, Compression, error) {
	compression, base := splitCompression(path)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".json":
		return "json", compression, nil
	case ".cbor":
		return "cbor", compression, nil
	}
	return "", "", fmt.Errorf("report: archive %s must end in .json or .cbor, optionally followed by .zst or .lz4", path)
}

// Save writes the archive to path. The file is written to a temporary
// name in the same directory and renamed into place.
func (a *Archive) Save(path string) error {
	encoding, compression, err := archiveEncoding(path)
	if err != nil {
		return err
	}

	var data []byte
	switch encoding {
	case "json":
		data, err = json.MarshalIndent(a, "", "  ")
		data = append(data, '\n')
	case "cbor":
		data, err = codec.Marshal(a)
	}
	if err != nil {
		return fmt.Errorf("report: encoding archive: %w", err)
	}
	data, err = compress(compression, data)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	temporary, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("report: creating archive: %w", err)
	}
	temporaryPath := temporary.Name()
	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("report: writing archive: %w", err)
	}
	if err := temporary.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("report: writing archive: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("report: writing archive: %w", err)
	}
	return nil
}

// Load reads an archive written by Save. It does not verify the
// fingerprint; call [Archive.Verify] for that.
func Load(path string) (*Archive, error) {
	encoding, compression, err := archiveEncoding(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("report: reading archive: %w", err)
	}
	data, err = decompress(compression, data)
	if err != nil {
		return nil, fmt.Errorf("report: %s: %w", path, err)
	}

	var archive Archive
	switch encoding {
	case "json":
		err = json.Unmarshal(data, &archive)
	case "cbor":
		err = codec.Unmarshal(data, &archive)
	}
	if err != nil {
		return nil, fmt.Errorf("report: decoding %s: %w", path, err)
	}
	return &archive, nil
}
