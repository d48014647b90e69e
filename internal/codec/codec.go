// Package codec serializes batches and workspaces to the textual formats
// the app exchanges with the outside world: JSON export/import envelopes and
// the workspace CSV report.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julinemart/pricer/internal/store"
)

// Import rejection reasons. Callers surface these as distinct user-visible
// errors.
var (
	// ErrNotJSON marks a file that does not parse as JSON at all.
	ErrNotJSON = errors.New("file is not valid JSON")
	// ErrUnrecognizedFormat marks valid JSON whose top-level shape is
	// neither a bulk export nor a single batch.
	ErrUnrecognizedFormat = errors.New("unrecognized export format")
)

type batchEnvelope struct {
	store.Batch
	ExportedAt string `json:"exportedAt"`
	AppVersion string `json:"appVersion"`
}

type bulkEnvelope struct {
	Batches      []store.Batch `json:"batches"`
	ExportedAt   string        `json:"exportedAt"`
	AppVersion   string        `json:"appVersion"`
	TotalBatches int           `json:"totalBatches"`
}

// ExportBatch renders a single batch with the export stamp and version tag
// round-trip import requires.
func ExportBatch(batch store.Batch, appVersion string) ([]byte, error) {
	payload := batchEnvelope{
		Batch:      batch,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		AppVersion: appVersion,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal batch export: %w", err)
	}
	return data, nil
}

// ExportAll renders the whole history as one bulk document.
func ExportAll(batches []store.Batch, appVersion string) ([]byte, error) {
	if batches == nil {
		batches = []store.Batch{}
	}
	payload := bulkEnvelope{
		Batches:      batches,
		ExportedAt:   time.Now().UTC().Format(time.RFC3339),
		AppVersion:   appVersion,
		TotalBatches: len(batches),
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal bulk export: %w", err)
	}
	return data, nil
}

// ParseImport dispatches on the payload's top-level shape: a document with a
// `batches` array is a bulk import, a document with an `items` array is a
// single batch, anything else is rejected. Parsing is all-or-nothing: any
// failure aborts the whole import with no batches returned.
func ParseImport(data []byte) ([]store.Batch, error) {
	if !json.Valid(data) {
		return nil, ErrNotJSON
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		// Valid JSON, but not an object at the top level.
		return nil, ErrUnrecognizedFormat
	}

	if raw, ok := probe["batches"]; ok {
		var batches []store.Batch
		if err := json.Unmarshal(raw, &batches); err != nil {
			return nil, fmt.Errorf("%w: batches is not a batch array", ErrUnrecognizedFormat)
		}
		return batches, nil
	}

	if _, ok := probe["items"]; ok {
		var batch store.Batch
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("%w: single batch fields do not parse", ErrUnrecognizedFormat)
		}
		return []store.Batch{batch}, nil
	}

	return nil, ErrUnrecognizedFormat
}
