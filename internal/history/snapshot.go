package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"farewatch/internal/fare"
)

// snapshotExt is the required extension for the persistence path. Anything
// else is rejected at startup, before the first cycle runs.
const snapshotExt = ".json"

// Snapshot is the persisted state of a run: the configuration that produced
// the ledger plus every recorded cycle, in insertion order. Delta display
// labels are precomputed at save time so the file is readable on its own.
type Snapshot struct {
	Origin          string           `json:"origin"`
	Destination     string           `json:"destination"`
	OutboundDate    string           `json:"outbound_date"`
	ReturnDate      string           `json:"return_date"`
	Passengers      int              `json:"passengers"`
	DealPrice       int64            `json:"deal_price,omitempty"`
	IntervalMinutes int              `json:"interval_minutes"`
	SavedAt         string           `json:"saved_at,omitempty"`
	Records         []SnapshotRecord `json:"records"`
}

// SnapshotRecord is a persisted cycle: the semantic record plus the
// human-readable delta labels the dashboard rendered for it.
type SnapshotRecord struct {
	fare.CycleRecord
	OutboundDeltaLabel string `json:"outbound_delta_label,omitempty"`
	ReturnDeltaLabel   string `json:"return_delta_label,omitempty"`
}

// CycleRecords strips the persisted display labels, returning the semantic
// records in their original order.
func (s Snapshot) CycleRecords() []fare.CycleRecord {
	out := make([]fare.CycleRecord, 0, len(s.Records))
	for _, rec := range s.Records {
		out = append(out, rec.CycleRecord)
	}
	return out
}

// BuildRecords converts ledger records into their persisted form, computing
// display labels with the given formatter.
func BuildRecords(records []fare.CycleRecord, label func(fare.Delta) string) []SnapshotRecord {
	out := make([]SnapshotRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, SnapshotRecord{
			CycleRecord:        rec,
			OutboundDeltaLabel: label(rec.OutboundDelta),
			ReturnDeltaLabel:   label(rec.ReturnDelta),
		})
	}
	return out
}

// ValidateSnapshotPath enforces the filename convention for the persistence
// file. An empty path disables persistence and is valid.
func ValidateSnapshotPath(path string) error {
	if path == "" {
		return nil
	}
	if !strings.EqualFold(filepath.Ext(path), snapshotExt) {
		return fmt.Errorf("snapshot path %q must have a %s extension", path, snapshotExt)
	}
	return nil
}

// Load reads a snapshot from disk. A missing file is a normal first run and
// returns (nil, nil); an unreadable or unparseable file returns an error the
// caller logs before starting fresh.
func Load(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snap, nil
}

// Save writes the snapshot atomically: serialize to a sibling temp file,
// then rename over the target.
func Save(path string, snap Snapshot) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
