// Package history owns the ordered ledger of recorded polling cycles and its
// persisted JSON snapshot form.
package history

import "farewatch/internal/fare"

// Ledger is the append-only, insertion-ordered sequence of recorded cycles.
// The polling service is its only writer; updates happen strictly within one
// cycle's single-threaded execution.
type Ledger struct {
	records []fare.CycleRecord
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append adds a recorded cycle to the end of the ledger.
func (l *Ledger) Append(rec fare.CycleRecord) {
	l.records = append(l.records, rec)
}

// LastLowest returns the most recently recorded lowest fare for a direction,
// or nil when nothing has been recorded yet. This is the comparison baseline
// for the next cycle's delta.
func (l *Ledger) LastLowest(dir fare.Direction) *int64 {
	if len(l.records) == 0 {
		return nil
	}
	last := l.records[len(l.records)-1].Lowest(dir)
	return &last
}

// Records returns a copy of the ledger in insertion order.
func (l *Ledger) Records() []fare.CycleRecord {
	out := make([]fare.CycleRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len reports the number of recorded cycles.
func (l *Ledger) Len() int {
	return len(l.records)
}
