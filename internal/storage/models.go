package storage

import (
	"time"

	"farewatch/internal/fare"
)

// ArchivedCycle is one recorded polling cycle as stored in the optional
// Postgres archive.
type ArchivedCycle struct {
	ID             int64
	ObservedAt     time.Time
	Origin         string
	Destination    string
	OutboundLowest int64
	ReturnLowest   int64
	OutboundDelta  fare.Delta
	ReturnDelta    fare.Delta
	Deal           bool
	CreatedAt      time.Time
}
