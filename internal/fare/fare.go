package fare

import (
	"errors"
	"time"
)

// Direction identifies one leg of the tracked route.
type Direction string

const (
	Outbound Direction = "outbound"
	Return   Direction = "return"
)

// TimestampLayout is the fixed format used for cycle timestamps everywhere a
// record is logged, plotted, or persisted.
const TimestampLayout = "2006-01-02 15:04:05"

var (
	// ErrNoFares indicates a scrape produced zero price observations for a
	// direction, so no lowest fare exists for this cycle.
	ErrNoFares = errors.New("fare: no fares found")

	// ErrInvalidDelta indicates a fare comparison against an unsound value.
	// A cycle with an invalid delta on either direction is discarded whole.
	ErrInvalidDelta = errors.New("fare: invalid delta comparison")
)

// DeltaKind classifies how the lowest fare moved between consecutive cycles.
type DeltaKind string

const (
	DeltaDecreased     DeltaKind = "decreased"
	DeltaIncreased     DeltaKind = "increased"
	DeltaUnchanged     DeltaKind = "unchanged"
	DeltaNotApplicable DeltaKind = "not-applicable"
)

// Delta is the semantic classification of a fare movement. Amount is the
// dollar distance moved and is positive for both decreased and increased.
type Delta struct {
	Kind   DeltaKind `json:"kind"`
	Amount int64     `json:"amount,omitempty"`
}

// Lowest reduces one direction's scraped price observations to the minimum
// fare. Duplicates are ordinary inputs; an empty batch yields ErrNoFares.
func Lowest(prices []int64) (int64, error) {
	if len(prices) == 0 {
		return 0, ErrNoFares
	}
	min := prices[0]
	for _, p := range prices[1:] {
		if p < min {
			min = p
		}
	}
	return min, nil
}

// Compare classifies the movement from the previous cycle's lowest fare to
// the current one. A nil previous means there is no prior cycle to compare
// against. Fares are positive by construction; a non-positive value on either
// side can only come from a corrupted prior record and invalidates the
// comparison, which the caller must treat as a veto on the whole cycle.
func Compare(previous *int64, current int64) (Delta, error) {
	if current <= 0 {
		return Delta{}, ErrInvalidDelta
	}
	if previous == nil {
		return Delta{Kind: DeltaNotApplicable}, nil
	}
	if *previous <= 0 {
		return Delta{}, ErrInvalidDelta
	}

	diff := *previous - current
	switch {
	case diff > 0:
		return Delta{Kind: DeltaDecreased, Amount: diff}, nil
	case diff < 0:
		return Delta{Kind: DeltaIncreased, Amount: -diff}, nil
	default:
		return Delta{Kind: DeltaUnchanged}, nil
	}
}

// IsDeal reports whether the current cycle qualifies as a deal: a threshold
// is configured and at least one direction's lowest fare is at or below it.
func IsDeal(threshold *int64, outbound, ret int64) bool {
	if threshold == nil {
		return false
	}
	return outbound <= *threshold || ret <= *threshold
}

// CycleRecord is one recorded polling cycle. Records are only ever created
// for cycles where both directions reduced to a lowest fare and both delta
// comparisons were valid.
type CycleRecord struct {
	Timestamp      string `json:"timestamp"`
	OutboundLowest int64  `json:"outbound_lowest"`
	ReturnLowest   int64  `json:"return_lowest"`
	OutboundDelta  Delta  `json:"outbound_delta"`
	ReturnDelta    Delta  `json:"return_delta"`
	Deal           bool   `json:"deal"`
}

// Lowest returns the record's lowest fare for the given direction.
func (r CycleRecord) Lowest(dir Direction) int64 {
	if dir == Return {
		return r.ReturnLowest
	}
	return r.OutboundLowest
}

// Time parses the record's fixed-format timestamp.
func (r CycleRecord) Time() (time.Time, error) {
	return time.Parse(TimestampLayout, r.Timestamp)
}
