package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"farewatch/internal/fare"
)

func testLabel(d fare.Delta) string {
	return fmt.Sprintf("%s/%d", d.Kind, d.Amount)
}

func testSnapshot() Snapshot {
	records := []fare.CycleRecord{
		{
			Timestamp:      "2026-08-25 10:00:00",
			OutboundLowest: 250,
			ReturnLowest:   299,
			OutboundDelta:  fare.Delta{Kind: fare.DeltaNotApplicable},
			ReturnDelta:    fare.Delta{Kind: fare.DeltaNotApplicable},
		},
		{
			Timestamp:      "2026-08-25 10:30:00",
			OutboundLowest: 200,
			ReturnLowest:   299,
			OutboundDelta:  fare.Delta{Kind: fare.DeltaDecreased, Amount: 50},
			ReturnDelta:    fare.Delta{Kind: fare.DeltaUnchanged},
			Deal:           true,
		},
	}
	return Snapshot{
		Origin:          "OAK",
		Destination:     "DAL",
		OutboundDate:    "2026-09-10",
		ReturnDate:      "2026-09-14",
		Passengers:      1,
		DealPrice:       220,
		IntervalMinutes: 30,
		Records:         BuildRecords(records, testLabel),
	}
}

func TestValidateSnapshotPath(t *testing.T) {
	require.NoError(t, ValidateSnapshotPath(""))
	require.NoError(t, ValidateSnapshotPath("fares.json"))
	require.NoError(t, ValidateSnapshotPath("FARES.JSON"))
	require.Error(t, ValidateSnapshotPath("fares.txt"))
	require.Error(t, ValidateSnapshotPath("fares"))
	require.Error(t, ValidateSnapshotPath("fares.json.bak"))
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fares.json")
	want := testSnapshot()

	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, want, *got)

	// The temp file used for the atomic write must not linger.
	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}

func TestSnapshotLabelsPersisted(t *testing.T) {
	snap := testSnapshot()
	require.Equal(t, "not-applicable/0", snap.Records[0].OutboundDeltaLabel)
	require.Equal(t, "decreased/50", snap.Records[1].OutboundDeltaLabel)
	require.Equal(t, "unchanged/0", snap.Records[1].ReturnDeltaLabel)
}

func TestLoadMissingIsFreshStart(t *testing.T) {
	snap, err := Load(filepath.Join(t.TempDir(), "nothing.json"))
	require.NoError(t, err)
	require.Nil(t, snap)
}

func TestLoadCorruptReportsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fares.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	snap, err := Load(path)
	require.Error(t, err)
	require.Nil(t, snap)
}

func TestSaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "fares.json")
	require.NoError(t, Save(path, testSnapshot()))

	got, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Records, 2)
}
