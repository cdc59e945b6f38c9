package domain

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/daniil11ru/truck-tracker/cli/tracker/dto/db/out"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	records []out.TrackerRecord
	err     error
}

func (f *fakeReader) GetTrackerRecords(context.Context) ([]out.TrackerRecord, error) {
	return append([]out.TrackerRecord(nil), f.records...), f.err
}

func (f *fakeReader) GetTrackerHistory(_ context.Context, trackerID string) ([]out.TrackerRecord, error) {
	return History(f.records, trackerID), f.err
}

func at(hour int) time.Time {
	return time.Date(2024, 1, 1, hour, 0, 0, 0, time.UTC)
}

func sampleRecords() []out.TrackerRecord {
	return []out.TrackerRecord{
		{ID: 1, TrackerID: "A", Location: "a1", LastUpdate: at(1)},
		{ID: 2, TrackerID: "B", Location: "b1", LastUpdate: at(2)},
		{ID: 3, TrackerID: "A", Location: "a2", LastUpdate: at(5)},
		{ID: 4, TrackerID: "C", Location: "c1", LastUpdate: at(5)},
		{ID: 5, TrackerID: "B", Location: "b2", LastUpdate: at(3)},
		{ID: 6, TrackerID: "A", Location: "a3", LastUpdate: at(4)},
	}
}

func TestListTrackersOrderedByLastUpdateDesc(t *testing.T) {
	d := &ListTrackers{Repository: &fakeReader{records: sampleRecords()}}

	records, err := d.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 6)

	for i := 1; i < len(records); i++ {
		assert.False(t, records[i].LastUpdate.After(records[i-1].LastUpdate), "record %d is newer than record %d", i, i-1)
	}
}

func TestListTrackersPropagatesError(t *testing.T) {
	errDB := errors.New("db down")
	d := &ListTrackers{Repository: &fakeReader{err: errDB}}

	_, err := d.Run(context.Background())
	assert.ErrorIs(t, err, errDB)
}

func TestLatestByTrackerIsOrderIndependent(t *testing.T) {
	expected := []out.TrackerRecord{
		{ID: 3, TrackerID: "A", Location: "a2", LastUpdate: at(5)},
		{ID: 4, TrackerID: "C", Location: "c1", LastUpdate: at(5)},
		{ID: 5, TrackerID: "B", Location: "b2", LastUpdate: at(3)},
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		records := sampleRecords()
		rng.Shuffle(len(records), func(a, b int) { records[a], records[b] = records[b], records[a] })

		assert.Equal(t, expected, LatestByTracker(records))
	}
}

func TestLatestByTrackerTieBreaksOnID(t *testing.T) {
	records := []out.TrackerRecord{
		{ID: 7, TrackerID: "A", Location: "newer row", LastUpdate: at(1)},
		{ID: 2, TrackerID: "A", Location: "older row", LastUpdate: at(1)},
	}

	latest := LatestByTracker(records)
	require.Len(t, latest, 1)
	assert.Equal(t, "newer row", latest[0].Location)
}

func TestGetLatestTrackers(t *testing.T) {
	d := &GetLatestTrackers{Repository: &fakeReader{records: sampleRecords()}}

	latest, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, latest, 3)
}

func TestGetTrackerHistory(t *testing.T) {
	d := &GetTrackerHistory{Repository: &fakeReader{records: sampleRecords()}}

	history, err := d.Run(context.Background(), "A")
	require.NoError(t, err)

	locations := make([]string, 0, len(history))
	for _, r := range history {
		locations = append(locations, r.Location)
	}
	assert.Equal(t, []string{"a2", "a3", "a1"}, locations)

	empty, err := d.Run(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
