package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

func testNormalizer() Normalizer {
	return Normalizer{Now: func() time.Time { return fixedNow }}
}

func TestFieldChainFirst(t *testing.T) {
	tests := []struct {
		name     string
		chain    FieldChain
		raw      RawRecord
		expected interface{}
		found    bool
	}{
		{name: "First alias wins", chain: TrackerIDChain, raw: RawRecord{"id": "A", "deviceId": "B", "tracker_id": "C"}, expected: "A", found: true},
		{name: "Second alias", chain: TrackerIDChain, raw: RawRecord{"deviceId": "B", "tracker_id": "C"}, expected: "B", found: true},
		{name: "Third alias", chain: TrackerIDChain, raw: RawRecord{"tracker_id": "C"}, expected: "C", found: true},
		{name: "Null skipped", chain: TrackerIDChain, raw: RawRecord{"id": nil, "deviceId": "B"}, expected: "B", found: true},
		{name: "Empty string skipped", chain: TrackerIDChain, raw: RawRecord{"id": "", "tracker_id": "C"}, expected: "C", found: true},
		{name: "Zero skipped", chain: TrackerIDChain, raw: RawRecord{"id": json.Number("0"), "deviceId": "B"}, expected: "B", found: true},
		{name: "False skipped", chain: StatusChain, raw: RawRecord{"status": false, "state": "moving"}, expected: "moving", found: true},
		{name: "Nothing present", chain: TrackerIDChain, raw: RawRecord{"name": "truck"}, found: false},
		{name: "Timestamp order", chain: LastUpdateChain, raw: RawRecord{"lastUpdate": "x", "last_update": "y", "utcDate": "z"}, expected: "z", found: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := tt.chain.First(tt.raw)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestNormalizeFullRecord(t *testing.T) {
	raw := RawRecord{
		"deviceId":    json.Number("4711"),
		"latitude":    json.Number("55.75"),
		"longitude":   "37.62",
		"speed":       json.Number("62.5"),
		"state":       "moving",
		"lastUpdate":  "2024-05-01T10:20:30.5+03:00",
		"description": "Volvo FH16",
	}

	n, err := testNormalizer().Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, "4711", n.Record.TrackerID)
	assert.True(t, n.HasCoordinates)
	assert.Equal(t, 55.75, n.Latitude)
	assert.Equal(t, 37.62, n.Longitude)
	require.NotNil(t, n.Record.Latitude)
	assert.Equal(t, 55.75, *n.Record.Latitude)
	require.NotNil(t, n.Record.Speed)
	assert.Equal(t, 62.5, *n.Record.Speed)
	require.NotNil(t, n.Record.Status)
	assert.Equal(t, "moving", *n.Record.Status)
	require.NotNil(t, n.Record.Description)
	assert.Equal(t, "Volvo FH16", *n.Record.Description)
	assert.Equal(t, time.Date(2024, 5, 1, 7, 20, 30, 500000000, time.UTC), n.Record.LastUpdate)
	assert.Empty(t, n.Record.Location)
	assert.Nil(t, n.InvalidLastUpdate)
}

func TestNormalizeMissingTrackerID(t *testing.T) {
	_, err := testNormalizer().Normalize(RawRecord{"latitude": json.Number("10"), "longitude": json.Number("20")})
	assert.ErrorIs(t, err, ErrMissingTrackerID)
}

func TestNormalizeOptionalFieldsDefaultToNull(t *testing.T) {
	n, err := testNormalizer().Normalize(RawRecord{"id": "T1", "speed": json.Number("0")})
	require.NoError(t, err)

	assert.False(t, n.HasCoordinates)
	assert.Nil(t, n.Record.Latitude)
	assert.Nil(t, n.Record.Longitude)
	assert.Nil(t, n.Record.Speed)
	assert.Nil(t, n.Record.Status)
	assert.Nil(t, n.Record.Description)
	assert.Equal(t, fixedNow, n.Record.LastUpdate)
}

func TestNormalizeCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		raw      RawRecord
		expected bool
	}{
		{name: "Both numbers", raw: RawRecord{"id": "T1", "latitude": json.Number("10"), "longitude": json.Number("20")}, expected: true},
		{name: "Numeric strings", raw: RawRecord{"id": "T1", "latitude": "10.1", "longitude": " 20.2 "}, expected: true},
		{name: "Missing longitude", raw: RawRecord{"id": "T1", "latitude": json.Number("10")}, expected: false},
		{name: "Zero latitude", raw: RawRecord{"id": "T1", "latitude": json.Number("0"), "longitude": json.Number("20")}, expected: false},
		{name: "Null longitude", raw: RawRecord{"id": "T1", "latitude": json.Number("10"), "longitude": nil}, expected: false},
		{name: "Not a number", raw: RawRecord{"id": "T1", "latitude": "north", "longitude": json.Number("20")}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := testNormalizer().Normalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n.HasCoordinates)
		})
	}
}

func TestNormalizeLastUpdate(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected time.Time
		invalid  bool
	}{
		{name: "RFC 3339", value: "2024-01-01T00:00:00Z", expected: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Without zone", value: "2024-01-01T12:30:00", expected: time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)},
		{name: "Space separated", value: "2024-01-01 12:30:00", expected: time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)},
		{name: "Epoch seconds", value: json.Number("1704067200"), expected: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Epoch milliseconds", value: json.Number("1704067200000"), expected: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Garbage", value: "yesterday", expected: fixedNow, invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := testNormalizer().Normalize(RawRecord{"id": "T1", "utcDate": tt.value})
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(n.Record.LastUpdate), "got %s", n.Record.LastUpdate)
			if tt.invalid {
				assert.Equal(t, tt.value, n.InvalidLastUpdate)
			} else {
				assert.Nil(t, n.InvalidLastUpdate)
			}
		})
	}
}

func TestNormalizeNonStringValuesRenderedAsText(t *testing.T) {
	n, err := testNormalizer().Normalize(RawRecord{"tracker_id": json.Number("77"), "status": json.Number("3")})
	require.NoError(t, err)

	assert.Equal(t, "77", n.Record.TrackerID)
	require.NotNil(t, n.Record.Status)
	assert.Equal(t, "3", *n.Record.Status)
}
