package filter

type TrackerRecords struct {
	TrackerID *string
}
