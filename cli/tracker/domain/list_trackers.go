package domain

import (
	"context"
	"sort"

	"github.com/daniil11ru/truck-tracker/cli/tracker/dto/db/out"
)

type TrackerRecordsReader interface {
	GetTrackerRecords(ctx context.Context) ([]out.TrackerRecord, error)
	GetTrackerHistory(ctx context.Context, trackerID string) ([]out.TrackerRecord, error)
}

// ListTrackers все сохраненные записи, от новых к старым
type ListTrackers struct {
	Repository TrackerRecordsReader
}

func (d *ListTrackers) Run(ctx context.Context) ([]out.TrackerRecord, error) {
	records, err := d.Repository.GetTrackerRecords(ctx)
	if err != nil {
		return nil, err
	}
	SortByLastUpdateDesc(records)
	return records, nil
}

// GetLatestTrackers последнее состояние каждого трекера
type GetLatestTrackers struct {
	Repository TrackerRecordsReader
}

func (d *GetLatestTrackers) Run(ctx context.Context) ([]out.TrackerRecord, error) {
	records, err := d.Repository.GetTrackerRecords(ctx)
	if err != nil {
		return nil, err
	}
	return LatestByTracker(records), nil
}

// GetTrackerHistory история одного трекера, от новых записей к старым
type GetTrackerHistory struct {
	Repository TrackerRecordsReader
}

func (d *GetTrackerHistory) Run(ctx context.Context, trackerID string) ([]out.TrackerRecord, error) {
	records, err := d.Repository.GetTrackerHistory(ctx, trackerID)
	if err != nil {
		return nil, err
	}
	return History(records, trackerID), nil
}

func newer(a, b out.TrackerRecord) bool {
	if !a.LastUpdate.Equal(b.LastUpdate) {
		return a.LastUpdate.After(b.LastUpdate)
	}
	return a.ID > b.ID
}

func SortByLastUpdateDesc(records []out.TrackerRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return newer(records[i], records[j])
	})
}

// LatestByTracker группирует записи по трекеру и оставляет самую свежую.
// Результат не зависит от порядка входных записей.
func LatestByTracker(records []out.TrackerRecord) []out.TrackerRecord {
	latest := make(map[string]out.TrackerRecord)
	for _, r := range records {
		current, ok := latest[r.TrackerID]
		if !ok || newer(r, current) {
			latest[r.TrackerID] = r
		}
	}

	result := make([]out.TrackerRecord, 0, len(latest))
	for _, r := range latest {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].LastUpdate.Equal(result[j].LastUpdate) {
			return result[i].LastUpdate.After(result[j].LastUpdate)
		}
		return result[i].TrackerID < result[j].TrackerID
	})

	return result
}

// History записи одного трекера, от новых к старым
func History(records []out.TrackerRecord, trackerID string) []out.TrackerRecord {
	result := make([]out.TrackerRecord, 0)
	for _, r := range records {
		if r.TrackerID == trackerID {
			result = append(result, r)
		}
	}
	SortByLastUpdateDesc(result)
	return result
}
