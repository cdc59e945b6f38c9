package repository

import (
	"context"

	"github.com/daniil11ru/truck-tracker/cli/tracker/dto/db/in/filter"
	"github.com/daniil11ru/truck-tracker/cli/tracker/dto/db/in/insert"
	"github.com/daniil11ru/truck-tracker/cli/tracker/dto/db/out"
	"github.com/daniil11ru/truck-tracker/cli/tracker/source"
	"github.com/daniil11ru/truck-tracker/cli/tracker/storage"
	log "github.com/sirupsen/logrus"
)

type TrackerData interface {
	AddTrackerRecord(ctx context.Context, record insert.TrackerRecord) (int64, error)
	GetTrackerRecords(ctx context.Context) ([]out.TrackerRecord, error)
	GetTrackerHistory(ctx context.Context, trackerID string) ([]out.TrackerRecord, error)
}

type TrackerDataDefault struct {
	Source source.Primary
	Mirror storage.Saver
}

func NewTrackerDataDefault(source source.Primary, mirror storage.Saver) *TrackerDataDefault {
	return &TrackerDataDefault{Source: source, Mirror: mirror}
}

// AddTrackerRecord сохраняет запись в основное хранилище и дублирует ее во внешние
func (r *TrackerDataDefault) AddTrackerRecord(ctx context.Context, record insert.TrackerRecord) (int64, error) {
	id, err := r.Source.AddTrackerRecord(ctx, record)
	if err != nil {
		return 0, err
	}

	if r.Mirror != nil {
		if err := r.Mirror.Save(record); err != nil {
			log.WithFields(log.Fields{"tracker_id": record.TrackerID, "err": err}).Warn("Не удалось передать запись во внешние хранилища")
		}
	}

	return id, nil
}

func (r *TrackerDataDefault) GetTrackerRecords(ctx context.Context) ([]out.TrackerRecord, error) {
	return r.Source.GetTrackerRecords(ctx, filter.TrackerRecords{})
}

func (r *TrackerDataDefault) GetTrackerHistory(ctx context.Context, trackerID string) ([]out.TrackerRecord, error) {
	return r.Source.GetTrackerRecords(ctx, filter.TrackerRecords{TrackerID: &trackerID})
}
