package source

import (
	"context"
	"fmt"

	"github.com/daniil11ru/truck-tracker/cli/tracker/dto/db/in/filter"
	"github.com/daniil11ru/truck-tracker/cli/tracker/dto/db/in/insert"
	"github.com/daniil11ru/truck-tracker/cli/tracker/dto/db/out"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const trackerDataTable = "tracker_data"

type DefaultPrimary struct {
	db *gorm.DB
}

func NewDefaultPrimary(dsn string) (*DefaultPrimary, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %v", err)
	}

	return &DefaultPrimary{db: db}, nil
}

func (s *DefaultPrimary) AddTrackerRecord(ctx context.Context, record insert.TrackerRecord) (int64, error) {
	if record.TrackerID == "" || record.Location == "" {
		return 0, fmt.Errorf("идентификатор трекера и адрес не могут быть пустыми")
	}

	const q = `
		INSERT INTO tracker_data (tracker_id, location, latitude, longitude, speed, status, last_update, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	var id int64
	if err := s.db.WithContext(ctx).Raw(q, record.TrackerID, record.Location, record.Latitude, record.Longitude, record.Speed, record.Status, record.LastUpdate, record.Description).Scan(&id).Error; err != nil {
		return 0, err
	}

	return id, nil
}

func (s *DefaultPrimary) GetTrackerRecords(ctx context.Context, filter filter.TrackerRecords) ([]out.TrackerRecord, error) {
	records := []out.TrackerRecord{}

	q := s.db.WithContext(ctx).Table(trackerDataTable).
		Select("id, tracker_id, location, latitude, longitude, speed, status, last_update, description, created_at")

	if filter.TrackerID != nil {
		q = q.Where("tracker_id = ?", *filter.TrackerID)
	}

	if err := q.Order("last_update DESC, id DESC").Scan(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (s *DefaultPrimary) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
