package source

import (
	"context"

	"github.com/daniil11ru/truck-tracker/cli/tracker/dto/db/in/filter"
	"github.com/daniil11ru/truck-tracker/cli/tracker/dto/db/in/insert"
	"github.com/daniil11ru/truck-tracker/cli/tracker/dto/db/out"
)

type Primary interface {
	AddTrackerRecord(ctx context.Context, record insert.TrackerRecord) (int64, error)
	GetTrackerRecords(ctx context.Context, filter filter.TrackerRecords) ([]out.TrackerRecord, error)
	Close() error
}
