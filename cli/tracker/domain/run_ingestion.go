package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/daniil11ru/truck-tracker/cli/tracker/dto/db/in/insert"
	"github.com/daniil11ru/truck-tracker/cli/tracker/metrics"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type TelemetrySource interface {
	Fetch(ctx context.Context) ([]byte, error)
}

type Geocoder interface {
	Resolve(ctx context.Context, latitude, longitude float64) string
}

type TrackerRecordSaver interface {
	AddTrackerRecord(ctx context.Context, record insert.TrackerRecord) (int64, error)
}

// CycleReport итоги одного цикла загрузки
type CycleReport struct {
	Shape    PayloadShape
	Entries  int
	Accepted int
	Rejected int
	Failed   int
}

type RunIngestion struct {
	Telemetry  TelemetrySource
	Geocoder   Geocoder
	Repository TrackerRecordSaver
	Normalizer Normalizer
}

// Run выполняет один цикл загрузки и возвращает все полученные записи до фильтрации.
// Ошибка возвращается только если не удалось получить или разобрать ответ API телеметрии.
func (d *RunIngestion) Run(ctx context.Context) ([]interface{}, error) {
	start := time.Now()
	defer metrics.ObserveCycleLatency(start)

	logger := log.WithField("cycle", uuid.NewString())

	payload, err := d.fetch(ctx)
	if err != nil {
		metrics.Cycles.WithLabelValues(metrics.CycleFailed).Inc()
		logger.WithField("err", err).Error("Ошибка получения данных из API телеметрии")
		return nil, err
	}

	report := CycleReport{Shape: payload.Shape, Entries: len(payload.Entries)}
	for i, entry := range payload.Entries {
		if err := ctx.Err(); err != nil {
			metrics.Cycles.WithLabelValues(metrics.CycleFailed).Inc()
			logger.WithFields(log.Fields{"processed": i, "err": err}).Warn("Цикл загрузки прерван")
			return nil, fmt.Errorf("цикл загрузки прерван: %w", err)
		}
		d.ingest(ctx, logger.WithField("entry", i), entry, &report)
	}

	metrics.Cycles.WithLabelValues(metrics.CycleSucceeded).Inc()
	logger.WithFields(log.Fields{
		"shape":    report.Shape.String(),
		"entries":  report.Entries,
		"accepted": report.Accepted,
		"rejected": report.Rejected,
		"failed":   report.Failed,
		"duration": time.Since(start).String(),
	}).Info("Цикл загрузки завершен")

	return payload.Entries, nil
}

func (d *RunIngestion) fetch(ctx context.Context) (Payload, error) {
	body, err := d.Telemetry.Fetch(ctx)
	if err != nil {
		return Payload{}, fmt.Errorf("не удалось получить данные телеметрии: %w", err)
	}
	log.WithField("body", string(body)).Debug("Ответ API телеметрии")

	return DecodePayload(body)
}

func (d *RunIngestion) reject(logger *log.Entry, reason error, outcome string, entry interface{}, report *CycleReport) {
	report.Rejected++
	metrics.Records.WithLabelValues(outcome).Inc()
	logger.WithFields(log.Fields{"reason": reason, "truck": entry}).Error("Запись пропущена")
}

func (d *RunIngestion) ingest(ctx context.Context, logger *log.Entry, entry interface{}, report *CycleReport) {
	object, ok := entry.(map[string]interface{})
	if !ok {
		d.reject(logger, ErrNotAnObject, metrics.RecordNotAnObject, entry, report)
		return
	}
	raw := RawRecord(object)

	normalized, err := d.Normalizer.Normalize(raw)
	if err != nil {
		d.reject(logger, err, metrics.RecordMissingTrackerID, entry, report)
		return
	}
	logger = logger.WithField("tracker_id", normalized.Record.TrackerID)

	if !normalized.HasCoordinates {
		d.reject(logger, ErrMissingLocation, metrics.RecordMissingLocation, entry, report)
		return
	}

	normalized.Record.Location = d.Geocoder.Resolve(ctx, normalized.Latitude, normalized.Longitude)
	if normalized.Record.Location == "" {
		d.reject(logger, ErrMissingLocation, metrics.RecordMissingLocation, entry, report)
		return
	}

	if normalized.InvalidLastUpdate != nil {
		logger.WithField("last_update", normalized.InvalidLastUpdate).Warn("Не удалось разобрать время обновления, используется текущее")
	}

	if _, err := d.Repository.AddTrackerRecord(ctx, normalized.Record); err != nil {
		report.Failed++
		metrics.Records.WithLabelValues(metrics.RecordPersistFailed).Inc()
		logger.WithField("err", err).Error("Ошибка сохранения записи")
		return
	}

	report.Accepted++
	metrics.Records.WithLabelValues(metrics.RecordAccepted).Inc()
}
