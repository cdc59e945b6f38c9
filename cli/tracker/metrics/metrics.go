package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	CycleSucceeded = "succeeded"
	CycleFailed    = "failed"

	RecordAccepted         = "accepted"
	RecordMissingTrackerID = "missing_tracker_id"
	RecordMissingLocation  = "missing_location"
	RecordNotAnObject      = "not_an_object"
	RecordPersistFailed    = "persist_failed"

	TriggerStartup  = "startup"
	TriggerSchedule = "schedule"
	TriggerOnDemand = "on_demand"
)

var (
	Cycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_ingestion_cycles_total",
		Help: "Ingestion cycles by result",
	}, []string{"result"})
	CyclesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_ingestion_cycles_skipped_total",
		Help: "Triggers dropped because a cycle was already running",
	}, []string{"trigger"})
	Records = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_ingestion_records_total",
		Help: "Upstream entries by outcome",
	}, []string{"outcome"})
	GeocodeLookups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracker_geocode_lookups_total",
		Help: "Reverse geocoding requests sent upstream",
	})
	GeocodeCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracker_geocode_cache_hits_total",
		Help: "Reverse geocoding answers served from cache",
	})
	GeocodeFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracker_geocode_fallbacks_total",
		Help: "Locations replaced by the coordinate string",
	})
	MirrorDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracker_mirror_dropped_total",
		Help: "Records not mirrored because the mirror buffer was full",
	})
	CycleLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tracker_ingestion_cycle_seconds",
		Help:    "Duration of one ingestion cycle",
		Buckets: prometheus.DefBuckets,
	})
)

func ObserveCycleLatency(start time.Time) {
	CycleLatency.Observe(time.Since(start).Seconds())
}
