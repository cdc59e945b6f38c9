package api

import (
	"context"
	"net/http"

	"github.com/daniil11ru/truck-tracker/cli/tracker/api/dto/response"
	"github.com/daniil11ru/truck-tracker/cli/tracker/dto/db/out"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	internalServerError = "Internal server error"
	refreshSucceeded    = "Data refreshed from telemetry API"
	refreshFailed       = "Failed to refresh data"
)

type TrackersReader interface {
	Run(ctx context.Context) ([]out.TrackerRecord, error)
}

type TrackerHistoryReader interface {
	Run(ctx context.Context, trackerID string) ([]out.TrackerRecord, error)
}

type Refresher interface {
	Trigger(ctx context.Context) ([]interface{}, error)
}

type Handler struct {
	ListTrackers      TrackersReader
	GetLatestTrackers TrackersReader
	GetTrackerHistory TrackerHistoryReader
	Refresher         Refresher
}

func NewHandler(listTrackers, getLatestTrackers TrackersReader, getTrackerHistory TrackerHistoryReader, refresher Refresher) *Handler {
	return &Handler{
		ListTrackers:      listTrackers,
		GetLatestTrackers: getLatestTrackers,
		GetTrackerHistory: getTrackerHistory,
		Refresher:         refresher,
	}
}

func (h *Handler) GetTrackers(c *gin.Context) {
	h.respondRecords(c, h.ListTrackers)
}

func (h *Handler) GetLatest(c *gin.Context) {
	h.respondRecords(c, h.GetLatestTrackers)
}

func (h *Handler) respondRecords(c *gin.Context, reader TrackersReader) {
	records, err := reader.Run(c.Request.Context())
	if err != nil {
		log.WithFields(log.Fields{"path": c.FullPath(), "err": err}).Error("Ошибка получения данных трекеров")
		c.JSON(http.StatusInternalServerError, response.Error{Error: internalServerError})
		return
	}
	if records == nil {
		records = []out.TrackerRecord{}
	}

	c.JSON(http.StatusOK, records)
}

func (h *Handler) GetHistory(c *gin.Context) {
	trackerID := c.Param("tracker_id")

	records, err := h.GetTrackerHistory.Run(c.Request.Context(), trackerID)
	if err != nil {
		log.WithFields(log.Fields{"tracker_id": trackerID, "err": err}).Error("Ошибка получения истории трекера")
		c.JSON(http.StatusInternalServerError, response.Error{Error: internalServerError})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, response.Error{Error: "Tracker not found"})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *Handler) Refresh(c *gin.Context) {
	data, err := h.Refresher.Trigger(c.Request.Context())
	if err != nil {
		log.WithField("err", err).Error("Ошибка обновления данных по запросу")
		c.JSON(http.StatusInternalServerError, response.RefreshFailed{
			Success: false,
			Message: refreshFailed,
			Error:   err.Error(),
		})
		return
	}
	if data == nil {
		data = []interface{}{}
	}

	c.JSON(http.StatusOK, response.RefreshSucceeded{
		Success: true,
		Message: refreshSucceeded,
		Data:    data,
	})
}
