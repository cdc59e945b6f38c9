package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/daniil11ru/truck-tracker/cli/tracker/metrics"
	log "github.com/sirupsen/logrus"
)

// Cache хранилище уже найденных адресов
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, address string)
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

type Resolver struct {
	host       string
	userAgent  string
	httpClient *http.Client
	cache      Cache
}

func NewResolver(host, userAgent string, timeout time.Duration, cache Cache) *Resolver {
	return &Resolver{
		host:       strings.TrimRight(host, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
	}
}

// FormatCoordinates строка вида "{lat},{lng}", которая подставляется вместо адреса
func FormatCoordinates(latitude, longitude float64) string {
	return strconv.FormatFloat(latitude, 'f', -1, 64) + "," + strconv.FormatFloat(longitude, 'f', -1, 64)
}

// Resolve всегда возвращает пригодную строку: адрес или координаты при любой ошибке
func (r *Resolver) Resolve(ctx context.Context, latitude, longitude float64) string {
	key := FormatCoordinates(latitude, longitude)

	if r.cache != nil {
		if address, ok := r.cache.Get(ctx, key); ok {
			metrics.GeocodeCacheHits.Inc()
			return address
		}
	}

	address, err := r.lookup(ctx, latitude, longitude)
	if err != nil {
		metrics.GeocodeFallbacks.Inc()
		log.WithFields(log.Fields{"lat": latitude, "lng": longitude, "err": err}).Warn("Не удалось определить адрес по координатам")
		return key
	}

	if r.cache != nil {
		r.cache.Set(ctx, key, address)
	}

	return address
}

func (r *Resolver) lookup(ctx context.Context, latitude, longitude float64) (string, error) {
	metrics.GeocodeLookups.Inc()

	query := url.Values{}
	query.Set("format", "json")
	query.Set("lat", strconv.FormatFloat(latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(longitude, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.host+"/reverse?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("сервис геокодирования вернул статус %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("некорректный ответ сервиса геокодирования: %w", err)
	}
	if body.DisplayName == "" {
		return "", fmt.Errorf("сервис геокодирования не вернул адрес")
	}

	return body.DisplayName, nil
}
