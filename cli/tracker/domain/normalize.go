package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/daniil11ru/truck-tracker/cli/tracker/dto/db/in/insert"
)

var (
	ErrMissingTrackerID = errors.New("не найден идентификатор трекера")
	ErrMissingLocation  = errors.New("не удалось определить адрес")
	ErrNotAnObject      = errors.New("запись не является объектом")
)

// RawRecord запись API телеметрии в исходном виде
type RawRecord map[string]interface{}

// FieldChain упорядоченный список синонимов одного поля
type FieldChain []string

var (
	TrackerIDChain   = FieldChain{"id", "deviceId", "tracker_id"}
	LastUpdateChain  = FieldChain{"utcDate", "last_update", "lastUpdate"}
	SpeedChain       = FieldChain{"speed"}
	StatusChain      = FieldChain{"status", "state"}
	DescriptionChain = FieldChain{"description"}
	LatitudeChain    = FieldChain{"latitude"}
	LongitudeChain   = FieldChain{"longitude"}
)

// First возвращает первое заполненное значение из цепочки
func (c FieldChain) First(raw RawRecord) (interface{}, bool) {
	for _, name := range c {
		if v, ok := raw[name]; ok && isPresent(v) {
			return v, true
		}
	}
	return nil, false
}

// isPresent: null, "", false и 0 считаются отсутствующими значениями
func isPresent(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func asFloat(v interface{}) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case float64:
		f = t
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

func fromEpoch(f float64) time.Time {
	if math.Abs(f) > 1e12 {
		return time.UnixMilli(int64(f)).UTC()
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

func asTime(v interface{}) (time.Time, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
	}
	if f, ok := asFloat(v); ok {
		return fromEpoch(f), true
	}
	return time.Time{}, false
}

// Normalized запись, приведенная к каноническому виду, пока без адреса
type Normalized struct {
	Record         insert.TrackerRecord
	Latitude       float64
	Longitude      float64
	HasCoordinates bool
	// InvalidLastUpdate исходное значение времени, которое не удалось разобрать
	InvalidLastUpdate interface{}
}

type Normalizer struct {
	Now func() time.Time
}

func (n Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now().UTC()
	}
	return time.Now().UTC()
}

// TrackerID идентификатор трекера по цепочке синонимов
func (n Normalizer) TrackerID(raw RawRecord) (string, error) {
	v, ok := TrackerIDChain.First(raw)
	if !ok {
		return "", ErrMissingTrackerID
	}
	return asString(v), nil
}

// Normalize не обращается к внешним сервисам; адрес заполняет вызывающий код
func (n Normalizer) Normalize(raw RawRecord) (Normalized, error) {
	trackerID, err := n.TrackerID(raw)
	if err != nil {
		return Normalized{}, err
	}

	result := Normalized{Record: insert.TrackerRecord{TrackerID: trackerID}}

	latRaw, hasLat := LatitudeChain.First(raw)
	lngRaw, hasLng := LongitudeChain.First(raw)
	if hasLat && hasLng {
		lat, latOk := asFloat(latRaw)
		lng, lngOk := asFloat(lngRaw)
		if latOk && lngOk {
			result.Latitude, result.Longitude, result.HasCoordinates = lat, lng, true
			result.Record.Latitude = &lat
			result.Record.Longitude = &lng
		}
	}

	if v, ok := SpeedChain.First(raw); ok {
		if speed, ok := asFloat(v); ok {
			result.Record.Speed = &speed
		}
	}

	if v, ok := StatusChain.First(raw); ok {
		status := asString(v)
		result.Record.Status = &status
	}

	if v, ok := DescriptionChain.First(raw); ok {
		description := asString(v)
		result.Record.Description = &description
	}

	result.Record.LastUpdate = n.now()
	if v, ok := LastUpdateChain.First(raw); ok {
		if t, ok := asTime(v); ok {
			result.Record.LastUpdate = t
		} else {
			result.InvalidLastUpdate = v
		}
	}

	return result, nil
}
