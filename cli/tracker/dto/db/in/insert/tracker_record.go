package insert

import (
	"encoding/json"
	"time"
)

// TrackerRecord нормализованная запись о положении грузовика, готовая к сохранению
type TrackerRecord struct {
	TrackerID   string    `json:"tracker_id"`
	Location    string    `json:"location"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Speed       *float64  `json:"speed"`
	Status      *string   `json:"status"`
	LastUpdate  time.Time `json:"last_update"`
	Description *string   `json:"description"`
}

func (r TrackerRecord) ToBytes() ([]byte, error) {
	return json.Marshal(r)
}
