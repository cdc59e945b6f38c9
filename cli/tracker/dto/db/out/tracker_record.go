package out

import "time"

type TrackerRecord struct {
	ID          int64     `json:"id" gorm:"column:id"`
	TrackerID   string    `json:"tracker_id" gorm:"column:tracker_id"`
	Location    string    `json:"location" gorm:"column:location"`
	Latitude    *float64  `json:"latitude" gorm:"column:latitude"`
	Longitude   *float64  `json:"longitude" gorm:"column:longitude"`
	Speed       *float64  `json:"speed" gorm:"column:speed"`
	Status      *string   `json:"status" gorm:"column:status"`
	LastUpdate  time.Time `json:"last_update" gorm:"column:last_update"`
	Description *string   `json:"description" gorm:"column:description"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
}
