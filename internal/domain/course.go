package domain

import (
	"time"

	"github.com/google/uuid"
)

// Course is a recurring weekly slot on the club calendar.
type Course struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Weekday   time.Weekday `json:"weekday"`
	// StartTime is the local wall-clock start in "15:04" form.
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	CoachID   uuid.UUID `json:"coachId"`
	Capacity  int       `json:"capacity"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
