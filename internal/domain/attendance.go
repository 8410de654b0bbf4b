package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceSheet records who showed up for one dated occurrence of a course.
type AttendanceSheet struct {
	ID        uuid.UUID         `json:"id"`
	CourseID  uuid.UUID         `json:"courseId"`
	Date      time.Time         `json:"date"`
	Entries   []AttendanceEntry `json:"entries"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// AttendanceEntry marks a single member present or absent on a sheet.
type AttendanceEntry struct {
	MemberID uuid.UUID `json:"memberId"`
	Present  bool      `json:"present"`
}
