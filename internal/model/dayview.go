package model

import (
	"time"

	"github.com/google/uuid"
)

// EventSource tells the rendering layer where a day-view event came from.
type EventSource string

const (
	EventSourceRule  EventSource = "rule"
	EventSourceVisit EventSource = "visit"
)

// DayViewRequest identifies one calendar day as weekStart + dayIndex days.
// The caller normalizes weekStart to the Monday of its week.
type DayViewRequest struct {
	WeekStart   string
	DayIndex    int
	ClientID    uuid.UUID
	CaregiverID uuid.UUID
}

// RenderBlock is the display placement of one event inside the day window.
// Offsets are minutes from the window start, clamped; the rendered duration
// is floored at a visible minimum and must not be read as scheduling truth.
// The event's scheduled instants carry the actual interval.
type RenderBlock struct {
	StartOffset int `json:"start_offset"`
	EndOffset   int `json:"end_offset"`
	Lane        int `json:"lane"`
	LaneCount   int `json:"lane_count"`
}

// DayViewEvent is one occurrence or scheduled visit placed on the day view.
type DayViewEvent struct {
	ID             uuid.UUID   `json:"id"`
	Source         EventSource `json:"source"`
	ClientID       uuid.UUID   `json:"client_id"`
	ClientName     string      `json:"client_name"`
	CaregiverID    uuid.UUID   `json:"caregiver_id"`
	CaregiverName  string      `json:"caregiver_name"`
	ScheduledStart time.Time   `json:"scheduled_start"`
	ScheduledEnd   time.Time   `json:"scheduled_end"`
	ServiceCode    *string     `json:"service_code"`
	Notes          *string     `json:"notes"`
	Render         RenderBlock `json:"render"`
}

// DayViewResponse groups events per caregiver so each caregiver renders as
// one column with its own lane count.
type DayViewResponse struct {
	Date        string          `json:"date"`
	WindowStart time.Time       `json:"window_start"`
	WindowEnd   time.Time       `json:"window_end"`
	Events      []DayViewEvent  `json:"events"`
	Columns     []DayViewColumn `json:"columns"`
}

type DayViewColumn struct {
	CaregiverID   uuid.UUID `json:"caregiver_id"`
	CaregiverName string    `json:"caregiver_name"`
	LaneCount     int       `json:"lane_count"`
}
