package model

import "time"

// DateLayout is the wire format for task dates. Dates in this layout
// compare chronologically as plain strings.
const DateLayout = "2006-01-02"

// TimeLayout is the wire format for assigned times.
const TimeLayout = "15:04:05"

// Repeat patterns understood by the recurrence calculator. For the
// EVERY_X kinds RepeatDuration is an interval count; for
// SPECIFIC_WEEKDAYS it is a 7-bit mask with Monday at bit 6 and Sunday
// at bit 0.
const (
	RepeatNone             = "NONE"
	RepeatEveryXDays       = "EVERY_X_DAYS"
	RepeatEveryXWeeks      = "EVERY_X_WEEKS"
	RepeatEveryXMonths     = "EVERY_X_MONTHS"
	RepeatSpecificWeekdays = "SPECIFIC_WEEKDAYS"
)

// Task represents a single item in the planner. TaskDate is the bucket
// key and DayOrder the 1-based rank inside that bucket.
type Task struct {
	ID             int64   `gorm:"primaryKey" json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	TaskDate       string  `gorm:"index" json:"taskDate"`
	DayOrder       int     `json:"dayOrder"`
	Priority       int     `json:"priority"`
	Complete       bool    `gorm:"default:false" json:"complete"`
	RepeatType     string  `gorm:"default:NONE" json:"repeatType"`
	RepeatDuration int     `json:"repeatDuration"`
	AssignedTime   *string `json:"assignedTime"`
	InProgress     bool    `gorm:"default:false" json:"inProgress"`
	LongTerm       bool    `gorm:"default:false" json:"longTerm"`
	TimeTaken      int64   `json:"timeTaken"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Repeats reports whether completing the task should schedule a
// successor occurrence.
func (t Task) Repeats() bool {
	return t.RepeatType != "" && t.RepeatType != RepeatNone
}
