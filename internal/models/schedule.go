package models

// EventType classifies a schedule entry.
type EventType string

const (
	EventClass      EventType = "class"
	EventStudy      EventType = "study"
	EventAssignment EventType = "assignment"
	EventExam       EventType = "exam"
	EventBreak      EventType = "break"
)

// ValidEventType reports whether t is a known event type.
func ValidEventType(t EventType) bool {
	switch t {
	case EventClass, EventStudy, EventAssignment, EventExam, EventBreak:
		return true
	}
	return false
}

// ScheduleEvent is a calendar entry. Date uses the form 2006-01-02;
// StartTime and EndTime are unix instants.
type ScheduleEvent struct {
	Base
	Title     string    `json:"title"`
	Type      EventType `json:"type"`
	Date      string    `json:"date"`
	StartTime int64     `json:"startTime"`
	EndTime   int64     `json:"endTime"`
	SubjectID UUID      `json:"subjectId,omitempty"`
}

// Kind returns the collection name for ScheduleEvent.
func (ScheduleEvent) Kind() string {
	return KindScheduleEvent
}
