package models

// SessionType distinguishes focus periods from breaks.
type SessionType string

const (
	SessionFocus SessionType = "focus"
	SessionBreak SessionType = "break"
)

// StudySession is the persisted result of a completed focus period.
// Duration is in whole minutes; Date uses the form 2006-01-02.
type StudySession struct {
	Base
	SubjectID       UUID        `json:"subjectId,omitempty"`
	Type            SessionType `json:"type"`
	Duration        int         `json:"duration"`
	PlannedDuration int         `json:"plannedDuration,omitempty"`
	StartTime       int64       `json:"startTime"`
	EndTime         int64       `json:"endTime"`
	Completed       bool        `json:"completed"`
	Date            string      `json:"date"`
}

// Kind returns the collection name for StudySession.
func (StudySession) Kind() string {
	return KindStudySession
}
