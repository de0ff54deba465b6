// Package models provides the typed record definitions for StudyHub.
// Every entity kind shares the same base shape (server-assigned id plus
// created/updated timestamps) with a kind-specific field set.
package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// UUID is a wrapper around string for UUID v4 type safety.
type UUID string

// Value implements driver.Valuer for UUID.
func (u UUID) Value() (driver.Value, error) {
	return string(u), nil
}

// Scan implements sql.Scanner for UUID.
func (u *UUID) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*u = ""
	case string:
		*u = UUID(v)
	case []byte:
		*u = UUID(v)
	default:
		return fmt.Errorf("cannot scan %T into UUID", value)
	}
	return nil
}

// String returns the string representation of the UUID.
func (u UUID) String() string {
	return string(u)
}

// Base carries the fields common to every record. The store assigns
// ID and the timestamps on create; clients treat them as read-only.
type Base struct {
	ID        UUID  `json:"id,omitempty"`
	CreatedAt int64 `json:"createdAt,omitempty"`
	UpdatedAt int64 `json:"updatedAt,omitempty"`
}

// GetID returns the record id.
func (b Base) GetID() UUID {
	return b.ID
}

// CreatedAtTime returns CreatedAt as time.Time.
func (b Base) CreatedAtTime() time.Time {
	return time.Unix(b.CreatedAt, 0)
}

// UpdatedAtTime returns UpdatedAt as time.Time.
func (b Base) UpdatedAtTime() time.Time {
	return time.Unix(b.UpdatedAt, 0)
}

// Touch updates the UpdatedAt timestamp.
func (b *Base) Touch() {
	b.UpdatedAt = time.Now().Unix()
}

// Record is implemented by every entity kind.
type Record interface {
	GetID() UUID
	Kind() string
}

// Collection names, one per entity kind.
const (
	KindNote          = "notes"
	KindSubject       = "subjects"
	KindFlashcardDeck = "decks"
	KindFlashcard     = "flashcards"
	KindScheduleEvent = "events"
	KindTodo          = "todos"
	KindStudySession  = "studysessions"
	KindProject       = "projects"
	KindDocument      = "documents"
	KindResume        = "resumes"
	KindPortfolio     = "portfolios"
	KindResearchPaper = "papers"
	KindScholarship   = "scholarships"
	KindTemplate      = "templates"
	KindCodeSnippet   = "snippets"
	KindQuestionBank  = "questionbanks"
	KindGroup         = "groups"
	KindPost          = "posts"
	KindUser          = "users"
)

var kinds = map[string]bool{
	KindNote:          true,
	KindSubject:       true,
	KindFlashcardDeck: true,
	KindFlashcard:     true,
	KindScheduleEvent: true,
	KindTodo:          true,
	KindStudySession:  true,
	KindProject:       true,
	KindDocument:      true,
	KindResume:        true,
	KindPortfolio:     true,
	KindResearchPaper: true,
	KindScholarship:   true,
	KindTemplate:      true,
	KindCodeSnippet:   true,
	KindQuestionBank:  true,
	KindGroup:         true,
	KindPost:          true,
	KindUser:          true,
}

// KnownKind reports whether kind names a registered collection.
func KnownKind(kind string) bool {
	return kinds[kind]
}

// Kinds returns all registered collection names.
func Kinds() []string {
	out := make([]string, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	return out
}
