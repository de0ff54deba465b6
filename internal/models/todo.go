package models

// Priority orders todos by urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ValidPriority reports whether p is a known priority.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Todo is a task with an optional due date. CompletedAt is set exactly
// when Completed transitions false to true and cleared on the reverse
// transition; the JSON null round-trips through the store.
type Todo struct {
	Base
	Title       string   `json:"title"`
	Completed   bool     `json:"completed"`
	CompletedAt *int64   `json:"completedAt"`
	Priority    Priority `json:"priority"`
	DueDate     string   `json:"dueDate,omitempty"`
}

// Kind returns the collection name for Todo.
func (Todo) Kind() string {
	return KindTodo
}

// SetCompleted flips the completion flag, maintaining CompletedAt:
// stamped on false->true, cleared on true->false, untouched otherwise.
func (t *Todo) SetCompleted(completed bool, now int64) {
	if completed && !t.Completed {
		t.CompletedAt = &now
	} else if !completed && t.Completed {
		t.CompletedAt = nil
	}
	t.Completed = completed
}
