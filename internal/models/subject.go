package models

// Subject is a lightweight tag referenced by notes, decks, events and
// todos. Deleting a subject does not cascade.
type Subject struct {
	Base
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Kind returns the collection name for Subject.
func (Subject) Kind() string {
	return KindSubject
}
