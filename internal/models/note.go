package models

// Note represents a study note, optionally pinned and tagged, linked to
// a subject by foreign key. Orphaned subject references are tolerated.
type Note struct {
	Base
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	SubjectID UUID     `json:"subjectId,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	IsPinned  bool     `json:"isPinned"`
}

// Kind returns the collection name for Note.
func (Note) Kind() string {
	return KindNote
}

// SearchFields returns the fields matched by substring search.
func (n Note) SearchFields() []string {
	fields := []string{n.Title, n.Content}
	fields = append(fields, n.Tags...)
	return fields
}
