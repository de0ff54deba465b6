package models

// Project tracks a piece of coursework or a personal project.
type Project struct {
	Base
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	SubjectID   UUID   `json:"subjectId,omitempty"`
}

// Kind returns the collection name for Project.
func (Project) Kind() string {
	return KindProject
}

// Document references an uploaded file (lecture slides, scanned notes).
type Document struct {
	Base
	Title     string `json:"title"`
	FileURL   string `json:"fileUrl"`
	FileType  string `json:"fileType,omitempty"`
	SizeBytes int64  `json:"sizeBytes,omitempty"`
	SubjectID UUID   `json:"subjectId,omitempty"`
}

// Kind returns the collection name for Document.
func (Document) Kind() string {
	return KindDocument
}

// Template is reusable page content (essay outline, lab report shell).
type Template struct {
	Base
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Content  string `json:"content"`
}

// Kind returns the collection name for Template.
func (Template) Kind() string {
	return KindTemplate
}

// CodeSnippet is a saved playground snippet.
type CodeSnippet struct {
	Base
	Title       string   `json:"title"`
	Language    string   `json:"language"`
	Code        string   `json:"code"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Kind returns the collection name for CodeSnippet.
func (CodeSnippet) Kind() string {
	return KindCodeSnippet
}
