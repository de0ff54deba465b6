package models

// EducationEntry is one education block in a resume.
type EducationEntry struct {
	School    string `json:"school"`
	Degree    string `json:"degree,omitempty"`
	StartYear int    `json:"startYear,omitempty"`
	EndYear   int    `json:"endYear,omitempty"`
}

// ExperienceEntry is one work or volunteering block in a resume.
type ExperienceEntry struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

// Resume holds the fixed section set rendered by the PDF exporter:
// header, summary, education, experience, skills.
type Resume struct {
	Base
	Name       string            `json:"name"`
	Email      string            `json:"email,omitempty"`
	Phone      string            `json:"phone,omitempty"`
	Summary    string            `json:"summary,omitempty"`
	Education  []EducationEntry  `json:"education,omitempty"`
	Experience []ExperienceEntry `json:"experience,omitempty"`
	Skills     []string          `json:"skills,omitempty"`
}

// Kind returns the collection name for Resume.
func (Resume) Kind() string {
	return KindResume
}

// Portfolio is a showcased project link.
type Portfolio struct {
	Base
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	ProjectURL  string   `json:"projectUrl,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Kind returns the collection name for Portfolio.
func (Portfolio) Kind() string {
	return KindPortfolio
}

// ResearchPaper is a saved reference.
type ResearchPaper struct {
	Base
	Title     string `json:"title"`
	Authors   string `json:"authors,omitempty"`
	Abstract  string `json:"abstract,omitempty"`
	URL       string `json:"url,omitempty"`
	Year      int    `json:"year,omitempty"`
	SubjectID UUID   `json:"subjectId,omitempty"`
}

// Kind returns the collection name for ResearchPaper.
func (ResearchPaper) Kind() string {
	return KindResearchPaper
}

// Scholarship is a discovered or saved scholarship listing.
type Scholarship struct {
	Base
	Name        string `json:"name"`
	Amount      string `json:"amount,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
	URL         string `json:"url,omitempty"`
	Eligibility string `json:"eligibility,omitempty"`
	Saved       bool   `json:"saved"`
}

// Kind returns the collection name for Scholarship.
func (Scholarship) Kind() string {
	return KindScholarship
}
