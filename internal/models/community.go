package models

// QuestionBank references a past exam paper or question collection.
type QuestionBank struct {
	Base
	Name      string `json:"name"`
	SubjectID UUID   `json:"subjectId,omitempty"`
	Year      int    `json:"year,omitempty"`
	FileURL   string `json:"fileUrl,omitempty"`
}

// Kind returns the collection name for QuestionBank.
func (QuestionBank) Kind() string {
	return KindQuestionBank
}

// CommunityGroup is a study group in the community hub. MemberCount is
// denormalized like FlashcardDeck.CardCount.
type CommunityGroup struct {
	Base
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MemberCount int    `json:"memberCount"`
}

// Kind returns the collection name for CommunityGroup.
func (CommunityGroup) Kind() string {
	return KindGroup
}

// CommunityPost is a message in a group.
type CommunityPost struct {
	Base
	GroupID  UUID   `json:"groupId"`
	AuthorID UUID   `json:"authorId,omitempty"`
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
	Likes    int    `json:"likes"`
}

// Kind returns the collection name for CommunityPost.
func (CommunityPost) Kind() string {
	return KindPost
}
