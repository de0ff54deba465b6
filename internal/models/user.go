package models

// User is an application account.
type User struct {
	Base
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Kind returns the collection name for User.
func (User) Kind() string {
	return KindUser
}
