package models

import "time"

// User is a member of the social graph
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Name returns the display name, falling back to the username
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// UserWithRelationship pairs a user with the viewer's relationship to them
type UserWithRelationship struct {
	User
	Relationship Relationship `json:"relationship"`
}
