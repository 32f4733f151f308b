package api

import "time"

// User is the backend's view of an account. Read-only on this side.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Translation is one persisted history record.
type Translation struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	SourceText     string    `json:"sourceText"`
	TranslatedText string    `json:"translatedText"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Credentials is what the auth endpoints return on success.
type Credentials struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
