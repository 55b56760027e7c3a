// Package models defines the persistent entities of the accounts service.
package models

import "time"

// Account types.
const (
	AccountTypeListener = "listener"
	AccountTypeArtist   = "artist"
)

// User is a platform account: a listener, or an artist owner when ArtistID
// is non-zero. Slug is the opaque public handle used for profile lookups;
// it carries no personal information.
type User struct {
	ID              string
	Email           string
	PasswordHash    string
	DisplayName     string
	Slug            string
	AccountType     string
	ArtistID        int64
	ExternalSubject string
	EmailVerified   bool
	AvatarKey       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
