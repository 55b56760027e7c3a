package models

import "time"

type SocialLink struct {
	ID        string
	UserID    string
	Platform  string
	URL       string
	CreatedAt time.Time
}
