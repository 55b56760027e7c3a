package models

import "time"

// Follow links a listener to an artist they follow.
type Follow struct {
	UserID    string
	ArtistID  int64
	CreatedAt time.Time
}
