package models

import "time"

// Artist is a public catalog entity referenced by artist accounts and follows.
type Artist struct {
	ID        int64
	Name      string
	Bio       string
	Genre     string
	CreatedAt time.Time
}
