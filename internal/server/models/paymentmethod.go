package models

import "time"

// PaymentMethod stores only a display label and the last four digits; the
// actual instrument lives with the payment provider.
type PaymentMethod struct {
	ID        string
	UserID    string
	Provider  string
	Last4     string
	Label     string
	CreatedAt time.Time
}
