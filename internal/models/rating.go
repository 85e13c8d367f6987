package models

import "time"

const (
	RatingMin = 1
	RatingMax = 5
)

type Rating struct {
	ID        string
	Value     int
	UserID    string
	MediaID   string
	Rater     *User  // populated on read paths that join the rater
	Media     *Media // populated on read paths that join the rated item
	CreatedAt time.Time
	UpdatedAt time.Time
}
