package models

import "time"

type MediaCategory string

const (
	MediaCategoryArtwork MediaCategory = "artwork"
	MediaCategoryVideo   MediaCategory = "video"
	MediaCategoryMusic   MediaCategory = "music"
	MediaCategoryGame    MediaCategory = "game"
)

func (c MediaCategory) Valid() bool {
	switch c {
	case MediaCategoryArtwork, MediaCategoryVideo, MediaCategoryMusic, MediaCategoryGame:
		return true
	}
	return false
}

type Media struct {
	ID           string
	Title        string
	Description  string
	ThumbnailURL string
	ContentURL   string
	Category     MediaCategory
	UserID       string
	Owner        *User // populated on read paths that join the owner
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
