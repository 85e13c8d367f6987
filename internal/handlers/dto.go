package handlers

import (
	"time"

	"ngplus/api/internal/models"
)

// userResponse is the public projection of a user row. Password and refresh
// token hashes never leave the service.
type userResponse struct {
	ID                string     `json:"id"`
	ProfilePictureURL string     `json:"profilePictureUrl"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	AccountType       string     `json:"accountType"`
	RatingCount       int        `json:"ratingCount"`
	LastLogin         *time.Time `json:"lastLogin"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:                u.ID,
		ProfilePictureURL: u.ProfilePictureURL,
		Username:          u.Username,
		Email:             u.Email,
		AccountType:       string(u.AccountType),
		RatingCount:       u.RatingCount,
		LastLogin:         u.LastLogin,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func toUserResponses(users []models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

type mediaResponse struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	ThumbnailURL string        `json:"thumbnailUrl"`
	ContentURL   string        `json:"contentUrl"`
	Category     string        `json:"category"`
	UserID       string        `json:"userId"`
	User         *userResponse `json:"user,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

func toMediaResponse(m models.Media) mediaResponse {
	resp := mediaResponse{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		ThumbnailURL: m.ThumbnailURL,
		ContentURL:   m.ContentURL,
		Category:     string(m.Category),
		UserID:       m.UserID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Owner != nil {
		owner := toUserResponse(*m.Owner)
		resp.User = &owner
	}
	return resp
}

func toMediaResponses(media []models.Media) []mediaResponse {
	out := make([]mediaResponse, 0, len(media))
	for _, m := range media {
		out = append(out, toMediaResponse(m))
	}
	return out
}

type ratingResponse struct {
	ID        string         `json:"id"`
	Rating    int            `json:"rating"`
	UserID    string         `json:"userId"`
	MediaID   string         `json:"mediaId"`
	User      *userResponse  `json:"user,omitempty"`
	Media     *mediaResponse `json:"media,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func toRatingResponse(r models.Rating) ratingResponse {
	resp := ratingResponse{
		ID:        r.ID,
		Rating:    r.Value,
		UserID:    r.UserID,
		MediaID:   r.MediaID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Rater != nil {
		rater := toUserResponse(*r.Rater)
		resp.User = &rater
	}
	if r.Media != nil {
		media := toMediaResponse(*r.Media)
		resp.Media = &media
	}
	return resp
}

func toRatingResponses(ratings []models.Rating) []ratingResponse {
	out := make([]ratingResponse, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, toRatingResponse(r))
	}
	return out
}
