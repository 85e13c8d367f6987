package repository

import (
	"context"

	"ngplus/api/internal/models"
)

// ReportSource bundles the three repositories into the full-dataset reads the
// report exports consume.
type ReportSource struct {
	Users   *UserRepository
	Media   *MediaRepository
	Ratings *RatingRepository
}

func (s ReportSource) ListAllUsers(ctx context.Context) ([]models.User, error) {
	return s.Users.ListAll(ctx)
}

func (s ReportSource) ListAllMedia(ctx context.Context) ([]models.Media, error) {
	return s.Media.ListAllWithOwner(ctx)
}

func (s ReportSource) ListAllRatings(ctx context.Context) ([]models.Rating, error) {
	return s.Ratings.ListAllJoined(ctx)
}
