package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog"

	"ngplus/api/internal/apperr"
	"ngplus/api/internal/ids"
	"ngplus/api/internal/mail"
	"ngplus/api/internal/models"
	"ngplus/api/internal/policy"
	"ngplus/api/internal/repository"
)

// RatingStore is the slice of the rating repository the rating flows need.
// CreateWithCounter and DeleteWithCounter are single transactions pairing the
// row mutation with the owner's counter update.
type RatingStore interface {
	CreateWithCounter(ctx context.Context, rating models.Rating) (models.Rating, error)
	DeleteWithCounter(ctx context.Context, id string) (models.Rating, error)
	GetByID(ctx context.Context, id string) (models.Rating, error)
	GetByIDJoined(ctx context.Context, id string) (models.Rating, error)
	FindByUserAndMedia(ctx context.Context, userID, mediaID string) (models.Rating, error)
	List(ctx context.Context, filter repository.RatingFilter, limit, offset int) ([]models.Rating, int, error)
	UpdateValue(ctx context.Context, id string, value int) (models.Rating, error)
}

type RatingService struct {
	ratings RatingStore
	media   MediaStore
	mailer  Mailer
	log     zerolog.Logger
}

func NewRatingService(ratings RatingStore, media MediaStore, mailer Mailer, log zerolog.Logger) *RatingService {
	return &RatingService{
		ratings: ratings,
		media:   media,
		mailer:  mailer,
		log:     log,
	}
}

type CreateRatingInput struct {
	MediaID string
	Value   int
}

// Create validates the target, rejects self-rating and duplicates, then
// inserts the rating and bumps the rater's counter in one transaction. The
// media owner gets a notification email.
func (s *RatingService) Create(ctx context.Context, actor policy.Actor, input CreateRatingInput) (models.Rating, error) {
	if input.Value < models.RatingMin || input.Value > models.RatingMax {
		return models.Rating{}, apperr.BadRequest("Rating must be between 1 and 5.")
	}

	media, err := s.media.GetByIDWithOwner(ctx, input.MediaID)
	if err != nil {
		if errors.Is(err, repository.ErrMediaNotFound) {
			return models.Rating{}, apperr.Newf(apperr.KindNotFound, "Media %s not found.", input.MediaID)
		}
		return models.Rating{}, err
	}

	if media.UserID == actor.ID {
		return models.Rating{}, apperr.Forbidden("You cannot rate your own media.")
	}

	if _, err := s.ratings.FindByUserAndMedia(ctx, actor.ID, input.MediaID); err == nil {
		return models.Rating{}, apperr.BadRequest("User has already rated this media.")
	} else if !errors.Is(err, repository.ErrRatingNotFound) {
		return models.Rating{}, err
	}

	saved, err := s.ratings.CreateWithCounter(ctx, models.Rating{
		ID:      ids.New(),
		Value:   input.Value,
		UserID:  actor.ID,
		MediaID: input.MediaID,
	})
	if err != nil {
		// The unique constraint backstops the pre-check under concurrency.
		if errors.Is(err, repository.ErrDuplicateRating) {
			return models.Rating{}, apperr.BadRequest("User has already rated this media.")
		}
		return models.Rating{}, err
	}

	if media.Owner != nil {
		s.mailer.Enqueue(ctx, mail.KindNewRating, media.Owner.Email, map[string]string{
			"username": media.Owner.Username,
			"rating":   strconv.Itoa(saved.Value),
		})
	}

	return saved, nil
}

func (s *RatingService) Get(ctx context.Context, id string) (models.Rating, error) {
	rating, err := s.ratings.GetByIDJoined(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRatingNotFound) {
			return models.Rating{}, apperr.NotFound("Rating not found.")
		}
		return models.Rating{}, err
	}
	return rating, nil
}

type RatingListInput struct {
	Page    ListPage
	MediaID string
	UserID  string
}

// List returns a page of ratings with rater and media joined. An empty page
// is a not-found condition.
func (s *RatingService) List(ctx context.Context, input RatingListInput) ([]models.Rating, int, error) {
	page := normalizePage(input.Page)
	entries, total, err := s.ratings.List(ctx, repository.RatingFilter{
		MediaID: input.MediaID,
		UserID:  input.UserID,
	}, page.Limit, (page.Page-1)*page.Limit)
	if err != nil {
		return nil, 0, err
	}
	if len(entries) == 0 {
		return nil, 0, apperr.NotFound("No ratings found.")
	}
	return entries, total, nil
}

func (s *RatingService) Update(ctx context.Context, actor policy.Actor, id string, value int) (models.Rating, error) {
	if value < models.RatingMin || value > models.RatingMax {
		return models.Rating{}, apperr.BadRequest("Rating must be between 1 and 5.")
	}

	existing, err := s.ratings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRatingNotFound) {
			return models.Rating{}, apperr.Newf(apperr.KindNotFound, "Rating %s not found.", id)
		}
		return models.Rating{}, err
	}

	if !policy.CanModify(actor, existing.UserID) {
		return models.Rating{}, apperr.Forbidden("You can only update your own rating.")
	}

	return s.ratings.UpdateValue(ctx, id, value)
}

// Delete removes a rating and decrements the rater's counter in one
// transaction. A counter already at zero aborts the whole operation.
func (s *RatingService) Delete(ctx context.Context, actor policy.Actor, id string) (models.Rating, error) {
	existing, err := s.ratings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRatingNotFound) {
			return models.Rating{}, apperr.Newf(apperr.KindNotFound, "Rating %s not found.", id)
		}
		return models.Rating{}, err
	}

	if !policy.CanModify(actor, existing.UserID) {
		return models.Rating{}, apperr.Forbidden("You can only delete your own rating.")
	}

	removed, err := s.ratings.DeleteWithCounter(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCounterUnderflow) {
			return models.Rating{}, apperr.Newf(apperr.KindBadRequest,
				"Cannot decrement ratingCount for user %s (already 0 or not found).", existing.UserID)
		}
		return models.Rating{}, err
	}
	return removed, nil
}
