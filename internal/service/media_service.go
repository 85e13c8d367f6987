package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"ngplus/api/internal/apperr"
	"ngplus/api/internal/ids"
	"ngplus/api/internal/models"
	"ngplus/api/internal/policy"
	"ngplus/api/internal/repository"
)

// MediaStore is the slice of the media repository the media flows need.
type MediaStore interface {
	Create(ctx context.Context, media models.Media) (models.Media, error)
	GetByID(ctx context.Context, id string) (models.Media, error)
	GetByIDWithOwner(ctx context.Context, id string) (models.Media, error)
	List(ctx context.Context, limit, offset int) ([]models.Media, int, error)
	Update(ctx context.Context, id string, patch repository.MediaPatch) (models.Media, error)
	Delete(ctx context.Context, id string) error
}

type MediaService struct {
	media MediaStore
	log   zerolog.Logger
}

func NewMediaService(media MediaStore, log zerolog.Logger) *MediaService {
	return &MediaService{media: media, log: log}
}

type CreateMediaInput struct {
	Title        string
	Description  string
	ThumbnailURL string
	ContentURL   string
	Category     models.MediaCategory
}

// Create attaches the caller as owner. Titles are not unique.
func (s *MediaService) Create(ctx context.Context, actor policy.Actor, input CreateMediaInput) (models.Media, error) {
	if !input.Category.Valid() {
		return models.Media{}, apperr.BadRequest("Invalid media category.")
	}

	media := models.Media{
		ID:           ids.New(),
		Title:        input.Title,
		Description:  input.Description,
		ThumbnailURL: input.ThumbnailURL,
		ContentURL:   input.ContentURL,
		Category:     input.Category,
		UserID:       actor.ID,
	}
	if media.ThumbnailURL == "" {
		media.ThumbnailURL = models.DefaultProfilePictureURL
	}

	return s.media.Create(ctx, media)
}

func (s *MediaService) Get(ctx context.Context, id string) (models.Media, error) {
	media, err := s.media.GetByIDWithOwner(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMediaNotFound) {
			return models.Media{}, apperr.NotFound("Media not found.")
		}
		return models.Media{}, err
	}
	return media, nil
}

// List returns a page of media, newest first, owners joined. An empty page
// is a not-found condition.
func (s *MediaService) List(ctx context.Context, page ListPage) ([]models.Media, int, error) {
	page = normalizePage(page)
	entries, total, err := s.media.List(ctx, page.Limit, (page.Page-1)*page.Limit)
	if err != nil {
		return nil, 0, err
	}
	if len(entries) == 0 {
		return nil, 0, apperr.NotFound("No media found.")
	}
	return entries, total, nil
}

type UpdateMediaInput struct {
	Title        *string
	Description  *string
	ThumbnailURL *string
	ContentURL   *string
	Category     *models.MediaCategory
}

func (s *MediaService) Update(ctx context.Context, actor policy.Actor, id string, input UpdateMediaInput) (models.Media, error) {
	existing, err := s.media.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMediaNotFound) {
			return models.Media{}, apperr.Newf(apperr.KindNotFound, "Media %s not found.", id)
		}
		return models.Media{}, err
	}

	if !policy.CanModify(actor, existing.UserID) {
		return models.Media{}, apperr.Forbidden("You can only update your own media.")
	}

	if input.Category != nil && !input.Category.Valid() {
		return models.Media{}, apperr.BadRequest("Invalid media category.")
	}

	updated, err := s.media.Update(ctx, id, repository.MediaPatch{
		Title:        input.Title,
		Description:  input.Description,
		ThumbnailURL: input.ThumbnailURL,
		ContentURL:   input.ContentURL,
		Category:     input.Category,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoUpdatableFields) {
			return models.Media{}, apperr.BadRequest("No fields to update.")
		}
		return models.Media{}, err
	}
	return updated, nil
}

// Delete removes a media entry and returns the removed record.
func (s *MediaService) Delete(ctx context.Context, actor policy.Actor, id string) (models.Media, error) {
	existing, err := s.media.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMediaNotFound) {
			return models.Media{}, apperr.Newf(apperr.KindNotFound, "Media %s not found.", id)
		}
		return models.Media{}, err
	}

	if !policy.CanModify(actor, existing.UserID) {
		return models.Media{}, apperr.Forbidden("You can only delete your own media.")
	}

	if err := s.media.Delete(ctx, id); err != nil {
		return models.Media{}, err
	}
	return existing, nil
}
