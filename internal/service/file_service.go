package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"ngplus/api/internal/apperr"
	"ngplus/api/internal/config"
	"ngplus/api/internal/policy"
)

// ObjectGateway is the slice of the object store the file flows need.
type ObjectGateway interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
	ParseKey(fileURL string) (string, error)
}

type FileService struct {
	store ObjectGateway
	cfg   config.UploadConfig
	log   zerolog.Logger
}

func NewFileService(store ObjectGateway, cfg config.UploadConfig, log zerolog.Logger) *FileService {
	return &FileService{
		store: store,
		cfg:   cfg,
		log:   log,
	}
}

type UploadInput struct {
	File   multipart.File
	Header *multipart.FileHeader
	Folder string
}

// Upload validates the payload entirely before touching the store: the file
// must be present, under the byte ceiling and of an allowed content type.
// Non-admin callers always upload into their own username folder.
func (s *FileService) Upload(ctx context.Context, actor policy.Actor, input UploadInput) (string, error) {
	if input.File == nil || input.Header == nil {
		return "", apperr.BadRequest("File is required.")
	}

	if input.Header.Size > s.cfg.MaxBytes {
		maxMB := float64(s.cfg.MaxBytes) / (1024 * 1024)
		return "", apperr.Newf(apperr.KindBadRequest, "File is too large. Maximum size: %.2fMB", maxMB)
	}

	contentType := input.Header.Header.Get("Content-Type")
	if !s.mimeAllowed(contentType) {
		return "", apperr.Newf(apperr.KindBadRequest, "File type %s is not allowed.", contentType)
	}

	folder := strings.Trim(input.Folder, "/")
	if !actor.IsAdmin() || folder == "" {
		folder = actor.Username
	}

	ext := strings.ToLower(path.Ext(input.Header.Filename))
	key := fmt.Sprintf("%s/%s%s", folder, ksuid.New().String(), ext)

	if err := s.store.Put(ctx, key, input.File, input.Header.Size, contentType); err != nil {
		return "", apperr.Internal("Failed to store file.", err)
	}

	s.log.Info().Str("key", key).Str("user_id", actor.ID).Msg("file uploaded")

	return s.store.PublicURL(key), nil
}

// Delete removes the object behind a public URL. A URL outside the configured
// bucket is rejected; an empty derived key is a no-op rather than an error.
// Non-admin callers may only delete inside their own username folder.
func (s *FileService) Delete(ctx context.Context, actor policy.Actor, fileURL string) (bool, error) {
	key, err := s.store.ParseKey(fileURL)
	if err != nil {
		return false, apperr.BadRequest("Invalid file URL.")
	}
	if key == "" {
		return false, nil
	}

	if !actor.IsAdmin() && !strings.HasPrefix(key, actor.Username+"/") {
		return false, apperr.Forbidden("You can only delete files in your own folder.")
	}

	if err := s.store.Remove(ctx, key); err != nil {
		return false, apperr.Internal("Failed to delete file.", err)
	}

	s.log.Info().Str("key", key).Str("user_id", actor.ID).Msg("file deleted")

	return true, nil
}

func (s *FileService) mimeAllowed(contentType string) bool {
	mime := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	for _, allowed := range s.cfg.AllowedMimeTypes {
		if mime == allowed {
			return true
		}
	}
	return false
}
