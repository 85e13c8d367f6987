package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"ngplus/api/internal/models"
	"ngplus/api/internal/repository"
)

type sentMail struct {
	Kind string
	To   string
	Data map[string]string
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) Enqueue(_ context.Context, kind, to string, data map[string]string) {
	m.sent = append(m.sent, sentMail{Kind: kind, To: to, Data: data})
}

// fakeUserStore backs both the auth and the user CRUD interfaces.
type fakeUserStore struct {
	users map[string]models.User
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user models.User) error {
	for _, u := range s.users {
		if u.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *fakeUserStore) List(_ context.Context, limit, offset int) ([]models.User, int, error) {
	all := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *fakeUserStore) Update(_ context.Context, id string, patch repository.UserPatch) (models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	if patch.ProfilePictureURL != nil {
		u.ProfilePictureURL = *patch.ProfilePictureURL
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = patch.PasswordHash
	}
	if patch.AccountType != nil {
		u.AccountType = *patch.AccountType
	}
	if patch.RatingCount != nil {
		u.RatingCount = *patch.RatingCount
	}
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return u, nil
}

func (s *fakeUserStore) Delete(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) SetLastLogin(_ context.Context, id string, at time.Time) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.LastLogin = &at
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) SetRefreshTokenHash(_ context.Context, id string, hash []byte) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.RefreshTokenHash = hash
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) SetPassword(_ context.Context, id string, passwordHash []byte) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.RefreshTokenHash = nil
	s.users[id] = u
	return nil
}

type fakeMediaStore struct {
	media map[string]models.Media
	users *fakeUserStore // optional, for owner joins
}

func newFakeMediaStore(users *fakeUserStore, media ...models.Media) *fakeMediaStore {
	s := &fakeMediaStore{media: make(map[string]models.Media), users: users}
	for _, m := range media {
		s.media[m.ID] = m
	}
	return s
}

func (s *fakeMediaStore) Create(_ context.Context, media models.Media) (models.Media, error) {
	now := time.Now()
	media.CreatedAt = now
	media.UpdatedAt = now
	s.media[media.ID] = media
	return media, nil
}

func (s *fakeMediaStore) GetByID(_ context.Context, id string) (models.Media, error) {
	m, ok := s.media[id]
	if !ok {
		return models.Media{}, repository.ErrMediaNotFound
	}
	return m, nil
}

func (s *fakeMediaStore) GetByIDWithOwner(ctx context.Context, id string) (models.Media, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Media{}, err
	}
	if s.users != nil {
		if owner, ok := s.users.users[m.UserID]; ok {
			m.Owner = &owner
		}
	}
	return m, nil
}

func (s *fakeMediaStore) List(_ context.Context, limit, offset int) ([]models.Media, int, error) {
	all := make([]models.Media, 0, len(s.media))
	for _, m := range s.media {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *fakeMediaStore) Update(_ context.Context, id string, patch repository.MediaPatch) (models.Media, error) {
	m, ok := s.media[id]
	if !ok {
		return models.Media{}, repository.ErrMediaNotFound
	}
	if patch.Title != nil {
		m.Title = *patch.Title
	}
	if patch.Description != nil {
		m.Description = *patch.Description
	}
	if patch.ThumbnailURL != nil {
		m.ThumbnailURL = *patch.ThumbnailURL
	}
	if patch.ContentURL != nil {
		m.ContentURL = *patch.ContentURL
	}
	if patch.Category != nil {
		m.Category = *patch.Category
	}
	m.UpdatedAt = time.Now()
	s.media[id] = m
	return m, nil
}

func (s *fakeMediaStore) Delete(_ context.Context, id string) error {
	if _, ok := s.media[id]; !ok {
		return repository.ErrMediaNotFound
	}
	delete(s.media, id)
	return nil
}

// fakeRatingStore mimics the transactional counter contract: create and
// delete mutate the rater's counter in the backing user store atomically.
type fakeRatingStore struct {
	ratings map[string]models.Rating
	users   *fakeUserStore
}

func newFakeRatingStore(users *fakeUserStore) *fakeRatingStore {
	return &fakeRatingStore{ratings: make(map[string]models.Rating), users: users}
}

func (s *fakeRatingStore) CreateWithCounter(_ context.Context, rating models.Rating) (models.Rating, error) {
	for _, r := range s.ratings {
		if r.UserID == rating.UserID && r.MediaID == rating.MediaID {
			return models.Rating{}, repository.ErrDuplicateRating
		}
	}
	now := time.Now()
	rating.CreatedAt = now
	rating.UpdatedAt = now
	s.ratings[rating.ID] = rating

	u := s.users.users[rating.UserID]
	u.RatingCount++
	s.users.users[rating.UserID] = u

	return rating, nil
}

func (s *fakeRatingStore) DeleteWithCounter(_ context.Context, id string) (models.Rating, error) {
	r, ok := s.ratings[id]
	if !ok {
		return models.Rating{}, repository.ErrRatingNotFound
	}

	u := s.users.users[r.UserID]
	if u.RatingCount <= 0 {
		// Guarded decrement failed: the whole transaction rolls back.
		return models.Rating{}, repository.ErrCounterUnderflow
	}
	u.RatingCount--
	s.users.users[r.UserID] = u

	delete(s.ratings, id)
	return r, nil
}

func (s *fakeRatingStore) GetByID(_ context.Context, id string) (models.Rating, error) {
	r, ok := s.ratings[id]
	if !ok {
		return models.Rating{}, repository.ErrRatingNotFound
	}
	return r, nil
}

func (s *fakeRatingStore) GetByIDJoined(ctx context.Context, id string) (models.Rating, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeRatingStore) FindByUserAndMedia(_ context.Context, userID, mediaID string) (models.Rating, error) {
	for _, r := range s.ratings {
		if r.UserID == userID && r.MediaID == mediaID {
			return r, nil
		}
	}
	return models.Rating{}, repository.ErrRatingNotFound
}

func (s *fakeRatingStore) List(_ context.Context, filter repository.RatingFilter, limit, offset int) ([]models.Rating, int, error) {
	var all []models.Rating
	for _, r := range s.ratings {
		if filter.MediaID != "" && r.MediaID != filter.MediaID {
			continue
		}
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *fakeRatingStore) UpdateValue(_ context.Context, id string, value int) (models.Rating, error) {
	r, ok := s.ratings[id]
	if !ok {
		return models.Rating{}, repository.ErrRatingNotFound
	}
	r.Value = value
	r.UpdatedAt = time.Now()
	s.ratings[id] = r
	return r, nil
}

// fakeObjectGateway records calls instead of talking to storage.
type fakeObjectGateway struct {
	base    string
	bucket  string
	puts    []string
	removes []string
	putErr  error
}

func newFakeObjectGateway() *fakeObjectGateway {
	return &fakeObjectGateway{base: "https://cdn.test", bucket: "ngplus-files"}
}

func (g *fakeObjectGateway) Put(_ context.Context, key string, _ io.Reader, _ int64, _ string) error {
	if g.putErr != nil {
		return g.putErr
	}
	g.puts = append(g.puts, key)
	return nil
}

func (g *fakeObjectGateway) Remove(_ context.Context, key string) error {
	g.removes = append(g.removes, key)
	return nil
}

func (g *fakeObjectGateway) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", g.base, g.bucket, key)
}

func (g *fakeObjectGateway) ParseKey(fileURL string) (string, error) {
	prefix := fmt.Sprintf("%s/%s/", g.base, g.bucket)
	if !strings.HasPrefix(fileURL, prefix) {
		return "", fmt.Errorf("url %q outside configured bucket", fileURL)
	}
	return strings.TrimPrefix(fileURL, prefix), nil
}
