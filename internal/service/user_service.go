package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"ngplus/api/internal/apperr"
	"ngplus/api/internal/ids"
	"ngplus/api/internal/mail"
	"ngplus/api/internal/models"
	"ngplus/api/internal/policy"
	"ngplus/api/internal/repository"
	"ngplus/api/internal/security"
)

// UserCRUDStore is the slice of the user repository the account CRUD needs.
type UserCRUDStore interface {
	Create(ctx context.Context, user models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, int, error)
	Update(ctx context.Context, id string, patch repository.UserPatch) (models.User, error)
	Delete(ctx context.Context, id string) error
}

type UserService struct {
	users  UserCRUDStore
	mailer Mailer
	log    zerolog.Logger
}

func NewUserService(users UserCRUDStore, mailer Mailer, log zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		mailer: mailer,
		log:    log,
	}
}

type CreateUserInput struct {
	Username          string
	Email             string
	Password          string
	ProfilePictureURL string
	AccountType       models.AccountType // only honored on the admin path
}

// Register creates a self-serve account. The role is always forced to user;
// only the admin creation path may assign a role.
func (s *UserService) Register(ctx context.Context, input CreateUserInput) (models.User, error) {
	input.AccountType = models.AccountTypeUser
	return s.create(ctx, input)
}

// AdminCreate creates an account with an assignable role.
func (s *UserService) AdminCreate(ctx context.Context, input CreateUserInput) (models.User, error) {
	if input.AccountType == "" {
		input.AccountType = models.AccountTypeUser
	}
	if input.AccountType != models.AccountTypeUser && input.AccountType != models.AccountTypeAdmin {
		return models.User{}, apperr.BadRequest("Invalid account type.")
	}
	return s.create(ctx, input)
}

func (s *UserService) create(ctx context.Context, input CreateUserInput) (models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if username == "" || email == "" || input.Password == "" {
		return models.User{}, apperr.BadRequest("Username, email and password are required.")
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:                ids.New(),
		Username:          username,
		Email:             email,
		PasswordHash:      passwordHash,
		AccountType:       input.AccountType,
		ProfilePictureURL: input.ProfilePictureURL,
	}
	if user.ProfilePictureURL == "" {
		user.ProfilePictureURL = models.DefaultProfilePictureURL
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return models.User{}, apperr.Conflict("Username already exists.")
		}
		return models.User{}, err
	}

	s.mailer.Enqueue(ctx, mail.KindWelcome, user.Email, map[string]string{
		"username": user.Username,
	})

	saved, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return models.User{}, err
	}
	return saved, nil
}

// Get fetches one user. Non-admin actors may only fetch themselves.
func (s *UserService) Get(ctx context.Context, actor policy.Actor, id string) (models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperr.NotFound("Entry not found.")
		}
		return models.User{}, err
	}

	if !policy.CanModify(actor, user.ID) {
		return models.User{}, apperr.Forbidden("You can only access your own account.")
	}
	return user, nil
}

type ListPage struct {
	Page  int
	Limit int
}

// List returns a page of users. An empty page is a not-found condition.
func (s *UserService) List(ctx context.Context, page ListPage) ([]models.User, int, error) {
	page = normalizePage(page)
	users, total, err := s.users.List(ctx, page.Limit, (page.Page-1)*page.Limit)
	if err != nil {
		return nil, 0, err
	}
	if len(users) == 0 {
		return nil, 0, apperr.NotFound("No users found.")
	}
	return users, total, nil
}

type UpdateUserInput struct {
	ProfilePictureURL *string
	Username          *string
	Email             *string
	Password          *string
	// Admin-only fields; ignored unless the actor is admin.
	AccountType *models.AccountType
	RatingCount *int
}

// Update applies a partial-field merge. Non-admin actors may only update
// themselves and cannot touch the admin-only fields.
func (s *UserService) Update(ctx context.Context, actor policy.Actor, id string, input UpdateUserInput) (models.User, error) {
	existing, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperr.Newf(apperr.KindNotFound, "%s not found.", id)
		}
		return models.User{}, err
	}

	if !policy.CanModify(actor, existing.ID) {
		return models.User{}, apperr.Forbidden("You can only access your own account.")
	}

	patch := repository.UserPatch{
		ProfilePictureURL: input.ProfilePictureURL,
		Username:          input.Username,
		Email:             input.Email,
	}
	if input.Password != nil {
		passwordHash, err := security.HashPassword(*input.Password)
		if err != nil {
			return models.User{}, err
		}
		patch.PasswordHash = passwordHash
	}
	if actor.IsAdmin() {
		patch.AccountType = input.AccountType
		patch.RatingCount = input.RatingCount
	}

	updated, err := s.users.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return models.User{}, apperr.Conflict("Username already exists.")
		case errors.Is(err, repository.ErrNoUpdatableFields):
			return models.User{}, apperr.BadRequest("No fields to update.")
		case errors.Is(err, repository.ErrUserNotFound):
			return models.User{}, apperr.Newf(apperr.KindNotFound, "%s not found.", id)
		}
		return models.User{}, err
	}
	return updated, nil
}

// Delete removes an account and returns the removed record. Ratings and
// media cascade in the database.
func (s *UserService) Delete(ctx context.Context, actor policy.Actor, id string) (models.User, error) {
	existing, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperr.Newf(apperr.KindNotFound, "%s not found.", id)
		}
		return models.User{}, err
	}

	if !policy.CanModify(actor, existing.ID) {
		return models.User{}, apperr.Forbidden("You can only access your own account.")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return models.User{}, err
	}
	return existing, nil
}

func normalizePage(page ListPage) ListPage {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = 10
	}
	return page
}
