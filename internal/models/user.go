package models

import "time"

type AccountType string

const (
	AccountTypeUser  AccountType = "user"
	AccountTypeAdmin AccountType = "admin"
)

const DefaultProfilePictureURL = "https://example.com/default-profile.png"

type User struct {
	ID                string
	ProfilePictureURL string
	Username          string
	Email             string
	PasswordHash      []byte
	RefreshTokenHash  []byte // nil means logged out
	AccountType       AccountType
	RatingCount       int
	LastLogin         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
