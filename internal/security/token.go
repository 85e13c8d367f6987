package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ngplus/api/internal/models"
)

// Claims is the payload shared by all three token kinds. Kinds are separated
// by signing secret, not by a claim, so a refresh token can never pass an
// access-token gate.
type Claims struct {
	UserID      string             `json:"userId"`
	Username    string             `json:"username"`
	Email       string             `json:"email"`
	AccountType models.AccountType `json:"accountType"`
	jwt.RegisteredClaims
}

// JTI returns the token's unique identifier.
func (c *Claims) JTI() string { return c.ID }

// IssueToken signs a token for the user with a fresh jti. The same routine
// serves access, refresh and password-reset tokens; the caller picks the
// secret and TTL.
func IssueToken(secret string, user models.User, ttl time.Duration) (token string, jti string, err error) {
	now := time.Now()
	jti = uuid.NewString()

	claims := Claims{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		AccountType: user.AccountType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   user.ID,
			ID:        jti,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	if err != nil {
		return "", "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, jti, nil
}

// ParseToken verifies the signature and expiry of a token against the given
// secret and returns its claims.
func ParseToken(tokenStr string, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// HashJTI derives the stored rotation anchor from a refresh token's jti.
func HashJTI(jti string) []byte {
	sum := sha256.Sum256([]byte(jti))
	return []byte(base64.RawURLEncoding.EncodeToString(sum[:]))
}

// JTIMatches compares a presented jti against a stored hash in constant time.
func JTIMatches(jti string, storedHash []byte) bool {
	if len(storedHash) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(HashJTI(jti), storedHash) == 1
}
