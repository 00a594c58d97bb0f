// Package identity decides whose collections are visible. The catalog cache
// is shared by everyone on the device; the ledger is scoped per user.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/cardkeeper/internal/common"
)

// User is the person the app is acting for. The anonymous device user has an
// empty ID.
type User struct {
	ID string
}

func (u User) Anonymous() bool { return u.ID == "" }

type Provider interface {
	CurrentUser(ctx context.Context) (User, error)
}

// Device is the provider used when nobody signed in.
type Device struct{}

func (Device) CurrentUser(context.Context) (User, error) {
	return User{}, nil
}

// Claims holds the registered claims plus the signed-in user's id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// UserIDFromToken verifies an HS256 session token and returns its user id.
func UserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}
	return claims.UserID, nil
}

// TokenProvider resolves the user from a session token issued by the
// account service.
type TokenProvider struct {
	token  string
	secret []byte
}

func NewTokenProvider(token string, secret []byte) *TokenProvider {
	return &TokenProvider{token: token, secret: secret}
}

func (p *TokenProvider) CurrentUser(context.Context) (User, error) {
	if p.token == "" {
		return User{}, common.ErrUnauthenticated
	}
	id, err := UserIDFromToken(p.token, p.secret)
	if err != nil {
		return User{}, err
	}
	return User{ID: id}, nil
}
