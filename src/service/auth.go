package service

import (
	"errors"
	"time"

	"github.com/Mani19492/darkctf-arena/src/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is a resolved caller: what the rest of the service trusts
// about who is making the request.
type Identity struct {
	UserID   uuid.UUID
	Username string
	IsAdmin  bool
}

type authClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// AuthService is the identity provider: it resolves bearer tokens to
// identities and mints tokens for the rest of the platform.
type AuthService struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// IssueToken mints a signed bearer token for a user.
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := authClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken resolves a bearer token to an identity. Any parse,
// signature, or expiry failure is an authentication failure; callers
// must not distinguish them to the client.
func (s *AuthService) VerifyToken(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*authClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, errors.New("invalid user id in token")
	}

	return &Identity{
		UserID:   userID,
		Username: claims.Username,
		IsAdmin:  claims.IsAdmin,
	}, nil
}
