package users

import (
	"fmt"
	"time"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"

	"github.com/golang-jwt/jwt/v4"
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour

	// TokenTypeAccess and TokenTypeRefresh are the values of the "type"
	// claim; a refresh token is never accepted on API endpoints.
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenPair holds a freshly signed access and refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// GenerateTokens signs a new access (1h) and refresh (7d) token for user.
func (s *UserService) GenerateTokens(user model.User) (TokenPair, error) {
	now := time.Now()

	sign := func(tokenType string, ttl time.Duration) (string, error) {
		claims := jwt.MapClaims{
			"user_id":  user.ID,
			"is_admin": user.IsAdmin,
			"type":     tokenType,
			"iat":      now.Unix(),
			"exp":      now.Add(ttl).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString(s.jwtSecret)
		if err != nil {
			return "", fmt.Errorf("service: failed to sign %s token: %w", tokenType, err)
		}
		return signed, nil
	}

	access, err := sign(TokenTypeAccess, accessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := sign(TokenTypeRefresh, refreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ParseToken validates a signed token of the expected type and returns the
// principal it carries.
func (s *UserService) ParseToken(tokenString, wantType string) (userID uint, isAdmin bool, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, false, fmt.Errorf("service: %w - invalid or expired token", auctionerrors.ErrInvalidCredentials)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false, fmt.Errorf("service: %w - malformed token claims", auctionerrors.ErrInvalidCredentials)
	}
	if claims["type"] != wantType {
		return 0, false, fmt.Errorf("service: %w - wrong token type", auctionerrors.ErrInvalidCredentials)
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false, fmt.Errorf("service: %w - malformed token claims", auctionerrors.ErrInvalidCredentials)
	}
	admin, _ := claims["is_admin"].(bool)
	return uint(id), admin, nil
}

// RefreshTokens exchanges a valid refresh token for a new token pair,
// verifying that the account still exists.
func (s *UserService) RefreshTokens(refreshToken string) (TokenPair, error) {
	userID, _, err := s.ParseToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("service: %w - account no longer exists", auctionerrors.ErrInvalidCredentials)
	}
	return s.GenerateTokens(user)
}
