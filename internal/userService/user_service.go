package users

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// SignupInput carries the fields for registering an account.
type SignupInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	DateOfBirth time.Time
}

// ProfileUpdate carries optional profile changes; nil fields are left as-is.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Password    *string
	DateOfBirth *time.Time
}

// UserService defines the business logic for accounts and authentication
type UserService struct {
	repo      repository.AuctionDB
	jwtSecret []byte
}

// NewUserService creates a new UserService instance
func NewUserService(repo repository.AuctionDB, jwtSecret string) *UserService {
	return &UserService{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
	}
}

// NormalizeEmail lowercases the domain part of an address. The local part
// is left untouched; only the domain is case-insensitive by the RFC.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", fmt.Errorf("service: %w - malformed email address", auctionerrors.ErrInvalidInput)
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:]), nil
}

// Signup registers a new account with a bcrypt-hashed password.
func (s *UserService) Signup(in SignupInput) (model.User, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return model.User{}, fmt.Errorf("service: %w - first and last name are required", auctionerrors.ErrInvalidInput)
	}
	if in.DateOfBirth.IsZero() {
		return model.User{}, fmt.Errorf("service: %w - date of birth is required", auctionerrors.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLength {
		return model.User{}, fmt.Errorf("service: %w - password must be at least %d characters", auctionerrors.ErrInvalidInput, minPasswordLength)
	}
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return model.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("service: failed to hash password: %w", err)
	}

	user := model.User{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       email,
		Password:    string(hash),
		DateOfBirth: model.DateOnly(in.DateOfBirth),
	}
	if err := s.repo.CreateUser(&user); err != nil {
		return model.User{}, fmt.Errorf("service: failed to create user: %w", err)
	}
	return user, nil
}

// Login checks credentials and returns the account with a fresh token pair.
// Unknown address and wrong password are indistinguishable to the caller.
func (s *UserService) Login(email, password string) (model.User, TokenPair, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}

	user, err := s.repo.GetUserByEmail(normalized)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrUserNotFound) {
			return model.User{}, TokenPair{}, fmt.Errorf("service: %w", auctionerrors.ErrInvalidCredentials)
		}
		return model.User{}, TokenPair{}, fmt.Errorf("service: failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return model.User{}, TokenPair{}, fmt.Errorf("service: %w", auctionerrors.ErrInvalidCredentials)
	}

	tokens, err := s.GenerateTokens(user)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}
	return user, tokens, nil
}

// GetProfile returns the account for the given ID.
func (s *UserService) GetProfile(userID uint) (model.User, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return model.User{}, fmt.Errorf("service: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of upd to the account.
func (s *UserService) UpdateProfile(userID uint, upd ProfileUpdate) (model.User, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return model.User{}, fmt.Errorf("service: %w", err)
	}

	if upd.FirstName != nil {
		if strings.TrimSpace(*upd.FirstName) == "" {
			return model.User{}, fmt.Errorf("service: %w - first name cannot be empty", auctionerrors.ErrInvalidInput)
		}
		user.FirstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		if strings.TrimSpace(*upd.LastName) == "" {
			return model.User{}, fmt.Errorf("service: %w - last name cannot be empty", auctionerrors.ErrInvalidInput)
		}
		user.LastName = strings.TrimSpace(*upd.LastName)
	}
	if upd.Email != nil {
		email, err := NormalizeEmail(*upd.Email)
		if err != nil {
			return model.User{}, err
		}
		user.Email = email
	}
	if upd.DateOfBirth != nil {
		user.DateOfBirth = model.DateOnly(*upd.DateOfBirth)
	}
	if upd.Password != nil {
		if len(*upd.Password) < minPasswordLength {
			return model.User{}, fmt.Errorf("service: %w - password must be at least %d characters", auctionerrors.ErrInvalidInput, minPasswordLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return model.User{}, fmt.Errorf("service: failed to hash password: %w", err)
		}
		user.Password = string(hash)
	}

	if err := s.repo.UpdateUser(&user); err != nil {
		return model.User{}, fmt.Errorf("service: failed to update user %d: %w", userID, err)
	}
	return user, nil
}

// SetProfilePicture records a freshly stored picture URL and returns the
// previous one so the caller can clean up the old file.
func (s *UserService) SetProfilePicture(userID uint, url string) (string, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return "", fmt.Errorf("service: %w", err)
	}
	old := user.ProfilePicture
	user.ProfilePicture = url
	if err := s.repo.UpdateUser(&user); err != nil {
		return "", fmt.Errorf("service: failed to set profile picture for user %d: %w", userID, err)
	}
	return old, nil
}

// ClearProfilePicture removes the picture reference and returns the old
// URL for file cleanup. Deleting a nonexistent picture is an error.
func (s *UserService) ClearProfilePicture(userID uint) (string, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return "", fmt.Errorf("service: %w", err)
	}
	if user.ProfilePicture == "" {
		return "", fmt.Errorf("service: %w", auctionerrors.ErrNoImage)
	}
	old := user.ProfilePicture
	user.ProfilePicture = ""
	if err := s.repo.UpdateUser(&user); err != nil {
		return "", fmt.Errorf("service: failed to clear profile picture for user %d: %w", userID, err)
	}
	return old, nil
}

// DeleteUser removes an account. Allowed for admins and the account holder;
// references in items, bids and messages are nulled so the auction history
// survives.
func (s *UserService) DeleteUser(targetID, actorID uint, isAdmin bool) error {
	if !isAdmin && targetID != actorID {
		return fmt.Errorf("service: %w", auctionerrors.ErrPermissionDenied)
	}
	if err := s.repo.DeleteUser(targetID); err != nil {
		return fmt.Errorf("service: failed to delete user %d: %w", targetID, err)
	}
	return nil
}
