package users

import (
	"testing"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/repository"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func validSignup() SignupInput {
	return SignupInput{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@Example.COM",
		Password:    "correct horse",
		DateOfBirth: time.Date(1990, time.December, 10, 0, 0, 0, 0, time.UTC),
	}
}

func newService() (*UserService, *repository.MemoryRepo) {
	repo := repository.NewMemoryRepo()
	return NewUserService(repo, testSecret), repo
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "domain_lowercased", input: "Ada@EXAMPLE.Com", expected: "Ada@example.com"},
		{name: "local_part_untouched", input: "MixedCase@example.com", expected: "MixedCase@example.com"},
		{name: "surrounding_space_trimmed", input: "  ada@example.com ", expected: "ada@example.com"},
		{name: "no_at_sign", input: "not-an-email", wantErr: true},
		{name: "missing_domain", input: "ada@", wantErr: true},
		{name: "missing_local_part", input: "@example.com", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeEmail(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, auctionerrors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestUserService_Signup(t *testing.T) {
	t.Run("stores_hashed_password_and_normalized_email", func(t *testing.T) {
		service, repo := newService()

		user, err := service.Signup(validSignup())
		require.NoError(t, err)
		require.Equal(t, "ada@example.com", user.Email)
		require.NotEqual(t, "correct horse", user.Password)

		stored, err := repo.GetUserByID(user.ID)
		require.NoError(t, err)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("correct horse")))
	})

	t.Run("duplicate_email_rejected", func(t *testing.T) {
		service, _ := newService()

		_, err := service.Signup(validSignup())
		require.NoError(t, err)

		again := validSignup()
		again.FirstName = "Other"
		_, err = service.Signup(again)
		require.ErrorIs(t, err, auctionerrors.ErrDuplicateEmail)
	})

	t.Run("short_password_rejected", func(t *testing.T) {
		service, _ := newService()

		in := validSignup()
		in.Password = "abc"
		_, err := service.Signup(in)
		require.ErrorIs(t, err, auctionerrors.ErrInvalidInput)
	})

	t.Run("missing_name_rejected", func(t *testing.T) {
		service, _ := newService()

		in := validSignup()
		in.FirstName = " "
		_, err := service.Signup(in)
		require.ErrorIs(t, err, auctionerrors.ErrInvalidInput)
	})
}

func TestUserService_Login(t *testing.T) {
	service, _ := newService()
	created, err := service.Signup(validSignup())
	require.NoError(t, err)

	t.Run("valid_credentials", func(t *testing.T) {
		user, tokens, err := service.Login("ada@example.com", "correct horse")
		require.NoError(t, err)
		require.Equal(t, created.ID, user.ID)
		require.NotEmpty(t, tokens.AccessToken)
		require.NotEmpty(t, tokens.RefreshToken)
	})

	t.Run("email_domain_case_insensitive", func(t *testing.T) {
		_, _, err := service.Login("ada@EXAMPLE.com", "correct horse")
		require.NoError(t, err)
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, _, err := service.Login("ada@example.com", "wrong")
		require.ErrorIs(t, err, auctionerrors.ErrInvalidCredentials)
	})

	t.Run("unknown_email_indistinguishable", func(t *testing.T) {
		_, _, err := service.Login("nobody@example.com", "correct horse")
		require.ErrorIs(t, err, auctionerrors.ErrInvalidCredentials)
	})
}

func TestUserService_Tokens(t *testing.T) {
	service, _ := newService()
	user, err := service.Signup(validSignup())
	require.NoError(t, err)

	tokens, err := service.GenerateTokens(user)
	require.NoError(t, err)

	t.Run("access_token_round_trips", func(t *testing.T) {
		userID, isAdmin, err := service.ParseToken(tokens.AccessToken, TokenTypeAccess)
		require.NoError(t, err)
		require.Equal(t, user.ID, userID)
		require.False(t, isAdmin)
	})

	t.Run("refresh_rejected_as_access", func(t *testing.T) {
		_, _, err := service.ParseToken(tokens.RefreshToken, TokenTypeAccess)
		require.ErrorIs(t, err, auctionerrors.ErrInvalidCredentials)
	})

	t.Run("refresh_exchanges_for_new_pair", func(t *testing.T) {
		fresh, err := service.RefreshTokens(tokens.RefreshToken)
		require.NoError(t, err)
		require.NotEmpty(t, fresh.AccessToken)

		userID, _, err := service.ParseToken(fresh.AccessToken, TokenTypeAccess)
		require.NoError(t, err)
		require.Equal(t, user.ID, userID)
	})

	t.Run("garbage_token_rejected", func(t *testing.T) {
		_, _, err := service.ParseToken("not.a.token", TokenTypeAccess)
		require.ErrorIs(t, err, auctionerrors.ErrInvalidCredentials)
	})

	t.Run("wrong_secret_rejected", func(t *testing.T) {
		other := NewUserService(repository.NewMemoryRepo(), "different-secret")
		_, _, err := other.ParseToken(tokens.AccessToken, TokenTypeAccess)
		require.ErrorIs(t, err, auctionerrors.ErrInvalidCredentials)
	})

	t.Run("refresh_fails_after_account_deleted", func(t *testing.T) {
		svc, repo := newService()
		u, err := svc.Signup(validSignup())
		require.NoError(t, err)
		pair, err := svc.GenerateTokens(u)
		require.NoError(t, err)

		require.NoError(t, repo.DeleteUser(u.ID))
		_, err = svc.RefreshTokens(pair.RefreshToken)
		require.ErrorIs(t, err, auctionerrors.ErrInvalidCredentials)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	service, _ := newService()
	user, err := service.Signup(validSignup())
	require.NoError(t, err)

	t.Run("partial_update", func(t *testing.T) {
		name := "Augusta"
		updated, err := service.UpdateProfile(user.ID, ProfileUpdate{FirstName: &name})
		require.NoError(t, err)
		require.Equal(t, "Augusta", updated.FirstName)
		require.Equal(t, user.LastName, updated.LastName)
		require.Equal(t, user.Email, updated.Email)
	})

	t.Run("email_renormalized", func(t *testing.T) {
		email := "New@EXAMPLE.org"
		updated, err := service.UpdateProfile(user.ID, ProfileUpdate{Email: &email})
		require.NoError(t, err)
		require.Equal(t, "New@example.org", updated.Email)
	})

	t.Run("password_rehashed", func(t *testing.T) {
		pw := "another password"
		updated, err := service.UpdateProfile(user.ID, ProfileUpdate{Password: &pw})
		require.NoError(t, err)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte(pw)))
	})

	t.Run("empty_name_rejected", func(t *testing.T) {
		blank := "  "
		_, err := service.UpdateProfile(user.ID, ProfileUpdate{FirstName: &blank})
		require.ErrorIs(t, err, auctionerrors.ErrInvalidInput)
	})
}

func TestUserService_ProfilePicture(t *testing.T) {
	service, _ := newService()
	user, err := service.Signup(validSignup())
	require.NoError(t, err)

	_, err = service.ClearProfilePicture(user.ID)
	require.ErrorIs(t, err, auctionerrors.ErrNoImage)

	old, err := service.SetProfilePicture(user.ID, "/media/me.png")
	require.NoError(t, err)
	require.Empty(t, old)

	old, err = service.ClearProfilePicture(user.ID)
	require.NoError(t, err)
	require.Equal(t, "/media/me.png", old)
}

func TestUserService_DeleteUser(t *testing.T) {
	service, _ := newService()
	user, err := service.Signup(validSignup())
	require.NoError(t, err)

	other := validSignup()
	other.Email = "second@example.com"
	second, err := service.Signup(other)
	require.NoError(t, err)

	t.Run("stranger_denied", func(t *testing.T) {
		err := service.DeleteUser(user.ID, second.ID, false)
		require.ErrorIs(t, err, auctionerrors.ErrPermissionDenied)
	})

	t.Run("self_delete", func(t *testing.T) {
		require.NoError(t, service.DeleteUser(user.ID, user.ID, false))
		_, err := service.GetProfile(user.ID)
		require.ErrorIs(t, err, auctionerrors.ErrUserNotFound)
	})

	t.Run("admin_deletes_other", func(t *testing.T) {
		require.NoError(t, service.DeleteUser(second.ID, 999, true))
	})
}
