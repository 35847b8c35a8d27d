package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uap-campus/campus-fixer/internal/config"
	"github.com/uap-campus/campus-fixer/internal/domain"
	apperrors "github.com/uap-campus/campus-fixer/pkg/util"
)

type authFixture struct {
	service *AuthService
	users   *fakeUserRepo
	resets  *fakeResetRepo
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:  newFakeUserRepo(),
		resets: newFakeResetRepo(),
	}
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   60,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              4,
			AllowedEmailDomain:      "uap-bd.edu",
		},
	}
	f.service = NewAuthService(cfg, AuthDependencies{
		UserRepo:          f.users,
		PasswordResetRepo: f.resets,
	})
	return f
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Name:        "Nusrat Jahan",
		Email:       "nusrat@uap-bd.edu",
		Password:    "s3cret-pass",
		Role:        domain.RoleStudent,
		Department:  "CSE",
		PhoneNumber: "01712345678",
	}
}

func TestRegisterInstitutionalEmailOnly(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"exact domain", "nusrat@uap-bd.edu", false},
		{"subdomain", "nusrat@cse.uap-bd.edu", false},
		{"upper-cased host", "Nusrat@UAP-BD.EDU", false},
		{"gmail", "nusrat@gmail.com", true},
		{"lookalike suffix", "nusrat@notuap-bd.edu", true},
		{"missing at", "nusrat.uap-bd.edu", true},
		{"empty local part", "@uap-bd.edu", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			input := validRegistration()
			input.Email = tt.email

			user, token, _, err := f.service.Register(context.Background(), input)
			if tt.wantErr {
				var domainErr *apperrors.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Equal(t, domain.UserStatusActive, user.Status)
		})
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	f := newAuthFixture()
	input := validRegistration()
	input.Email = "  Nusrat@UAP-BD.EDU "

	user, _, _, err := f.service.Register(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "nusrat@uap-bd.edu", user.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	_, _, _, err := f.service.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, _, _, err = f.service.Register(context.Background(), validRegistration())
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	f := newAuthFixture()
	input := validRegistration()
	input.Role = "janitor"

	_, _, _, err := f.service.Register(context.Background(), input)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture()
	registered, _, _, err := f.service.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	user, token, exp, err := f.service.Login(context.Background(), "nusrat@uap-bd.edu", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	_, _, _, err = f.service.Login(context.Background(), "nusrat@uap-bd.edu", "wrong")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)

	_, _, _, err = f.service.Login(context.Background(), "nobody@uap-bd.edu", "s3cret-pass")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code, "unknown account must look like a bad password")
}

func TestLoginSuspendedAccount(t *testing.T) {
	f := newAuthFixture()
	user, _, _, err := f.service.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	user.Status = domain.UserStatusSuspended
	require.NoError(t, f.users.Update(context.Background(), user))

	_, _, _, err = f.service.Login(context.Background(), user.Email, "s3cret-pass")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture()
	_, _, _, err := f.service.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	token, err := f.service.RequestPasswordReset(context.Background(), "nusrat@uap-bd.edu")
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	require.NoError(t, f.service.ConfirmPasswordReset(context.Background(), token.Token, "new-pass"))

	_, _, _, err = f.service.Login(context.Background(), "nusrat@uap-bd.edu", "s3cret-pass")
	require.Error(t, err, "old password must be rejected after reset")

	_, _, _, err = f.service.Login(context.Background(), "nusrat@uap-bd.edu", "new-pass")
	require.NoError(t, err)

	// A token is single-use.
	err = f.service.ConfirmPasswordReset(context.Background(), token.Token, "another-pass")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestPasswordResetUnknownToken(t *testing.T) {
	f := newAuthFixture()

	err := f.service.ConfirmPasswordReset(context.Background(), "no-such-token", "new-pass")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestPasswordResetUnknownAccount(t *testing.T) {
	f := newAuthFixture()

	_, err := f.service.RequestPasswordReset(context.Background(), "ghost@uap-bd.edu")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
