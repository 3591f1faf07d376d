package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/service-requests/internal/auth"
	"github.com/spec-kit/service-requests/internal/config"
	"github.com/spec-kit/service-requests/internal/domain"
	"github.com/spec-kit/service-requests/internal/repository"
	apperrors "github.com/spec-kit/service-requests/pkg/util/errorutil"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5, BcryptCost: 4}}
	return NewAuthService(cfg, AuthDependencies{
		UserRepo:  repository.NewMemoryUserRepository(),
		AdminRepo: repository.NewMemoryAdminRepository(),
		Revoker:   auth.NewMemoryRevoker(),
	})
}

func validRegistration() RegisterInput {
	return RegisterInput{
		FullName:        "Ana Cruz",
		StudentID:       "2021-00042",
		Email:           "Ana@Uni.edu",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	user, token, _, err := svc.RegisterUser(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "ana@uni.edu", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.SubjectID)
	assert.Equal(t, domain.SubjectTypeUser, claims.Subject)

	loggedIn, _, _, err := svc.LoginUser(ctx, " ANA@uni.edu ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	_, _, _, err = svc.LoginUser(ctx, "ana@uni.edu", "wrong")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	_, _, _, err = svc.LoginUser(ctx, "nobody@uni.edu", "secret1")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestAuthService_RegisterUser_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*RegisterInput)
		want   []string
	}{
		{name: "error: short password", mutate: func(in *RegisterInput) {
			in.Password, in.ConfirmPassword = "abc", "abc"
		}, want: []string{"Password must be at least 6 characters."}},
		{name: "error: confirmation mismatch", mutate: func(in *RegisterInput) {
			in.ConfirmPassword = "secret2"
		}, want: []string{"Passwords do not match."}},
		{name: "error: blank fields", mutate: func(in *RegisterInput) {
			in.FullName, in.StudentID, in.Email = " ", "", "bad"
		}, want: []string{"Full name is required.", "Student/Employee ID is required.", "Please enter a valid email."}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := validRegistration()
			tc.mutate(&in)
			_, _, _, err := newAuthService(t).RegisterUser(context.Background(), in)
			require.Error(t, err)
			de := apperrors.ToDomainError(err)
			assert.Equal(t, apperrors.CodeValidationFailed, de.Code)
			assert.Equal(t, tc.want, de.Details["errors"])
		})
	}
}

func TestAuthService_RegisterUser_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)
	_, _, _, err := svc.RegisterUser(ctx, validRegistration())
	require.NoError(t, err)

	dupEmail := validRegistration()
	dupEmail.StudentID = "other"
	_, _, _, err = svc.RegisterUser(ctx, dupEmail)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	dupStudent := validRegistration()
	dupStudent.Email = "other@uni.edu"
	_, _, _, err = svc.RegisterUser(ctx, dupStudent)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestAuthService_SeedAdminAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	created, err := svc.SeedAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.SeedAdmin(ctx, "other", "pw")
	require.NoError(t, err)
	assert.False(t, created, "seeding only happens once")

	admin, token, _, err := svc.LoginAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)
	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeAdmin, claims.Subject)

	_, _, _, err = svc.LoginAdmin(ctx, "admin", "nope")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	_, _, _, err = svc.LoginAdmin(ctx, "other", "pw")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)
	_, token, _, err := svc.RegisterUser(ctx, validRegistration())
	require.NoError(t, err)
	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))
	revoked, err := svc.Revoker().IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.True(t, apperrors.IsCode(svc.Logout(ctx, nil), apperrors.CodeUnauthorized))
}
