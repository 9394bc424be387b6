package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wearlab/tryon-backend/internal/apperrors"
	"github.com/wearlab/tryon-backend/internal/models"
	"github.com/wearlab/tryon-backend/internal/repository"
	"github.com/wearlab/tryon-backend/internal/service"
	"github.com/wearlab/tryon-backend/internal/testutil"
	"github.com/wearlab/tryon-backend/internal/utils"
)

func newAuthService(testDB *testutil.TestDatabase) *service.AuthService {
	userRepo := repository.NewUserRepository(testDB.DB)
	return service.NewAuthService(userRepo, "test-secret", time.Hour)
}

func TestSignUp_FirstRegistrantBecomesAdmin(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	svc := newAuthService(testDB)

	first, token, err := svc.SignUp("Alice", "alice", "Password123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, first.Role, "First account ever created is auto-promoted to admin")
	assert.NotEmpty(t, token)

	second, _, err := svc.SignUp("Bob", "bob", "Password123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, second.Role, "Later accounts are regular users")
}

func TestSignUp_DuplicateUsername(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	svc := newAuthService(testDB)

	_, _, err := svc.SignUp("Alice", "alice", "Password123")
	require.NoError(t, err)

	_, _, err = svc.SignUp("Another Alice", "alice", "Different456")

	require.Error(t, err)
	assert.Equal(t, apperrors.KindDuplicateUsername, apperrors.KindOf(err))

	var count int64
	testDB.DB.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count, "No second row may be created for a taken username")
}

func TestSignUp_StoresHashNotPassword(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	svc := newAuthService(testDB)

	user, _, err := svc.SignUp("Alice", "alice", "Password123")
	require.NoError(t, err)

	assert.NotEqual(t, "Password123", user.PasswordHash)
	assert.True(t, utils.CheckPassword("Password123", user.PasswordHash))
}

func TestLogin_Success(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	svc := newAuthService(testDB)
	_, _, err := svc.SignUp("Alice", "alice", "Password123")
	require.NoError(t, err)

	user, token, err := svc.Login("alice", "Password123")

	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, token)

	claims, err := utils.ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLogin_WrongPassword(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	svc := newAuthService(testDB)
	_, _, err := svc.SignUp("Alice", "alice", "Password123")
	require.NoError(t, err)

	_, _, err = svc.Login("alice", "wrong-password")

	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestLogin_UnknownUser(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	svc := newAuthService(testDB)

	_, _, err := svc.Login("nobody", "Password123")

	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestGetProfile(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	svc := newAuthService(testDB)
	_, _, err := svc.SignUp("Alice", "alice", "Password123")
	require.NoError(t, err)

	user, err := svc.GetProfile("alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)

	_, err = svc.GetProfile("nobody")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnknownUser, apperrors.KindOf(err))
}
