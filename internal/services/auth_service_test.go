package services

import (
	"testing"

	"github.com/knagano/todolist-api/internal/models"
	"github.com/knagano/todolist-api/internal/repository"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewAuthService(repository.NewUserRepository(db))
}

func TestAuthService_Signup(t *testing.T) {
	svc := setupAuthServiceTest(t)

	user, err := svc.Signup(SignupInput{Email: "Alice@Example.com", Password: "password1"})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.NotEqual(t, "password1", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password1")))
}

func TestAuthService_SignupDuplicateEmailIsCaseInsensitive(t *testing.T) {
	svc := setupAuthServiceTest(t)

	_, err := svc.Signup(SignupInput{Email: "alice@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Signup(SignupInput{Email: "ALICE@example.com", Password: "password2"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_SignupRejectsShortPassword(t *testing.T) {
	svc := setupAuthServiceTest(t)

	_, err := svc.Signup(SignupInput{Email: "alice@example.com", Password: "short"})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAuthService_Login(t *testing.T) {
	svc := setupAuthServiceTest(t)

	created, err := svc.Signup(SignupInput{Email: "alice@example.com", Password: "password1"})
	require.NoError(t, err)

	user, err := svc.Login(LoginInput{Email: "ALICE@EXAMPLE.COM", Password: "password1"})
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	svc := setupAuthServiceTest(t)

	_, err := svc.Signup(SignupInput{Email: "alice@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Login(LoginInput{Email: "alice@example.com", Password: "wrongpass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email is indistinguishable from a wrong password.
	_, err = svc.Login(LoginInput{Email: "nobody@example.com", Password: "password1"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
