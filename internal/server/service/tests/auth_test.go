package tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	crypt "github.com/IvanChernomyrdin/go-taskboard/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/models"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/service"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-taskboard/internal/shared/errors"
)

var testJWT = crypt.JWTConfig{
	SigningKey: "supersecretkeysupersecretkey123456",
	AccessTTL:  7 * 24 * time.Hour,
}

var testHasher = crypt.BcryptHasher{Cost: bcrypt.MinCost}

// создаём сервис
func newAuthService(t *testing.T) (*service.AuthService, *mocks.MockUsersRepo) {
	t.Helper()

	ctrl := gomock.NewController(t)
	users := mocks.NewMockUsersRepo(ctrl)

	return service.NewAuthService(users, testHasher, testJWT), users
}

func TestAuthService_Register_OK(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	users.EXPECT().GetByEmail(ctx, "alice@mail.com").Return(models.User{}, serr.ErrNotFound)
	users.EXPECT().
		Create(ctx, "Alice", "alice@mail.com", gomock.Any()).
		DoAndReturn(func(_ context.Context, name, email string, hash *string) (models.User, error) {
			require.NotNil(t, hash)
			require.NotEqual(t, "secret1", *hash)
			ok, err := testHasher.Verify("secret1", *hash)
			require.NoError(t, err)
			require.True(t, ok)
			return models.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: *hash}, nil
		})

	u, err := svc.Register(ctx, "Alice", "  Alice@Mail.com ", "secret1")
	require.NoError(t, err)
	require.Equal(t, "alice@mail.com", u.Email)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	users.EXPECT().GetByEmail(ctx, "alice@mail.com").Return(models.User{ID: uuid.New()}, nil)

	_, err := svc.Register(ctx, "Alice", "alice@mail.com", "secret1")
	require.ErrorIs(t, err, serr.ErrEmailTaken)
	require.ErrorIs(t, err, serr.ErrAlreadyExists)
}

// вторая регистрация проиграла гонку на уникальном индексе
func TestAuthService_Register_RaceOnUniqueIndex(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	users.EXPECT().GetByEmail(ctx, "alice@mail.com").Return(models.User{}, serr.ErrNotFound)
	users.EXPECT().Create(ctx, "Alice", "alice@mail.com", gomock.Any()).Return(models.User{}, serr.ErrAlreadyExists)

	_, err := svc.Register(ctx, "Alice", "alice@mail.com", "secret1")
	require.ErrorIs(t, err, serr.ErrEmailTaken)
}

func TestAuthService_Register_LookupFails(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	users.EXPECT().GetByEmail(ctx, "alice@mail.com").Return(models.User{}, serr.ErrInternal)

	_, err := svc.Register(ctx, "Alice", "alice@mail.com", "secret1")
	require.ErrorIs(t, err, serr.ErrInternal)
}

// Успех: sub = id, exp - iat = 7 дней
func TestAuthService_Login_OK(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	userID := uuid.New()
	hash, err := testHasher.Hash("strongpassword")
	require.NoError(t, err)

	users.EXPECT().
		GetByEmail(ctx, "test@mail.com").
		Return(models.User{ID: userID, Name: "Tester", Email: "test@mail.com", PasswordHash: hash}, nil)

	token, err := svc.Login(ctx, "TEST@mail.com", "strongpassword")
	require.NoError(t, err)

	claims, err := crypt.ParseAccessToken(token, testJWT)
	require.NoError(t, err)
	require.Equal(t, userID.String(), claims.Subject)
	require.Equal(t, "Tester", claims.Name)
	require.Equal(t, 7*24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

// Неверный пароль и неизвестный email дают одну и ту же ошибку
func TestAuthService_Login_InvalidCredentialsAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	hash, err := testHasher.Hash("correct-password")
	require.NoError(t, err)

	users.EXPECT().GetByEmail(ctx, "known@mail.com").
		Return(models.User{ID: uuid.New(), PasswordHash: hash}, nil)
	users.EXPECT().GetByEmail(ctx, "unknown@mail.com").
		Return(models.User{}, serr.ErrNotFound)

	_, errWrong := svc.Login(ctx, "known@mail.com", "wrong-password")
	_, errUnknown := svc.Login(ctx, "unknown@mail.com", "whatever")

	require.Equal(t, serr.ErrInvalidCredentials, errWrong)
	require.Equal(t, errWrong, errUnknown)
}

// пользователь из POST /users без пароля
func TestAuthService_Login_UserWithoutPassword(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	users.EXPECT().GetByEmail(ctx, "plain@mail.com").Return(models.User{ID: uuid.New()}, nil)

	_, err := svc.Login(ctx, "plain@mail.com", "anything")
	require.Equal(t, serr.ErrInvalidCredentials, err)
}

func TestAuthService_Login_BrokenHash(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	users.EXPECT().GetByEmail(ctx, "test@mail.com").
		Return(models.User{ID: uuid.New(), PasswordHash: "garbage"}, nil)

	_, err := svc.Login(ctx, "test@mail.com", "password")
	require.ErrorIs(t, err, serr.ErrInternal)
}
