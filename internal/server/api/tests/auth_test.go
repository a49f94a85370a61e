package tests

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-taskboard/internal/shared/errors"
	sm "github.com/IvanChernomyrdin/go-taskboard/internal/shared/models"
)

func TestRegister_Created(t *testing.T) {
	h, m := newTestHandler(t)
	id := uuid.New()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	m.users.EXPECT().GetByEmail(gomock.Any(), "alice@mail.com").Return(models.User{}, serr.ErrNotFound)
	m.users.EXPECT().
		Create(gomock.Any(), "Alice", "alice@mail.com", gomock.Not(gomock.Nil())).
		DoAndReturn(func(_ context.Context, name, email string, hash *string) (models.User, error) {
			return models.User{ID: id, Name: name, Email: email, PasswordHash: *hash, CreatedAt: created}, nil
		})

	rec := do(t, routes(h), http.MethodPost, "/user/register",
		`{"name":"Alice","email":"Alice@Mail.com","password":"secret1"}`, "")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotContains(t, rec.Body.String(), "password")

	var u sm.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	require.Equal(t, id.String(), u.ID)
	require.Equal(t, "alice@mail.com", u.Email)
	require.True(t, created.Equal(u.CreatedAt))
}

func TestRegister_BadJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, routes(h), http.MethodPost, "/user/register", `{bad json`, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "bad json", decodeError(t, rec).Message)
}

func TestRegister_Validation(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, routes(h), http.MethodPost, "/user/register",
		`{"name":"Al","email":"nope","password":"123"}`, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	requireIssue(t, body, "name", "min")
	requireIssue(t, body, "email", "email")
	requireIssue(t, body, "password", "min")
}

func TestRegister_EmailTaken(t *testing.T) {
	h, m := newTestHandler(t)

	m.users.EXPECT().GetByEmail(gomock.Any(), "alice@mail.com").Return(models.User{ID: uuid.New()}, nil)

	rec := do(t, routes(h), http.MethodPost, "/user/register",
		`{"name":"Alice","email":"alice@mail.com","password":"secret1"}`, "")

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "email already exists", decodeError(t, rec).Message)
}

func TestLogin_OK(t *testing.T) {
	h, m := newTestHandler(t)
	id := uuid.New()

	hash, err := testHasher.Hash("secret1")
	require.NoError(t, err)
	m.users.EXPECT().GetByEmail(gomock.Any(), "alice@mail.com").
		Return(models.User{ID: id, Name: "Alice", Email: "alice@mail.com", PasswordHash: hash}, nil)

	rec := do(t, routes(h), http.MethodPost, "/user/login",
		`{"email":"alice@mail.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp sm.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	claims, err := crypto.ParseAccessToken(resp.Token, testJWT)
	require.NoError(t, err)
	require.Equal(t, id.String(), claims.Subject)
	require.Equal(t, "Alice", claims.Name)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	hash, err := testHasher.Hash("secret1")
	require.NoError(t, err)

	cases := []struct {
		name string
		user models.User
		err  error
	}{
		{name: "unknown email", err: serr.ErrNotFound},
		{name: "wrong password", user: models.User{ID: uuid.New(), PasswordHash: hash}},
		{name: "no password set", user: models.User{ID: uuid.New()}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, m := newTestHandler(t)
			m.users.EXPECT().GetByEmail(gomock.Any(), "alice@mail.com").Return(tc.user, tc.err)

			rec := do(t, routes(h), http.MethodPost, "/user/login",
				`{"email":"alice@mail.com","password":"wrong-one"}`, "")

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Equal(t, "invalid credentials", decodeError(t, rec).Message)
		})
	}
}

func TestLogin_InternalErrorIsHidden(t *testing.T) {
	h, m := newTestHandler(t)
	m.users.EXPECT().GetByEmail(gomock.Any(), "alice@mail.com").
		Return(models.User{}, errors.New("connection reset by peer"))

	rec := do(t, routes(h), http.MethodPost, "/user/login",
		`{"email":"alice@mail.com","password":"secret1"}`, "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "internal error", decodeError(t, rec).Message)
	require.NotContains(t, rec.Body.String(), "connection reset")
}
