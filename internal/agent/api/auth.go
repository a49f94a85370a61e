// В этом файле описаны методы клиента для регистрации и входа.
package api

import (
	"context"

	sm "github.com/IvanChernomyrdin/go-taskboard/internal/shared/models"
)

// Register регистрирует пользователя: POST /user/register.
func (c *Client) Register(ctx context.Context, name, email, password string) (sm.User, error) {
	var resp sm.User
	err := c.PostJSON(ctx, "/user/register", sm.RegisterRequest{Name: name, Email: email, Password: password}, &resp, "")
	return resp, err
}

// Login выполняет вход и возвращает access-токен: POST /user/login.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp sm.LoginResponse
	if err := c.PostJSON(ctx, "/user/login", sm.LoginRequest{Email: email, Password: password}, &resp, ""); err != nil {
		return "", err
	}
	return resp.Token, nil
}
