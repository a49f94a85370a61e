// Package api содержит HTTP-клиент для взаимодействия с сервером taskboard.
//
// Клиент инкапсулирует базовый URL сервера и настроенный http.Client,
// предоставляя методы для отправки JSON-запросов (POST/GET/PUT/DELETE)
// с авторизацией через Bearer токен.
//
// Особенности:
//   - baseURL нормализуется (обрезаются завершающие "/").
//   - По умолчанию добавляется заголовок Accept: application/json.
//   - Заголовок Content-Type: application/json добавляется только при наличии тела запроса.
//   - При ответах 204 No Content тело не читается и это считается успехом.
//   - При ошибочных ответах (не 2xx) возвращается *Error с сообщением сервера.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	serr "github.com/IvanChernomyrdin/go-taskboard/internal/shared/errors"
	sm "github.com/IvanChernomyrdin/go-taskboard/internal/shared/models"
)

// Client реализует HTTP-клиент для общения с сервером taskboard.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option настраивает Client.
type Option func(*Client)

// WithInsecureTLS отключает проверку сертификата сервера.
// Только для локального сервера с самоподписанным сертификатом.
func WithInsecureTLS() Option {
	return func(c *Client) {
		c.http.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // только для dev
		}
	}
}

// WithHTTPClient подменяет http.Client (тесты, прокси).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient создаёт новый HTTP-клиент для общения с сервером.
//
// baseURL — например "http://127.0.0.1:3333". Таймаут запроса 10 секунд.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Error — ошибочный ответ сервера.
type Error struct {
	Status  int
	Message string
	Issues  []serr.Issue
}

func (e *Error) Error() string {
	if len(e.Issues) == 0 {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Field+" "+is.Message)
	}
	return fmt.Sprintf("%d: %s (%s)", e.Status, e.Message, strings.Join(parts, "; "))
}

// Unwrap сводит статус к общим ошибкам, чтобы CLI мог проверять errors.Is.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return serr.ErrUnauthorized
	case http.StatusNotFound:
		return serr.ErrNotFound
	case http.StatusConflict:
		return serr.ErrAlreadyExists
	case http.StatusTooManyRequests:
		return serr.ErrTooManyRequests
	case http.StatusBadRequest:
		return serr.ErrInvalidInput
	default:
		return nil
	}
}

// readAPIError читает тело ответа сервера: {"message", "issues"} либо просто текст.
func readAPIError(res *http.Response) error {
	raw, _ := io.ReadAll(res.Body)

	var body sm.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return &Error{Status: res.StatusCode, Message: body.Message, Issues: body.Issues}
	}

	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = res.Status
	}
	return &Error{Status: res.StatusCode, Message: msg}
}

// do отправляет запрос; req == nil — без тела, resp == nil — ответ не декодируется.
func (c *Client) do(ctx context.Context, method, path string, req, resp any, authToken string) error {
	var body io.Reader
	if req != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(req); err != nil {
			return err
		}
		body = &buf
	}

	r, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	r.Header.Set("Accept", "application/json")
	if req != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if authToken != "" {
		r.Header.Set("Authorization", "Bearer "+authToken)
	}

	res, err := c.http.Do(r)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return readAPIError(res)
	}
	// 204/пустое тело — ок
	if res.StatusCode == http.StatusNoContent || resp == nil {
		return nil
	}

	err = json.NewDecoder(res.Body).Decode(resp)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// PostJSON выполняет POST-запрос, сериализуя req в JSON.
func (c *Client) PostJSON(ctx context.Context, path string, req, resp any, authToken string) error {
	return c.do(ctx, http.MethodPost, path, req, resp, authToken)
}

// GetJSON выполняет GET-запрос и декодирует JSON-ответ в resp.
func (c *Client) GetJSON(ctx context.Context, path string, resp any, authToken string) error {
	return c.do(ctx, http.MethodGet, path, nil, resp, authToken)
}

// PutJSON выполняет PUT-запрос, сериализуя req в JSON.
func (c *Client) PutJSON(ctx context.Context, path string, req, resp any, authToken string) error {
	return c.do(ctx, http.MethodPut, path, req, resp, authToken)
}

// DeleteJSON выполняет DELETE-запрос.
func (c *Client) DeleteJSON(ctx context.Context, path string, resp any, authToken string) error {
	return c.do(ctx, http.MethodDelete, path, nil, resp, authToken)
}
