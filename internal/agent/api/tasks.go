package api

import (
	"context"
	"net/url"
	"strconv"

	sm "github.com/IvanChernomyrdin/go-taskboard/internal/shared/models"
)

// TaskQuery — параметры GET /task. Нулевые значения не передаются, сервер подставит дефолты.
type TaskQuery struct {
	Page     int
	PageSize int
	Search   string
	Status   string
}

func (q TaskQuery) encode() string {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// CreateTask создаёт задачу: POST /task.
func (c *Client) CreateTask(ctx context.Context, token string, req sm.CreateTaskRequest) (sm.Task, error) {
	var resp sm.Task
	err := c.PostJSON(ctx, "/task", req, &resp, token)
	return resp, err
}

// ListTasks возвращает страницу задач: GET /task.
func (c *Client) ListTasks(ctx context.Context, token string, q TaskQuery) (sm.TaskList, error) {
	var resp sm.TaskList
	err := c.GetJSON(ctx, "/task"+q.encode(), &resp, token)
	return resp, err
}

// UpdateTask меняет переданные поля задачи: PUT /task/{id}.
func (c *Client) UpdateTask(ctx context.Context, token, id string, req sm.UpdateTaskRequest) (sm.Task, error) {
	var resp sm.Task
	err := c.PutJSON(ctx, "/task/"+url.PathEscape(id), req, &resp, token)
	return resp, err
}

// DeleteTask удаляет задачу: DELETE /task/{id}.
func (c *Client) DeleteTask(ctx context.Context, token, id string) error {
	return c.DeleteJSON(ctx, "/task/"+url.PathEscape(id), nil, token)
}
