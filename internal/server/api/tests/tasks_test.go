package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-taskboard/internal/shared/errors"
	sm "github.com/IvanChernomyrdin/go-taskboard/internal/shared/models"
)

func TestTasks_RequireToken(t *testing.T) {
	h, _ := newTestHandler(t)
	id := uuid.New().String()

	for _, tc := range []struct{ method, target string }{
		{http.MethodPost, "/task"},
		{http.MethodGet, "/task"},
		{http.MethodPut, "/task/" + id},
		{http.MethodDelete, "/task/" + id},
	} {
		rec := do(t, routes(h), tc.method, tc.target, `{}`, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code, tc.method+" "+tc.target)
		require.Equal(t, serr.ErrUnauthorized.Error(), decodeError(t, rec).Message)
	}

	rec := do(t, routes(h), http.MethodGet, "/task", "", "garbage")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateTask_Created(t *testing.T) {
	h, m := newTestHandler(t)
	userID := uuid.New()
	taskID := uuid.New()

	m.tasks.EXPECT().Create(gomock.Any(), userID, "Buy milk", "").
		Return(models.Task{ID: taskID, Title: "Buy milk", Status: sm.TaskStatusPending, UserID: userID}, nil)

	rec := do(t, routes(h), http.MethodPost, "/task", `{"title":"Buy milk","description":""}`, tokenFor(t, userID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var task sm.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	require.Equal(t, taskID.String(), task.ID)
	require.Equal(t, userID.String(), task.UserID)
	require.Equal(t, sm.TaskStatusPending, task.Status)
}

func TestCreateTask_Validation(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, routes(h), http.MethodPost, "/task", `{"title":"ab"}`, tokenFor(t, uuid.New()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	requireIssue(t, body, "title", "min")
	requireIssue(t, body, "description", "required")
}

func TestCreateTask_OwnerDeleted(t *testing.T) {
	h, m := newTestHandler(t)
	userID := uuid.New()

	m.tasks.EXPECT().Create(gomock.Any(), userID, "Buy milk", "x").Return(models.Task{}, serr.ErrNotFound)

	rec := do(t, routes(h), http.MethodPost, "/task", `{"title":"Buy milk","description":"x"}`, tokenFor(t, userID))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListTasks_FilterFromQuery(t *testing.T) {
	h, m := newTestHandler(t)
	userID := uuid.New()

	want := models.TaskFilter{
		UserID:      userID,
		Search:      "milk",
		Status:      sm.TaskStatusDone,
		PageRequest: models.PageRequest{Page: 2, PageSize: 5},
	}
	m.tasks.EXPECT().List(gomock.Any(), want).
		Return([]models.Task{{ID: uuid.New(), Title: "Milk", UserID: userID}}, 6, nil)

	rec := do(t, routes(h), http.MethodGet, "/task?search=milk&status=done&page=2&pageSize=5", "", tokenFor(t, userID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var list sm.TaskList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	require.Equal(t, sm.Pagination{TotalItems: 6, CurrentPage: 2, PageSize: 5, TotalPages: 2}, list.Pagination)
}

func TestListTasks_BadQuery(t *testing.T) {
	h, _ := newTestHandler(t)
	tok := tokenFor(t, uuid.New())

	rec := do(t, routes(h), http.MethodGet, "/task?status=archived", "", tok)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	requireIssue(t, decodeError(t, rec), "status", "oneof")

	rec = do(t, routes(h), http.MethodGet, "/task?pageSize=51", "", tok)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	requireIssue(t, decodeError(t, rec), "pageSize", "max")
}

func TestUpdateTask(t *testing.T) {
	userID := uuid.New()
	taskID := uuid.New()

	t.Run("status only", func(t *testing.T) {
		h, m := newTestHandler(t)
		m.tasks.EXPECT().Update(gomock.Any(), taskID, userID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ uuid.UUID, p models.TaskPatch) (models.Task, error) {
				require.Nil(t, p.Title)
				require.Nil(t, p.Description)
				require.Equal(t, sm.TaskStatusInProgress, *p.Status)
				return models.Task{ID: taskID, Status: *p.Status, UserID: userID}, nil
			})

		rec := do(t, routes(h), http.MethodPut, "/task/"+taskID.String(), `{"status":"in_progress"}`, tokenFor(t, userID))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("foreign or missing", func(t *testing.T) {
		h, m := newTestHandler(t)
		m.tasks.EXPECT().Update(gomock.Any(), taskID, userID, gomock.Any()).Return(models.Task{}, serr.ErrNotFound)

		rec := do(t, routes(h), http.MethodPut, "/task/"+taskID.String(), `{"title":"Other"}`, tokenFor(t, userID))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "task not found or not yours", decodeError(t, rec).Message)
	})

	t.Run("bad status", func(t *testing.T) {
		h, _ := newTestHandler(t)

		rec := do(t, routes(h), http.MethodPut, "/task/"+taskID.String(), `{"status":"archived"}`, tokenFor(t, userID))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		requireIssue(t, decodeError(t, rec), "status", "oneof")
	})

	t.Run("wrong type", func(t *testing.T) {
		h, _ := newTestHandler(t)

		rec := do(t, routes(h), http.MethodPut, "/task/"+taskID.String(), `{"title":42}`, tokenFor(t, userID))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		requireIssue(t, decodeError(t, rec), "title", "type")
	})
}

func TestDeleteTask(t *testing.T) {
	userID := uuid.New()
	taskID := uuid.New()

	t.Run("deleted", func(t *testing.T) {
		h, m := newTestHandler(t)
		m.tasks.EXPECT().Delete(gomock.Any(), taskID, userID).Return(nil)

		rec := do(t, routes(h), http.MethodDelete, "/task/"+taskID.String(), "", tokenFor(t, userID))
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing", func(t *testing.T) {
		h, m := newTestHandler(t)
		m.tasks.EXPECT().Delete(gomock.Any(), taskID, userID).Return(serr.ErrNotFound)

		rec := do(t, routes(h), http.MethodDelete, "/task/"+taskID.String(), "", tokenFor(t, userID))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		h, _ := newTestHandler(t)

		rec := do(t, routes(h), http.MethodDelete, "/task/123", "", tokenFor(t, userID))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
