package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/taskman/internal/model"
)

const (
	ownerID = "8a2e6b1c-1111-4c2d-9e3f-000000000001"
	otherID = "8a2e6b1c-2222-4c2d-9e3f-000000000002"
)

// --- モック定義 ---

type mockTaskService struct {
	listFn          func(ctx context.Context, userID string) ([]*model.Task, error)
	createFn        func(ctx context.Context, userID, title string, description *string, completed bool) (*model.Task, error)
	partialUpdateFn func(ctx context.Context, userID string, taskID int64, completed *bool) (*model.Task, error)
	fullUpdateFn    func(ctx context.Context, userID string, taskID int64, title string, description *string, completed bool) (*model.Task, error)
	deleteFn        func(ctx context.Context, userID string, taskID int64) error
}

func (m *mockTaskService) List(ctx context.Context, userID string) ([]*model.Task, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockTaskService) Create(ctx context.Context, userID, title string, description *string, completed bool) (*model.Task, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, title, description, completed)
	}
	return &model.Task{ID: 1, Title: title, Description: description, Completed: completed, UserID: userID}, nil
}

func (m *mockTaskService) PartialUpdate(ctx context.Context, userID string, taskID int64, completed *bool) (*model.Task, error) {
	if m.partialUpdateFn != nil {
		return m.partialUpdateFn(ctx, userID, taskID, completed)
	}
	return &model.Task{ID: taskID, UserID: userID}, nil
}

func (m *mockTaskService) FullUpdate(ctx context.Context, userID string, taskID int64, title string, description *string, completed bool) (*model.Task, error) {
	if m.fullUpdateFn != nil {
		return m.fullUpdateFn(ctx, userID, taskID, title, description, completed)
	}
	return &model.Task{ID: taskID, Title: title, Description: description, Completed: completed, UserID: userID}, nil
}

func (m *mockTaskService) Delete(ctx context.Context, userID string, taskID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, taskID)
	}
	return nil
}

type staticDecoder struct {
	userID string
}

func (d *staticDecoder) Decode(tokenString string) (string, error) {
	if tokenString == "valid-token" {
		return d.userID, nil
	}
	return "", errors.New("invalid token")
}

type staticUserFinder struct {
	user *model.User
}

func (f *staticUserFinder) FindByID(ctx context.Context, id string) (*model.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, nil
}

type staticResponder struct{}

func (staticResponder) Reply(message string) string { return "static reply" }

// newTestRouter は認証済みユーザーownerIDを前提としたテスト用ルーターを構築する。
func newTestRouter(taskService TaskServiceInterface) http.Handler {
	return NewRouter(&RouterDeps{
		TokenDecoder:      &staticDecoder{userID: ownerID},
		UserFinder:        &staticUserFinder{user: &model.User{ID: ownerID, Email: "owner@example.com"}},
		CORSAllowedOrigin: "http://localhost:3000",
		AuthService:       &mockAuthService{},
		AuthConfig:        AuthHandlerConfig{TokenMaxAge: time.Hour},
		TaskService:       taskService,
		ChatResponder:     staticResponder{},
	})
}

func doAuthedRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer valid-token")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// --- テスト ---

func TestTaskHandler_List(t *testing.T) {
	desc := "task description"
	svc := &mockTaskService{
		listFn: func(ctx context.Context, userID string) ([]*model.Task, error) {
			if userID != ownerID {
				t.Errorf("userID = %q, want owner", userID)
			}
			return []*model.Task{
				{ID: 2, Title: "second", Description: &desc, UserID: userID},
				{ID: 1, Title: "first", UserID: userID},
			}, nil
		},
	}
	router := newTestRouter(svc)

	rr := doAuthedRequest(router, http.MethodGet, "/api/"+ownerID+"/tasks", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var body taskListResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Total != 2 || len(body.Tasks) != 2 {
		t.Fatalf("total = %d, tasks = %d, want 2", body.Total, len(body.Tasks))
	}
	if body.Tasks[0].ID != 2 {
		t.Errorf("first task ID = %d, want 2", body.Tasks[0].ID)
	}
}

func TestTaskHandler_List_EmptyIsZeroTotal(t *testing.T) {
	router := newTestRouter(&mockTaskService{})

	rr := doAuthedRequest(router, http.MethodGet, "/api/"+ownerID+"/tasks", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body taskListResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Total != 0 {
		t.Errorf("total = %d, want 0", body.Total)
	}
}

func TestTaskHandler_Create(t *testing.T) {
	var gotCompleted bool
	svc := &mockTaskService{
		createFn: func(ctx context.Context, userID, title string, description *string, completed bool) (*model.Task, error) {
			gotCompleted = completed
			return &model.Task{ID: 7, Title: title, Description: description, Completed: completed, UserID: userID}, nil
		},
	}
	router := newTestRouter(svc)

	rr := doAuthedRequest(router, http.MethodPost, "/api/"+ownerID+"/tasks",
		`{"title":"buy milk","description":"2 liters","completed":true}`)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}

	var body taskResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.ID != 7 || body.Title != "buy milk" {
		t.Errorf("body = %+v", body)
	}
	if body.Description == nil || *body.Description != "2 liters" {
		t.Error("description should round-trip")
	}
	if !gotCompleted {
		t.Error("completed = false, want true")
	}
}

func TestTaskHandler_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{not json`},
		{"missing title", `{"description":"no title"}`},
		{"empty title", `{"title":""}`},
		{"title too long", fmt.Sprintf(`{"title":%q}`, strings.Repeat("x", 201))},
		{"description too long", fmt.Sprintf(`{"title":"t","description":%q}`, strings.Repeat("x", 1001))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockTaskService{
				createFn: func(ctx context.Context, userID, title string, description *string, completed bool) (*model.Task, error) {
					t.Error("Create should not be called")
					return nil, nil
				},
			}
			router := newTestRouter(svc)

			rr := doAuthedRequest(router, http.MethodPost, "/api/"+ownerID+"/tasks", tt.body)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
		})
	}
}

// 他人のユーザーIDを指定したアクセスが404になることを検証
func TestTaskHandler_OwnershipMismatchIs404(t *testing.T) {
	svc := &mockTaskService{
		listFn: func(ctx context.Context, userID string) ([]*model.Task, error) {
			t.Error("service should not be reached for a mismatched owner")
			return nil, nil
		},
	}
	router := newTestRouter(svc)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"list", http.MethodGet, "/api/" + otherID + "/tasks", ""},
		{"create", http.MethodPost, "/api/" + otherID + "/tasks", `{"title":"x"}`},
		{"patch", http.MethodPatch, "/api/" + otherID + "/tasks/1", `{"completed":true}`},
		{"put", http.MethodPut, "/api/" + otherID + "/tasks/1", `{"title":"x"}`},
		{"delete", http.MethodDelete, "/api/" + otherID + "/tasks/1", ""},
		{"non-uuid user id", http.MethodGet, "/api/not-a-uuid/tasks", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doAuthedRequest(router, tt.method, tt.path, tt.body)

			if rr.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", rr.Code)
			}
			if code := decodeErrorCode(t, rr); code != model.ErrCodeTaskNotFound {
				t.Errorf("error code = %q, want TASK_NOT_FOUND", code)
			}
		})
	}
}

// 未認証アクセスが401になることを検証
func TestTaskHandler_Unauthenticated(t *testing.T) {
	router := newTestRouter(&mockTaskService{})

	req := httptest.NewRequest(http.MethodGet, "/api/"+ownerID+"/tasks", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestTaskHandler_Patch(t *testing.T) {
	var gotCompleted *bool
	svc := &mockTaskService{
		partialUpdateFn: func(ctx context.Context, userID string, taskID int64, completed *bool) (*model.Task, error) {
			gotCompleted = completed
			return &model.Task{ID: taskID, Title: "unchanged", Completed: *completed, UserID: userID}, nil
		},
	}
	router := newTestRouter(svc)

	rr := doAuthedRequest(router, http.MethodPatch, "/api/"+ownerID+"/tasks/7", `{"completed":true}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if gotCompleted == nil || !*gotCompleted {
		t.Error("completed = nil or false, want true")
	}
}

func TestTaskHandler_Patch_NotFound(t *testing.T) {
	svc := &mockTaskService{
		partialUpdateFn: func(ctx context.Context, userID string, taskID int64, completed *bool) (*model.Task, error) {
			return nil, model.NewTaskNotFoundError()
		},
	}
	router := newTestRouter(svc)

	rr := doAuthedRequest(router, http.MethodPatch, "/api/"+ownerID+"/tasks/99", `{"completed":true}`)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

// 数値でないタスクIDが404になることを検証
func TestTaskHandler_NonNumericTaskID(t *testing.T) {
	router := newTestRouter(&mockTaskService{
		partialUpdateFn: func(ctx context.Context, userID string, taskID int64, completed *bool) (*model.Task, error) {
			t.Error("service should not be reached for a malformed task id")
			return nil, nil
		},
	})

	rr := doAuthedRequest(router, http.MethodPatch, "/api/"+ownerID+"/tasks/abc", `{"completed":true}`)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestTaskHandler_Put(t *testing.T) {
	var gotTitle string
	var gotDescription *string
	svc := &mockTaskService{
		fullUpdateFn: func(ctx context.Context, userID string, taskID int64, title string, description *string, completed bool) (*model.Task, error) {
			gotTitle = title
			gotDescription = description
			return &model.Task{ID: taskID, Title: title, Description: description, Completed: completed, UserID: userID}, nil
		},
	}
	router := newTestRouter(svc)

	rr := doAuthedRequest(router, http.MethodPut, "/api/"+ownerID+"/tasks/7", `{"title":"new title","completed":true}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if gotTitle != "new title" {
		t.Errorf("title = %q, want new title", gotTitle)
	}
	if gotDescription != nil {
		t.Error("omitted description should be passed as nil")
	}
}

func TestTaskHandler_Put_TitleRequired(t *testing.T) {
	router := newTestRouter(&mockTaskService{})

	rr := doAuthedRequest(router, http.MethodPut, "/api/"+ownerID+"/tasks/7", `{"completed":true}`)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestTaskHandler_Delete(t *testing.T) {
	var gotTaskID int64
	svc := &mockTaskService{
		deleteFn: func(ctx context.Context, userID string, taskID int64) error {
			gotTaskID = taskID
			return nil
		},
	}
	router := newTestRouter(svc)

	rr := doAuthedRequest(router, http.MethodDelete, "/api/"+ownerID+"/tasks/7", "")

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204: %s", rr.Code, rr.Body.String())
	}
	if gotTaskID != 7 {
		t.Errorf("taskID = %d, want 7", gotTaskID)
	}
	if rr.Body.Len() != 0 {
		t.Error("204 response should have an empty body")
	}
}

func TestTaskHandler_Delete_NotFound(t *testing.T) {
	svc := &mockTaskService{
		deleteFn: func(ctx context.Context, userID string, taskID int64) error {
			return model.NewTaskNotFoundError()
		},
	}
	router := newTestRouter(svc)

	rr := doAuthedRequest(router, http.MethodDelete, "/api/"+ownerID+"/tasks/99", "")

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}
