package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	"github.com/hitoshi/taskman/internal/middleware"
	"github.com/hitoshi/taskman/internal/model"
)

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	List(ctx context.Context, userID string) ([]*model.Task, error)
	Create(ctx context.Context, userID, title string, description *string, completed bool) (*model.Task, error)
	PartialUpdate(ctx context.Context, userID string, taskID int64, completed *bool) (*model.Task, error)
	FullUpdate(ctx context.Context, userID string, taskID int64, title string, description *string, completed bool) (*model.Task, error)
	Delete(ctx context.Context, userID string, taskID int64) error
}

// TaskHandler はタスクCRUDのHTTPハンドラー。
type TaskHandler struct {
	service TaskServiceInterface
}

// NewTaskHandler はTaskHandlerを生成する。
func NewTaskHandler(service TaskServiceInterface) *TaskHandler {
	return &TaskHandler{service: service}
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

// Validate はタイトル（1〜200文字）と説明（1000文字以内）を検証する。
func (r createTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 1000)),
	)
}

type putTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

// Validate は全体更新のフィールドを検証する。タイトルは必須。
func (r putTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 1000)),
	)
}

type patchTaskRequest struct {
	Completed *bool `json:"completed"`
}

type taskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type taskListResponse struct {
	Tasks []taskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// toTaskResponse はドメインのTaskをレスポンス型に変換する。
func toTaskResponse(task *model.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// resolveOwner はパスのuserIDパラメータと認証済みユーザーを突き合わせる。
// 不一致・パラメータ不正の場合は、リソースの存在を秘匿するため404を書き込みfalseを返す。
func resolveOwner(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return nil, false
	}

	pathUserID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil || pathUserID.String() != user.ID {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewTaskNotFoundError())
		return nil, false
	}

	return user, true
}

// taskIDFromPath はパスのtaskIDパラメータを解析する。
// 不正な場合は404を書き込みfalseを返す。
func taskIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	taskID, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewTaskNotFoundError())
		return 0, false
	}
	return taskID, true
}

// List は認証済みユーザーの全タスクを件数付きで返す。
// GET /api/{userID}/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := resolveOwner(w, r)
	if !ok {
		return
	}

	tasks, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = toTaskResponse(task)
	}

	writeJSONResponse(w, http.StatusOK, taskListResponse{
		Tasks: responses,
		Total: len(responses),
	})
}

// Create は認証済みユーザー所有のタスクを作成する。
// POST /api/{userID}/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := resolveOwner(w, r)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("JSONの形式が正しくありません"))
		return
	}
	if err := req.Validate(); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError(err.Error()))
		return
	}

	task, err := h.service.Create(r.Context(), user.ID, req.Title, req.Description, req.Completed)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toTaskResponse(task))
}

// Patch はcompletedのみの部分更新を行う。
// PATCH /api/{userID}/tasks/{taskID}
func (h *TaskHandler) Patch(w http.ResponseWriter, r *http.Request) {
	user, ok := resolveOwner(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	var req patchTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("JSONの形式が正しくありません"))
		return
	}

	task, err := h.service.PartialUpdate(r.Context(), user.ID, taskID, req.Completed)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toTaskResponse(task))
}

// Put はtitle、description、completedを無条件に上書きする全体更新を行う。
// PUT /api/{userID}/tasks/{taskID}
func (h *TaskHandler) Put(w http.ResponseWriter, r *http.Request) {
	user, ok := resolveOwner(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	var req putTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("JSONの形式が正しくありません"))
		return
	}
	if err := req.Validate(); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError(err.Error()))
		return
	}

	task, err := h.service.FullUpdate(r.Context(), user.ID, taskID, req.Title, req.Description, req.Completed)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toTaskResponse(task))
}

// Delete はタスクを完全に削除する。
// DELETE /api/{userID}/tasks/{taskID}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := resolveOwner(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, taskID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
