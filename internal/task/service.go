// Package task はタスク管理のドメインロジックを提供する。
package task

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/repository"
)

// Service はタスクCRUDのサービス層。
// すべての操作は認証済みユーザーのIDでスコープされ、
// 非所有タスクへのアクセスはTASK_NOT_FOUNDとして扱う。
type Service struct {
	taskRepo repository.TaskRepository
}

// NewService はServiceを生成する。
func NewService(taskRepo repository.TaskRepository) *Service {
	return &Service{taskRepo: taskRepo}
}

// List は指定ユーザーの全タスクをcreated_at降順で返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Task, error) {
	tasks, err := s.taskRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Create は指定ユーザー所有のタスクを作成して返す。
// タイトル・説明の形式検証はハンドラー側のリクエスト検証で行う。
func (s *Service) Create(ctx context.Context, userID, title string, description *string, completed bool) (*model.Task, error) {
	now := time.Now()
	task := &model.Task{
		Title:       title,
		Description: description,
		Completed:   completed,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// PartialUpdate はcompletedのみを更新する部分更新を行う。
// completedがnilの場合は更新日時の更新も含めて何も変更しない。
// タスクが存在しないか非所有の場合はTASK_NOT_FOUNDを返す。
func (s *Service) PartialUpdate(ctx context.Context, userID string, taskID int64, completed *bool) (*model.Task, error) {
	task, err := s.taskRepo.FindByIDAndUserID(ctx, taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError()
	}

	if completed == nil {
		return task, nil
	}

	task.Completed = *completed
	// 更新日時はDBトリガーではなく、変更箇所で明示的に設定する
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// FullUpdate はtitle、description、completedを無条件に上書きする全体更新を行う。
// 同じ値への上書きでもupdated_atを更新する。
// タスクが存在しないか非所有の場合はTASK_NOT_FOUNDを返す。
func (s *Service) FullUpdate(ctx context.Context, userID string, taskID int64, title string, description *string, completed bool) (*model.Task, error) {
	task, err := s.taskRepo.FindByIDAndUserID(ctx, taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError()
	}

	task.Title = title
	task.Description = description
	task.Completed = completed
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete は指定タスクを完全に削除する。
// タスクが存在しないか非所有の場合はTASK_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, userID string, taskID int64) error {
	deleted, err := s.taskRepo.Delete(ctx, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return model.NewTaskNotFoundError()
	}
	return nil
}
