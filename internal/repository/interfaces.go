// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/taskman/internal/model"
)

// ErrDuplicateEmail はメールアドレスの一意制約違反を表す。
// UserRepository.Createがユニークインデックス違反を検出した場合に返す。
var ErrDuplicateEmail = errors.New("duplicate email")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// メールアドレスが既に存在する場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// TaskRepository はタスクデータの永続化インターフェース。
// すべての読み書きは所有ユーザーIDでスコープされる。
type TaskRepository interface {
	// Create はタスクを作成し、DB採番のIDと作成・更新日時をtaskに書き戻す。
	Create(ctx context.Context, task *model.Task) error

	// ListByUserID は指定ユーザーの全タスクをcreated_at降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Task, error)

	// FindByIDAndUserID は指定IDかつ指定ユーザー所有のタスクを取得する。
	// 存在しない、または他ユーザー所有の場合はnilを返す。
	FindByIDAndUserID(ctx context.Context, id int64, userID string) (*model.Task, error)

	// Update はタスクのtitle、description、completed、updated_atを上書きする。
	// 所有ユーザーが一致しない場合は何も更新しない。
	Update(ctx context.Context, task *model.Task) error

	// Delete は指定IDかつ指定ユーザー所有のタスクを削除する。
	// 削除対象が存在した場合はtrueを返す。
	Delete(ctx context.Context, id int64, userID string) (bool, error)
}
