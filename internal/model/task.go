package model

import "time"

// Task はユーザーが所有するタスクを表す。
// IDはDB採番の連番。UserIDは作成後に変更されない。
type Task struct {
	ID          int64
	Title       string
	Description *string
	Completed   bool
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
