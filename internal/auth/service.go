package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/repository"
)

// minPasswordLength は登録時に要求するパスワードの最小文字数。
const minPasswordLength = 8

// TokenIssuer はトークン発行のインターフェース。
// TokenServiceの部分集合として定義する。
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Service は登録・ログインの認証ビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, tokens TokenIssuer) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register は新規ユーザーを作成する。
// メールアドレスが登録済みの場合はEMAIL_EXISTS、パスワードが8文字未満の
// 場合はINVALID_PASSWORDを返す。平文パスワードとハッシュはログに出力しない。
func (s *Service) Register(ctx context.Context, email, password string) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmailExistsError()
	}

	// バイト数ではなく文字数で判定する（マルチバイトパスワード対応）
	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, model.NewInvalidPasswordError()
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// 事前チェックと挿入の間に同一メールが登録された場合の競合
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.NewEmailExistsError()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("new user registered", slog.String("user_id", user.ID))

	return user, nil
}

// Login はメールアドレスとパスワードを検証し、トークンを発行する。
// ユーザー列挙を防ぐため、メール未登録とパスワード不一致のどちらも
// 同一のINVALID_CREDENTIALSエラーを返す。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil || !VerifyPassword(password, user.PasswordHash) {
		return nil, "", model.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))

	return user, token, nil
}

// GetUserByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
// トークン検証後のユーザー解決に使用する。
func (s *Service) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}
