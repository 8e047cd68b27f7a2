// Package auth はサインアップ、サインイン、アクセストークン管理を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/edugram/internal/model"
	"github.com/hitoshi/edugram/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	BCryptCost int
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	tokens   *TokenManager
	config   ServiceConfig
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, tokens *TokenManager, config ServiceConfig) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
		config:   config,
	}
}

// SignUp は新規ユーザーを登録する。
// メールアドレスとユーザー名の重複は事前チェックと
// データベースの一意制約の二段階で防止する。
// パスワードはbcryptでハッシュ化し、平文は保持しない。
func (s *Service) SignUp(ctx context.Context, name, userName, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	userName = strings.TrimSpace(userName)
	email = strings.TrimSpace(email)

	if name == "" || userName == "" || email == "" || password == "" {
		return nil, model.NewInvalidInputError("name, userName, email, password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, model.NewInvalidInputError("invalid email address")
	}
	if len(password) < 6 {
		return nil, model.NewInvalidInputError("password must be at least 6 characters")
	}

	exists, err := s.userRepo.ExistsByEmailOrUserName(ctx, email, userName)
	if err != nil {
		return nil, fmt.Errorf("failed to check duplicate user: %w", err)
	}
	if exists {
		return nil, model.NewDuplicateUserError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		UserName:     userName,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// 事前チェックとINSERTの間に同一メール・ユーザー名が
		// 登録された場合は一意制約違反になる。
		if isUniqueViolation(err) {
			return nil, model.NewDuplicateUserError()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user signed up", "user_id", user.ID, "user_name", user.UserName)
	return user, nil
}

// SignIn はメールアドレスとパスワードで認証し、アクセストークンを発行する。
// ユーザー不在とパスワード不一致は同一のエラーを返し、
// アカウントの存在を外部から推測できないようにする。
func (s *Service) SignIn(ctx context.Context, email, password string) (string, *model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", nil, model.NewInvalidInputError("email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return "", nil, model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, model.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user signed in", "user_id", user.ID)
	return token, user, nil
}

// VerifyToken はアクセストークンを検証し、ユーザーIDを返す。
// 認証ミドルウェアから使用される。
func (s *Service) VerifyToken(tokenString string) (string, error) {
	return s.tokens.Verify(tokenString)
}

// isUniqueViolation はPostgreSQLの一意制約違反エラーかを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
