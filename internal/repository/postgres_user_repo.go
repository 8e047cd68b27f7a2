package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/edugram/internal/model"
)

// PostgresUserRepository はUserRepositoryのPostgreSQL実装。
type PostgresUserRepository struct {
	db *sql.DB
}

// NewPostgresUserRepository はPostgresUserRepositoryを作成する。
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// コンパイル時のインターフェース実装チェック
var _ UserRepository = (*PostgresUserRepository)(nil)

const userColumns = `id, name, user_name, email, password_hash, photo, banner, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.UserName, &u.Email, &u.PasswordHash,
		&u.Photo, &u.Banner, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create はユーザーを作成する。
func (r *PostgresUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, name, user_name, email, password_hash, photo, banner, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.UserName, user.Email, user.PasswordHash,
		user.Photo, user.Banner, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID は指定IDのユーザーを取得する。
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}
	return user, nil
}

// FindByEmail はメールアドレスでユーザーを検索する。
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// ExistsByEmailOrUserName は重複登録チェックを行う。
func (r *PostgresUserRepository) ExistsByEmailOrUserName(ctx context.Context, email, userName string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 OR user_name = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email, userName).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// UpdatePhoto はプロフィール写真URLを置き換える。
func (r *PostgresUserRepository) UpdatePhoto(ctx context.Context, id string, url *string) error {
	query := `UPDATE users SET photo = $1, updated_at = NOW() WHERE id = $2`

	if _, err := r.db.ExecContext(ctx, query, url, id); err != nil {
		return fmt.Errorf("failed to update user photo: %w", err)
	}
	return nil
}

// UpdateBanner はバナー写真URLを置き換える。
func (r *PostgresUserRepository) UpdateBanner(ctx context.Context, id string, url *string) error {
	query := `UPDATE users SET banner = $1, updated_at = NOW() WHERE id = $2`

	if _, err := r.db.ExecContext(ctx, query, url, id); err != nil {
		return fmt.Errorf("failed to update user banner: %w", err)
	}
	return nil
}

// SearchByPrefix は名前またはユーザー名の前方一致検索を行う。
func (r *PostgresUserRepository) SearchByPrefix(ctx context.Context, query, excludeID string, limit int) ([]*model.User, error) {
	// ILIKEの前方一致。ワイルドカード文字はリテラルとして扱う。
	pattern := escapeLikePattern(query) + "%"

	sqlQuery := `
		SELECT ` + userColumns + `
		FROM users
		WHERE (name ILIKE $1 OR user_name ILIKE $1) AND id <> $2
		ORDER BY user_name ASC
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, sqlQuery, pattern, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// Suggest はフォロー候補のユーザーを取得する。
func (r *PostgresUserRepository) Suggest(ctx context.Context, userID string, limit int) ([]*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		WHERE u.id <> $1
		  AND NOT EXISTS (
			SELECT 1 FROM follows f
			WHERE f.follower_id = $1 AND f.followee_id = u.id
		  )
		ORDER BY u.created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest users: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// RefsByIDs は公開プロフィール投影をまとめて取得する。
func (r *PostgresUserRepository) RefsByIDs(ctx context.Context, ids []string) (map[string]model.UserRef, error) {
	refs := make(map[string]model.UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	query := `SELECT id, name, photo FROM users WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user refs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref model.UserRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Photo); err != nil {
			return nil, fmt.Errorf("failed to scan user ref: %w", err)
		}
		refs[ref.ID] = ref
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user refs: %w", err)
	}
	return refs, nil
}

func collectUsers(rows *sql.Rows) ([]*model.User, error) {
	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// escapeLikePattern はLIKEパターンの特殊文字をエスケープする。
func escapeLikePattern(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' || c == '_' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}
