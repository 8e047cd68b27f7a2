package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/edugram/internal/model"
)

// PostgresFollowRepository はFollowRepositoryのPostgreSQL実装。
// フォロー関係は(follower_id, followee_id)を複合主キーとする
// エッジテーブル1行で表現し、両側のドキュメントを更新する方式は取らない。
type PostgresFollowRepository struct {
	db *sql.DB
}

// NewPostgresFollowRepository はPostgresFollowRepositoryを作成する。
func NewPostgresFollowRepository(db *sql.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// コンパイル時のインターフェース実装チェック
var _ FollowRepository = (*PostgresFollowRepository)(nil)

// followsとusersの両方にcreated_atがあるため、結合クエリでは列を修飾する。
const joinedUserColumns = `u.id, u.name, u.user_name, u.email, u.password_hash, u.photo, u.banner, u.created_at, u.updated_at`

// Create はフォローエッジを冪等に作成する。
func (r *PostgresFollowRepository) Create(ctx context.Context, followerID, followeeID string) (bool, error) {
	query := `
		INSERT INTO follows (follower_id, followee_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (follower_id, followee_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("failed to create follow edge: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// Delete はフォローエッジを削除する。
func (r *PostgresFollowRepository) Delete(ctx context.Context, followerID, followeeID string) (bool, error) {
	query := `DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`

	result, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("failed to delete follow edge: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// FolloweeIDs はフォロー対象のユーザーIDを返す。
func (r *PostgresFollowRepository) FolloweeIDs(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT followee_id FROM follows WHERE follower_id = $1 ORDER BY created_at ASC`
	return r.collectIDs(ctx, query, userID)
}

// FollowerIDs はフォロワーのユーザーIDを返す。
func (r *PostgresFollowRepository) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT follower_id FROM follows WHERE followee_id = $1 ORDER BY created_at ASC`
	return r.collectIDs(ctx, query, userID)
}

// FollowersOf はフォロワーのユーザー情報を返す。
func (r *PostgresFollowRepository) FollowersOf(ctx context.Context, userID string) ([]*model.User, error) {
	query := `
		SELECT ` + joinedUserColumns + `
		FROM users u
		INNER JOIN follows f ON f.follower_id = u.id
		WHERE f.followee_id = $1
		ORDER BY f.created_at ASC`

	return r.collectJoinedUsers(ctx, query, userID)
}

// FollowingOf はフォロー対象のユーザー情報を返す。
func (r *PostgresFollowRepository) FollowingOf(ctx context.Context, userID string) ([]*model.User, error) {
	query := `
		SELECT ` + joinedUserColumns + `
		FROM users u
		INNER JOIN follows f ON f.followee_id = u.id
		WHERE f.follower_id = $1
		ORDER BY f.created_at ASC`

	return r.collectJoinedUsers(ctx, query, userID)
}

func (r *PostgresFollowRepository) collectIDs(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query follow edges: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan follow edge: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate follow edges: %w", err)
	}
	return ids, nil
}

func (r *PostgresFollowRepository) collectJoinedUsers(ctx context.Context, query, userID string) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query followed users: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}
