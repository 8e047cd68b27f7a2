package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/edugram/internal/model"
)

// PostgresPostRepository はPostRepositoryのPostgreSQL実装。
type PostgresPostRepository struct {
	db *sql.DB
}

// NewPostgresPostRepository はPostgresPostRepositoryを作成する。
func NewPostgresPostRepository(db *sql.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// コンパイル時のインターフェース実装チェック
var _ PostRepository = (*PostgresPostRepository)(nil)

const postColumns = `id, author_id, body, media_url, media_type, created_at, updated_at`

func scanPost(row interface{ Scan(dest ...any) error }) (*model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Body, &p.MediaURL, &p.MediaType,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create は投稿を作成する。
func (r *PostgresPostRepository) Create(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO posts (id, author_id, body, media_url, media_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.AuthorID, post.Body, post.MediaURL, post.MediaType,
		post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// FindByID は指定IDの投稿を取得する。
func (r *PostgresPostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post by id: %w", err)
	}
	return post, nil
}

// Delete は投稿を削除する。いいねとコメントはON DELETE CASCADEで消える。
func (r *PostgresPostRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM posts WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// AddLike はいいねを原子的に追加する。
func (r *PostgresPostRepository) AddLike(ctx context.Context, postID, userID string) (bool, error) {
	query := `
		INSERT INTO post_likes (post_id, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (post_id, user_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to add like: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// RemoveLike はいいねを削除する。未いいねの場合は何もしない。
func (r *PostgresPostRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	query := `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, postID, userID); err != nil {
		return fmt.Errorf("failed to remove like: %w", err)
	}
	return nil
}

// AddComment はコメントを追記する。
func (r *PostgresPostRepository) AddComment(ctx context.Context, comment *model.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.PostID, comment.AuthorID, comment.Body, comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	return nil
}

// ListPage は作成日時降順で投稿の1ページ分を取得する。
func (r *PostgresPostRepository) ListPage(ctx context.Context, authorIDs []string, offset, limit int) ([]*model.Post, error) {
	var rows *sql.Rows
	var err error

	if authorIDs == nil {
		query := `
			SELECT ` + postColumns + `
			FROM posts
			ORDER BY created_at DESC, id DESC
			OFFSET $1 LIMIT $2`
		rows, err = r.db.QueryContext(ctx, query, offset, limit)
	} else {
		if len(authorIDs) == 0 {
			return nil, nil
		}
		query := `
			SELECT ` + postColumns + `
			FROM posts
			WHERE author_id = ANY($1)
			ORDER BY created_at DESC, id DESC
			OFFSET $2 LIMIT $3`
		rows, err = r.db.QueryContext(ctx, query, pq.Array(authorIDs), offset, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

// LikesForPosts はいいねユーザーIDを投稿IDごとにまとめて取得する。
func (r *PostgresPostRepository) LikesForPosts(ctx context.Context, postIDs []string) (map[string][]string, error) {
	likes := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return likes, nil
	}

	query := `
		SELECT post_id, user_id
		FROM post_likes
		WHERE post_id = ANY($1)
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID, userID string
		if err := rows.Scan(&postID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		likes[postID] = append(likes[postID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate likes: %w", err)
	}
	return likes, nil
}

// CommentsForPosts はコメントを投稿者の表示情報付きでまとめて取得する。
func (r *PostgresPostRepository) CommentsForPosts(ctx context.Context, postIDs []string) (map[string][]model.CommentView, error) {
	comments := make(map[string][]model.CommentView, len(postIDs))
	if len(postIDs) == 0 {
		return comments, nil
	}

	query := `
		SELECT c.id, c.post_id, c.author_id, c.body, c.created_at,
		       u.id, u.name, u.photo
		FROM comments c
		INNER JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ANY($1)
		ORDER BY c.created_at ASC, c.id ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cv model.CommentView
		err := rows.Scan(&cv.ID, &cv.PostID, &cv.AuthorID, &cv.Body, &cv.CreatedAt,
			&cv.Author.ID, &cv.Author.Name, &cv.Author.Photo)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments[cv.PostID] = append(comments[cv.PostID], cv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return comments, nil
}
