// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/edugram/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	// 一致判定は大文字小文字を区別する（現行仕様を維持）。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// ExistsByEmailOrUserName はメールアドレスまたはユーザー名が既に
	// 登録されているかを返す。サインアップ時の重複チェックに使用する。
	ExistsByEmailOrUserName(ctx context.Context, email, userName string) (bool, error)

	// UpdatePhoto はプロフィール写真URLを無条件に置き換える。nilで未設定に戻す。
	UpdatePhoto(ctx context.Context, id string, url *string) error

	// UpdateBanner はバナー写真URLを無条件に置き換える。nilで未設定に戻す。
	UpdateBanner(ctx context.Context, id string, url *string) error

	// SearchByPrefix は名前またはユーザー名の前方一致でユーザーを検索する。
	// 大文字小文字を区別せず、excludeID のユーザーを除外する。
	SearchByPrefix(ctx context.Context, query, excludeID string, limit int) ([]*model.User, error)

	// Suggest は自分自身と既フォロー対象を除いたユーザーを最大limit件返す。
	// 並び順はストアのデフォルト順以上の保証を持たない。
	Suggest(ctx context.Context, userID string, limit int) ([]*model.User, error)

	// RefsByIDs は指定IDのユーザーの公開プロフィール投影をまとめて取得する。
	// フィード組み立て時の投稿者表示に使用する。
	RefsByIDs(ctx context.Context, ids []string) (map[string]model.UserRef, error)
}

// FollowRepository はフォローエッジの永続化インターフェース。
// エッジは(follower, followee)の1行であり、followers/followingの
// 両ビューはその投影として取得する。
type FollowRepository interface {
	// Create はフォローエッジを冪等に作成する。
	// 既に存在する場合はfalseを返す（エラーにはしない）。
	Create(ctx context.Context, followerID, followeeID string) (bool, error)

	// Delete はフォローエッジを削除する。存在しない場合はfalseを返す。
	Delete(ctx context.Context, followerID, followeeID string) (bool, error)

	// FolloweeIDs は指定ユーザーがフォローしているユーザーIDを返す。
	FolloweeIDs(ctx context.Context, userID string) ([]string, error)

	// FollowerIDs は指定ユーザーをフォローしているユーザーIDを返す。
	FollowerIDs(ctx context.Context, userID string) ([]string, error)

	// FollowersOf は指定ユーザーのフォロワーのユーザー情報を返す。
	FollowersOf(ctx context.Context, userID string) ([]*model.User, error)

	// FollowingOf は指定ユーザーのフォロー対象のユーザー情報を返す。
	FollowingOf(ctx context.Context, userID string) ([]*model.User, error)
}

// PostRepository は投稿・いいね・コメントの永続化インターフェース。
// 共有ドキュメントへの変更はすべて条件付き原子更新で行い、
// read-modify-writeは使用しない。
type PostRepository interface {
	// Create は投稿を作成する。
	Create(ctx context.Context, post *model.Post) error

	// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Post, error)

	// Delete は指定IDの投稿を関連するいいね・コメントごと削除する。
	// 投稿が存在しない場合はfalseを返す。
	Delete(ctx context.Context, id string) (bool, error)

	// AddLike はいいねを原子的に追加する（INSERT ... ON CONFLICT DO NOTHING）。
	// 既にいいね済みの場合はfalseを返す。
	AddLike(ctx context.Context, postID, userID string) (bool, error)

	// RemoveLike はいいねを削除する。存在しない場合も何もせず成功する。
	RemoveLike(ctx context.Context, postID, userID string) error

	// AddComment はコメントを追記する。
	AddComment(ctx context.Context, comment *model.Comment) error

	// ListPage は作成日時降順で投稿の1ページ分を取得する。
	// authorIDsがnilの場合は全投稿、空スライスの場合は空結果を返す。
	ListPage(ctx context.Context, authorIDs []string, offset, limit int) ([]*model.Post, error)

	// LikesForPosts は指定投稿群のいいねユーザーIDを投稿IDごとにまとめて返す。
	LikesForPosts(ctx context.Context, postIDs []string) (map[string][]string, error)

	// CommentsForPosts は指定投稿群のコメントをコメント投稿者の
	// 表示情報付きで投稿IDごとにまとめて返す。作成日時昇順。
	CommentsForPosts(ctx context.Context, postIDs []string) (map[string][]model.CommentView, error)
}
