// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHash はbcryptハッシュであり、APIレスポンスには決して含めない。
type User struct {
	ID           string
	Name         string
	UserName     string
	Email        string
	PasswordHash string
	Photo        *string
	Banner       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRef は他ユーザーから参照される際の公開プロフィール投影。
// フィードの投稿者表示やコメント投稿者表示に使用する。
type UserRef struct {
	ID    string
	Name  string
	Photo *string
}

// FollowEdge はフォロワーからフォロー対象への有向エッジを表す。
// followers/following の両ビューはこのエッジ集合の投影であり、
// 片側だけが更新された状態は構造上存在しない。
type FollowEdge struct {
	FollowerID string
	FolloweeID string
	CreatedAt  time.Time
}
