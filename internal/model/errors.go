// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, user, post, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeInvalidID          = "INVALID_ID"
	ErrCodeDuplicateUser      = "DUPLICATE_USER"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodePostNotFound       = "POST_NOT_FOUND"
	ErrCodePostsNotFound      = "POSTS_NOT_FOUND"
	ErrCodeAlreadyLiked       = "ALREADY_LIKED"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeMediaURLBlocked    = "MEDIA_URL_BLOCKED"
)

// NewInvalidInputError は入力検証エラーを生成する。
func NewInvalidInputError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidInput,
		Message:  fmt.Sprintf("入力内容に誤りがあります: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewInvalidIDError はID形式が不正な場合のエラーを生成する。
func NewInvalidIDError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidID,
		Message:  fmt.Sprintf("IDの形式が不正です: %s", id),
		Category: "validation",
		Action:   "正しいIDを指定してください。",
	}
}

// NewDuplicateUserError はメールアドレスまたはユーザー名が既に登録済みの場合のエラーを生成する。
func NewDuplicateUserError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateUser,
		Message:  "このメールアドレスまたはユーザー名は既に登録されています。",
		Category: "user",
		Action:   "別のメールアドレスまたはユーザー名で登録してください。",
	}
}

// NewInvalidCredentialsError は認証情報が一致しない場合のエラーを生成する。
// メールアドレス不明とパスワード不一致を区別しない（列挙攻撃への配慮）。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", userID),
		Category: "user",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewPostNotFoundError は投稿が見つからない場合のエラーを生成する。
func NewPostNotFoundError(postID string) *APIError {
	return &APIError{
		Code:     ErrCodePostNotFound,
		Message:  fmt.Sprintf("指定された投稿が見つかりません: %s", postID),
		Category: "post",
		Action:   "投稿IDを確認してください。",
	}
}

// NewPostsNotFoundError は指定ページに投稿が存在しない場合のエラーを生成する。
func NewPostsNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodePostsNotFound,
		Message:  "投稿が見つかりません。",
		Category: "post",
		Action:   "ページ番号を確認してください。",
	}
}

// NewAlreadyLikedError は既にいいね済みの投稿への再いいねエラーを生成する。
func NewAlreadyLikedError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyLiked,
		Message:  "この投稿には既にいいねしています。",
		Category: "post",
		Action:   "いいねを取り消す場合はunlikeを使用してください。",
	}
}

// NewUnauthorizedError は認証・認可エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "この操作を行う権限がありません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewMediaURLBlockedError はセキュリティポリシーによりメディアURLが拒否された場合のエラーを生成する。
func NewMediaURLBlockedError() *APIError {
	return &APIError{
		Code:     ErrCodeMediaURLBlocked,
		Message:  "セキュリティポリシーにより、指定されたメディアURLへのアクセスがブロックされました。",
		Category: "validation",
		Action:   "公開されているメディアホスティングのURLを指定してください。ローカルネットワークやプライベートIPは許可されていません。",
	}
}
