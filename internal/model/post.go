package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MediaType は投稿メディアの種別を表す。
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// IsValid はメディア種別が定義済みの値かどうかを返す。
func (m MediaType) IsValid() bool {
	return m == MediaTypeImage || m == MediaTypeVideo
}

// キャプションとコメントの文字数上限。
const (
	MaxCaptionLength = 500
	MaxCommentLength = 200
)

// mediaURLPattern はメディアURLの形式チェック。
// http(s)スキームで始まり、空白と二重引用符を含まないこと。
var mediaURLPattern = regexp.MustCompile(`^(http|https)://[^ "]+$`)

// IsValidMediaURL はメディアURLが形式上有効かどうかを返す。
func IsValidMediaURL(rawURL string) bool {
	return mediaURLPattern.MatchString(rawURL)
}

// ValidateCaption はキャプションが1〜500文字の範囲かを検証する。
// 呼び出し側でトリム・サニタイズ済みであることを前提とする。
func ValidateCaption(body string) error {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return NewInvalidInputError("キャプションは必須です")
	}
	if len([]rune(trimmed)) > MaxCaptionLength {
		return NewInvalidInputError(fmt.Sprintf("キャプションは%d文字以内で入力してください", MaxCaptionLength))
	}
	return nil
}

// ValidateCommentText はコメント本文が1〜200文字の範囲かを検証する。
func ValidateCommentText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return NewInvalidInputError("コメント本文は必須です")
	}
	if len([]rune(trimmed)) > MaxCommentLength {
		return NewInvalidInputError(fmt.Sprintf("コメントは%d文字以内で入力してください", MaxCommentLength))
	}
	return nil
}

// Post は投稿を表す。
// AuthorID は作成後に変更されない。いいねとコメントは別テーブルで保持し、
// PostView として読み出し時に結合する。
type Post struct {
	ID        string
	AuthorID  string
	Body      string
	MediaURL  string
	MediaType MediaType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment は投稿に従属するコメントを表す。
// 親投稿経由でのみ作成され、スコープ内では編集・個別削除されない。
type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Body      string
	CreatedAt time.Time
}

// CommentView はコメントにコメント投稿者の表示情報を付与した読み出し用ビュー。
type CommentView struct {
	Comment
	Author UserRef
}

// PostView は投稿に投稿者表示情報・いいねID集合・コメント一覧を
// 結合した読み出し用ビュー。各読み出しパスが必要な投影を明示的に指定する。
type PostView struct {
	Post
	Author   UserRef
	LikeIDs  []string
	Comments []CommentView
}

// LikeCount はいいね数を返す（導出値、保存しない）。
func (p *PostView) LikeCount() int {
	return len(p.LikeIDs)
}

// CommentCount はコメント数を返す（導出値、保存しない）。
func (p *PostView) CommentCount() int {
	return len(p.Comments)
}
