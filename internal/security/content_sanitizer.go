// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService は投稿キャプションとコメントのテキストを
// サニタイズし、XSS攻撃などのセキュリティリスクからユーザーを保護する。
// キャプションとコメントはプレーンテキストとして扱うため、
// bluemondayのStrictPolicyで全てのHTMLタグを除去する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はユーザー入力テキストのサニタイズ機能の
// インターフェースを定義する。キャプション・コメントの保存前に使用される。
type ContentSanitizerService interface {
	// SanitizeText は入力テキストから全てのHTMLタグを除去し、
	// プレーンテキストとして安全な文字列を返す。
	// HTMLエンティティは元の文字に復元して保存する
	// （エスケープは応答のシリアライズ側の責務）。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeText(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは許可タグを一切持たないため、scriptやimg等を含む
// あらゆるマークアップが除去される。
func NewContentSanitizer() *contentSanitizer {
	return &contentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizeText は入力テキストをプレーンテキスト化する。
func (s *contentSanitizer) SanitizeText(raw string) string {
	stripped := s.policy.Sanitize(raw)
	// StrictPolicyは残存テキストをエスケープして返すため、
	// 保存用に元の文字へ復元する。
	return strings.TrimSpace(html.UnescapeString(stripped))
}
