package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hitoshi/edugram/internal/feed"
	"github.com/hitoshi/edugram/internal/model"
)

// FeedServiceInterface はフィードハンドラーが必要とするサービスインターフェース。
type FeedServiceInterface interface {
	// ListAll は全ユーザーの投稿をページネーション付きで返す。
	ListAll(ctx context.Context, page feed.Page) ([]model.PostView, error)
	// ListByAuthor は指定ユーザーの投稿をページネーション付きで返す。
	ListByAuthor(ctx context.Context, authorID string, page feed.Page) ([]model.PostView, error)
	// ListByFollowing はフォロー対象の投稿を返す。
	ListByFollowing(ctx context.Context, userID string, page feed.Page) ([]model.PostView, error)
}

// FeedHandler はフィード取得のHTTPハンドラー。
type FeedHandler struct {
	service FeedServiceInterface
}

// NewFeedHandler はFeedHandlerを生成する。
func NewFeedHandler(service FeedServiceInterface) *FeedHandler {
	return &FeedHandler{service: service}
}

// pageFromQuery はクエリパラメータからページネーション指定を読み取る。
// 数値として解釈できない値は無視してデフォルトに丸める。
func pageFromQuery(r *http.Request) feed.Page {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return feed.Page{Number: page, Limit: limit}
}

// AllPosts は全ユーザーの投稿フィードを取得する。
// GET /allposts?page=1&limit=10
func (h *FeedHandler) AllPosts(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	views, err := h.service.ListAll(r.Context(), pageFromQuery(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 投稿一覧は裸の配列で返す（ワイヤ互換）
	writeJSON(w, http.StatusOK, toPostResponses(views))
}

// MyPosts は認証ユーザー自身の投稿を取得する。
// GET /myposts?page=1&limit=10
func (h *FeedHandler) MyPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	views, err := h.service.ListByAuthor(r.Context(), userID, pageFromQuery(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponses(views))
}

// MyFollowingPosts はフォロー対象の投稿フィードを取得する。
// フォローが0件の場合は空配列を返す。
// GET /myfollowingpost?page=1&limit=10
func (h *FeedHandler) MyFollowingPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	views, err := h.service.ListByFollowing(r.Context(), userID, pageFromQuery(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponses(views))
}
