package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/edugram/internal/metrics"
	"github.com/hitoshi/edugram/internal/model"
	"github.com/hitoshi/edugram/internal/relationship"
)

// RelationshipServiceInterface はフォローハンドラーが必要とするサービスインターフェース。
type RelationshipServiceInterface interface {
	// Follow はフォローエッジを冪等に作成する。
	Follow(ctx context.Context, followerID, followeeID string) (*relationship.UserView, error)
	// Unfollow はフォローエッジを冪等に削除する。
	Unfollow(ctx context.Context, followerID, followeeID string) (*relationship.UserView, error)
	// Followers はフォロワーのユーザー情報を返す。
	Followers(ctx context.Context, userID string) ([]*model.User, error)
	// Following はフォロー対象のユーザー情報を返す。
	Following(ctx context.Context, userID string) ([]*model.User, error)
}

// FollowHandler はフォロー関係のHTTPハンドラー。
type FollowHandler struct {
	service   RelationshipServiceInterface
	collector metrics.MetricsCollector
}

// NewFollowHandler はFollowHandlerを生成する。
func NewFollowHandler(service RelationshipServiceInterface, collector metrics.MetricsCollector) *FollowHandler {
	return &FollowHandler{
		service:   service,
		collector: collector,
	}
}

// followRequest はフォロー・フォロー解除リクエストのボディ。
type followRequest struct {
	FollowID string `json:"followId" validate:"required"`
}

// Follow は指定ユーザーをフォローする。
// PUT /follow
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	h.changeEdge(w, r, "follow", h.service.Follow)
}

// Unfollow は指定ユーザーのフォローを解除する。
// PUT /unfollow
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.changeEdge(w, r, "unfollow", h.service.Unfollow)
}

func (h *FollowHandler) changeEdge(
	w http.ResponseWriter,
	r *http.Request,
	kind string,
	op func(ctx context.Context, followerID, followeeID string) (*relationship.UserView, error),
) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req followRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeAPIErrorResponse(w, http.StatusUnprocessableEntity,
			model.NewInvalidInputError("followId is required"))
		return
	}

	view, err := op(r.Context(), userID, req.FollowID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.collector.RecordEngagement(kind)
	writeJSON(w, http.StatusOK, toUserViewResponse(view))
}

// Followers は指定ユーザーのフォロワー一覧を取得する。
// GET /user/{id}/followers
func (h *FollowHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.listEdge(w, r, h.service.Followers)
}

// Following は指定ユーザーのフォロー中一覧を取得する。
// GET /user/{id}/following
func (h *FollowHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.listEdge(w, r, h.service.Following)
}

func (h *FollowHandler) listEdge(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, userID string) ([]*model.User, error),
) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	users, err := list(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// フォロワー・フォロー中一覧は裸の配列で返す（ワイヤ互換）
	writeJSON(w, http.StatusOK, toUserResponses(users))
}
