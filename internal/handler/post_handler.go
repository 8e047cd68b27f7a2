package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/edugram/internal/metrics"
	"github.com/hitoshi/edugram/internal/model"
)

// PostServiceInterface は投稿ハンドラーが必要とするサービスインターフェース。
type PostServiceInterface interface {
	// Create は新規投稿を作成する。
	Create(ctx context.Context, authorID, body, mediaURL string, mediaType model.MediaType) (*model.PostView, error)
	// Delete は投稿者本人の投稿を削除する。
	Delete(ctx context.Context, requesterID, postID string) (*model.PostView, error)
	// Like はいいねを条件付き原子更新で追加する。
	Like(ctx context.Context, userID, postID string) (*model.PostView, error)
	// Unlike はいいねを冪等に取り消す。
	Unlike(ctx context.Context, userID, postID string) (*model.PostView, error)
	// Comment はコメントを追記する。
	Comment(ctx context.Context, userID, postID, body string) (*model.PostView, error)
}

// PostHandler は投稿のHTTPハンドラー。
type PostHandler struct {
	service   PostServiceInterface
	collector metrics.MetricsCollector
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(service PostServiceInterface, collector metrics.MetricsCollector) *PostHandler {
	return &PostHandler{
		service:   service,
		collector: collector,
	}
}

// createPostRequest は投稿作成リクエストのボディ。
// mediaType省略時はimageとして扱う。
type createPostRequest struct {
	Body      string `json:"body" validate:"required"`
	Photo     string `json:"photo" validate:"required"`
	MediaType string `json:"mediaType"`
}

// likeRequest はいいね・いいね解除リクエストのボディ。
type likeRequest struct {
	PostID string `json:"postId" validate:"required"`
}

// commentRequest はコメントリクエストのボディ。
type commentRequest struct {
	PostID string `json:"postId" validate:"required"`
	Text   string `json:"text" validate:"required"`
}

// CreatePost は新規投稿を作成する。
// POST /createPost
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req createPostRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeAPIErrorResponse(w, http.StatusUnprocessableEntity,
			model.NewInvalidInputError("body and photo are required"))
		return
	}

	mediaType := model.MediaType(req.MediaType)
	if req.MediaType == "" {
		mediaType = model.MediaTypeImage
	}

	view, err := h.service.Create(r.Context(), userID, req.Body, req.Photo, mediaType)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.collector.RecordPostCreated(string(view.MediaType))
	writeJSON(w, http.StatusOK, map[string]any{
		"post": toPostResponse(view),
	})
}

// DeletePost は投稿者本人の投稿を削除する。
// DELETE /deletePost/{postId}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	postID := chi.URLParam(r, "postId")

	view, err := h.service.Delete(r.Context(), userID, postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "successfully deleted",
		"deletedPost": toPostResponse(view),
	})
}

// Like は投稿にいいねを追加する。
// PUT /like
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, "like", h.service.Like)
}

// Unlike は投稿のいいねを取り消す。
// PUT /unlike
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, "unlike", h.service.Unlike)
}

func (h *PostHandler) engage(
	w http.ResponseWriter,
	r *http.Request,
	kind string,
	op func(ctx context.Context, userID, postID string) (*model.PostView, error),
) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	// postId欠落は400（他の検証エラーの422と異なる）
	var req likeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidInputError("postId is required"))
		return
	}

	view, err := op(r.Context(), userID, req.PostID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.collector.RecordEngagement(kind)
	writeJSON(w, http.StatusOK, toPostResponse(view))
}

// Comment は投稿にコメントを追記する。
// PUT /comment
func (h *PostHandler) Comment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeAPIErrorResponse(w, http.StatusUnprocessableEntity,
			model.NewInvalidInputError("postId and text are required"))
		return
	}

	view, err := h.service.Comment(r.Context(), userID, req.PostID, req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.collector.RecordEngagement("comment")
	writeJSON(w, http.StatusOK, toPostResponse(view))
}
