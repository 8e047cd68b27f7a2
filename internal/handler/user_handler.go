package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/edugram/internal/model"
	"github.com/hitoshi/edugram/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// GetProfile はプロフィールと投稿一覧を返す。
	GetProfile(ctx context.Context, userID string) (*user.Profile, error)
	// UpdatePhoto はプロフィール写真URLを置き換える。nilで未設定に戻す。
	UpdatePhoto(ctx context.Context, userID string, url *string) (*model.User, error)
	// UpdateBanner はバナー写真URLを置き換える。nilで未設定に戻す。
	UpdateBanner(ctx context.Context, userID string, url *string) (*model.User, error)
	// SearchByPrefix は前方一致でユーザーを検索する。
	SearchByPrefix(ctx context.Context, requesterID, query string) ([]*model.User, error)
	// Suggest はフォロー候補のユーザーを返す。
	Suggest(ctx context.Context, requesterID string) ([]*model.User, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// uploadImageRequest は写真・バナー更新リクエストのボディ。
// nullを指定すると未設定状態に戻す。
type uploadImageRequest struct {
	Pic *string `json:"pic"`
}

// searchUsersRequest はユーザー検索リクエストのボディ。
type searchUsersRequest struct {
	Query string `json:"query"`
}

// GetUser は指定ユーザーのプロフィールと投稿を取得する。
// GET /user/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":  toProfileUserResponse(profile),
		"posts": toPostResponses(profile.Posts),
	})
}

// UploadProfilePic はプロフィール写真URLを更新する。
// PUT /uploadProfilePic
func (h *UserHandler) UploadProfilePic(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, h.service.UpdatePhoto)
}

// UploadBannerPic はバナー写真URLを更新する。
// PUT /uploadBannerPic
func (h *UserHandler) UploadBannerPic(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, h.service.UpdateBanner)
}

func (h *UserHandler) uploadImage(
	w http.ResponseWriter,
	r *http.Request,
	update func(ctx context.Context, userID string, url *string) (*model.User, error),
) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req uploadImageRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeAPIErrorResponse(w, http.StatusUnprocessableEntity,
			model.NewInvalidInputError("invalid request body"))
		return
	}

	u, err := update(r.Context(), userID, req.Pic)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// SearchUsers は名前またはユーザー名の前方一致でユーザーを検索する。
// POST /search-users
func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req searchUsersRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeAPIErrorResponse(w, http.StatusUnprocessableEntity,
			model.NewInvalidInputError("invalid request body"))
		return
	}

	users, err := h.service.SearchByPrefix(r.Context(), userID, req.Query)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": toUserResponses(users),
	})
}

// Suggestions はフォロー候補のユーザーを取得する。
// GET /user-suggestions
func (h *UserHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	users, err := h.service.Suggest(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": toUserResponses(users),
	})
}
