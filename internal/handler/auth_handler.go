package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/edugram/internal/metrics"
	"github.com/hitoshi/edugram/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// SignUp は新規ユーザーを登録する。
	SignUp(ctx context.Context, name, userName, email, password string) (*model.User, error)
	// SignIn は認証してアクセストークンとユーザーを返す。
	SignIn(ctx context.Context, email, password string) (string, *model.User, error)
}

// AuthHandler は認証のHTTPハンドラー。
type AuthHandler struct {
	service   AuthServiceInterface
	collector metrics.MetricsCollector
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, collector metrics.MetricsCollector) *AuthHandler {
	return &AuthHandler{
		service:   service,
		collector: collector,
	}
}

// signupRequest はサインアップリクエストのボディ。
type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	UserName string `json:"userName" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// signinRequest はサインインリクエストのボディ。
type signinRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// signinUserResponse はサインイン応答に含めるユーザー投影。
type signinUserResponse struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Photo *string `json:"photo"`
}

// Signup は新規ユーザーを登録する。
// POST /signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeAPIErrorResponse(w, http.StatusUnprocessableEntity,
			model.NewInvalidInputError("name, userName, email, password are required"))
		return
	}

	_, err := h.service.SignUp(r.Context(), req.Name, req.UserName, req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.collector.RecordSignup()
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "saved successfully",
	})
}

// Signin は認証してアクセストークンを発行する。
// POST /signin
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeAPIErrorResponse(w, http.StatusUnprocessableEntity,
			model.NewInvalidInputError("email and password are required"))
		return
	}

	token, u, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.collector.RecordSignin()
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": signinUserResponse{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
			Photo: u.Photo,
		},
	})
}
