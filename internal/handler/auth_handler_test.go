package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/edugram/internal/model"
)

// --- モック ---

type mockAuthService struct {
	signUpFn func(ctx context.Context, name, userName, email, password string) (*model.User, error)
	signInFn func(ctx context.Context, email, password string) (string, *model.User, error)
}

func (m *mockAuthService) SignUp(ctx context.Context, name, userName, email, password string) (*model.User, error) {
	if m.signUpFn != nil {
		return m.signUpFn(ctx, name, userName, email, password)
	}
	return &model.User{ID: "user-123"}, nil
}

func (m *mockAuthService) SignIn(ctx context.Context, email, password string) (string, *model.User, error) {
	if m.signInFn != nil {
		return m.signInFn(ctx, email, password)
	}
	return "", nil, nil
}

// --- POST /signup ---

func TestAuthHandler_Signup_Success(t *testing.T) {
	collector := newMockCollector()
	h := NewAuthHandler(&mockAuthService{}, collector)

	body := bytes.NewBufferString(`{"name":"Taro","userName":"taro123","email":"taro@example.com","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/signup", body)
	w := httptest.NewRecorder()

	h.Signup(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["message"] != "saved successfully" {
		t.Errorf("message = %q, want %q", result["message"], "saved successfully")
	}
	if collector.signups != 1 {
		t.Errorf("signup metric = %d, want 1", collector.signups)
	}
}

func TestAuthHandler_Signup_MissingFields(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, newMockCollector())

	body := bytes.NewBufferString(`{"name":"Taro"}`)
	req := httptest.NewRequest(http.MethodPost, "/signup", body)
	w := httptest.NewRecorder()

	h.Signup(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}

	var result apiErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Code != model.ErrCodeInvalidInput {
		t.Errorf("code = %q, want %q", result.Code, model.ErrCodeInvalidInput)
	}
}

func TestAuthHandler_Signup_Duplicate(t *testing.T) {
	svc := &mockAuthService{
		signUpFn: func(ctx context.Context, name, userName, email, password string) (*model.User, error) {
			return nil, model.NewDuplicateUserError()
		},
	}
	h := NewAuthHandler(svc, newMockCollector())

	body := bytes.NewBufferString(`{"name":"Taro","userName":"taro123","email":"taro@example.com","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/signup", body)
	w := httptest.NewRecorder()

	h.Signup(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}

	var result apiErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Code != model.ErrCodeDuplicateUser {
		t.Errorf("code = %q, want %q", result.Code, model.ErrCodeDuplicateUser)
	}
}

// --- POST /signin ---

func TestAuthHandler_Signin_Success(t *testing.T) {
	svc := &mockAuthService{
		signInFn: func(ctx context.Context, email, password string) (string, *model.User, error) {
			return "jwt-token", &model.User{
				ID:    "user-123",
				Name:  "Taro",
				Email: "taro@example.com",
			}, nil
		},
	}
	collector := newMockCollector()
	h := NewAuthHandler(svc, collector)

	body := bytes.NewBufferString(`{"email":"taro@example.com","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/signin", body)
	w := httptest.NewRecorder()

	h.Signin(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var result map[string]any
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["token"] != "jwt-token" {
		t.Errorf("token = %v, want %q", result["token"], "jwt-token")
	}

	user, ok := result["user"].(map[string]any)
	if !ok {
		t.Fatalf("user field missing: %v", result)
	}
	if user["_id"] != "user-123" {
		t.Errorf("user._id = %v, want %q", user["_id"], "user-123")
	}
	if collector.signins != 1 {
		t.Errorf("signin metric = %d, want 1", collector.signins)
	}
}

func TestAuthHandler_Signin_InvalidCredentials(t *testing.T) {
	svc := &mockAuthService{
		signInFn: func(ctx context.Context, email, password string) (string, *model.User, error) {
			return "", nil, model.NewInvalidCredentialsError()
		},
	}
	h := NewAuthHandler(svc, newMockCollector())

	body := bytes.NewBufferString(`{"email":"taro@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/signin", body)
	w := httptest.NewRecorder()

	h.Signin(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}
