package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/edugram/internal/model"
	"github.com/hitoshi/edugram/internal/relationship"
)

// --- モック ---

type mockRelationshipService struct {
	followFn    func(ctx context.Context, followerID, followeeID string) (*relationship.UserView, error)
	unfollowFn  func(ctx context.Context, followerID, followeeID string) (*relationship.UserView, error)
	followersFn func(ctx context.Context, userID string) ([]*model.User, error)
	followingFn func(ctx context.Context, userID string) ([]*model.User, error)
}

func (m *mockRelationshipService) Follow(ctx context.Context, followerID, followeeID string) (*relationship.UserView, error) {
	return m.followFn(ctx, followerID, followeeID)
}

func (m *mockRelationshipService) Unfollow(ctx context.Context, followerID, followeeID string) (*relationship.UserView, error) {
	return m.unfollowFn(ctx, followerID, followeeID)
}

func (m *mockRelationshipService) Followers(ctx context.Context, userID string) ([]*model.User, error) {
	return m.followersFn(ctx, userID)
}

func (m *mockRelationshipService) Following(ctx context.Context, userID string) ([]*model.User, error) {
	return m.followingFn(ctx, userID)
}

// --- PUT /follow, PUT /unfollow ---

func TestFollowHandler_Follow_Success(t *testing.T) {
	svc := &mockRelationshipService{
		followFn: func(ctx context.Context, followerID, followeeID string) (*relationship.UserView, error) {
			if followerID != "user-1" {
				t.Errorf("followerID = %q, want %q", followerID, "user-1")
			}
			if followeeID != "user-2" {
				t.Errorf("followeeID = %q, want %q", followeeID, "user-2")
			}
			return &relationship.UserView{
				User:         sampleUser(followerID),
				FollowerIDs:  []string{},
				FollowingIDs: []string{"user-2"},
			}, nil
		},
	}
	collector := newMockCollector()
	h := NewFollowHandler(svc, collector)

	body := bytes.NewBufferString(`{"followId":"user-2"}`)
	req := withUserID(httptest.NewRequest(http.MethodPut, "/follow", body), "user-1")
	w := httptest.NewRecorder()

	h.Follow(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var result map[string]any
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["_id"] != "user-1" {
		t.Errorf("_id = %v, want %q", result["_id"], "user-1")
	}
	following, ok := result["following"].([]any)
	if !ok {
		t.Fatalf("following field missing: %v", result)
	}
	if len(following) != 1 || following[0] != "user-2" {
		t.Errorf("following = %v, want [user-2]", following)
	}
	followers, ok := result["followers"].([]any)
	if !ok {
		t.Fatalf("followers field missing: %v", result)
	}
	if len(followers) != 0 {
		t.Errorf("len(followers) = %d, want 0", len(followers))
	}
	if collector.engagements["follow"] != 1 {
		t.Errorf("follow metric = %d, want 1", collector.engagements["follow"])
	}
}

func TestFollowHandler_Follow_Self(t *testing.T) {
	svc := &mockRelationshipService{
		followFn: func(ctx context.Context, followerID, followeeID string) (*relationship.UserView, error) {
			return nil, model.NewInvalidInputError("自分自身はフォローできません")
		},
	}
	h := NewFollowHandler(svc, newMockCollector())

	body := bytes.NewBufferString(`{"followId":"user-1"}`)
	req := withUserID(httptest.NewRequest(http.MethodPut, "/follow", body), "user-1")
	w := httptest.NewRecorder()

	h.Follow(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestFollowHandler_Follow_MissingFollowID(t *testing.T) {
	h := NewFollowHandler(&mockRelationshipService{}, newMockCollector())

	body := bytes.NewBufferString(`{}`)
	req := withUserID(httptest.NewRequest(http.MethodPut, "/follow", body), "user-1")
	w := httptest.NewRecorder()

	h.Follow(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestFollowHandler_Unfollow_Success(t *testing.T) {
	svc := &mockRelationshipService{
		unfollowFn: func(ctx context.Context, followerID, followeeID string) (*relationship.UserView, error) {
			return &relationship.UserView{
				User:         sampleUser(followerID),
				FollowerIDs:  []string{},
				FollowingIDs: []string{},
			}, nil
		},
	}
	collector := newMockCollector()
	h := NewFollowHandler(svc, collector)

	body := bytes.NewBufferString(`{"followId":"user-2"}`)
	req := withUserID(httptest.NewRequest(http.MethodPut, "/unfollow", body), "user-1")
	w := httptest.NewRecorder()

	h.Unfollow(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var result map[string]any
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	following, ok := result["following"].([]any)
	if !ok {
		t.Fatalf("following field missing: %v", result)
	}
	if len(following) != 0 {
		t.Errorf("len(following) = %d, want 0", len(following))
	}
	if collector.engagements["unfollow"] != 1 {
		t.Errorf("unfollow metric = %d, want 1", collector.engagements["unfollow"])
	}
}

func TestFollowHandler_Follow_Unauthenticated(t *testing.T) {
	h := NewFollowHandler(&mockRelationshipService{}, newMockCollector())

	body := bytes.NewBufferString(`{"followId":"user-2"}`)
	req := httptest.NewRequest(http.MethodPut, "/follow", body)
	w := httptest.NewRecorder()

	h.Follow(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// --- GET /user/{id}/followers, GET /user/{id}/following ---

func TestFollowHandler_Followers_Success(t *testing.T) {
	svc := &mockRelationshipService{
		followersFn: func(ctx context.Context, userID string) ([]*model.User, error) {
			if userID != "target-1" {
				t.Errorf("userID = %q, want %q", userID, "target-1")
			}
			return []*model.User{sampleUser("fan-1")}, nil
		},
	}
	h := NewFollowHandler(svc, newMockCollector())

	req := httptest.NewRequest(http.MethodGet, "/user/target-1/followers", nil)
	req = withUserID(req, "viewer-1")
	req = withChiURLParam(req, "id", "target-1")
	w := httptest.NewRecorder()

	h.Followers(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	// フォロワー一覧は裸の配列
	var users []map[string]any
	if err := json.NewDecoder(w.Body).Decode(&users); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("len(users) = %d, want 1", len(users))
	}
	if users[0]["_id"] != "fan-1" {
		t.Errorf("users[0]._id = %v, want %q", users[0]["_id"], "fan-1")
	}
}

func TestFollowHandler_Following_UserNotFound(t *testing.T) {
	svc := &mockRelationshipService{
		followingFn: func(ctx context.Context, userID string) ([]*model.User, error) {
			return nil, model.NewUserNotFoundError(userID)
		},
	}
	h := NewFollowHandler(svc, newMockCollector())

	req := httptest.NewRequest(http.MethodGet, "/user/missing/following", nil)
	req = withUserID(req, "viewer-1")
	req = withChiURLParam(req, "id", "missing")
	w := httptest.NewRecorder()

	h.Following(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
