package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/edugram/internal/middleware"
	"github.com/hitoshi/edugram/internal/model"
)

// --- テストヘルパー ---

// withUserID は認証済みユーザーIDをリクエストに注入する。
func withUserID(r *http.Request, userID string) *http.Request {
	ctx := middleware.ContextWithUserID(r.Context(), userID)
	return r.WithContext(ctx)
}

// withChiURLParam はchiのURLパラメータをリクエストに注入する。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// mockCollector はMetricsCollectorのモック実装。呼び出し回数を記録する。
type mockCollector struct {
	signups     int
	signins     int
	posts       int
	engagements map[string]int
}

func newMockCollector() *mockCollector {
	return &mockCollector{engagements: map[string]int{}}
}

func (m *mockCollector) RecordSignup()                      { m.signups++ }
func (m *mockCollector) RecordSignin()                      { m.signins++ }
func (m *mockCollector) RecordPostCreated(mediaType string) { m.posts++ }
func (m *mockCollector) RecordEngagement(kind string)       { m.engagements[kind]++ }
func (m *mockCollector) RecordHTTPStatus(statusCode int)    {}
func (m *mockCollector) RecordRequestDuration(duration time.Duration) {}

// samplePostView はテスト用の投稿ビューを返す。
func samplePostView(postID, authorID string) *model.PostView {
	photo := "https://cdn.example.com/author.jpg"
	return &model.PostView{
		Post: model.Post{
			ID:        postID,
			AuthorID:  authorID,
			Body:      "今日の一枚",
			MediaURL:  "https://cdn.example.com/p.jpg",
			MediaType: model.MediaTypeImage,
			CreatedAt: time.Now(),
		},
		Author:  model.UserRef{ID: authorID, Name: "Taro", Photo: &photo},
		LikeIDs: []string{"u2"},
		Comments: []model.CommentView{
			{
				Comment: model.Comment{ID: "c1", PostID: postID, AuthorID: "u2", Body: "nice"},
				Author:  model.UserRef{ID: "u2", Name: "Jiro"},
			},
		},
	}
}
