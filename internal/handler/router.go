package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/edugram/internal/metrics"
	"github.com/hitoshi/edugram/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// サービス
	AuthService         AuthServiceInterface
	PostService         PostServiceInterface
	FeedService         FeedServiceInterface
	UserService         UserServiceInterface
	RelationshipService RelationshipServiceInterface

	// 観測
	Collector metrics.MetricsCollector
	Gatherer  prometheus.Gatherer

	// ヘルスチェック用
	DB *sql.DB
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを
// 構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Metrics → Logging →
//	(保護ルートのみ) Auth → RateLimit(General)
//
// パスとJSONフィールド名は既存クライアントとのワイヤ互換を保つ。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Collector != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Collector))
	}
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	authHandler := NewAuthHandler(deps.AuthService, deps.Collector)
	postHandler := NewPostHandler(deps.PostService, deps.Collector)
	feedHandler := NewFeedHandler(deps.FeedService)
	userHandler := NewUserHandler(deps.UserService)
	followHandler := NewFollowHandler(deps.RelationshipService, deps.Collector)

	// --- 認証不要のルート ---

	r.Post("/signup", authHandler.Signup)
	r.Post("/signin", authHandler.Signin)
	// プロフィール閲覧は未ログインでも可能
	r.Get("/user/{id}", userHandler.GetUser)
	r.Get("/health", newHealthHandler(deps.DB))
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// フィード
		r.Get("/allposts", feedHandler.AllPosts)
		r.Get("/myposts", feedHandler.MyPosts)
		r.Get("/myfollowingpost", feedHandler.MyFollowingPosts)

		// 投稿・エンゲージメント
		// POST /createPost - 投稿作成専用レート制限を追加
		r.With(deps.RateLimiter.PostCreationMiddleware()).Post("/createPost", postHandler.CreatePost)
		r.Delete("/deletePost/{postId}", postHandler.DeletePost)
		r.Put("/like", postHandler.Like)
		r.Put("/unlike", postHandler.Unlike)
		r.Put("/comment", postHandler.Comment)

		// ユーザー
		r.Get("/user/{id}/followers", followHandler.Followers)
		r.Get("/user/{id}/following", followHandler.Following)
		r.Put("/uploadProfilePic", userHandler.UploadProfilePic)
		r.Put("/uploadBannerPic", userHandler.UploadBannerPic)
		r.Post("/search-users", userHandler.SearchUsers)
		r.Get("/user-suggestions", userHandler.Suggestions)

		// フォロー関係
		r.Put("/follow", followHandler.Follow)
		r.Put("/unfollow", followHandler.Unfollow)
	})

	return r
}

// newHealthHandler はDB接続を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	}
}
