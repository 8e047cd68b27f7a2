// Package post は投稿の作成・削除とエンゲージメント操作を提供する。
package post

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/edugram/internal/feed"
	"github.com/hitoshi/edugram/internal/model"
	"github.com/hitoshi/edugram/internal/repository"
	"github.com/hitoshi/edugram/internal/security"
)

// ServiceConfig は投稿サービスの設定。
type ServiceConfig struct {
	// MediaCheckEnabled が真の場合、投稿作成時にメディアURLの
	// SSRF安全性検証を行う。
	MediaCheckEnabled bool
}

// Service は投稿に関するビジネスロジックを提供する。
type Service struct {
	postRepo  repository.PostRepository
	assembler *feed.Assembler
	sanitizer security.ContentSanitizerService
	guard     security.MediaURLGuardService
	config    ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	postRepo repository.PostRepository,
	assembler *feed.Assembler,
	sanitizer security.ContentSanitizerService,
	guard security.MediaURLGuardService,
	config ServiceConfig,
) *Service {
	return &Service{
		postRepo:  postRepo,
		assembler: assembler,
		sanitizer: sanitizer,
		guard:     guard,
		config:    config,
	}
}

// Create は新規投稿を作成する。
// キャプションはサニタイズ後に長さ検証し、メディアURLは形式検証する。
// メディア種別はimageまたはvideoのみ許可する。
func (s *Service) Create(ctx context.Context, authorID, body, mediaURL string, mediaType model.MediaType) (*model.PostView, error) {
	body = s.sanitizer.SanitizeText(body)
	if err := model.ValidateCaption(body); err != nil {
		return nil, err
	}
	if !mediaType.IsValid() {
		return nil, model.NewInvalidInputError("mediaType must be image or video")
	}
	if !model.IsValidMediaURL(mediaURL) {
		return nil, model.NewInvalidInputError("invalid media URL")
	}

	if s.config.MediaCheckEnabled {
		if err := s.guard.ValidateURL(mediaURL); err != nil {
			slog.Warn("media URL blocked",
				slog.String("author_id", authorID),
				slog.String("error", err.Error()),
			)
			return nil, model.NewMediaURLBlockedError()
		}
		// 静的検証を通過したURLへ実際にプローブを送り、到達可能性と
		// DNS解決後のIPアドレスを検証する
		if err := s.guard.ProbeURL(ctx, mediaURL); err != nil {
			slog.Warn("media URL probe failed",
				slog.String("author_id", authorID),
				slog.String("error", err.Error()),
			)
			return nil, model.NewMediaURLBlockedError()
		}
	}

	now := time.Now()
	p := &model.Post{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Body:      body,
		MediaURL:  mediaURL,
		MediaType: mediaType,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.postRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("post created",
		slog.String("post_id", p.ID),
		slog.String("author_id", authorID),
		slog.String("media_type", string(mediaType)),
	)
	return s.assembler.AssembleOne(ctx, p)
}

// Delete は投稿を削除する。投稿者本人のみ削除できる。
// 他人の投稿の削除要求にはUNAUTHORIZEDを返す。
func (s *Service) Delete(ctx context.Context, requesterID, postID string) (*model.PostView, error) {
	p, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != requesterID {
		return nil, model.NewUnauthorizedError()
	}

	// 削除前のビューをレスポンス用に組み立てる
	view, err := s.assembler.AssembleOne(ctx, p)
	if err != nil {
		return nil, err
	}

	if _, err := s.postRepo.Delete(ctx, postID); err != nil {
		return nil, fmt.Errorf("failed to delete post: %w", err)
	}

	slog.Info("post deleted",
		slog.String("post_id", postID),
		slog.String("author_id", requesterID),
	)
	return view, nil
}

// Like は投稿にいいねを追加する。
// 追加は条件付き原子更新で行い、既にいいね済みの場合はALREADY_LIKEDを返す。
func (s *Service) Like(ctx context.Context, userID, postID string) (*model.PostView, error) {
	p, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	added, err := s.postRepo.AddLike(ctx, postID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to add like: %w", err)
	}
	if !added {
		return nil, model.NewAlreadyLikedError()
	}

	return s.assembler.AssembleOne(ctx, p)
}

// Unlike は投稿のいいねを取り消す。
// いいねしていない場合も成功として扱う（冪等）。
func (s *Service) Unlike(ctx context.Context, userID, postID string) (*model.PostView, error) {
	p, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.RemoveLike(ctx, postID, userID); err != nil {
		return nil, fmt.Errorf("failed to remove like: %w", err)
	}

	return s.assembler.AssembleOne(ctx, p)
}

// Comment は投稿にコメントを追記する。
// コメント本文はサニタイズ後に長さ検証する。既存コメントは変更しない。
func (s *Service) Comment(ctx context.Context, userID, postID, body string) (*model.PostView, error) {
	body = s.sanitizer.SanitizeText(body)
	if err := model.ValidateCommentText(body); err != nil {
		return nil, err
	}

	p, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	c := &model.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		AuthorID:  userID,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if err := s.postRepo.AddComment(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return s.assembler.AssembleOne(ctx, p)
}

// findPost はIDの形式検証と投稿の存在確認を行う。
func (s *Service) findPost(ctx context.Context, postID string) (*model.Post, error) {
	if _, err := uuid.Parse(postID); err != nil {
		return nil, model.NewInvalidIDError(postID)
	}

	p, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	if p == nil {
		return nil, model.NewPostNotFoundError(postID)
	}
	return p, nil
}
