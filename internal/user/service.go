// Package user はユーザープロフィールの取得・更新と検索を提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/hitoshi/edugram/internal/feed"
	"github.com/hitoshi/edugram/internal/model"
	"github.com/hitoshi/edugram/internal/repository"
)

const (
	// profilePostLimit はプロフィール画面に表示する投稿の最大件数。
	profilePostLimit = 100
	// searchResultLimit はユーザー検索結果の最大件数。
	searchResultLimit = 20
	// suggestionLimit はフォロー候補の最大件数。
	suggestionLimit = 10
)

// Profile はユーザープロフィールの表示用ビュー。
// ユーザー情報と投稿、フォロー関係のID一覧を含む。
type Profile struct {
	User         *model.User
	Posts        []model.PostView
	FollowerIDs  []string
	FollowingIDs []string
}

// Service はユーザーに関するビジネスロジックを提供する。
type Service struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	postRepo   repository.PostRepository
	assembler  *feed.Assembler
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	postRepo repository.PostRepository,
	assembler *feed.Assembler,
) *Service {
	return &Service{
		userRepo:   userRepo,
		followRepo: followRepo,
		postRepo:   postRepo,
		assembler:  assembler,
	}
}

// GetProfile は指定ユーザーのプロフィールと投稿一覧を取得する。
// 存在しないユーザーにはUSER_NOT_FOUNDを返す。
func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListPage(ctx, []string{userID}, 0, profilePostLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list profile posts: %w", err)
	}
	views, err := s.assembler.Assemble(ctx, posts)
	if err != nil {
		return nil, err
	}

	followerIDs, err := s.followRepo.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	followingIDs, err := s.followRepo.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	if followerIDs == nil {
		followerIDs = []string{}
	}
	if followingIDs == nil {
		followingIDs = []string{}
	}

	return &Profile{
		User:         u,
		Posts:        views,
		FollowerIDs:  followerIDs,
		FollowingIDs: followingIDs,
	}, nil
}

// UpdatePhoto はプロフィール写真URLを置き換える。
// urlがnilの場合は未設定状態に戻す。
func (s *Service) UpdatePhoto(ctx context.Context, userID string, url *string) (*model.User, error) {
	return s.updateImage(ctx, userID, url, s.userRepo.UpdatePhoto, "photo")
}

// UpdateBanner はバナー写真URLを置き換える。
// urlがnilの場合は未設定状態に戻す。
func (s *Service) UpdateBanner(ctx context.Context, userID string, url *string) (*model.User, error) {
	return s.updateImage(ctx, userID, url, s.userRepo.UpdateBanner, "banner")
}

func (s *Service) updateImage(
	ctx context.Context,
	userID string,
	url *string,
	update func(ctx context.Context, id string, url *string) error,
	kind string,
) (*model.User, error) {
	if url != nil && !model.IsValidMediaURL(*url) {
		return nil, model.NewInvalidInputError("invalid image URL")
	}

	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := update(ctx, userID, url); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", kind, err)
	}

	slog.Info("user image updated",
		slog.String("user_id", userID),
		slog.String("kind", kind),
	)

	// 更新後の状態を再取得して返す
	return s.findUser(ctx, userID)
}

// SearchByPrefix は名前またはユーザー名の前方一致でユーザーを検索する。
// 空クエリはINVALID_INPUTを返す。requesterIDのユーザーは結果から除外する。
func (s *Service) SearchByPrefix(ctx context.Context, requesterID, query string) ([]*model.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, model.NewInvalidInputError("query is required")
	}

	users, err := s.userRepo.SearchByPrefix(ctx, query, requesterID, searchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	if users == nil {
		users = []*model.User{}
	}
	return users, nil
}

// Suggest は自分自身と既フォロー対象を除いたフォロー候補を返す。
func (s *Service) Suggest(ctx context.Context, requesterID string) ([]*model.User, error) {
	users, err := s.userRepo.Suggest(ctx, requesterID, suggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest users: %w", err)
	}
	if users == nil {
		users = []*model.User{}
	}
	return users, nil
}

// findUser はIDの形式検証とユーザーの存在確認を行う。
func (s *Service) findUser(ctx context.Context, userID string) (*model.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, model.NewInvalidIDError(userID)
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if u == nil {
		return nil, model.NewUserNotFoundError(userID)
	}
	return u, nil
}
