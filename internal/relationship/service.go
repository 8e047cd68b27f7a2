// Package relationship はフォロー関係の管理を提供する。
//
// フォロー関係は(follower, followee)の単一エッジとして保存し、
// フォロワー一覧・フォロー中一覧はエッジの投影として取得する。
// 片側だけ更新された不整合状態は構造上発生しない。
package relationship

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hitoshi/edugram/internal/model"
	"github.com/hitoshi/edugram/internal/repository"
)

// UserView はフォロー操作後のユーザー表示ビュー。
// ユーザー情報とフォロー関係のID一覧を含む。
type UserView struct {
	User         *model.User
	FollowerIDs  []string
	FollowingIDs []string
}

// Service はフォロー関係のビジネスロジックを提供する。
type Service struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *Service {
	return &Service{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

// Follow はfollowerIDがfolloweeIDをフォローする。
// 自分自身へのフォローは拒否する。既フォローの場合は何もせず成功する（冪等）。
// フォロー後のfollower自身の最新ビューを返す。
func (s *Service) Follow(ctx context.Context, followerID, followeeID string) (*UserView, error) {
	if followerID == followeeID {
		return nil, model.NewInvalidInputError("cannot follow yourself")
	}

	if _, err := s.findUser(ctx, followeeID); err != nil {
		return nil, err
	}

	created, err := s.followRepo.Create(ctx, followerID, followeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to follow: %w", err)
	}
	if created {
		slog.Info("user followed",
			slog.String("follower_id", followerID),
			slog.String("followee_id", followeeID),
		)
	}
	return s.userView(ctx, followerID)
}

// Unfollow はfollowerIDのfolloweeIDへのフォローを解除する。
// フォローしていない場合も成功として扱う（冪等）。
// 解除後のfollower自身の最新ビューを返す。
func (s *Service) Unfollow(ctx context.Context, followerID, followeeID string) (*UserView, error) {
	if _, err := s.findUser(ctx, followeeID); err != nil {
		return nil, err
	}

	deleted, err := s.followRepo.Delete(ctx, followerID, followeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to unfollow: %w", err)
	}
	if deleted {
		slog.Info("user unfollowed",
			slog.String("follower_id", followerID),
			slog.String("followee_id", followeeID),
		)
	}
	return s.userView(ctx, followerID)
}

// userView はユーザー情報とフォロー関係のID一覧を組み立てる。
func (s *Service) userView(ctx context.Context, userID string) (*UserView, error) {
	u, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	followerIDs, err := s.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	followingIDs, err := s.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserView{
		User:         u,
		FollowerIDs:  followerIDs,
		FollowingIDs: followingIDs,
	}, nil
}

// FollowerIDs は指定ユーザーのフォロワーのユーザーIDを返す。
func (s *Service) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.followRepo.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follower ids: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// FolloweeIDs は指定ユーザーがフォローしているユーザーIDを返す。
func (s *Service) FolloweeIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.followRepo.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followee ids: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Followers は指定ユーザーのフォロワーのユーザー情報を返す。
func (s *Service) Followers(ctx context.Context, userID string) ([]*model.User, error) {
	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.followRepo.FollowersOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	if users == nil {
		users = []*model.User{}
	}
	return users, nil
}

// Following は指定ユーザーがフォローしているユーザー情報を返す。
func (s *Service) Following(ctx context.Context, userID string) ([]*model.User, error) {
	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.followRepo.FollowingOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
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

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}
	return user, nil
}
