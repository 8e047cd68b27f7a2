// Package feed は投稿フィードの組み立てとページネーションを提供する。
//
// フィードは毎回ストアへの明示的な結合クエリで組み立てる。
// 投稿ドキュメントに投稿者情報を埋め込む非正規化は行わず、
// 表示時点のユーザー情報を常に反映する。
package feed

import (
	"context"
	"fmt"

	"github.com/hitoshi/edugram/internal/model"
	"github.com/hitoshi/edugram/internal/repository"
)

const (
	// DefaultPageLimit はlimit未指定時の1ページあたりの投稿数。
	DefaultPageLimit = 10
	// MaxPageLimit はlimitの上限。
	MaxPageLimit = 100
)

// Page はページネーションパラメータを表す。
type Page struct {
	Number int // 1始まり
	Limit  int
}

// Normalize はページパラメータを有効範囲に丸める。
// pageは1未満を1に、limitは未指定(0以下)をデフォルトに、
// 上限超過をMaxPageLimitに丸める。
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset はストアクエリ用のオフセットを返す。
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Assembler は投稿のスライスを表示用のPostViewに組み立てる。
// 投稿者・いいね・コメントをそれぞれ一括クエリで取得するため、
// 投稿件数に対してクエリ数は一定となる。
type Assembler struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

// NewAssembler はAssemblerを生成する。
func NewAssembler(userRepo repository.UserRepository, postRepo repository.PostRepository) *Assembler {
	return &Assembler{
		userRepo: userRepo,
		postRepo: postRepo,
	}
}

// Assemble は投稿群を投稿者・いいね・コメント付きのビューに組み立てる。
// 入力順を保持する。
func (a *Assembler) Assemble(ctx context.Context, posts []*model.Post) ([]model.PostView, error) {
	if len(posts) == 0 {
		return []model.PostView{}, nil
	}

	postIDs := make([]string, 0, len(posts))
	authorIDSet := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		authorIDSet[p.AuthorID] = struct{}{}
	}
	authorIDs := make([]string, 0, len(authorIDSet))
	for id := range authorIDSet {
		authorIDs = append(authorIDs, id)
	}

	authors, err := a.userRepo.RefsByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post authors: %w", err)
	}
	likes, err := a.postRepo.LikesForPosts(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post likes: %w", err)
	}
	comments, err := a.postRepo.CommentsForPosts(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post comments: %w", err)
	}

	views := make([]model.PostView, 0, len(posts))
	for _, p := range posts {
		view := model.PostView{
			Post:     *p,
			Author:   authors[p.AuthorID],
			LikeIDs:  likes[p.ID],
			Comments: comments[p.ID],
		}
		if view.LikeIDs == nil {
			view.LikeIDs = []string{}
		}
		if view.Comments == nil {
			view.Comments = []model.CommentView{}
		}
		views = append(views, view)
	}
	return views, nil
}

// AssembleOne は単一投稿のビューを組み立てる。
// いいね・コメント操作後のレスポンス生成に使用する。
func (a *Assembler) AssembleOne(ctx context.Context, post *model.Post) (*model.PostView, error) {
	views, err := a.Assemble(ctx, []*model.Post{post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Service はフィード取得のビジネスロジックを提供する。
type Service struct {
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
	assembler  *Assembler
}

// NewService はServiceを生成する。
func NewService(postRepo repository.PostRepository, followRepo repository.FollowRepository, assembler *Assembler) *Service {
	return &Service{
		postRepo:   postRepo,
		followRepo: followRepo,
		assembler:  assembler,
	}
}

// ListAll は全ユーザーの投稿を作成日時降順のページで返す。
// 範囲外ページ（投稿が1件もないページ）はPOSTS_NOT_FOUNDを返す。
func (s *Service) ListAll(ctx context.Context, page Page) ([]model.PostView, error) {
	page = page.Normalize()

	posts, err := s.postRepo.ListPage(ctx, nil, page.Offset(), page.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if len(posts) == 0 {
		return nil, model.NewPostsNotFoundError()
	}

	return s.assembler.Assemble(ctx, posts)
}

// ListByAuthor は指定ユーザーの投稿を作成日時降順のページで返す。
// 範囲外ページはPOSTS_NOT_FOUNDを返す。
func (s *Service) ListByAuthor(ctx context.Context, authorID string, page Page) ([]model.PostView, error) {
	page = page.Normalize()

	posts, err := s.postRepo.ListPage(ctx, []string{authorID}, page.Offset(), page.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by author: %w", err)
	}
	if len(posts) == 0 {
		return nil, model.NewPostsNotFoundError()
	}

	return s.assembler.Assemble(ctx, posts)
}

// ListByFollowing は指定ユーザーがフォローしている投稿者の投稿を
// 作成日時降順のページで返す。
// フォローが0件の場合や範囲外ページでは空スライスを返す
// （エラーにはしない）。
func (s *Service) ListByFollowing(ctx context.Context, userID string, page Page) ([]model.PostView, error) {
	page = page.Normalize()

	followeeIDs, err := s.followRepo.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followees: %w", err)
	}
	if len(followeeIDs) == 0 {
		return []model.PostView{}, nil
	}

	posts, err := s.postRepo.ListPage(ctx, followeeIDs, page.Offset(), page.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list following posts: %w", err)
	}

	return s.assembler.Assemble(ctx, posts)
}
