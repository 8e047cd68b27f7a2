package handler

import (
	"time"

	"github.com/hitoshi/edugram/internal/model"
	"github.com/hitoshi/edugram/internal/relationship"
	"github.com/hitoshi/edugram/internal/user"
)

// --- レスポンス型 ---
//
// JSONフィールド名は既存クライアントとのワイヤ互換を保つ
// （_id, body, photo, mediaType, postedBy, likes, comments）。

// userResponse はユーザーのレスポンス。パスワードハッシュは含めない。
type userResponse struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	UserName  string    `json:"userName"`
	Email     string    `json:"email"`
	Photo     *string   `json:"photo"`
	Banner    *string   `json:"banner"`
	CreatedAt time.Time `json:"createdAt"`
}

// userViewResponse はフォロー関係のID一覧付きのユーザーレスポンス。
type userViewResponse struct {
	userResponse
	Followers []string `json:"followers"`
	Following []string `json:"following"`
}

// postAuthorResponse は投稿の投稿者表示。
type postAuthorResponse struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name"`
	Photo *string `json:"photo"`
}

// commentAuthorResponse はコメントの投稿者表示。
type commentAuthorResponse struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// commentResponse はコメントのレスポンス。
type commentResponse struct {
	ID       string                `json:"_id"`
	Comment  string                `json:"comment"`
	PostedBy commentAuthorResponse `json:"postedBy"`
}

// postResponse は投稿のレスポンス。
type postResponse struct {
	ID        string             `json:"_id"`
	Body      string             `json:"body"`
	Photo     string             `json:"photo"`
	MediaType string             `json:"mediaType"`
	PostedBy  postAuthorResponse `json:"postedBy"`
	Likes     []string           `json:"likes"`
	Comments  []commentResponse  `json:"comments"`
	CreatedAt time.Time          `json:"createdAt"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		UserName:  u.UserName,
		Email:     u.Email,
		Photo:     u.Photo,
		Banner:    u.Banner,
		CreatedAt: u.CreatedAt,
	}
}

func toUserResponses(users []*model.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toUserViewResponse(v *relationship.UserView) userViewResponse {
	return userViewResponse{
		userResponse: toUserResponse(v.User),
		Followers:    v.FollowerIDs,
		Following:    v.FollowingIDs,
	}
}

func toProfileUserResponse(p *user.Profile) userViewResponse {
	return userViewResponse{
		userResponse: toUserResponse(p.User),
		Followers:    p.FollowerIDs,
		Following:    p.FollowingIDs,
	}
}

func toPostResponse(v *model.PostView) postResponse {
	comments := make([]commentResponse, 0, len(v.Comments))
	for _, c := range v.Comments {
		comments = append(comments, commentResponse{
			ID:      c.ID,
			Comment: c.Body,
			PostedBy: commentAuthorResponse{
				ID:   c.Author.ID,
				Name: c.Author.Name,
			},
		})
	}

	return postResponse{
		ID:        v.ID,
		Body:      v.Body,
		Photo:     v.MediaURL,
		MediaType: string(v.MediaType),
		PostedBy: postAuthorResponse{
			ID:    v.Author.ID,
			Name:  v.Author.Name,
			Photo: v.Author.Photo,
		},
		Likes:     v.LikeIDs,
		Comments:  comments,
		CreatedAt: v.CreatedAt,
	}
}

func toPostResponses(views []model.PostView) []postResponse {
	out := make([]postResponse, 0, len(views))
	for i := range views {
		out = append(out, toPostResponse(&views[i]))
	}
	return out
}
