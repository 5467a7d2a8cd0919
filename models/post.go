package models

import "time"

type Post struct {
	PostID          string          `json:"_id" bson:"_id"`
	UserID          string          `json:"userId" bson:"userId"`
	FirstName       string          `json:"firstName" bson:"firstName"`
	LastName        string          `json:"lastName" bson:"lastName"`
	Location        string          `json:"location" bson:"location"`
	Description     string          `json:"description" bson:"description"`
	PicturePath     string          `json:"picturePath" bson:"picturePath"`
	UserPicturePath string          `json:"userPicturePath" bson:"userPicturePath"`
	Likes           map[string]bool `json:"likes" bson:"likes"`
	Comments        []string        `json:"comments" bson:"comments"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// LikedBy reports whether userID currently likes p.
func (p *Post) LikedBy(userID string) bool {
	return p.Likes[userID]
}

// PostView is the wire form of a post with derived counters.
type PostView struct {
	Post
	LikeCount    int `json:"likeCount"`
	CommentCount int `json:"commentCount"`
}

func (p Post) View() PostView {
	if p.Likes == nil {
		p.Likes = map[string]bool{}
	}
	if p.Comments == nil {
		p.Comments = []string{}
	}
	likes := 0
	for _, liked := range p.Likes {
		if liked {
			likes++
		}
	}
	return PostView{Post: p, LikeCount: likes, CommentCount: len(p.Comments)}
}

func Views(posts []Post) []PostView {
	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.View())
	}
	return out
}

// PostFilter narrows a feed query. Zero values mean no filter.
type PostFilter struct {
	UserID string
	Skip   int64
	Limit  int64
}
