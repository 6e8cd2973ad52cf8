// Package dto defines data transfer objects for the comments HTTP API.
package dto

import (
	"time"

	"portfolio_backend/internal/feature/comments/domain/entity"
)

// CreateCommentReq is the body of POST /api/comment/:stockId.
type CreateCommentReq struct {
	Title   string `json:"title" binding:"required,min=5,max=100"`
	Content string `json:"content" binding:"required,min=5,max=280"`
}

// UpdateCommentReq is the body of PUT /api/comment/:id.
type UpdateCommentReq struct {
	Title   string `json:"title" binding:"required,min=5,max=100"`
	Content string `json:"content" binding:"required,min=5,max=280"`
}

// ListCommentsQuery holds the query parameters of GET /api/comment.
// IsDescending is nil when the parameter is absent.
type ListCommentsQuery struct {
	Symbol       string `form:"symbol"`
	IsDescending *bool  `form:"isDescending"`
}

// CommentRes is the public shape of a comment. CreatedBy is the author's username.
type CommentRes struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedOn time.Time `json:"createdOn"`
	CreatedBy string    `json:"createdBy"`
	StockID   uint      `json:"stockId"`
}

// FromEntity maps a comment with its author loaded.
func FromEntity(c entity.Comment) CommentRes {
	return CommentRes{
		ID:        c.ID,
		Title:     c.Title,
		Content:   c.Content,
		CreatedOn: c.CreatedOn,
		CreatedBy: c.AuthorName(),
		StockID:   c.StockID,
	}
}

// FromEntities maps a slice of comments, never returning nil.
func FromEntities(cs []entity.Comment) []CommentRes {
	out := make([]CommentRes, 0, len(cs))
	for _, c := range cs {
		out = append(out, FromEntity(c))
	}
	return out
}
