// Package query describes the filter and order requests for comments.
package query

// CommentQuery selects comments for GET /api/comment.
type CommentQuery struct {
	// Symbol, when set, keeps only comments on the stock with exactly this symbol.
	Symbol string
	// IsDescending orders by creation time, newest first, when true.
	// nil or false keeps storage order.
	IsDescending *bool
}

// NewestFirst reports whether the caller asked for descending creation time.
func (q CommentQuery) NewestFirst() bool {
	return q.IsDescending != nil && *q.IsDescending
}
