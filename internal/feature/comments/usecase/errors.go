// Package usecase implements the business logic for the comments feature.
package usecase

import "errors"

var (
	// ErrCommentNotFound is returned when no comment has the given id.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrStockNotFound is returned when a comment targets a stock that does not exist.
	ErrStockNotFound = errors.New("stock does not exist")

	// ErrForbidden is returned when the actor is neither the author nor an admin.
	ErrForbidden = errors.New("only the author or an admin may change this comment")
)
