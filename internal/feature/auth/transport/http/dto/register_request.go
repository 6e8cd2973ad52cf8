// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// RegisterReq represents the request body for POST /api/account/register.
type RegisterReq struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required"`
}

// NewUserRes is returned after a successful registration.
type NewUserRes struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
