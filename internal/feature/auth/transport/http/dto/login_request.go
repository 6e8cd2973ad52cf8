package dto

// LoginReq は POST /api/account/login のリクエストボディを表します。
type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRes はログイン成功時のレスポンスです。
type LoginRes struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}
