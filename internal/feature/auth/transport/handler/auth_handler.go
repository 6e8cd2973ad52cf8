// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"portfolio_backend/internal/feature/auth/domain/entity"
	"portfolio_backend/internal/feature/auth/transport/http/dto"
	"portfolio_backend/internal/feature/auth/usecase"
	"portfolio_backend/internal/shared/apierror"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録します。
	Register(ctx context.Context, username, email, password string) (*entity.User, error)
	// Login はユーザーを認証し、成功時にユーザーとJWTトークンを返します。
	Login(ctx context.Context, username, password string) (*usecase.LoginResult, error)
}

// AuthHandler は /api/account 配下のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - 入力形式エラー・パスワードポリシー違反は400（フィールドエラー一覧）
// - ユーザー名・メールアドレス重複は409
// - 成功時は201
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Str("remote_addr", c.ClientIP()).Msg("register validation failed")
		apierror.BadRequest(c, err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		var policyErr *usecase.PasswordPolicyError
		switch {
		case errors.As(err, &policyErr):
			res := apierror.ValidationErrorResponse{}
			for _, p := range policyErr.Problems {
				res.Errors = append(res.Errors, apierror.FieldError{Field: "password", Message: p})
			}
			c.JSON(http.StatusBadRequest, res)
		case errors.Is(err, usecase.ErrUserAlreadyExists):
			log.Warn().Str("username", req.Username).Str("remote_addr", c.ClientIP()).Msg("register conflict")
			apierror.Abort(c, http.StatusConflict, "User already exists!")
		default:
			log.Error().Err(err).Str("username", req.Username).Msg("register failed")
			apierror.Internal(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserRes{
		Message:  "User registered successfully!",
		Username: user.Username,
		Email:    user.Email,
	})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// ユーザー未登録とパスワード不一致はそれぞれ別のメッセージで401を返します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Str("remote_addr", c.ClientIP()).Msg("login validation failed")
		apierror.BadRequest(c, err)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			log.Warn().Str("username", req.Username).Str("remote_addr", c.ClientIP()).Msg("login unknown user")
			apierror.Abort(c, http.StatusUnauthorized, "User not found!")
		case errors.Is(err, usecase.ErrIncorrectPassword):
			log.Warn().Str("username", req.Username).Str("remote_addr", c.ClientIP()).Msg("login wrong password")
			apierror.Abort(c, http.StatusUnauthorized, "Password is incorrect!")
		default:
			log.Error().Err(err).Str("username", req.Username).Msg("login failed")
			apierror.Internal(c, err)
		}
		return
	}

	log.Info().Str("username", res.User.Username).Str("remote_addr", c.ClientIP()).Msg("user login successful")
	c.JSON(http.StatusOK, dto.LoginRes{
		Message:  "Login successful!",
		Username: res.User.Username,
		Email:    res.User.Email,
		Token:    res.Token,
	})
}
