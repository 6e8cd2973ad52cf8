package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"portfolio_backend/internal/feature/auth/domain/entity"
	"portfolio_backend/internal/platform/metrics"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// ユーザー名またはメールアドレスが重複する場合、ErrUserAlreadyExists を返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername は小文字化済みのユーザー名でユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFound を返します。
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByEmail は小文字化済みのメールアドレスでユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFound を返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// UpdateRole は指定ユーザーのロールを更新します。
	UpdateRole(ctx context.Context, userID uint, role string) error
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID uint, username, email, role string) (string, error)
}

// LoginResult はログイン成功時に返すユーザーとトークンです。
type LoginResult struct {
	User  *entity.User
	Token string
}

// AuthUsecase は認証ビジネスロジックを実装します。
type AuthUsecase struct {
	users        UserRepository
	jwtGenerator JWTGenerator
	hashCost     int
}

// NewAuthUsecase はAuthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, jwtGenerator JWTGenerator) *AuthUsecase {
	return &AuthUsecase{
		users:        users,
		jwtGenerator: jwtGenerator,
		hashCost:     bcrypt.DefaultCost,
	}
}

// normalize はユーザー名・メールアドレスの比較用表現を返します。
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register はユーザー名・メールアドレスの重複とパスワードポリシーを検証し、
// ロール "User" の新規ユーザーを登録します。
func (u *AuthUsecase) Register(ctx context.Context, username, email, password string) (*entity.User, error) {
	username = normalize(username)
	email = normalize(email)

	// ユーザー名・メールアドレスのどちらか一方でも既存なら登録不可
	if _, err := u.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}
	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         entity.RoleUser,
	}
	// 事前チェックと挿入の間に競合した場合もユニーク制約で ErrUserAlreadyExists になる
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}

	metrics.UsersRegisteredTotal.Inc()
	log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login はユーザー名とパスワードを検証し、成功時に署名済みJWTトークンを返します。
// ユーザー未登録とパスワード不一致は別々のエラーとして返します。
func (u *AuthUsecase) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := u.users.FindByUsername(ctx, normalize(username))
	if err != nil {
		return nil, err
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrIncorrectPassword
	}

	token, err := u.jwtGenerator.GenerateToken(user.ID, user.Username, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResult{User: user, Token: token}, nil
}

// ResolveIdentity はトークンのユーザー名クレームから現在のユーザーを取得します。
// リクエストごとに呼ばれ、セッションキャッシュは持ちません。
func (u *AuthUsecase) ResolveIdentity(ctx context.Context, username string) (*entity.User, error) {
	return u.users.FindByUsername(ctx, normalize(username))
}

// SetRole は指定ユーザーのロールを変更します。管理CLIから利用されます。
func (u *AuthUsecase) SetRole(ctx context.Context, username, role string) (*entity.User, error) {
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	user, err := u.users.FindByUsername(ctx, normalize(username))
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}
	if err := u.users.UpdateRole(ctx, user.ID, role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	user.Role = role
	log.Info().Str("username", user.Username).Str("role", role).Msg("user role changed")
	return user, nil
}
