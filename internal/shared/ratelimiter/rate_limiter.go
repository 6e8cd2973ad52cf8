// Package ratelimiter throttles calls to external APIs.
package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Limiter は外部API呼び出しの頻度を制限するインターフェースです。
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimiter は interval あたり limit 回まで呼び出しを許可するトークンバケットです。
// バーストは limit 回まで、その後は interval/limit ごとに1枠ずつ回復します。
// 複数のゴルーチンから安全に利用できます。
type RateLimiter struct {
	limit    int
	interval time.Duration
	limiter  *rate.Limiter
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(interval/time.Duration(limit)), limit),
	}
}

// Wait は呼び出し枠を1つ確保します。枠がなければ回復するまで待機します。
// 待機が ctx の期限を越える場合は枠を消費せず、context.DeadlineExceeded をラップして返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.limiter.Tokens() < 1 {
		log.Debug().Int("limit", rl.limit).Dur("interval", rl.interval).Msg("rate limit hit, waiting")
	}
	if err := rl.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// rate.Limiter は期限内に終わらない待機を即座に拒否する
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return nil
}
