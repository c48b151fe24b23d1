package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"uni-scheduler/backend/pkg/response"
)

// SlidingWindow 分布式滑动窗口计数（由 pkg/redis.Client 实现）
type SlidingWindow interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// localLimiters 进程内按 IP 的令牌桶，Redis 不可用时使用。
// 每次访问刷新过期时间；空闲满一个窗口的令牌桶已回满，过期清理后重建等价。
type localLimiters struct {
	mu       sync.Mutex
	limiters *cache.Cache
	limit    rate.Limit
	burst    int
}

func newLocalLimiters(limit int, window time.Duration) *localLimiters {
	return &localLimiters{
		limiters: cache.New(window, window),
		limit:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
	}
}

func (s *localLimiters) allow(key string) bool {
	s.mu.Lock()
	limiter, ok := s.get(key)
	if !ok {
		limiter = rate.NewLimiter(s.limit, s.burst)
	}
	s.limiters.Set(key, limiter, cache.DefaultExpiration)
	s.mu.Unlock()

	return limiter.Allow()
}

func (s *localLimiters) get(key string) (*rate.Limiter, bool) {
	v, ok := s.limiters.Get(key)
	if !ok {
		return nil, false
	}
	limiter, ok := v.(*rate.Limiter)
	return limiter, ok
}

// RateLimit 速率限制中间件
// limit: 窗口内允许的最大请求数
// window: 滑动窗口时长
// sw 为 nil 时使用进程内令牌桶；Redis 出错时同样降级到进程内令牌桶
func RateLimit(sw SlidingWindow, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	local := newLocalLimiters(limit, window)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		allowed := false

		if sw != nil {
			key := fmt.Sprintf("rate_limit:%s:%s", ip, c.FullPath())
			ok, err := sw.CheckRateLimit(c.Request.Context(), key, limit, window)
			if err != nil {
				logger.Warn("Redis 限流失败，降级为本地限流", zap.Error(err))
				allowed = local.allow(ip)
			} else {
				allowed = ok
			}
		} else {
			allowed = local.allow(ip)
		}

		if !allowed {
			logger.Warn("请求频率超限", zap.String("ip", ip), zap.String("path", c.FullPath()))
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			response.Error(c, http.StatusTooManyRequests, 10004, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}
