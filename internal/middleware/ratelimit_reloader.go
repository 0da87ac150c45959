package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/benvon/autoartisan/internal/models"
	"github.com/benvon/autoartisan/internal/request"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"go.uber.org/zap"
)

// RatelimitConfigStore reads and seeds per-scope rates.
type RatelimitConfigStore interface {
	Get(ctx context.Context, scope string) (*models.RatelimitConfig, error)
	Set(ctx context.Context, c *models.RatelimitConfig) error
}

// RateLimitReloader wraps ulule/limiter for one scope and periodically reloads its rate from the database.
type RateLimitReloader struct {
	next        http.Handler
	store       limiter.Store
	repo        RatelimitConfigStore
	scope       string
	defaultRate string
	log         *zap.Logger
	interval    time.Duration
	mu          sync.RWMutex
	current     http.Handler
	rate        limiter.Rate
}

// NewRateLimitReloader creates a rate limit middleware for scope. Counters are kept
// in store under keys prefixed with the scope, so scopes never share a budget.
func NewRateLimitReloader(store limiter.Store, repo RatelimitConfigStore, scope string, log *zap.Logger, reloadInterval time.Duration) *RateLimitReloader {
	return &RateLimitReloader{
		store:       store,
		repo:        repo,
		scope:       scope,
		defaultRate: models.DefaultRate(scope),
		log:         log,
		interval:    reloadInterval,
	}
}

// Middleware returns a middleware that wraps next with rate limiting and hot-reload.
func (r *RateLimitReloader) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		r.next = next
		r.load(context.Background())
		return r
	}
}

// Start runs the reload loop until ctx is cancelled. Call after Middleware() is applied.
func (r *RateLimitReloader) Start(ctx context.Context) {
	runReloadLoop(ctx, r.interval, r.load)
}

// Rate returns the rate currently enforced.
func (r *RateLimitReloader) Rate() limiter.Rate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rate
}

func (r *RateLimitReloader) load(ctx context.Context) {
	if r.next == nil {
		return
	}

	rateStr := r.defaultRate
	cfg, err := r.repo.Get(ctx, r.scope)
	switch {
	case err != nil:
		r.log.Warn("failed_to_load_ratelimit_config_from_db_using_default",
			zap.Error(err),
			zap.String("scope", r.scope),
			zap.String("default_rate", r.defaultRate),
		)
	case cfg != nil && cfg.Rate != "":
		rateStr = cfg.Rate
	default:
		if err := r.repo.Set(ctx, &models.RatelimitConfig{ConfigKey: r.scope, Rate: r.defaultRate}); err != nil {
			r.log.Error("failed_to_save_default_ratelimit_config",
				zap.Error(err),
				zap.String("scope", r.scope),
			)
		}
	}

	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		r.log.Error("failed_to_parse_rate_limit_using_default",
			zap.Error(err),
			zap.String("scope", r.scope),
			zap.String("rate_str", rateStr),
		)
		rate, err = limiter.NewRateFromFormatted(r.defaultRate)
		if err != nil {
			return
		}
	}

	instance := limiter.New(r.store, rate)
	scope := r.scope
	mw := stdlibmw.NewMiddleware(instance,
		stdlibmw.WithKeyGetter(func(req *http.Request) string {
			return scope + ":" + request.ClientIP(req)
		}),
		stdlibmw.WithLimitReachedHandler(r.limitReached),
		stdlibmw.WithErrorHandler(r.limiterError),
	)
	h := mw.Handler(r.next)

	r.mu.Lock()
	r.current = h
	r.rate = rate
	r.mu.Unlock()
}

func (r *RateLimitReloader) limitReached(w http.ResponseWriter, req *http.Request) {
	writeError(w, req, http.StatusTooManyRequests, "Too Many Requests", "Too many requests, please try again later", r.log)
}

// limiterError lets the request through when the store is unavailable.
func (r *RateLimitReloader) limiterError(w http.ResponseWriter, req *http.Request, err error) {
	r.log.Error("rate_limiter_store_failed", zap.Error(err), zap.String("scope", r.scope))
	r.next.ServeHTTP(w, req)
}

// ServeHTTP implements http.Handler.
func (r *RateLimitReloader) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.RLock()
	h := r.current
	r.mu.RUnlock()
	if h != nil {
		h.ServeHTTP(w, req)
		return
	}
	if r.next != nil {
		r.next.ServeHTTP(w, req)
	}
}
