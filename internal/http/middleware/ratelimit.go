package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/MrJamesThe3rd/dealdesk/internal/http/render"
)

// RateLimit allows perMinute requests per client IP, kept in memory.
func RateLimit(perMinute int64) func(http.Handler) http.Handler {
	l := limiter.New(memory.NewStore(), limiter.Rate{Period: time.Minute, Limit: perMinute})

	mw := stdlib.NewMiddleware(l,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("rate limit exceeded", "ip", l.GetIPKey(r), "path", r.URL.Path)
			render.Message(w, http.StatusTooManyRequests, "too many requests, try again later")
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("failed to check rate limit", "path", r.URL.Path, "error", err)
			render.Message(w, http.StatusInternalServerError, "internal error")
		}),
	)

	return mw.Handler
}
