// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"strconv"
	"time"

	gilog "github.com/chrootRISCassembler/GameInfo/internal/log"
	"github.com/go-chi/httprate"
)

// RateLimitConfig bounds how many requests one client may make per window.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration

	// KeyFunc groups requests into clients; nil means by remote IP.
	KeyFunc httprate.KeyFunc
}

const rateLimitedBody = `{"error":"rate_limit_exceeded","detail":"too many requests, retry later"}`

// RateLimit rejects a client's requests beyond cfg.Requests per cfg.Window
// with 429 and a Retry-After of one window.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	key := cfg.KeyFunc
	if key == nil {
		key = httprate.KeyByIP
	}
	retryAfter := strconv.Itoa(int(cfg.Window.Seconds()))

	onLimited := func(w http.ResponseWriter, r *http.Request) {
		logger := gilog.WithComponentFromContext(r.Context(), "ratelimit")
		logger.Debug().
			Str(gilog.FieldEvent, "http.rate_limited").
			Str("path", r.URL.Path).
			Msg("request rejected")
		h := w.Header()
		h.Set("Content-Type", "application/json")
		h.Set("Retry-After", retryAfter)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(rateLimitedBody))
	}

	return httprate.Limit(cfg.Requests, cfg.Window,
		httprate.WithKeyFuncs(key),
		httprate.WithLimitHandler(onLimited),
	)
}
