package mid

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/web"
	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when a route receives more requests than it
// allows.
var ErrRateLimited = errors.New("too many requests")

// RateLimit allows up to burst requests at once and then refills the
// allowance at perMinute requests a minute. The limit is shared by every
// caller of the routes it wraps. A perMinute of zero disables the limit.
func RateLimit(perMinute int, burst int) web.Middleware {
	every := rate.Inf
	if perMinute > 0 {
		every = rate.Every(time.Minute / time.Duration(perMinute))
	}
	limiter := rate.NewLimiter(every, burst)

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if !limiter.Allow() {
				return errs.NewTrusted(ErrRateLimited, http.StatusTooManyRequests)
			}

			// Call the next handler.
			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
