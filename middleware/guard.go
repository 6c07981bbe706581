// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/danielhkuo/fitfamily/auth"
	"github.com/danielhkuo/fitfamily/metrics"
)

// RequireUser verifies the bearer token and stores the user id in the
// request context. Requests without a valid token get 401.
func RequireUser(secret string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			userID, err := auth.VerifyToken(auth.BearerToken(r.Header.Get("Authorization")), secret)
			if err != nil {
				slog.Warn("unauthenticated request", "path", r.URL.Path, "error", err)
				ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			next(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		}
	}
}

// RateLimiter hands out one token bucket per user. Requests without a user
// are keyed by client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewRateLimiter allows perMinute requests per minute with a burst of the
// same size.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (l *RateLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	return lim
}

// Wrap rejects requests with 429 once the caller's bucket is empty.
func (l *RateLimiter) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := auth.CurrentUserID(r.Context())
		if !ok {
			key = GetClientIP(r)
		}
		if !l.get(key).Allow() {
			w.Header().Set("Retry-After", "60")
			ErrorResponse(w, http.StatusTooManyRequests, "Too many requests, slow down")
			return
		}
		next(w, r)
	}
}

// Instrument counts and times requests under route, which should be the
// mux pattern so label cardinality stays bounded.
func Instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := record(w)
		next(rec, r)
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct checks v's validate tags and describes the first failing
// field, using its JSON name.
func ValidateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", field, fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Errorf("%s failed %s=%s", field, fe.Tag(), fe.Param())
		}
		return fmt.Errorf("%s failed %s", field, fe.Tag())
	}
}
