package middleware

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"

	"spendtrack-backend/pkg/common"
	"spendtrack-backend/pkg/observability"
	"spendtrack-backend/pkg/ratelimit"
)

// rateLimitExceededBody is the 429 response contract. Clients parse this
// shape, so the field set and messages are fixed.
type rateLimitExceededBody struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
}

// RateLimit gates requests through the distributed limiter using the named
// policy class. The subject key falls back from authenticated identity to
// network origin, so unauthenticated traffic is still throttled per source.
func RateLimit(
	limiter *ratelimit.Limiter,
	policies map[string]ratelimit.Policy,
	class string,
	metrics *observability.Metrics,
	logger *zap.Logger,
) func(next http.Handler) http.Handler {
	policy, ok := policies[class]
	if !ok {
		policy = policies[ratelimit.ClassRead]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := subjectKey(r)
			result := limiter.Check(r.Context(), subject, policy.Requests, policy.Window)

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime.Unix()))
			w.Header().Set("X-RateLimit-Used", fmt.Sprintf("%d", result.TotalHits))

			if !result.Allowed {
				metrics.IncrCounter(observability.MetricRateLimitDenied, 1)
				logger.Info("request rate limited",
					zap.String("subject", subject),
					zap.String("class", class),
					zap.Int64("hits", result.TotalHits),
				)

				retryAfter := int(math.Ceil(time.Until(result.ResetTime).Seconds()))
				if retryAfter < 0 {
					retryAfter = 0
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(rateLimitExceededBody{
					Success:    false,
					Message:    "Too many requests",
					Error:      "Rate limit exceeded",
					RetryAfter: retryAfter,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// subjectKey identifies the rate-limited principal: the authenticated user
// when known, otherwise the client's network origin
func subjectKey(r *http.Request) string {
	if userID, ok := common.GetUserID(r.Context()); ok && userID != "" {
		return "user:" + userID
	}
	return "ip:" + GetClientIP(r)
}
