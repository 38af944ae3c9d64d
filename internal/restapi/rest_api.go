package restapi

import (
	"time"

	"metrolive.dev/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
	}
}

// Close stops the rate limiter's cleanup goroutine.
func (api *RestAPI) Close() {
	api.rateLimiter.Stop()
}
