package middleware

import (
	"context"
	"strings"

	"github.com/agency/planner/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling attaches route, method and resource labels to the profiles
// collected while a request runs. Requests for skipPaths and unmatched
// routes run unlabeled.
func Profiling(enabled bool, skipPaths ...string) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}

	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if _, skipped := skip[c.Request.URL.Path]; skipped || route == "" {
			c.Next()
			return
		}

		labels := map[string]string{
			telemetry.ProfilingLabelRoute:    route,
			telemetry.ProfilingLabelMethod:   c.Request.Method,
			telemetry.ProfilingLabelResource: resourceFromRoute(route),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// resourceFromRoute returns the first static segment after the API prefix:
// "/api/v1/contracts/:id/terms" gives "contracts".
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(strings.TrimPrefix(route, "/api/v1"), "/") {
		if part != "" && !strings.HasPrefix(part, ":") {
			return part
		}
	}
	return ""
}
