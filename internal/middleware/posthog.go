package middleware

import (
	"net/http"
	"strings"

	"github.com/Jonatasvm/backendGB/internal/utils"
	"github.com/gin-gonic/gin"
)

// Analytics events emitted by handlers in addition to the per-route capture.
const (
	EventEntriesExported = "entries_exported"
)

const posthogClientKey = "posthogClient"

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health": true,
}

// PosthogMiddleware tracks successful authenticated API calls with PostHog.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Set(posthogClientKey, posthogClient)
		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		// "/api/v1/entries/:entryID/status" -> "api_v1_entries_:entryID_status"
		eventName := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		posthogClient.Enqueue(userID, eventName, props)
	}
}

// PosthogEvent captures a domain event for the authenticated caller through the
// client installed by PosthogMiddleware. It is a no-op when analytics is off.
func PosthogEvent(c *gin.Context, eventName string, properties map[string]any) {
	v, exists := c.Get(posthogClientKey)
	if !exists {
		return
	}
	posthogClient, ok := v.(*utils.PosthogClientWrapper)
	if !ok || !posthogClient.IsInitialized() {
		return
	}
	userID, exists := GetUserIDFromContext(c)
	if !exists {
		return
	}
	if properties == nil {
		properties = make(map[string]any)
	}
	properties["method"] = c.Request.Method
	properties["path"] = c.Request.URL.Path
	posthogClient.Enqueue(userID, eventName, properties)
}
