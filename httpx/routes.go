package httpx

import (
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/capai/xcommon/sentryx"
)

type Routes func(r *gin.Engine)

const (
	HealthPath     = "/health"
	PingSentryPath = "/ping_sentry"
	// PingSentryAlias is the hyphenated path older deployments probe.
	PingSentryAlias = "/ping-sentry"

	PingMessage = "Sentry diagnostic ping"
	NoEventID   = "no-event-id-generated"
)

func HealthRoutes(r *gin.Engine) {
	r.GET(HealthPath, health)
}

// DiagnosticRoutes mounts the health check and the Sentry ping. opts are
// applied to every ping message after the defaults.
func DiagnosticRoutes(opts ...sentryx.MessageOption) Routes {
	ping := pingSentry(opts)
	return func(r *gin.Engine) {
		HealthRoutes(r)
		r.GET(PingSentryPath, ping)
		r.GET(PingSentryAlias, ping)
	}
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// pingSentry always answers 200; a failed or dropped report only shows up as
// the placeholder hash.
func pingSentry(extra []sentryx.MessageOption) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			ctx = sentry.SetHubOnContext(ctx, hub)
		}

		opts := append([]sentryx.MessageOption{
			sentryx.WithLevel(sentry.LevelWarning),
			sentryx.WithExtra("timestamp", time.Now().UTC().Format(time.RFC3339Nano)),
			sentryx.WithTags(map[string]string{"route": c.FullPath()}),
		}, extra...)

		hash := NoEventID
		if id := sentryx.SendMessage(ctx, PingMessage, opts...); id != nil {
			hash = string(*id)
		}
		c.JSON(http.StatusOK, gin.H{
			"status":               "ok",
			"sentry_response_hash": hash,
		})
	}
}
