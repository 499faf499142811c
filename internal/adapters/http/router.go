// Package http wires the relay core to its HTTP boundary: cookie-session
// identity, the SSE push stream, the message submission endpoint and a
// WebSocket alternative transport.
package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Argus/internal/config"
	"github.com/dkeye/Argus/internal/core"
)

func SetupRouter(ctx context.Context, cfg *config.Config, relay *core.Relay) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions(cfg.SessionName, store))
	r.Use(IdentityMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	ctrl := NewRelayController(ctx, relay, cfg.ReadLimit)
	r.GET("/events", ctrl.HandleEvents)
	r.POST("/message", ctrl.HandleMessage)
	r.GET("/ws", ctrl.HandleWS)
	r.GET("/whoami", ctrl.HandleWhoAmI)

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")
	return r
}

// The cameras are served from anywhere on the local network, so the policy
// mirrors the permissive one the browser clients already rely on.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, PATCH, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
