package http

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HandleEvents holds the client's server-push stream open as Server-Sent
// Events, one event per outgoing message. The stream ends when the client
// goes away, the process shuts down, or the registry closes the handle
// (eviction or a reconnect replacing this stream).
func (ctl *RelayController) HandleEvents(c *gin.Context) {
	id := clientID(c)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	stop := context.AfterFunc(ctl.appCtx, cancel)
	defer stop()

	stream := ctl.relay.OpenStream(ctx, id)
	log.Info().Str("module", "adapters.http").Str("client", string(id)).Msg("client subscribed")

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Stream(func(w io.Writer) bool {
		msg, ok := <-stream
		if !ok {
			return false
		}
		c.SSEvent("message", msg)
		return true
	})
}
