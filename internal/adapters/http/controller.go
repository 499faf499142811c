package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkeye/Argus/internal/core"
	"github.com/dkeye/Argus/internal/domain"
)

// RelayController exposes the relay over the HTTP boundary. appCtx is the
// process context: cancelling it winds down every open stream so graceful
// shutdown is not held hostage by long-lived connections.
type RelayController struct {
	appCtx    context.Context
	relay     *core.Relay
	readLimit int64
}

func NewRelayController(ctx context.Context, relay *core.Relay, readLimit int64) *RelayController {
	return &RelayController{appCtx: ctx, relay: relay, readLimit: readLimit}
}

// HandleMessage accepts one control message. Validation failures map to 400;
// an accepted message returns 200 regardless of delivery outcome.
func (ctl *RelayController) HandleMessage(c *gin.Context) {
	var in domain.IncomingMessage
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed message"})
		return
	}
	if err := ctl.relay.Submit(clientID(c), in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// HandleWhoAmI returns the caller's own id, so a client can tell its own
// announcements apart from its peers'.
func (ctl *RelayController) HandleWhoAmI(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"id": clientID(c)})
}
