package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Argus/internal/domain"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWS is the WebSocket alternative to /events + /message: the socket
// carries the push stream outbound and treats every inbound text frame as a
// message submission.
func (ctl *RelayController) HandleWS(c *gin.Context) {
	id := clientID(c)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("ws upgrade")
		return
	}
	if ctl.readLimit > 0 {
		ws.SetReadLimit(ctl.readLimit)
	}

	// The request context dies as soon as this handler returns, so the
	// session hangs off the process context; the read pump cancels it when
	// the socket closes.
	ctx, cancel := context.WithCancel(context.Background())
	stop := context.AfterFunc(ctl.appCtx, cancel)

	stream := ctl.relay.OpenStream(ctx, id)
	log.Info().Str("module", "adapters.http").Str("client", string(id)).Msg("ws client subscribed")

	go ctl.writePump(ws, stream)
	go ctl.readPump(id, ws, func() {
		stop()
		cancel()
	})
}

func (ctl *RelayController) writePump(ws *websocket.Conn, stream <-chan domain.OutgoingMessage) {
	defer ws.Close()
	for msg := range stream {
		if err := ws.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}
		if err := ws.WriteJSON(msg); err != nil {
			log.Debug().Err(err).Str("module", "adapters.http").Msg("ws write")
			return
		}
	}
	// Producer side closed the stream; tell the client before hanging up.
	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(time.Second))
}

func (ctl *RelayController) readPump(id domain.ClientID, ws *websocket.Conn, done func()) {
	defer func() {
		done()
		_ = ws.Close()
		log.Info().Str("module", "adapters.http").Str("client", string(id)).Msg("ws client gone")
	}()

	for {
		var in domain.IncomingMessage
		if err := ws.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Str("module", "adapters.http").Str("client", string(id)).Msg("ws read")
			}
			return
		}
		if err := ctl.relay.Submit(id, in); err != nil {
			log.Warn().Err(err).Str("module", "adapters.http").Str("client", string(id)).Msg("rejected ws message")
		}
	}
}
