package http

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Argus/internal/domain"
)

const identityKey = "client_id"

// IdentityMiddleware is the identity provider: every visitor gets a stable
// opaque id, persisted in the cookie session on first contact and returned
// unchanged on every later request from the same client.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		id, _ := sess.Get(identityKey).(string)
		if id == "" {
			id = string(domain.NewClientID())
			sess.Set(identityKey, id)
			if err := sess.Save(); err != nil {
				log.Error().Err(err).Str("module", "adapters.http").Msg("persist client id")
			}
			log.Info().Str("module", "adapters.http").Str("client", id).Msg("issued client id")
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func clientID(c *gin.Context) domain.ClientID {
	return domain.ClientID(c.GetString(identityKey))
}
