package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sujals170/Bright-Byte-sub000/internal/adapters/signal"
	"github.com/sujals170/Bright-Byte-sub000/internal/app"
	"github.com/sujals170/Bright-Byte-sub000/internal/auth"
	"github.com/sujals170/Bright-Byte-sub000/internal/config"
)

// IdentityMiddleware verifies the externally-issued identity token and
// stores the resolved identity on the request context. The relay never
// re-checks credentials past this point.
func IdentityMiddleware(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			h := c.GetHeader("Authorization")
			if strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimPrefix(h, "Bearer ")
			}
		}
		identity, err := verifier.Verify(token)
		if err != nil {
			log.Warn().Err(err).Str("module", "adapters.http").Msg("rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("identity", identity)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, relay *app.Relay) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("BrightByteSessions", store))

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(relay.Metrics.Handler()))

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	verifier := auth.NewVerifier(cfg.Secret)

	api := r.Group("/api")
	registerSessionRoutes(api.Group("/sessions", IdentityMiddleware(verifier)), relay)

	api.GET("/ws/signal", IdentityMiddleware(verifier), func(c *gin.Context) {
		ctrl := signal.NewSignalWSController(relay, cfg)
		ctrl.HandleSignal(ctx, c)
	})

	return r
}
