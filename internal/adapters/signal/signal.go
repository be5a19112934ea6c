package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/sujals170/Bright-Byte-sub000/internal/app"
	"github.com/sujals170/Bright-Byte-sub000/internal/auth"
	"github.com/sujals170/Bright-Byte-sub000/internal/config"
	"github.com/sujals170/Bright-Byte-sub000/internal/core"
	"github.com/sujals170/Bright-Byte-sub000/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type SignalWSController struct {
	Relay *app.Relay
	Cfg   *config.Config
}

func NewSignalWSController(relay *app.Relay, cfg *config.Config) *SignalWSController {
	return &SignalWSController{Relay: relay, Cfg: cfg}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades an authenticated request to a WebSocket and binds a
// fresh connection in the registry. The identity was verified by the auth
// middleware; its role is trusted from here on.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	identity := c.MustGet("identity").(auth.Identity)
	cid := core.ConnID(uuid.NewString())
	log.Info().Str("module", "signal").
		Str("cid", string(cid)).
		Str("subject", identity.Subject).
		Str("role", string(identity.Role)).
		Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.Cfg.SendBuffer),
	}

	meta := domain.NewParticipant(identity.Subject, identity.Role)
	ps := core.NewParticipantSession(meta, conn)
	ctx, cancel := context.WithCancel(ctx)
	ctl.Relay.Registry.Bind(cid, ps, cancel)

	// Cancellation (shutdown or a kick) must close the socket, or readPump
	// stays blocked in ReadMessage and the binding leaks.
	context.AfterFunc(ctx, conn.Close)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cid, conn)
}
