package ws

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/asterix/internal/api/http"
	"github.com/GriffinCanCode/asterix/internal/domain/events"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/logging"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/asterix/internal/shared/types"
	"github.com/GriffinCanCode/asterix/internal/shared/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 * 1024
	commandTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Origins are enforced by the CORS layer
	},
}

// Browser is the part of the core a socket drives
type Browser interface {
	Submit(ctx context.Context, cmd types.Command) (types.CommandResult, error)
	Tabs() []types.TabSnapshot
	Subscribe() *events.Subscription
	Unsubscribe(sub *events.Subscription)
}

// Handler manages WebSocket connections
type Handler struct {
	browser Browser
	metrics *monitoring.Metrics
	log     *logging.Logger
}

// NewHandler creates a new WebSocket handler. metrics may be nil.
func NewHandler(browser Browser, metrics *monitoring.Metrics, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{
		browser: browser,
		metrics: metrics,
		log:     log.Named("ws"),
	}
}

// conn serialises writes to one socket
type conn struct {
	id      string
	ws      *websocket.Conn
	mu      sync.Mutex
	metrics *monitoring.Metrics
}

func (c *conn) send(reply Reply) error {
	data, err := sonic.Marshal(reply)
	if err != nil {
		return fmt.Errorf("encode %s: %w", reply.Type, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	if c.metrics != nil {
		c.metrics.RecordWSMessage("out", reply.Type)
	}
	return nil
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (c *conn) sendError(requestID string, code int, msg string) error {
	reply := newReply(TypeError)
	reply.RequestID = requestID
	reply.Code = code
	reply.Error = msg
	return c.send(reply)
}

// HandleConnection upgrades the request and serves the socket until the
// client leaves or the event stream ends
func (h *Handler) HandleConnection(ctx *gin.Context) {
	ws, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()

	c := &conn{id: uuid.NewString(), ws: ws, metrics: h.metrics}
	log := h.log.With(zap.String("connection_id", c.id))

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	sub := h.browser.Subscribe()
	welcome := newReply(TypeWelcome)
	welcome.ConnectionID = c.id
	welcome.Tabs = h.browser.Tabs()
	if err := c.send(welcome); err != nil {
		h.browser.Unsubscribe(sub)
		return
	}
	log.Debug("WebSocket connected")

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.forward(c, sub, done)
	}()

	h.read(ctx.Request.Context(), c, log)

	close(done)
	h.browser.Unsubscribe(sub)
	wg.Wait()
	log.Debug("WebSocket disconnected")
}

// read handles client messages until the socket fails
func (h *Handler) read(ctx context.Context, c *conn, log *zap.Logger) {
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))

		var req Request
		if err := sonic.Unmarshal(data, &req); err != nil {
			if c.sendError("", http.StatusBadRequest, "malformed message") != nil {
				return
			}
			continue
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", req.Type)
		}

		if err := h.handle(ctx, c, req); err != nil {
			return
		}
	}
}

// handle answers one request. The returned error is a write failure.
func (h *Handler) handle(ctx context.Context, c *conn, req Request) error {
	if req.Type == TypePing {
		pong := newReply(TypePong)
		pong.RequestID = req.RequestID
		return c.send(pong)
	}

	cmd, ok := req.command()
	if !ok {
		return c.sendError(req.RequestID, http.StatusBadRequest, fmt.Sprintf("unknown message type %q", req.Type))
	}
	if err := validate(req); err != nil {
		return c.sendError(req.RequestID, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	res, err := h.browser.Submit(ctx, cmd)
	if err != nil {
		return c.sendError(req.RequestID, apihttp.StatusFor(err), err.Error())
	}

	ack := newReply(TypeAck)
	ack.RequestID = req.RequestID
	ack.Command = req.Type
	ack.TabID = res.Tab
	return c.send(ack)
}

// forward writes every event to the socket and keeps the connection alive
func (h *Handler) forward(c *conn, sub *events.Subscription, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				c.mu.Lock()
				_ = c.ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "browser shutting down"),
					time.Now().Add(writeWait))
				c.mu.Unlock()
				return
			}
			reply := newReply(TypeEvent)
			reply.TabID = ev.Tab
			reply.Event = &ev
			if err := c.send(reply); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func validate(req Request) error {
	if req.Type != TypeOpen {
		if err := utils.ValidateTabID(req.TabID, "tab_id"); err != nil {
			return err
		}
	}
	if req.Type == TypeNavigate {
		return utils.ValidateURLInput(req.URL, "url")
	}
	return nil
}
