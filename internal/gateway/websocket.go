// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     gateway
// Description: WebSocket live-parse channel
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
	"github.com/msto63/scriptfront/internal/audit"
	"github.com/msto63/scriptfront/internal/frontsvc"
	"github.com/msto63/scriptfront/pkg/core/logging"
)

// Message types
const (
	WSTypeParse    = "parse"
	WSTypeTokenize = "tokenize"
	WSTypePing     = "ping"

	WSTypeAST    = "ast"
	WSTypeTokens = "tokens"
	WSTypeError  = "error"
	WSTypePong   = "pong"
)

const writeWait = 10 * time.Second

// WSMessage is a client message
type WSMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"` // echoed in the answer
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WSResponse is a server message
type WSResponse struct {
	Type    string      `json:"type"`
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// WSParsePayload answers a parse message
type WSParsePayload struct {
	AST        json.RawMessage `json:"ast"`
	Statements int             `json:"statements"`
	Nodes      int             `json:"nodes"`
	Cached     bool            `json:"cached"`
}

// WebSocketHandler serves /v1/ws
type WebSocketHandler struct {
	service      *frontsvc.Service
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	logger       *logging.Logger
}

// NewWebSocketHandler creates a WebSocket handler. An empty origin list
// accepts every origin.
func NewWebSocketHandler(svc *frontsvc.Service, pingInterval time.Duration, allowedOrigins []string, logger *logging.Logger) *WebSocketHandler {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}

	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &WebSocketHandler{
		service:      svc,
		pingInterval: pingInterval,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				return allowed[r.Header.Get("Origin")]
			},
		},
	}
}

// wsConn serializes writes; gorilla allows one concurrent writer
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// ServeHTTP upgrades the connection and serves it until it closes
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", "error", err, "request_id", RequestID(r.Context()))
		return
	}
	h.handleConnection(r.Context(), &wsConn{conn: conn}, RequestID(r.Context()))
}

func (h *WebSocketHandler) handleConnection(parent context.Context, c *wsConn, connID string) {
	defer c.conn.Close()

	logger := h.logger.With("connection_id", connID)
	logger.Info("WebSocket connection established", "remote", c.conn.RemoteAddr().String())

	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	defer cancel()

	pongWait := 2 * h.pingInterval
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go h.pingLoop(ctx, c, logger)

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", "error", err)
			} else {
				logger.Info("WebSocket connection closed")
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		if err := c.writeJSON(h.handleMessage(ctx, msg)); err != nil {
			logger.Warn("WebSocket send error", "error", err)
			return
		}
	}
}

func (h *WebSocketHandler) pingLoop(ctx context.Context, c *wsConn, logger *logging.Logger) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				logger.Debug("WebSocket ping failed", "error", err)
				return
			}
		}
	}
}

// handleMessage answers a single client message
func (h *WebSocketHandler) handleMessage(ctx context.Context, msg WSMessage) WSResponse {
	const op = "gateway.WebSocket"

	switch msg.Type {
	case WSTypePing:
		return WSResponse{Type: WSTypePong, ID: msg.ID}

	case WSTypeParse, WSTypeTokenize:
		var payload SourceRequest
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return errorResponse(msg.ID, sferror.Wrap(err, "invalid payload").
				WithCode(sferror.CodeInvalidInput).
				WithOperation(op))
		}

		req := frontsvc.Request{
			Source:    payload.Source,
			Transport: audit.TransportWebSocket,
			RequestID: msg.ID,
		}
		if req.RequestID == "" {
			req.RequestID = uuid.New().String()
		}

		if msg.Type == WSTypeTokenize {
			tokens, err := h.service.Tokenize(ctx, req)
			if err != nil {
				return errorResponse(msg.ID, err)
			}
			return WSResponse{Type: WSTypeTokens, ID: msg.ID, Payload: tokens}
		}

		out, err := h.service.Parse(ctx, req)
		if err != nil {
			return errorResponse(msg.ID, err)
		}
		return WSResponse{Type: WSTypeAST, ID: msg.ID, Payload: WSParsePayload{
			AST:        out.AST,
			Statements: out.Statements,
			Nodes:      out.Nodes,
			Cached:     out.Cached,
		}}

	default:
		return errorResponse(msg.ID, sferror.Newf("unknown message type %q", msg.Type).
			WithCode(sferror.CodeInvalidInput).
			WithOperation(op))
	}
}

func errorResponse(id string, err error) WSResponse {
	se, ok := sferror.As(err)
	if !ok {
		se = sferror.Wrap(err, "request failed").WithCode(sferror.CodeInternal)
	}
	return WSResponse{Type: WSTypeError, ID: id, Payload: se}
}
