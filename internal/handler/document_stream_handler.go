package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"emojiart-be/internal/mapper"
	"emojiart-be/internal/pkg/logger"
	"emojiart-be/internal/pkg/serverutils"
	"emojiart-be/internal/service"
	internalWS "emojiart-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
)

const streamModule = "DocumentStream"

// DocumentFrame is one message on the stream.
type DocumentFrame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// DocumentStreamHandler pushes every published document state to websocket
// viewers through the hub.
type DocumentStreamHandler struct {
	document  service.IDocumentService
	hub       *internalWS.Hub
	mapper    *mapper.DocumentMapper
	jwtSecret string
	logger    logger.ILogger

	// Holds at most the newest unsent frame.
	pending chan []byte
	unsub   func()
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

func NewDocumentStreamHandler(document service.IDocumentService, hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *DocumentStreamHandler {
	return &DocumentStreamHandler{
		document:  document,
		hub:       hub,
		mapper:    mapper.NewDocumentMapper(),
		jwtSecret: jwtSecret,
		logger:    log,
		pending:   make(chan []byte, 1),
	}
}

// Start subscribes to the document and broadcasts the current state.
func (h *DocumentStreamHandler) Start(ctx context.Context) {
	ctx, h.cancel = context.WithCancel(ctx)

	h.wg.Add(1)
	go h.run(ctx)

	h.unsub = h.document.Watch(h.onState)
}

// Stop unsubscribes and waits for the broadcaster to exit.
func (h *DocumentStreamHandler) Stop() {
	if h.unsub != nil {
		h.unsub()
	}
	if h.cancel != nil {
		h.cancel()
	}
	h.wg.Wait()
}

// onState runs on the document owner goroutine, so it only swaps the
// pending frame and never waits on the network.
func (h *DocumentStreamHandler) onState(st service.DocumentState) {
	frame, err := h.EncodeFrame(st)
	if err != nil {
		h.logger.Error(streamModule, "Failed to encode frame", map[string]interface{}{"error": err})
		return
	}
	for {
		select {
		case h.pending <- frame:
			return
		default:
		}
		select {
		case <-h.pending:
		default:
		}
	}
}

func (h *DocumentStreamHandler) run(ctx context.Context) {
	defer h.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-h.pending:
			h.hub.Broadcast(frame)
		}
	}
}

// EncodeFrame renders a state as a stream frame.
func (h *DocumentStreamHandler) EncodeFrame(st service.DocumentState) ([]byte, error) {
	data, err := json.Marshal(DocumentFrame{
		Type: "document",
		Data: h.mapper.ToStateResponse(st.Document, st.BackgroundImage, st.FetchStatus),
	})
	if err != nil {
		return nil, fmt.Errorf("encode document frame: %w", err)
	}
	return data, nil
}

// ServeWs upgrades the request and streams document frames. When a JWT
// secret is configured the token is taken from the token query parameter
// (browsers) or the Authorization header.
func (h *DocumentStreamHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	subject, err := h.authenticate(c)
	if err != nil {
		h.logger.Warn(streamModule, "Rejected stream handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info(streamModule, "Starting stream session", map[string]interface{}{"subject": subject})
		internalWS.ServeWs(h.hub, conn, subject)
		h.logger.Info(streamModule, "Stream session ended", map[string]interface{}{"subject": subject})
	})(c)
}

func (h *DocumentStreamHandler) authenticate(c *fiber.Ctx) (string, error) {
	if h.jwtSecret == "" {
		return "", nil
	}

	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return "", fmt.Errorf("missing token")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	subject, _ := token.Claims.GetSubject()
	return subject, nil
}

func (h *DocumentStreamHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/document/v1/stream", h.ServeWs)
}
