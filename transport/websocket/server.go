package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/xiangqi-backend/internal/entity"
)

const (
	shutdownTimeout = 5 * time.Second
	maxMessageSize  = 4 << 10
)

type relay interface {
	Connect(ctx context.Context, id uint64) (entity.Player, error)
	Play(ctx context.Context, id uint64, player entity.Player, board string) error
	Query(ctx context.Context, id uint64, player entity.Player) (string, bool, error)
	Disconnect(ctx context.Context, id uint64) error
}

type handlerFunc func(ctx context.Context, payload json.RawMessage) Response

type Server struct {
	logger   *slog.Logger
	relay    relay
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, relay relay) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		relay:  relay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[ActionConnect] = server.handleConnect
	server.handlers[ActionPlay] = server.handlePlay
	server.handlers[ActionQuery] = server.handleQuery
	server.handlers[ActionDisconnect] = server.handleDisconnect

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.upgradeToWebSocket)

	return mux
}

// Start - starts WebSocket server and stops it once ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		that.logger.Info("Starting WebSocket server", "port", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket and serves it.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket", "conn", uuid.NewString())

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)

	log.Info("WebSocket connection established")

	if err = that.handleMessages(req.Context(), conn, log); err != nil {
		log.Info("WebSocket connection closed", "reason", err)
	}
}

// handleMessages - answers every request in order until the peer goes away.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn, log *slog.Logger) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		resp := that.dispatch(ctx, data)
		if resp.Status >= http.StatusInternalServerError {
			log.Error("error processing message", "action", resp.Action, "error", resp.Error)
		}

		if err = conn.WriteJSON(resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
}

func (that *Server) dispatch(ctx context.Context, data []byte) Response {
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		return errorResponse("", http.StatusBadRequest, "malformed message")
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		return errorResponse(message.Action, http.StatusBadRequest, "unknown action")
	}

	resp := handler(ctx, message.Payload)
	resp.Action = message.Action

	return resp
}
