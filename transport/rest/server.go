package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/rocketscienceinc/xiangqi-backend/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type relay interface {
	Connect(ctx context.Context, id uint64) (entity.Player, error)
	Play(ctx context.Context, id uint64, player entity.Player, board string) error
	Query(ctx context.Context, id uint64, player entity.Player) (string, bool, error)
	Disconnect(ctx context.Context, id uint64) error
}

type Server struct {
	logger *slog.Logger
	relay  relay
}

func New(logger *slog.Logger, relay relay) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		relay:  relay,
	}
}

// Handler - routes of the relay HTTP API.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", that.pingHandler)
	mux.HandleFunc("POST /connect", that.connectHandler)
	mux.HandleFunc("POST /play", that.playHandler)
	mux.HandleFunc("POST /query", that.queryHandler)
	mux.HandleFunc("GET /query", that.queryHandler)
	mux.HandleFunc("POST /disconnect", that.disconnectHandler)

	return mux
}

// Start - serves HTTP on port until ctx is done, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		that.logger.Info("Starting HTTP server", "port", port)
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

	that.logger.Info("HTTP server stopped")

	return nil
}
