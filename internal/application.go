package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/xiangqi-backend/internal/config"
	"github.com/rocketscienceinc/xiangqi-backend/internal/repository"
	"github.com/rocketscienceinc/xiangqi-backend/internal/repository/storage"
	"github.com/rocketscienceinc/xiangqi-backend/internal/sweeper"
	"github.com/rocketscienceinc/xiangqi-backend/internal/usecase"
	"github.com/rocketscienceinc/xiangqi-backend/transport/rest"
	"github.com/rocketscienceinc/xiangqi-backend/transport/websocket"
)

// RunApp - runs the relay until SIGINT or SIGTERM, or until one of its servers fails.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rooms, closeRooms, err := newRoomRepository(ctx, conf)
	if err != nil {
		return err
	}
	defer closeRooms()

	relay := usecase.NewRelayManager(logger, rooms, conf.Rooms.Expire)

	group, gCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := rest.New(logger, relay).Start(gCtx, conf.HTTPPort); err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		if err := websocket.New(logger, relay).Start(gCtx, conf.SocketPort); err != nil {
			return fmt.Errorf("WebSocket server error: %w", err)
		}
		return nil
	})

	group.Go(sweeper.New(gCtx, logger, relay, conf.Rooms.SweepInterval))

	log.Info("relay started", "storage", conf.Storage, "expire", conf.Rooms.Expire.String())

	if err = group.Wait(); err != nil {
		return err
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

func newRoomRepository(ctx context.Context, conf *config.Config) (repository.RoomRepository, func(), error) {
	if conf.Storage != config.StorageRedis {
		return repository.NewMemoryRoomRepository(), func() {}, nil
	}

	client, err := storage.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewRoomRepository(client), closer(client), nil
}

func closer(client *redis.Client) func() {
	return func() {
		_ = client.Close()
	}
}
