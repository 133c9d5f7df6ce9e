package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/rocketscienceinc/xiangqi-backend/internal/apperror"
	"github.com/rocketscienceinc/xiangqi-backend/internal/entity"
	"github.com/rocketscienceinc/xiangqi-backend/pkg/protocol"
)

const (
	defaultTimeout = 5 * time.Second
	defaultRetries = 3
)

var ErrUnexpectedStatus = errors.New("unexpected response status")

type RelayOption func(*Relay)

func WithHTTPClient(client *http.Client) RelayOption {
	return func(that *Relay) {
		that.http = client
	}
}

// WithRetries - how many times a call is repeated after a network failure or
// a 500 answer. Zero disables retries.
func WithRetries(retries uint64) RelayOption {
	return func(that *Relay) {
		that.retries = retries
	}
}

// Relay - HTTP client of the relay server.
type Relay struct {
	baseURL string
	http    *http.Client
	retries uint64
}

func NewRelay(baseURL string, opts ...RelayOption) *Relay {
	relay := &Relay{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		retries: defaultRetries,
	}

	for _, opt := range opts {
		opt(relay)
	}

	return relay
}

// Connect - returns apperror.ErrRoomFull when two players already sit in room.
func (that *Relay) Connect(ctx context.Context, room uint64) (entity.Player, error) {
	var resp protocol.ConnectResponse

	status, err := that.do(ctx, http.MethodPost, "/connect", protocol.ConnectRequest{Room: room}, &resp)
	if err != nil {
		return false, err
	}

	switch {
	case status == http.StatusConflict:
		return false, apperror.ErrRoomFull
	case status != http.StatusOK:
		return false, fmt.Errorf("%w: connect answered %d", ErrUnexpectedStatus, status)
	case !resp.Ok:
		return false, apperror.ErrRoomFull
	}

	return resp.Player, nil
}

// Play - returns apperror.ErrRoomNotFound when the room no longer exists.
func (that *Relay) Play(ctx context.Context, room uint64, player entity.Player, board string) error {
	status, err := that.do(ctx, http.MethodPost, "/play", protocol.PlayRequest{Room: room, Player: player, Board: board}, nil)
	if err != nil {
		return err
	}

	switch status {
	case http.StatusAccepted:
		return nil
	case http.StatusServiceUnavailable:
		return apperror.ErrRoomNotFound
	default:
		return fmt.Errorf("%w: play answered %d", ErrUnexpectedStatus, status)
	}
}

func (that *Relay) Query(ctx context.Context, room uint64, player entity.Player) (string, bool, error) {
	var resp protocol.QueryResponse

	status, err := that.do(ctx, http.MethodPost, "/query", protocol.QueryRequest{Room: room, Player: player}, &resp)
	if err != nil {
		return "", false, err
	}

	if status != http.StatusOK {
		return "", false, fmt.Errorf("%w: query answered %d", ErrUnexpectedStatus, status)
	}

	if resp.Board == nil {
		return "", false, nil
	}

	return *resp.Board, true, nil
}

func (that *Relay) Disconnect(ctx context.Context, room uint64) error {
	status, err := that.do(ctx, http.MethodPost, "/disconnect", protocol.DisconnectRequest{Room: room}, nil)
	if err != nil {
		return err
	}

	if status != http.StatusOK {
		return fmt.Errorf("%w: disconnect answered %d", ErrUnexpectedStatus, status)
	}

	return nil
}

// do - sends body as JSON and decodes a JSON answer into out when out is set.
func (that *Relay) do(ctx context.Context, method, path string, body, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	var status int
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, method, that.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := that.http.Do(req)
		if err != nil {
			return fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		status = resp.StatusCode
		if status == http.StatusInternalServerError {
			return fmt.Errorf("%w: %s answered %d", ErrUnexpectedStatus, path, status)
		}

		if out == nil || status >= http.StatusBadRequest {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}

		if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}

		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), that.retries), ctx)
	if err = backoff.Retry(operation, policy); err != nil {
		return status, err
	}

	return status, nil
}
