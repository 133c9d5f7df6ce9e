package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/xiangqi-backend/internal/apperror"
	"github.com/rocketscienceinc/xiangqi-backend/pkg/protocol"
)

const (
	msgMalformedPayload = "malformed payload"
	msgInternal         = "internal error"
)

func (that *Server) handleConnect(ctx context.Context, payload json.RawMessage) Response {
	var req protocol.ConnectRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return errorResponse("", http.StatusBadRequest, msgMalformedPayload)
	}

	player, err := that.relay.Connect(ctx, req.Room)
	if errors.Is(err, apperror.ErrRoomFull) {
		return Response{Status: http.StatusConflict, Payload: protocol.ConnectResponse{}, Error: err.Error()}
	}

	if err != nil {
		that.logger.Error("failed to connect", "method", "handleConnect", "room", req.Room, "error", err)
		return errorResponse("", http.StatusInternalServerError, msgInternal)
	}

	return Response{Status: http.StatusOK, Payload: protocol.ConnectResponse{Player: player, Ok: true}}
}

func (that *Server) handlePlay(ctx context.Context, payload json.RawMessage) Response {
	var req protocol.PlayRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return errorResponse("", http.StatusBadRequest, msgMalformedPayload)
	}

	err := that.relay.Play(ctx, req.Room, req.Player, req.Board)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		return errorResponse("", http.StatusServiceUnavailable, err.Error())
	}

	if err != nil {
		that.logger.Error("failed to play", "method", "handlePlay", "room", req.Room, "error", err)
		return errorResponse("", http.StatusInternalServerError, msgInternal)
	}

	return Response{Status: http.StatusAccepted}
}

func (that *Server) handleQuery(ctx context.Context, payload json.RawMessage) Response {
	var req protocol.QueryRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return errorResponse("", http.StatusBadRequest, msgMalformedPayload)
	}

	board, ok, err := that.relay.Query(ctx, req.Room, req.Player)
	if err != nil {
		that.logger.Error("failed to query", "method", "handleQuery", "room", req.Room, "error", err)
		return errorResponse("", http.StatusInternalServerError, msgInternal)
	}

	var resp protocol.QueryResponse
	if ok {
		resp.Board = &board
	}

	return Response{Status: http.StatusOK, Payload: resp}
}

func (that *Server) handleDisconnect(ctx context.Context, payload json.RawMessage) Response {
	var req protocol.DisconnectRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return errorResponse("", http.StatusBadRequest, msgMalformedPayload)
	}

	if err := that.relay.Disconnect(ctx, req.Room); err != nil {
		that.logger.Error("failed to disconnect", "method", "handleDisconnect", "room", req.Room, "error", err)
		return errorResponse("", http.StatusInternalServerError, msgInternal)
	}

	return Response{Status: http.StatusOK}
}
