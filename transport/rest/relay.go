package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/xiangqi-backend/internal/apperror"
	"github.com/rocketscienceinc/xiangqi-backend/pkg/protocol"
)

func (that *Server) connectHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "connectHandler")

	var req protocol.ConnectRequest
	if !that.decode(w, r, &req) {
		return
	}

	player, err := that.relay.Connect(r.Context(), req.Room)
	if errors.Is(err, apperror.ErrRoomFull) {
		that.writeJSON(w, http.StatusConflict, protocol.ConnectResponse{})
		return
	}

	if err != nil {
		log.Error("failed to connect", "room", req.Room, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, http.StatusOK, protocol.ConnectResponse{Player: player, Ok: true})
}

func (that *Server) playHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "playHandler")

	var req protocol.PlayRequest
	if !that.decode(w, r, &req) {
		return
	}

	err := that.relay.Play(r.Context(), req.Room, req.Player, req.Board)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	if err != nil {
		log.Error("failed to play", "room", req.Room, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (that *Server) queryHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "queryHandler")

	var req protocol.QueryRequest
	if !that.decode(w, r, &req) {
		return
	}

	board, ok, err := that.relay.Query(r.Context(), req.Room, req.Player)
	if err != nil {
		log.Error("failed to query", "room", req.Room, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var resp protocol.QueryResponse
	if ok {
		resp.Board = &board
	}

	that.writeJSON(w, http.StatusOK, resp)
}

func (that *Server) disconnectHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "disconnectHandler")

	var req protocol.DisconnectRequest
	if !that.decode(w, r, &req) {
		return
	}

	if err := that.relay.Disconnect(r.Context(), req.Room); err != nil {
		log.Error("failed to disconnect", "room", req.Room, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// decode - reads the JSON body into dst, answering 400 when it is malformed.
func (that *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		that.logger.Debug("malformed request", "path", r.URL.Path, "error", err)
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return false
	}

	return true
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
