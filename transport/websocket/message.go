package websocket

import "encoding/json"

const (
	ActionConnect    = "connect"
	ActionPlay       = "play"
	ActionQuery      = "query"
	ActionDisconnect = "disconnect"
)

// Message - a request from the client. Payload holds the same body the REST
// route for Action accepts.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response - Status carries the code the REST route would answer with.
type Response struct {
	Action  string `json:"action"`
	Status  int    `json:"status"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

func errorResponse(action string, status int, msg string) Response {
	return Response{
		Action: action,
		Status: status,
		Error:  msg,
	}
}
