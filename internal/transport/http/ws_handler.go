package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"iot-practice-service/internal/app"
	"iot-practice-service/internal/domain"
	"iot-practice-service/internal/practice"
)

type WSHandler struct {
	service  *app.PracticeService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.PracticeService, checkOrigin func(r *http.Request) bool) *WSHandler {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// ServeWS upgrades HTTP requests to websockets and drives one practice
// session per connection. The session is destroyed when the client leaves.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	view, err := h.service.Open(r.Context(), sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Close(r.Context(), sessionID)

	if err := conn.WriteJSON(outboundMessage[sessionView]{Type: "state", Payload: sessionView{SessionID: sessionID, View: view}}); err != nil {
		log.Printf("ws write error: %v", err)
		return
	}

	for {
		var inbound inboundMessage
		err := conn.ReadJSON(&inbound)
		if err != nil && !isDecodeError(err) {
			return
		}

		var reply any
		if err == nil {
			var ev practice.Event
			if ev, err = decodeEvent(inbound); err == nil {
				view, err = h.service.Apply(r.Context(), sessionID, ev)
			}
			if errors.Is(err, domain.ErrSessionNotFound) {
				// Swept as idle while the socket stayed open; start over on setup.
				log.Printf("ws session %s expired, reopening", sessionID)
				view, err = h.service.Open(r.Context(), sessionID)
			}
		}
		if err != nil {
			reply = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		} else {
			reply = outboundMessage[sessionView]{Type: "state", Payload: sessionView{SessionID: sessionID, View: view}}
		}
		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("ws write error: %v", err)
			return
		}
	}
}

// isDecodeError reports a malformed frame; the connection itself is still usable.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
