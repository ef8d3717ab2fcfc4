package server

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jonathan/hirechat/internal/server/middleware"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// wsError is sent in place of a ChatResponse when a turn fails.
type wsError struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func (s *Server) newUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(s.allowedOrigins) == 0 {
				return true
			}
			return slices.Contains(s.allowedOrigins, origin)
		},
	}
}

// withQueryToken lets browser websocket clients, which cannot set headers,
// pass the bearer token as ?access_token=.
func withQueryToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			if token := r.URL.Query().Get("access_token"); token != "" {
				r = r.Clone(r.Context())
				r.Header.Set("Authorization", "Bearer "+token)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// handleChatSocket serves one conversation over a websocket. Each text frame is a
// {"message": ...} document and is answered with a ChatResponse or a wsError.
func (s *Server) handleChatSocket(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.GetPrincipal(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	panel := r.PathValue("panel")
	if _, err := newResponder(panel); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxBodyBytes)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(conn, done)

	s.logger.Debug("websocket connected", slog.String("panel", panel), slog.String("subject", principal.Subject))

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!errors.Is(err, websocket.ErrCloseSent) {
				s.logger.Debug("websocket closed", slog.String("panel", panel), slog.Any("error", err))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var out any
		resp, err := s.socketTurn(r, panel, principal, data)
		if err != nil {
			out = wsError{Error: err.Error(), Status: HTTPStatus(err)}
		} else {
			out = resp
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(out); err != nil {
			s.logger.Warn("websocket write failed", slog.Any("error", err))
			return
		}
	}
}

func (s *Server) socketTurn(r *http.Request, panel string, principal middleware.Principal, data []byte) (ChatResponse, error) {
	req, err := decodeChatRequest(data)
	if err != nil {
		return ChatResponse{}, err
	}
	chat, err := s.chats.get(panel, principal.Token, time.Now())
	if err != nil {
		return ChatResponse{}, err
	}
	return s.chatTurn(r.Context(), chat, panel, principal, req.Message)
}

// pingLoop keeps idle connections alive until done is closed.
func (s *Server) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
