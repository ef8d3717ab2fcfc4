package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonathan/hirechat/internal/assistant"
	"github.com/jonathan/hirechat/internal/parsing"
	"github.com/jonathan/hirechat/internal/replies"
	"github.com/jonathan/hirechat/internal/schemas"
	"github.com/jonathan/hirechat/internal/server/middleware"
	"github.com/jonathan/hirechat/internal/types"
	schemafiles "github.com/jonathan/hirechat/schemas"
)

// maxBodyBytes bounds chat request bodies; messages themselves are capped by the schema.
const maxBodyBytes = 64 << 10

// ChatRequest is the body of POST /chat/{panel} and POST /extract.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is returned for every chat turn.
type ChatResponse struct {
	Reply    string              `json:"reply"`
	Action   *assistant.Action   `json:"action,omitempty"`
	Messages []types.ChatMessage `json:"messages"`
}

// TranscriptResponse is returned by GET /chat/{panel}/transcript.
type TranscriptResponse struct {
	Panel    string              `json:"panel"`
	Messages []types.ChatMessage `json:"messages"`
}

// ExtractResponse is returned by POST /extract.
type ExtractResponse struct {
	Draft          types.JobPostingDraft `json:"draft"`
	SalaryInverted bool                  `json:"salary_inverted"`
}

// readChatRequest reads and schema-checks a {"message": ...} body.
func readChatRequest(r *http.Request) (ChatRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return ChatRequest{}, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return ChatRequest{}, &ErrValidation{Field: "body", Message: "request body too large"}
	}
	return decodeChatRequest(body)
}

// decodeChatRequest schema-checks and decodes one {"message": ...} document.
func decodeChatRequest(body []byte) (ChatRequest, error) {
	if len(body) == 0 {
		return ChatRequest{}, &ErrValidation{Field: "body", Message: "request body is empty"}
	}

	if err := schemas.ValidateBytes(schemafiles.ChatRequest, body); err != nil {
		var schemaErr *schemas.ValidationError
		if errors.As(err, &schemaErr) {
			return ChatRequest{}, err
		}
		// Malformed JSON surfaces as a load error from the validator
		return ChatRequest{}, &ErrValidation{Field: "body", Message: "invalid JSON"}
	}

	var req ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return ChatRequest{}, &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	return req, nil
}

// handleChat answers one message on the applicant or manager panel.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.GetPrincipal(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	panel := r.PathValue("panel")
	chat, err := s.chats.get(panel, principal.Token, time.Now())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	req, err := readChatRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resp, err := s.chatTurn(r.Context(), chat, panel, principal, req.Message)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// chatTurn refreshes the snapshot and answers one message.
// Every turn answers over fresh data, as the dashboards reload before chatting.
func (s *Server) chatTurn(ctx context.Context, chat *assistant.Session, panel string, principal middleware.Principal, message string) (ChatResponse, error) {
	if err := chat.Refresh(ctx); err != nil {
		s.logger.Warn("chat refresh failed",
			slog.String("panel", panel),
			slog.String("subject", principal.Subject),
			slog.Any("error", err),
		)
		return ChatResponse{}, err
	}

	reply, err := chat.Send(ctx, message)
	if err != nil {
		return ChatResponse{}, err
	}

	if reply.Action != nil {
		s.logger.Info("chat action",
			slog.String("panel", panel),
			slog.String("subject", principal.Subject),
			slog.String("kind", string(reply.Action.Kind)),
		)
	}

	return ChatResponse{
		Reply:    reply.Text,
		Action:   reply.Action,
		Messages: chat.Transcript().Messages(),
	}, nil
}

// handleTranscript returns the conversation so far; unknown callers get an empty one.
func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.GetPrincipal(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	panel := r.PathValue("panel")
	chat, ok, err := s.chats.lookup(panel, principal.Token)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	messages := []types.ChatMessage{}
	if ok {
		messages = chat.Transcript().Messages()
	}
	s.jsonResponse(w, http.StatusOK, TranscriptResponse{Panel: panel, Messages: messages})
}

// handleReset forgets the caller's conversation on a panel.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.GetPrincipal(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := s.chats.reset(r.PathValue("panel"), principal.Token); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExtract previews the draft a manager message would produce. No API call is made.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	req, err := readChatRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	draft, err := parsing.ParseJobPosting(req.Message)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), replies.MustGet(replies.Manager, "extraction-failed"))
		return
	}

	s.jsonResponse(w, http.StatusOK, ExtractResponse{
		Draft:          draft,
		SalaryInverted: draft.SalaryInverted(),
	})
}
