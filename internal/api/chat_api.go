package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fitcoach-app/fitcoach/internal/app/chat"
	"github.com/fitcoach-app/fitcoach/internal/domain"
)

// --- /api/chat/send ---

type sendRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	msg, err := s.session.Send(r.Context(), req.Message)
	if err != nil {
		writeSendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": msg,
		"state":   s.session.State(),
	})
}

// --- /api/chat/retry ---

type retryRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	var req retryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	msg, err := s.session.Retry(r.Context(), req.ID)
	if errors.Is(err, chat.ErrNotRetryable) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeSendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": msg,
	})
}

// --- /api/chat/transcript ---

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages": s.session.Messages(),
		"state":    s.session.State(),
	})
}

// --- /api/chat/clear ---

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.session.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// --- /api/chat/suggestions ---

// suggestions are the starter prompts shown on an empty transcript.
var suggestions = []string{
	"Build me a beginner workout plan for this week",
	"What should I eat before a morning run?",
	"How do I fix my squat form?",
	"Help me set a realistic weight goal",
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
	})
}

// writeSendError maps send rejections onto HTTP statuses. Supersession is
// not a failure: the newer request already carries the answer.
func writeSendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrSuperseded):
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, domain.ErrEmptyMessage), errors.Is(err, domain.ErrMessageTooLong):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
