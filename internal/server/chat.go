package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"yai-assistant/internal/apierr"
	"yai-assistant/internal/credential"
	"yai-assistant/internal/types"
)

const (
	msgMissingMessages = "Missing messages."
	msgInvalidMessages = "Each message needs a string role and content."
)

// POST /api/chat
// { messages: [{role, content}, ...] } -> { reply } | { error }
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	// Configuration comes first: without a key no payload can succeed.
	key, err := s.creds.APIKey()
	if err != nil {
		s.writeConfigError(w, "chat", err)
		return
	}

	var body struct {
		Messages json.RawMessage `json:"messages"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, msgMissingMessages)
		return
	}
	turns, msg := parseTurns(body.Messages)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	reply, err := s.gateways(key).Complete(r.Context(), turns)
	if err != nil {
		log.Printf("[chat] provider error: %v", err)
		writeError(w, http.StatusInternalServerError, apierr.Message(err))
		return
	}
	writeJSON(w, http.StatusOK, types.ChatResponse{Reply: reply})
}

// parseTurns validates the raw messages field. It returns the turns, or
// the client-facing reason they were rejected.
func parseTurns(raw json.RawMessage) ([]types.Turn, string) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, msgMissingMessages
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, msgMissingMessages
	}
	if len(items) == 0 {
		return nil, msgMissingMessages
	}
	turns := make([]types.Turn, 0, len(items))
	for _, item := range items {
		var t types.Turn
		if err := json.Unmarshal(item, &t); err != nil {
			return nil, msgInvalidMessages
		}
		turns = append(turns, t)
	}
	return turns, ""
}

func (s *Server) writeConfigError(w http.ResponseWriter, endpoint string, err error) {
	log.Printf("[%s] configuration error: %v", endpoint, err)
	msg := credential.Remediation
	if !errors.Is(err, credential.ErrMissing) {
		msg = apierr.Message(err)
	}
	writeError(w, http.StatusInternalServerError, msg)
}
