package server

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"yai-assistant/internal/provider"
	"yai-assistant/internal/types"
)

const (
	msgMissingPrompt    = "Please provide an image description."
	msgGenerationFailed = "Failed to generate image."
	msgImageServerError = "Server error while generating image."
)

// POST /api/image
// { prompt } -> { url } | { error }
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	var req types.ImageRequest
	if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, msgMissingPrompt)
		return
	}

	key, err := s.creds.APIKey()
	if err != nil {
		s.writeConfigError(w, "image", err)
		return
	}

	url, err := s.gateways(key).Synthesize(r.Context(), req.Prompt)
	switch {
	case errors.Is(err, provider.ErrNoAsset):
		log.Printf("[image] provider returned no image")
		writeError(w, http.StatusInternalServerError, msgGenerationFailed)
		return
	case err != nil:
		log.Printf("[image] provider error: %v", err)
		writeError(w, http.StatusInternalServerError, msgImageServerError)
		return
	case strings.TrimSpace(url) == "":
		writeError(w, http.StatusInternalServerError, msgGenerationFailed)
		return
	}
	writeJSON(w, http.StatusOK, types.ImageResponse{URL: url})
}
