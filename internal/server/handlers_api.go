package server

import (
	"log"
	"net/http"

	"character-guessr/internal/db"

	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

type tagVoteRequest struct {
	CharacterID int      `json:"characterId"`
	Tags        []string `json:"tags"`
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRoomCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"count": s.store.Count()})
}

func (s *Server) handleCharacterTags(w http.ResponseWriter, r *http.Request) {
	s.handleTagVote(w, r, db.AddTagVotes)
}

func (s *Server) handleProposeTags(w http.ResponseWriter, r *http.Request) {
	s.handleTagVote(w, r, db.AddProposedTagVotes)
}

func (s *Server) handleTagVote(w http.ResponseWriter, r *http.Request, record func(conn *gorm.DB, characterID int, tags []string) error) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "tag votes are not available")
		return
	}
	var req tagVoteRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CharacterID <= 0 {
		writeError(w, http.StatusBadRequest, "a character id is required")
		return
	}
	tags, err := validateTags(req.Tags)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := record(s.db, req.CharacterID, tags); err != nil {
		log.Printf("tag vote failed character_id=%d error=%v", req.CharacterID, err)
		writeError(w, http.StatusInternalServerError, "failed to record tags")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if err := s.client.Cache().Clear(); err != nil {
		log.Printf("cache clear failed error=%v", err)
		writeError(w, http.StatusInternalServerError, "failed to clear cache")
		return
	}
	log.Printf("response cache cleared")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRoomQR renders a join link for the room as a PNG, sized for phone
// cameras. The scheme honors X-Forwarded-Proto so links survive a TLS
// terminating proxy.
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if _, ok := s.store.GetRoom(roomID); !ok {
		writeError(w, http.StatusNotFound, errRoomNotFound.Error())
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	joinURL := scheme + "://" + r.Host + "/?room=" + roomID

	const qrSize = 320
	png, err := qrcode.Encode(joinURL, qrcode.Medium, qrSize)
	if err != nil {
		log.Printf("qr encode failed room_id=%s error=%v", roomID, err)
		writeError(w, http.StatusInternalServerError, "qr generation failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
