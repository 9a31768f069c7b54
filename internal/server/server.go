package server

import (
	"net/http"
	"time"

	"character-guessr/internal/bangumi"
	"character-guessr/internal/config"
	"character-guessr/internal/db"
	"character-guessr/internal/game"

	"gorm.io/gorm"
)

type Server struct {
	store    *Store
	hub      *wsHub
	db       *gorm.DB
	cfg      config.Config
	client   *bangumi.Client
	resolver *game.Resolver
	secret   string
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	client := bangumi.NewClient(
		cfg.BangumiBaseURL,
		time.Duration(cfg.RequestTimeoutSeconds)*time.Second,
		bangumi.NewCache(conn),
	)
	resolver := game.NewResolver(
		client,
		&tagStore{conn: conn},
		cfg.ResolverAttempts,
		time.Duration(cfg.ResolverRetrySeconds)*time.Second,
	)
	return &Server{
		store:    NewStore(cfg.MaxRooms, cfg.MaxRoomPlayers),
		hub:      newWSHub(),
		db:       conn,
		cfg:      cfg,
		client:   client,
		resolver: resolver,
		secret:   cfg.AnswerSecret,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", s.handlePing)
	mux.HandleFunc("GET /api/rooms/count", s.handleRoomCount)
	mux.HandleFunc("GET /api/rooms/{id}/qr", s.handleRoomQR)
	mux.HandleFunc("POST /api/character-tags", s.handleCharacterTags)
	mux.HandleFunc("POST /api/propose-tags", s.handleProposeTags)
	mux.HandleFunc("DELETE /api/cache", s.handleClearCache)
	mux.HandleFunc("GET /ws/rooms", s.handleRoomWebsocket)
	mux.HandleFunc("GET /ws/solo", s.handleSoloWebsocket)
	return mux
}

// tagStore bridges the vote tables to the character aggregator. Without a
// database every character simply has no curated tags.
type tagStore struct {
	conn *gorm.DB
}

func (t *tagStore) CuratedTags(characterID, limit int) ([]string, error) {
	if t.conn == nil {
		return nil, nil
	}
	return db.CuratedTags(t.conn, characterID, limit)
}
