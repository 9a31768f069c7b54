package config

import (
	"os"
	"strconv"
)

type Config struct {
	BangumiBaseURL           string
	RequestTimeoutSeconds    int
	MaxRooms                 int
	MaxRoomPlayers           int
	ResolverAttempts         int
	ResolverRetrySeconds     int
	AnswerSecret             string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
}

func Default() Config {
	return Config{
		BangumiBaseURL:           "https://api.bgm.tv",
		RequestTimeoutSeconds:    10,
		MaxRooms:                 50,
		MaxRoomPlayers:           8,
		ResolverAttempts:         3,
		ResolverRetrySeconds:     1,
		AnswerSecret:             "anime-character-guessr",
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("BANGUMI_BASE_URL"); raw != "" {
		cfg.BangumiBaseURL = raw
	}
	if raw := os.Getenv("REQUEST_TIMEOUT_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.RequestTimeoutSeconds = value
		}
	}
	if raw := os.Getenv("MAX_ROOMS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.MaxRooms = value
		}
	}
	if raw := os.Getenv("MAX_ROOM_PLAYERS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.MaxRoomPlayers = value
		}
	}
	if raw := os.Getenv("RESOLVER_ATTEMPTS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.ResolverAttempts = value
		}
	}
	if raw := os.Getenv("RESOLVER_RETRY_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.ResolverRetrySeconds = value
		}
	}
	if raw := os.Getenv("ANSWER_SECRET"); raw != "" {
		cfg.AnswerSecret = raw
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	return cfg
}
