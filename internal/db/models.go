package db

import (
	"time"

	"gorm.io/datatypes"
)

// CharacterTagVotes is the per-character counter document for tags that
// already exist in the curated vocabulary. Counts holds tag -> vote count.
type CharacterTagVotes struct {
	CharacterID int            `gorm:"primaryKey"`
	Counts      datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time      `gorm:"not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
}

// ProposedTagVotes mirrors CharacterTagVotes for tags proposed by players
// that are not yet part of the curated vocabulary.
type ProposedTagVotes struct {
	CharacterID int            `gorm:"primaryKey"`
	Counts      datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time      `gorm:"not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
}

// CachedResponse is one stored upstream API response, keyed by
// method + URL + body hash. Only 200 responses are ever stored.
type CachedResponse struct {
	Key       string    `gorm:"primaryKey;size:255"`
	Body      []byte    `gorm:"type:bytea;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
