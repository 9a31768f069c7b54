package db

import (
	"encoding/json"
	"errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddTagVotes increments the vote counter for each tag on the character's
// accepted-tag document, creating the document on first vote.
func AddTagVotes(conn *gorm.DB, characterID int, tags []string) error {
	return upsertVotes(conn, characterID, tags, func(counts []byte) any {
		return &CharacterTagVotes{CharacterID: characterID, Counts: counts}
	}, &CharacterTagVotes{})
}

// AddProposedTagVotes does the same against the proposed-tag collection.
func AddProposedTagVotes(conn *gorm.DB, characterID int, tags []string) error {
	return upsertVotes(conn, characterID, tags, func(counts []byte) any {
		return &ProposedTagVotes{CharacterID: characterID, Counts: counts}
	}, &ProposedTagVotes{})
}

func upsertVotes(conn *gorm.DB, characterID int, tags []string, build func([]byte) any, model any) error {
	if conn == nil {
		return errors.New("db connection is nil")
	}
	if characterID <= 0 {
		return errors.New("character id is required")
	}
	if len(tags) == 0 {
		return errors.New("at least one tag is required")
	}
	return conn.Transaction(func(tx *gorm.DB) error {
		counts := map[string]int{}
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("character_id = ?", characterID).
			Limit(1).
			Find(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			if raw := countsOf(model); len(raw) > 0 {
				if err := json.Unmarshal(raw, &counts); err != nil {
					return err
				}
			}
		}
		for _, tag := range tags {
			counts[tag]++
		}
		encoded, err := json.Marshal(counts)
		if err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "character_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"counts", "updated_at"}),
		}).Create(build(encoded)).Error
	})
}

func countsOf(model any) []byte {
	switch doc := model.(type) {
	case *CharacterTagVotes:
		return doc.Counts
	case *ProposedTagVotes:
		return doc.Counts
	default:
		return nil
	}
}

// CuratedTags returns up to limit accepted tags for a character, most-voted
// first. A missing document yields an empty slice, not an error.
func CuratedTags(conn *gorm.DB, characterID int, limit int) ([]string, error) {
	if conn == nil || limit <= 0 {
		return nil, nil
	}
	var doc CharacterTagVotes
	result := conn.Where("character_id = ?", characterID).Limit(1).Find(&doc)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 || len(doc.Counts) == 0 {
		return nil, nil
	}
	counts := map[string]int{}
	if err := json.Unmarshal(doc.Counts, &counts); err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}
