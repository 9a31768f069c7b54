package db

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoadCachedResponses returns every stored response body keyed by cache key.
func LoadCachedResponses(conn *gorm.DB) (map[string][]byte, error) {
	if conn == nil {
		return nil, errors.New("db connection is nil")
	}
	var rows []CachedResponse
	if err := conn.Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make(map[string][]byte, len(rows))
	for _, row := range rows {
		entries[row.Key] = row.Body
	}
	return entries, nil
}

// StoreCachedResponse upserts one response body under its cache key.
func StoreCachedResponse(conn *gorm.DB, key string, body []byte) error {
	if conn == nil {
		return errors.New("db connection is nil")
	}
	return conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"body"}),
	}).Create(&CachedResponse{Key: key, Body: body}).Error
}

// ClearCachedResponses drops every stored response.
func ClearCachedResponses(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("db connection is nil")
	}
	return conn.Where("1 = 1").Delete(&CachedResponse{}).Error
}
