package server

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxNameRunes   = 20
	maxTagRunes    = 32
	maxTagsPerVote = 16
)

// validateUsername normalizes whitespace and enforces length in runes, not
// bytes. Names come from a CJK-heavy audience, so anything printable is
// allowed.
func validateUsername(name string) (string, error) {
	trimmed := normalizeText(name)
	if trimmed == "" {
		return "", errEmptyName
	}
	if utf8.RuneCountInString(trimmed) > maxNameRunes {
		return "", fmt.Errorf("username must be %d characters or fewer", maxNameRunes)
	}
	for _, r := range trimmed {
		if !unicode.IsPrint(r) {
			return "", errors.New("username contains unsupported characters")
		}
	}
	return trimmed, nil
}

func validateTags(tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, errors.New("at least one tag is required")
	}
	if len(tags) > maxTagsPerVote {
		return nil, fmt.Errorf("at most %d tags per submission", maxTagsPerVote)
	}
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := normalizeText(tag)
		if trimmed == "" {
			continue
		}
		if utf8.RuneCountInString(trimmed) > maxTagRunes {
			return nil, fmt.Errorf("tags must be %d characters or fewer", maxTagRunes)
		}
		cleaned = append(cleaned, trimmed)
	}
	if len(cleaned) == 0 {
		return nil, errors.New("at least one tag is required")
	}
	return cleaned, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}
