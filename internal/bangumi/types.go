package bangumi

import "encoding/json"

// Work types as the upstream API encodes them.
const (
	TypeAnime = 2
	TypeGame  = 4
)

// Staff/relation literals the upstream API uses for cast roles.
const (
	RoleLead       = "主角"
	RoleSupporting = "配角"
)

type Tag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Rating struct {
	Score float64 `json:"score"`
	Total int     `json:"total"`
}

type Images struct {
	Grid   string `json:"grid"`
	Medium string `json:"medium"`
}

type InfoboxItem struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Subject is the detail record for one work.
type Subject struct {
	ID       int           `json:"id"`
	Type     int           `json:"type"`
	Name     string        `json:"name"`
	NameCN   string        `json:"name_cn"`
	Date     string        `json:"date"`
	Tags     []Tag         `json:"tags"`
	MetaTags []string      `json:"meta_tags"`
	Rating   *Rating       `json:"rating"`
	Infobox  []InfoboxItem `json:"infobox"`
}

// CharacterDetail is the detail record for one character.
type CharacterDetail struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Gender  string        `json:"gender"`
	Summary string        `json:"summary"`
	Images  Images        `json:"images"`
	Stat    CharacterStat `json:"stat"`
	Infobox []InfoboxItem `json:"infobox"`
}

type CharacterStat struct {
	Collects int `json:"collects"`
	Comments int `json:"comments"`
}

// RelatedSubject is one entry of a character's work list.
type RelatedSubject struct {
	ID    int    `json:"id"`
	Type  int    `json:"type"`
	Staff string `json:"staff"`
	Name  string `json:"name"`
}

// RelatedPerson is one credited person on a character (voice actors etc.).
type RelatedPerson struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	SubjectType int    `json:"subject_type"`
}

// SubjectCharacter is one entry of a work's character list.
type SubjectCharacter struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Images   Images `json:"images"`
}

type SearchFilter struct {
	Type     []int    `json:"type,omitempty"`
	AirDate  []string `json:"air_date,omitempty"`
	MetaTags []string `json:"meta_tags,omitempty"`
}

type SearchRequest struct {
	Keyword string       `json:"keyword,omitempty"`
	Sort    string       `json:"sort,omitempty"`
	Filter  SearchFilter `json:"filter"`
}

type SearchSubject struct {
	ID     int    `json:"id"`
	Type   int    `json:"type"`
	Name   string `json:"name"`
	NameCN string `json:"name_cn"`
	Date   string `json:"date"`
	Images Images `json:"images"`
}

type SearchResult struct {
	Total int             `json:"total"`
	Data  []SearchSubject `json:"data"`
}

// Index is a curated collection header.
type Index struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Total int    `json:"total"`
}

type indexSubjectsResult struct {
	Total int             `json:"total"`
	Data  []SearchSubject `json:"data"`
}

// InfoboxString returns the infobox value for key when it is a plain string.
func InfoboxString(items []InfoboxItem, key string) string {
	for _, item := range items {
		if item.Key != key {
			continue
		}
		var value string
		if err := json.Unmarshal(item.Value, &value); err == nil {
			return value
		}
	}
	return ""
}
