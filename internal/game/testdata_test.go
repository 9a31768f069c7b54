package game

import (
	"context"
	"fmt"

	"character-guessr/internal/bangumi"
)

// fakeSource is an in-memory DataSource backed by maps. Unknown ids fail,
// which doubles as the error-path fixture.
type fakeSource struct {
	subjects          map[int]*bangumi.Subject
	characters        map[int]*bangumi.CharacterDetail
	characterSubjects map[int][]bangumi.RelatedSubject
	characterPersons  map[int][]bangumi.RelatedPerson
	subjectCharacters map[int][]bangumi.SubjectCharacter
	searchResults     []bangumi.SearchSubject
	index             *bangumi.Index
	indexSubjects     []bangumi.SearchSubject

	searchCalls int
	failSearch  bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		subjects:          make(map[int]*bangumi.Subject),
		characters:        make(map[int]*bangumi.CharacterDetail),
		characterSubjects: make(map[int][]bangumi.RelatedSubject),
		characterPersons:  make(map[int][]bangumi.RelatedPerson),
		subjectCharacters: make(map[int][]bangumi.SubjectCharacter),
	}
}

func (f *fakeSource) SubjectDetails(_ context.Context, subjectID int) (*bangumi.Subject, error) {
	subject, ok := f.subjects[subjectID]
	if !ok {
		return nil, fmt.Errorf("subject %d: not found", subjectID)
	}
	return subject, nil
}

func (f *fakeSource) CharacterDetails(_ context.Context, characterID int) (*bangumi.CharacterDetail, error) {
	character, ok := f.characters[characterID]
	if !ok {
		return nil, fmt.Errorf("character %d: not found", characterID)
	}
	return character, nil
}

func (f *fakeSource) CharacterSubjects(_ context.Context, characterID int) ([]bangumi.RelatedSubject, error) {
	return f.characterSubjects[characterID], nil
}

func (f *fakeSource) CharacterPersons(_ context.Context, characterID int) ([]bangumi.RelatedPerson, error) {
	return f.characterPersons[characterID], nil
}

func (f *fakeSource) SubjectCharacters(_ context.Context, subjectID int) ([]bangumi.SubjectCharacter, error) {
	return f.subjectCharacters[subjectID], nil
}

func (f *fakeSource) SearchSubjects(_ context.Context, _ bangumi.SearchRequest, limit, offset int) (*bangumi.SearchResult, error) {
	f.searchCalls++
	if f.failSearch {
		return nil, fmt.Errorf("search: upstream unavailable")
	}
	if offset >= len(f.searchResults) {
		return &bangumi.SearchResult{Total: len(f.searchResults), Data: nil}, nil
	}
	end := offset + limit
	if end > len(f.searchResults) {
		end = len(f.searchResults)
	}
	return &bangumi.SearchResult{Total: len(f.searchResults), Data: f.searchResults[offset:end]}, nil
}

func (f *fakeSource) IndexInfo(_ context.Context, indexID int) (*bangumi.Index, error) {
	if f.index == nil {
		return nil, fmt.Errorf("index %d: not found", indexID)
	}
	return f.index, nil
}

func (f *fakeSource) IndexSubjects(_ context.Context, _, limit, offset int) ([]bangumi.SearchSubject, error) {
	if offset >= len(f.indexSubjects) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.indexSubjects) {
		end = len(f.indexSubjects)
	}
	return f.indexSubjects[offset:end], nil
}

type fakeCurated struct {
	tags map[int][]string
}

func (f *fakeCurated) CuratedTags(characterID, limit int) ([]string, error) {
	tags := f.tags[characterID]
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}

// oneCharacterSource builds a source with a single anime, a single lead
// character and enough detail for a full resolution round trip.
func oneCharacterSource() *fakeSource {
	src := newFakeSource()
	src.searchResults = []bangumi.SearchSubject{{ID: 100, Name: "Some Show"}}
	src.subjects[100] = &bangumi.Subject{
		ID:     100,
		Type:   bangumi.TypeAnime,
		Name:   "Some Show",
		NameCN: "某部作品",
		Date:   "2021-04-01",
		Rating: &bangumi.Rating{Score: 7.8, Total: 5000},
		Tags: []bangumi.Tag{
			{Name: "热血", Count: 300},
			{Name: "2021年4月", Count: 250},
			{Name: "搞笑", Count: 200},
		},
	}
	src.subjectCharacters[100] = []bangumi.SubjectCharacter{
		{ID: 7, Name: "Hero", Relation: bangumi.RoleLead},
		{ID: 8, Name: "Sidekick", Relation: bangumi.RoleSupporting},
	}
	src.characters[7] = &bangumi.CharacterDetail{
		ID:      7,
		Name:    "Hero",
		Gender:  "female",
		Summary: "一句话。另一句话。",
		Stat:    bangumi.CharacterStat{Collects: 1200},
	}
	src.characterSubjects[7] = []bangumi.RelatedSubject{
		{ID: 100, Type: bangumi.TypeAnime, Staff: bangumi.RoleLead, Name: "Some Show"},
	}
	src.characterPersons[7] = []bangumi.RelatedPerson{
		{ID: 55, Name: "某声优", SubjectType: bangumi.TypeAnime},
	}
	return src
}
