package game

import (
	"context"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"character-guessr/internal/bangumi"
)

// DataSource is the read-only slice of the upstream API the game logic
// depends on. *bangumi.Client satisfies it; tests use in-memory fakes.
type DataSource interface {
	SubjectDetails(ctx context.Context, subjectID int) (*bangumi.Subject, error)
	CharacterDetails(ctx context.Context, characterID int) (*bangumi.CharacterDetail, error)
	CharacterSubjects(ctx context.Context, characterID int) ([]bangumi.RelatedSubject, error)
	CharacterPersons(ctx context.Context, characterID int) ([]bangumi.RelatedPerson, error)
	SubjectCharacters(ctx context.Context, subjectID int) ([]bangumi.SubjectCharacter, error)
	SearchSubjects(ctx context.Context, req bangumi.SearchRequest, limit, offset int) (*bangumi.SearchResult, error)
	IndexInfo(ctx context.Context, indexID int) (*bangumi.Index, error)
	IndexSubjects(ctx context.Context, indexID, limit, offset int) ([]bangumi.SearchSubject, error)
}

// CuratedTagSource supplies community-curated tags for a character.
type CuratedTagSource interface {
	CuratedTags(characterID, limit int) ([]string, error)
}

// Characters whose performer names are editorially suppressed; a
// placeholder tag is injected instead. Per-character manual overrides,
// not a general rule.
var personOverrides = map[int]struct{}{
	56822: {},
	56823: {},
	17529: {},
	10956: {},
}

const expandPlaceholderTag = "展开"

// Appearances is the work-derived half of a Character.
type Appearances struct {
	Names         []string
	EarliestYear  int
	LatestYear    int
	HighestRating float64
	MetaTags      []string
}

func emptyAppearances() *Appearances {
	return &Appearances{
		Names:         []string{},
		EarliestYear:  Unknown,
		LatestYear:    Unknown,
		HighestRating: Unknown,
		MetaTags:      []string{},
	}
}

type workSummary struct {
	name        string
	ratingCount int
}

// CharacterAppearances aggregates a character's qualifying works into its
// comparable attributes. Single-work lookup failures are skipped so one
// broken upstream record cannot fail the whole character.
func CharacterAppearances(ctx context.Context, src DataSource, curated CuratedTagSource, characterID int, settings Settings) (*Appearances, error) {
	var (
		wg          sync.WaitGroup
		subjects    []bangumi.RelatedSubject
		persons     []bangumi.RelatedPerson
		subjectsErr error
		personsErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		subjects, subjectsErr = src.CharacterSubjects(ctx, characterID)
	}()
	go func() {
		defer wg.Done()
		persons, personsErr = src.CharacterPersons(ctx, characterID)
	}()
	wg.Wait()
	if subjectsErr != nil {
		return nil, subjectsErr
	}
	if personsErr != nil {
		return nil, personsErr
	}

	qualifying := make([]bangumi.RelatedSubject, 0, len(subjects))
	for _, subject := range subjects {
		if subject.Staff != bangumi.RoleLead && subject.Staff != bangumi.RoleSupporting {
			continue
		}
		if subject.Type != bangumi.TypeAnime && !(settings.IncludeGame && subject.Type == bangumi.TypeGame) {
			continue
		}
		qualifying = append(qualifying, subject)
	}
	if len(qualifying) == 0 {
		return emptyAppearances(), nil
	}

	result := emptyAppearances()
	tagWeights := make(map[string]int)
	summaries := make([]workSummary, 0, len(qualifying))
	wanted := requiredMetaTags(settings)

	for _, subject := range qualifying {
		details, err := src.SubjectDetails(ctx, subject.ID)
		if err != nil {
			log.Printf("subject lookup skipped subject_id=%d error=%v", subject.ID, err)
			continue
		}
		year, ok := subjectYear(details)
		if !ok {
			continue
		}
		if !containsAll(details.MetaTags, wanted) {
			continue
		}
		if result.LatestYear == Unknown || year > result.LatestYear {
			result.LatestYear = year
		}
		if result.EarliestYear == Unknown || year < result.EarliestYear {
			result.EarliestYear = year
		}
		ratingCount := 0
		if details.Rating != nil {
			ratingCount = details.Rating.Total
			if details.Rating.Score > 0 && details.Rating.Score > result.HighestRating {
				result.HighestRating = details.Rating.Score
			}
		}
		for _, tag := range workTags(details) {
			tagWeights[tag.Name] += tag.Count
		}
		name := details.NameCN
		if name == "" {
			name = details.Name
		}
		summaries = append(summaries, workSummary{name: name, ratingCount: ratingCount})
	}

	// More popular shared works should surface first.
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].ratingCount > summaries[j].ratingCount
	})
	for _, summary := range summaries {
		result.Names = append(result.Names, summary.name)
	}

	tags := newTagSet()
	if curated != nil {
		curatedTags, err := curated.CuratedTags(characterID, settings.CharacterTagNum)
		if err != nil {
			log.Printf("curated tag lookup skipped character_id=%d error=%v", characterID, err)
		}
		for _, tag := range curatedTags {
			tags.add(tag)
		}
	}
	for _, tag := range topTags(tagWeights, settings.SubjectTagNum) {
		tags.add(tag)
	}
	if _, overridden := personOverrides[characterID]; overridden {
		tags.add(expandPlaceholderTag)
	} else {
		for _, person := range persons {
			if person.SubjectType == bangumi.TypeAnime || person.SubjectType == bangumi.TypeGame {
				tags.add(person.Name)
			}
		}
	}
	result.MetaTags = tags.values()

	return result, nil
}

// subjectYear parses the work's air year and rejects unaired works.
func subjectYear(details *bangumi.Subject) (int, bool) {
	if details.Date == "" {
		return 0, false
	}
	aired, err := time.Parse("2006-01-02", details.Date)
	if err == nil && aired.After(time.Now()) {
		return 0, false
	}
	parts := strings.SplitN(details.Date, "-", 2)
	year, err := strconv.Atoi(parts[0])
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}

// workTags takes the head of a work's tag list, then drops year-tag noise
// from within it. A year tag still costs its slot; later tags never move up
// to replace it. Anime works contribute more tags than games.
func workTags(details *bangumi.Subject) []bangumi.Tag {
	limit := 0
	switch details.Type {
	case bangumi.TypeAnime:
		limit = 10
	case bangumi.TypeGame:
		limit = 5
	default:
		return nil
	}
	head := details.Tags
	if len(head) > limit {
		head = head[:limit]
	}
	kept := make([]bangumi.Tag, 0, len(head))
	for _, tag := range head {
		if strings.Contains(tag.Name, "20") {
			continue
		}
		kept = append(kept, tag)
	}
	return kept
}

func topTags(weights map[string]int, limit int) []string {
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if weights[names[i]] != weights[names[j]] {
			return weights[names[i]] > weights[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}

func requiredMetaTags(settings Settings) []string {
	wanted := make([]string, 0, len(settings.MetaTags))
	for _, tag := range settings.MetaTags {
		if tag != "" {
			wanted = append(wanted, tag)
		}
	}
	return wanted
}

func containsAll(have, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, tag := range have {
		set[tag] = struct{}{}
	}
	for _, tag := range wanted {
		if _, ok := set[tag]; !ok {
			return false
		}
	}
	return true
}

// tagSet is an insertion-ordered string set.
type tagSet struct {
	seen  map[string]struct{}
	order []string
}

func newTagSet() *tagSet {
	return &tagSet{seen: make(map[string]struct{})}
}

func (s *tagSet) add(tag string) {
	if tag == "" {
		return
	}
	if _, ok := s.seen[tag]; ok {
		return
	}
	s.seen[tag] = struct{}{}
	s.order = append(s.order, tag)
}

func (s *tagSet) values() []string {
	if s.order == nil {
		return []string{}
	}
	return s.order
}
