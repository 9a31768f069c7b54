package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"character-guessr/internal/bangumi"
)

// ErrNoCandidates signals an empty pool or an answer draw that produced no
// usable character; the whole pick is retried.
var ErrNoCandidates = errors.New("no candidate characters")

// Resolver selects random answer characters and assembles comparable
// attribute sets from the upstream data source.
type Resolver struct {
	src        DataSource
	curated    CuratedTagSource
	attempts   int
	retryDelay time.Duration
	intn       func(n int) int
}

func NewResolver(src DataSource, curated CuratedTagSource, attempts int, retryDelay time.Duration) *Resolver {
	if attempts < 1 {
		attempts = 1
	}
	return &Resolver{
		src:        src,
		curated:    curated,
		attempts:   attempts,
		retryDelay: retryDelay,
		intn:       rand.IntN,
	}
}

// RandomCharacter picks one answer character for the given settings. Any
// lookup failure or empty draw is retried a bounded number of times with a
// short delay; exhaustion is an initialization failure for the caller.
func (r *Resolver) RandomCharacter(ctx context.Context, settings Settings) (*Character, error) {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		character, err := r.pickOnce(ctx, settings)
		if err == nil {
			if len(character.Appearances) > 0 && character.LatestYear != Unknown {
				return character, nil
			}
			err = ErrNoCandidates
		}
		lastErr = err
		log.Printf("answer pick failed attempt=%d error=%v", attempt, err)
		if attempt < r.attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.retryDelay):
			}
		}
	}
	return nil, fmt.Errorf("pick answer after %d attempts: %w", r.attempts, lastErr)
}

func (r *Resolver) pickOnce(ctx context.Context, settings Settings) (*Character, error) {
	subjectID, err := r.pickSubject(ctx, settings)
	if err != nil {
		return nil, err
	}
	characterID, err := r.pickCharacter(ctx, subjectID, settings)
	if err != nil {
		return nil, err
	}
	return r.CharacterByID(ctx, characterID, settings)
}

// pickSubject draws one work uniformly from the configured candidate pool.
func (r *Resolver) pickSubject(ctx context.Context, settings Settings) (int, error) {
	if settings.UseIndex && settings.IndexID != 0 {
		index, err := r.src.IndexInfo(ctx, settings.IndexID)
		if err != nil {
			return 0, err
		}
		total := index.Total + len(settings.AddedSubjects)
		if total <= 0 {
			return 0, ErrNoCandidates
		}
		offset := r.intn(total)
		if offset >= index.Total {
			return settings.AddedSubjects[offset-index.Total].ID, nil
		}
		subjects, err := r.src.IndexSubjects(ctx, settings.IndexID, 1, offset)
		if err != nil {
			return 0, err
		}
		if len(subjects) == 0 {
			return 0, ErrNoCandidates
		}
		return subjects[0].ID, nil
	}

	total := settings.TopNSubjects + len(settings.AddedSubjects)
	if total <= 0 {
		return 0, ErrNoCandidates
	}
	offset := r.intn(total)
	if offset >= settings.TopNSubjects {
		return settings.AddedSubjects[offset-settings.TopNSubjects].ID, nil
	}

	startYear := settings.StartYear
	endYear := settings.EndYear
	if settings.PerYearPool && endYear >= startYear {
		// Per-year mode draws the year first, then ranks within it, so a
		// handful of recent hits cannot dominate the pool.
		year := startYear + r.intn(endYear-startYear+1)
		startYear, endYear = year, year
		offset = r.intn(settings.TopNSubjects)
	}
	result, err := r.src.SearchSubjects(ctx, bangumi.SearchRequest{
		Sort: "heat",
		Filter: bangumi.SearchFilter{
			Type:     []int{bangumi.TypeAnime},
			AirDate:  airDateRange(startYear, endYear),
			MetaTags: requiredMetaTags(settings),
		},
	}, 1, offset)
	if err != nil {
		return 0, err
	}
	if len(result.Data) == 0 {
		return 0, ErrNoCandidates
	}
	return result.Data[0].ID, nil
}

// airDateRange clamps the window's upper bound to today so unaired seasons
// never enter the pool.
func airDateRange(startYear, endYear int) []string {
	end := time.Date(endYear+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	if today := time.Now().UTC(); today.Before(end) {
		end = today
	}
	return []string{
		fmt.Sprintf(">=%04d-01-01", startYear),
		"<" + end.Format("2006-01-02"),
	}
}

// pickCharacter filters the work's cast by role and draws one uniformly.
func (r *Resolver) pickCharacter(ctx context.Context, subjectID int, settings Settings) (int, error) {
	characters, err := r.src.SubjectCharacters(ctx, subjectID)
	if err != nil {
		return 0, err
	}
	candidates := make([]bangumi.SubjectCharacter, 0, len(characters))
	for _, character := range characters {
		if character.Relation == bangumi.RoleLead {
			candidates = append(candidates, character)
			continue
		}
		if !settings.MainCharacterOnly && character.Relation == bangumi.RoleSupporting {
			candidates = append(candidates, character)
		}
	}
	if !settings.MainCharacterOnly && settings.CharacterNum > 0 && len(candidates) > settings.CharacterNum {
		candidates = candidates[:settings.CharacterNum]
	}
	if len(candidates) == 0 {
		return 0, ErrNoCandidates
	}
	return candidates[r.intn(len(candidates))].ID, nil
}

// CharacterByID assembles the full comparable attribute set for one
// character, for answer selection and per-guess evaluation alike.
func (r *Resolver) CharacterByID(ctx context.Context, characterID int, settings Settings) (*Character, error) {
	details, err := r.src.CharacterDetails(ctx, characterID)
	if err != nil {
		return nil, err
	}
	appearances, err := CharacterAppearances(ctx, r.src, r.curated, characterID, settings)
	if err != nil {
		return nil, err
	}

	gender := GenderUnknown
	if details.Gender == string(GenderMale) || details.Gender == string(GenderFemale) {
		gender = Gender(details.Gender)
	}
	return &Character{
		ID:            characterID,
		Name:          details.Name,
		NameCN:        bangumi.InfoboxString(details.Infobox, "简体中文名"),
		Image:         details.Images.Medium,
		Summary:       details.Summary,
		Gender:        gender,
		Popularity:    details.Stat.Collects,
		Appearances:   appearances.Names,
		EarliestYear:  appearances.EarliestYear,
		LatestYear:    appearances.LatestYear,
		HighestRating: appearances.HighestRating,
		MetaTags:      appearances.MetaTags,
	}, nil
}
