package game

import "time"

// Unknown is the sentinel for year and rating fields when no qualifying
// work yields data. Derived fields are never absent, only Unknown.
const Unknown = -1

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "?"
)

// Character is the comparable attribute set for one guessable character.
// Appearances, years, rating and tags are always derived from the set of
// works the character appears in.
type Character struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	NameCN        string   `json:"nameCn"`
	Image         string   `json:"image,omitempty"`
	Summary       string   `json:"summary,omitempty"`
	Gender        Gender   `json:"gender"`
	Popularity    int      `json:"popularity"`
	Appearances   []string `json:"appearances"`
	EarliestYear  int      `json:"earliestAppearance"`
	LatestYear    int      `json:"latestAppearance"`
	HighestRating float64  `json:"highestRating"`
	MetaTags      []string `json:"metaTags"`
}

// WorkRef is one explicitly added candidate work.
type WorkRef struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

// Settings are the immutable per-round game settings.
type Settings struct {
	StartYear         int       `json:"startYear"`
	EndYear           int       `json:"endYear"`
	TopNSubjects      int       `json:"topNSubjects"`
	PerYearPool       bool      `json:"perYearPool"`
	MetaTags          []string  `json:"metaTags"`
	UseIndex          bool      `json:"useIndex"`
	IndexID           int       `json:"indexId,omitempty"`
	AddedSubjects     []WorkRef `json:"addedSubjects"`
	MainCharacterOnly bool      `json:"mainCharacterOnly"`
	CharacterNum      int       `json:"characterNum"`
	MaxAttempts       int       `json:"maxAttempts"`
	EnableHints       bool      `json:"enableHints"`
	IncludeGame       bool      `json:"includeGame"`
	TimeLimitSeconds  int       `json:"timeLimit,omitempty"`
	CharacterTagNum   int       `json:"characterTagNum"`
	SubjectTagNum     int       `json:"subjectTagNum"`
}

func DefaultSettings() Settings {
	year := time.Now().Year()
	return Settings{
		StartYear:         year - 10,
		EndYear:           year,
		TopNSubjects:      50,
		MetaTags:          []string{"", "", ""},
		MainCharacterOnly: true,
		CharacterNum:      6,
		MaxAttempts:       10,
		EnableHints:       true,
		CharacterTagNum:   6,
		SubjectTagNum:     6,
	}
}

// Outcome is one entry of a player's per-round outcome trace. Rendering
// traces to display glyphs is a presentation concern.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeWin       Outcome = "win"
	OutcomeLose      Outcome = "lose"
	OutcomeSurrender Outcome = "surrender"
	OutcomeTimeout   Outcome = "timeout"
)

// Terminal reports whether the outcome ends the player's round.
// Timeout alone does not: the client follows it with a lose report once
// attempts run out.
func (o Outcome) Terminal() bool {
	switch o {
	case OutcomeWin, OutcomeLose, OutcomeSurrender:
		return true
	default:
		return false
	}
}

// GuessRecord is one evaluated guess in a playthrough. Immutable once
// created.
type GuessRecord struct {
	Index     int       `json:"index"`
	Character Character `json:"character"`
	Feedback  Feedback  `json:"feedback"`
	IsAnswer  bool      `json:"isAnswer"`
}
