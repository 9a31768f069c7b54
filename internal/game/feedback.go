package game

import "math"

// Directional feedback symbols. "+" means the guessed value is higher than
// the answer's; consumers render it as "guess lower".
const (
	FeedbackEqual      = "="
	FeedbackHigher     = "+"
	FeedbackMuchHigher = "++"
	FeedbackLower      = "-"
	FeedbackMuchLower  = "--"
	FeedbackUnknown    = "?"
	FeedbackYes        = "yes"
	FeedbackNo         = "no"
)

type GenderFeedback struct {
	Guess    Gender `json:"guess"`
	Feedback string `json:"feedback"`
}

type CountFeedback struct {
	Guess    int    `json:"guess"`
	Feedback string `json:"feedback"`
}

type RatingFeedback struct {
	Guess    float64 `json:"guess"`
	Feedback string  `json:"feedback"`
}

type SharedAppearances struct {
	First string `json:"first"`
	Count int    `json:"count"`
}

type TagFeedback struct {
	Guess  []string `json:"guess"`
	Shared []string `json:"shared"`
}

// Feedback is the full per-attribute comparison of a guess against the
// answer. Every field is always populated, even for sentinel inputs.
type Feedback struct {
	Gender            GenderFeedback    `json:"gender"`
	Popularity        CountFeedback     `json:"popularity"`
	Rating            RatingFeedback    `json:"rating"`
	AppearancesCount  CountFeedback     `json:"appearancesCount"`
	LatestYear        CountFeedback     `json:"latestAppearance"`
	EarliestYear      CountFeedback     `json:"earliestAppearance"`
	SharedAppearances SharedAppearances `json:"shared_appearances"`
	MetaTags          TagFeedback       `json:"metaTags"`
}

// Compare evaluates a guessed character against the answer. It is pure and
// deterministic: identical inputs always produce identical output.
func Compare(guess, answer *Character) Feedback {
	result := Feedback{
		Gender: GenderFeedback{Guess: guess.Gender, Feedback: FeedbackNo},
	}
	if guess.Gender == answer.Gender {
		result.Gender.Feedback = FeedbackYes
	}

	result.Popularity = CountFeedback{
		Guess: guess.Popularity,
		Feedback: tiered(
			float64(guess.Popularity-answer.Popularity),
			0.05*float64(answer.Popularity),
			0.20*float64(answer.Popularity),
		),
	}

	result.Rating = RatingFeedback{Guess: guess.HighestRating}
	switch {
	case guess.HighestRating == Unknown && answer.HighestRating == Unknown:
		result.Rating.Feedback = FeedbackEqual
	case guess.HighestRating == Unknown || answer.HighestRating == Unknown:
		result.Rating.Feedback = FeedbackUnknown
	default:
		result.Rating.Feedback = tiered(
			guess.HighestRating-answer.HighestRating,
			0.02*answer.HighestRating,
			0.10*answer.HighestRating,
		)
	}

	// Appearance counts compare as equal only on an exact match; the 20%
	// band just separates near from far.
	countDiff := len(guess.Appearances) - len(answer.Appearances)
	countBand := 0.20 * float64(len(answer.Appearances))
	countFeedback := FeedbackEqual
	switch {
	case countDiff > 0:
		countFeedback = FeedbackMuchHigher
		if float64(countDiff) <= countBand {
			countFeedback = FeedbackHigher
		}
	case countDiff < 0:
		countFeedback = FeedbackMuchLower
		if float64(-countDiff) <= countBand {
			countFeedback = FeedbackLower
		}
	}
	result.AppearancesCount = CountFeedback{
		Guess:    len(guess.Appearances),
		Feedback: countFeedback,
	}

	// The wider ±2 tolerance applies to the latest-appearance year only.
	result.LatestYear = CountFeedback{
		Guess:    guess.LatestYear,
		Feedback: yearFeedback(guess.LatestYear, answer.LatestYear, 2),
	}
	result.EarliestYear = CountFeedback{
		Guess:    guess.EarliestYear,
		Feedback: yearFeedback(guess.EarliestYear, answer.EarliestYear, 1),
	}

	answerAppearances := make(map[string]struct{}, len(answer.Appearances))
	for _, name := range answer.Appearances {
		answerAppearances[name] = struct{}{}
	}
	shared := SharedAppearances{}
	for _, name := range guess.Appearances {
		if _, ok := answerAppearances[name]; !ok {
			continue
		}
		if shared.Count == 0 {
			shared.First = name
		}
		shared.Count++
	}
	result.SharedAppearances = shared

	answerTags := make(map[string]struct{}, len(answer.MetaTags))
	for _, tag := range answer.MetaTags {
		answerTags[tag] = struct{}{}
	}
	sharedTags := make([]string, 0)
	for _, tag := range guess.MetaTags {
		if _, ok := answerTags[tag]; ok {
			sharedTags = append(sharedTags, tag)
		}
	}
	guessTags := guess.MetaTags
	if guessTags == nil {
		guessTags = []string{}
	}
	result.MetaTags = TagFeedback{Guess: guessTags, Shared: sharedTags}

	return result
}

// tiered maps a signed difference into =, +, ++, -, -- against an inner
// "close enough" band and an outer "way off" band.
func tiered(diff, inner, outer float64) string {
	if math.Abs(diff) <= inner {
		return FeedbackEqual
	}
	if diff > 0 {
		if diff <= outer {
			return FeedbackHigher
		}
		return FeedbackMuchHigher
	}
	if -diff <= outer {
		return FeedbackLower
	}
	return FeedbackMuchLower
}

func yearFeedback(guess, answer, band int) string {
	switch {
	case guess == Unknown && answer == Unknown:
		return FeedbackEqual
	case guess == Unknown || answer == Unknown:
		return FeedbackUnknown
	}
	diff := guess - answer
	switch {
	case diff == 0:
		return FeedbackEqual
	case diff > 0 && diff <= band:
		return FeedbackHigher
	case diff > 0:
		return FeedbackMuchHigher
	case -diff <= band:
		return FeedbackLower
	default:
		return FeedbackMuchLower
	}
}
