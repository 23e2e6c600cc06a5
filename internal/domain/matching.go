package domain

import (
	"fmt"
	"strings"
)

// MatchDecision is the verdict for one entity, ordered from strongest to weakest evidence.
type MatchDecision string

const (
	DecisionDefiniteMatch MatchDecision = "definite_match"
	DecisionProbableMatch MatchDecision = "probable_match"
	DecisionPossibleMatch MatchDecision = "possible_match"
	DecisionUncertain     MatchDecision = "uncertain"
	DecisionNoMatch       MatchDecision = "no_match"
)

// ConfidenceBand is the documented confidence range for a decision. Not enforced.
type ConfidenceBand struct {
	Min float64
	Max float64
}

// Contains reports whether c falls inside the band.
func (b ConfidenceBand) Contains(c float64) bool {
	return c >= b.Min && c <= b.Max
}

// normaliseToken lowercases value and collapses any whitespace run into one underscore.
func normaliseToken(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), "_")
}

// ParseMatchDecision never fails: anything unrecognised becomes DecisionUncertain.
func ParseMatchDecision(value string) MatchDecision {
	switch d := MatchDecision(normaliseToken(value)); d {
	case DecisionDefiniteMatch, DecisionProbableMatch, DecisionPossibleMatch, DecisionUncertain, DecisionNoMatch:
		return d
	default:
		return DecisionUncertain
	}
}

// UnmarshalText applies ParseMatchDecision so stored and Oracle values decode fail-soft.
func (d *MatchDecision) UnmarshalText(text []byte) error {
	*d = ParseMatchDecision(string(text))
	return nil
}

// Rank orders decisions: DEFINITE 4, PROBABLE 3, POSSIBLE 2, UNCERTAIN 1, NO_MATCH 0.
func (d MatchDecision) Rank() int {
	switch d {
	case DecisionDefiniteMatch:
		return 4
	case DecisionProbableMatch:
		return 3
	case DecisionPossibleMatch:
		return 2
	case DecisionUncertain:
		return 1
	default:
		return 0
	}
}

// StrongerThan reports whether d carries more evidence than other.
func (d MatchDecision) StrongerThan(other MatchDecision) bool {
	return d.Rank() > other.Rank()
}

// ConfidenceBand returns the confidence range the Oracle contract documents for d.
func (d MatchDecision) ConfidenceBand() ConfidenceBand {
	switch d {
	case DecisionDefiniteMatch:
		return ConfidenceBand{Min: 0.85, Max: 1.0}
	case DecisionProbableMatch:
		return ConfidenceBand{Min: 0.70, Max: 0.84}
	case DecisionPossibleMatch:
		return ConfidenceBand{Min: 0.40, Max: 0.69}
	case DecisionUncertain:
		return ConfidenceBand{Min: 0.20, Max: 0.39}
	default:
		return ConfidenceBand{Min: 0.0, Max: 0.19}
	}
}

// SignalValue is a three-state signal so missing data is never read as a mismatch.
type SignalValue string

const (
	SignalMatch   SignalValue = "match"
	SignalNoMatch SignalValue = "no_match"
	SignalUnknown SignalValue = "unknown"
)

// ParseSignalValue never fails: anything unrecognised becomes SignalUnknown.
func ParseSignalValue(value string) SignalValue {
	switch s := SignalValue(normaliseToken(value)); s {
	case SignalMatch, SignalNoMatch, SignalUnknown:
		return s
	default:
		return SignalUnknown
	}
}

// UnmarshalText applies ParseSignalValue.
func (s *SignalValue) UnmarshalText(text []byte) error {
	*s = ParseSignalValue(string(text))
	return nil
}

// NameSignals are the name comparison signals.
type NameSignals struct {
	ExactMatch         SignalValue `json:"exact_match"`
	FuzzySimilarity    float64     `json:"fuzzy_similarity"`
	NicknameMatch      SignalValue `json:"nickname_match"`
	PartialMatch       SignalValue `json:"partial_match"`
	TitleStrippedMatch SignalValue `json:"title_stripped_match"`
}

// DemographicSignals are the date of birth signals. AgeDiscrepancyYears is set only
// when both ages are known.
type DemographicSignals struct {
	DOBExactMatch       SignalValue `json:"dob_exact_match"`
	BirthYearMatch      SignalValue `json:"birth_year_match"`
	AgeDiscrepancyYears *int        `json:"age_discrepancy_years,omitempty"`
}

// MatchSignals groups all signals evaluated for one entity.
type MatchSignals struct {
	Name         NameSignals        `json:"name"`
	Demographics DemographicSignals `json:"demographics"`
}

// HasStrongSignal is an exact name match backed by a DOB or birth year match.
func (s MatchSignals) HasStrongSignal() bool {
	return s.Name.ExactMatch == SignalMatch &&
		(s.Demographics.DOBExactMatch == SignalMatch || s.Demographics.BirthYearMatch == SignalMatch)
}

// HasContradiction is a name mismatch or an age gap of more than five years.
func (s MatchSignals) HasContradiction() bool {
	nameMismatch := s.Name.ExactMatch == SignalNoMatch
	ageMismatch := s.Demographics.AgeDiscrepancyYears != nil && *s.Demographics.AgeDiscrepancyYears > 5
	return nameMismatch || ageMismatch
}

// PersonMatch is one entity scored against the query person.
type PersonMatch struct {
	EntityID             string        `json:"entity_id"`
	EntityName           string        `json:"entity_name"`
	Decision             MatchDecision `json:"decision"`
	Confidence           float64       `json:"confidence"`
	Signals              MatchSignals  `json:"signals"`
	Reasoning            string        `json:"reasoning"`
	EvidenceForMatch     []string      `json:"evidence_for_match"`
	EvidenceAgainstMatch []string      `json:"evidence_against_match"`
	IsPrimaryMatch       bool          `json:"is_primary_match"`
}

// MatchingResult aggregates the per-entity matches of one article.
type MatchingResult struct {
	QueryPerson          QueryPerson      `json:"query_person"`
	EntitiesAnalysed     []string         `json:"entities_analysed"`
	Matches              []PersonMatch    `json:"matches"`
	HasDefiniteMatch     bool             `json:"has_definite_match"`
	HasAnyMatch          bool             `json:"has_any_match"`
	RequiresManualReview bool             `json:"requires_manual_review"`
	PrimaryMatch         *PersonMatch     `json:"primary_match"`
	Summary              string           `json:"summary"`
	Metadata             AnalyserMetadata `json:"metadata"`
}

// SentimentTargets selects entity ids for sentiment analysis: definite matches when any exist,
// otherwise probable and possible matches. Uncertain entities are never targeted.
func (r MatchingResult) SentimentTargets() []string {
	var targets []string
	if r.HasDefiniteMatch {
		for _, m := range r.Matches {
			if m.Decision == DecisionDefiniteMatch {
				targets = append(targets, m.EntityID)
			}
		}
		return targets
	}

	for _, m := range r.Matches {
		if m.Decision == DecisionProbableMatch || m.Decision == DecisionPossibleMatch {
			targets = append(targets, m.EntityID)
		}
	}
	return targets
}

// MatchSummary renders the analyst-facing summary line. It never feeds a decision flag.
func MatchSummary(matches []PersonMatch, queryName string) string {
	if len(matches) == 0 {
		return fmt.Sprintf("No matches found for '%s' in this article.", queryName)
	}

	if len(matches) == 1 {
		m := matches[0]
		pct := percent(m.Confidence)
		switch m.Decision {
		case DecisionDefiniteMatch:
			return fmt.Sprintf("Definite match: '%s' matches '%s' (confidence: %s)", queryName, m.EntityName, pct)
		case DecisionProbableMatch:
			return fmt.Sprintf("Probable match: '%s' likely matches '%s' (confidence: %s) - Review recommended", queryName, m.EntityName, pct)
		case DecisionPossibleMatch:
			return fmt.Sprintf("Possible match: '%s' may match '%s' (confidence: %s) - Manual review required", queryName, m.EntityName, pct)
		default:
			return fmt.Sprintf("Uncertain: '%s' and '%s' have conflicting signals (confidence: %s) - Manual review required", queryName, m.EntityName, pct)
		}
	}

	top := matches[0]
	return fmt.Sprintf("Found %d potential matches for '%s'. Top match: '%s' (%s, %s). Manual review recommended for disambiguation.",
		len(matches), queryName, top.EntityName, top.Decision, percent(top.Confidence))
}

func percent(confidence float64) string {
	return fmt.Sprintf("%.0f%%", confidence*100)
}
