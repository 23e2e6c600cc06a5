package domain

// CredibilitySignal is a yes/no/unsure journalistic quality indicator.
type CredibilitySignal string

const (
	CredibilityYes    CredibilitySignal = "yes"
	CredibilityNo     CredibilitySignal = "no"
	CredibilityUnsure CredibilitySignal = "unsure"
)

// Recommendations a credibility assessment may carry.
const (
	RecommendationReliable             = "reliable"
	RecommendationRequiresVerification = "requires_verification"
	RecommendationUnreliable           = "unreliable"
)

// ParseCredibilitySignal never fails: anything unrecognised becomes CredibilityUnsure.
func ParseCredibilitySignal(value string) CredibilitySignal {
	switch s := CredibilitySignal(normaliseToken(value)); s {
	case CredibilityYes, CredibilityNo, CredibilityUnsure:
		return s
	default:
		return CredibilityUnsure
	}
}

// UnmarshalText applies ParseCredibilitySignal.
func (s *CredibilitySignal) UnmarshalText(text []byte) error {
	*s = ParseCredibilitySignal(string(text))
	return nil
}

// CredibilitySignals holds eight positive and eight negative reliability indicators.
type CredibilitySignals struct {
	HasAttribution               CredibilitySignal `json:"has_attribution"`
	HasMultipleSources           CredibilitySignal `json:"has_multiple_sources"`
	DistinguishesFactAllegation  CredibilitySignal `json:"distinguishes_fact_allegation"`
	HasNamedQuotes               CredibilitySignal `json:"has_named_quotes"`
	HasBalancedCoverage          CredibilitySignal `json:"has_balanced_coverage"`
	IsInternallyConsistent       CredibilitySignal `json:"is_internally_consistent"`
	HasTechnicalDetail           CredibilitySignal `json:"has_technical_detail"`
	UsesHedgingLanguage          CredibilitySignal `json:"uses_hedging_language"`
	HasSensationalLanguage       CredibilitySignal `json:"has_sensational_language"`
	HasExcessiveAnonymousSources CredibilitySignal `json:"has_excessive_anonymous_sources"`
	LacksSubstantiatingDetail    CredibilitySignal `json:"lacks_substantiating_detail"`
	HasPoorGrammar               CredibilitySignal `json:"has_poor_grammar"`
	HasConspiratorialFraming     CredibilitySignal `json:"has_conspiratorial_framing"`
	HasVagueInstitutions         CredibilitySignal `json:"has_vague_institutions"`
	HasMetaClaims                CredibilitySignal `json:"has_meta_claims"`
	HasEmotionalTone             CredibilitySignal `json:"has_emotional_tone"`
}

func (s CredibilitySignals) positive() []CredibilitySignal {
	return []CredibilitySignal{
		s.HasAttribution, s.HasMultipleSources, s.DistinguishesFactAllegation, s.HasNamedQuotes,
		s.HasBalancedCoverage, s.IsInternallyConsistent, s.HasTechnicalDetail, s.UsesHedgingLanguage,
	}
}

func (s CredibilitySignals) negative() []CredibilitySignal {
	return []CredibilitySignal{
		s.HasSensationalLanguage, s.HasExcessiveAnonymousSources, s.LacksSubstantiatingDetail, s.HasPoorGrammar,
		s.HasConspiratorialFraming, s.HasVagueInstitutions, s.HasMetaClaims, s.HasEmotionalTone,
	}
}

// PositiveCount counts positive indicators answered yes.
func (s CredibilitySignals) PositiveCount() int {
	return countYes(s.positive())
}

// RedFlagCount counts negative indicators answered yes.
func (s CredibilitySignals) RedFlagCount() int {
	return countYes(s.negative())
}

func countYes(values []CredibilitySignal) int {
	n := 0
	for _, v := range values {
		if v == CredibilityYes {
			n++
		}
	}
	return n
}

// CredibilityAssessment scores the journalistic reliability of an article.
type CredibilityAssessment struct {
	Signals          CredibilitySignals `json:"signals"`
	CredibilityScore float64            `json:"credibility_score"`
	Recommendation   string             `json:"recommendation"`
	Rationale        string             `json:"rationale"`
	KeyStrengths     []string           `json:"key_strengths"`
	KeyWeaknesses    []string           `json:"key_weaknesses"`
	HardRedFlags     []string           `json:"hard_red_flags"`
}

// NeedsVerification is true unless the article was judged reliable with no hard red flags.
func (a CredibilityAssessment) NeedsVerification() bool {
	return a.Recommendation != RecommendationReliable || len(a.HardRedFlags) > 0
}

// CredibilityResult wraps an assessment with run metadata.
type CredibilityResult struct {
	Assessment CredibilityAssessment `json:"assessment"`
	Metadata   AnalyserMetadata      `json:"metadata"`
}
