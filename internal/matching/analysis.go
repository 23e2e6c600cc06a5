package matching

import (
	"errors"

	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/oracle"
)

// Analysis is the raw Oracle answer for one entity. Enumerations stay strings here and
// are mapped fail-soft when converted.
type Analysis struct {
	Decision             string               `json:"decision"`
	Confidence           float64              `json:"confidence"`
	Name                 AnalysisNameSignals  `json:"name"`
	Demographics         AnalysisDemographics `json:"demographics"`
	Reasoning            string               `json:"reasoning"`
	EvidenceForMatch     []string             `json:"evidence_for_match"`
	EvidenceAgainstMatch []string             `json:"evidence_against_match"`
}

type AnalysisNameSignals struct {
	ExactMatch         string  `json:"exact_match"`
	FuzzySimilarity    float64 `json:"fuzzy_similarity"`
	NicknameMatch      string  `json:"nickname_match"`
	PartialMatch       string  `json:"partial_match"`
	TitleStrippedMatch string  `json:"title_stripped_match"`
}

type AnalysisDemographics struct {
	DOBExactMatch       string `json:"dob_exact_match"`
	BirthYearMatch      string `json:"birth_year_match"`
	AgeDiscrepancyYears *int   `json:"age_discrepancy_years"`
}

// Validate enforces the numeric ranges; string fields are never rejected.
func (a *Analysis) Validate() error {
	return errors.Join(
		oracle.RangeCheck("confidence", a.Confidence),
		oracle.RangeCheck("name.fuzzy_similarity", a.Name.FuzzySimilarity),
	)
}

// Signals maps the raw signal strings onto typed values.
func (a Analysis) Signals() domain.MatchSignals {
	return domain.MatchSignals{
		Name: domain.NameSignals{
			ExactMatch:         domain.ParseSignalValue(a.Name.ExactMatch),
			FuzzySimilarity:    a.Name.FuzzySimilarity,
			NicknameMatch:      domain.ParseSignalValue(a.Name.NicknameMatch),
			PartialMatch:       domain.ParseSignalValue(a.Name.PartialMatch),
			TitleStrippedMatch: domain.ParseSignalValue(a.Name.TitleStrippedMatch),
		},
		Demographics: domain.DemographicSignals{
			DOBExactMatch:       domain.ParseSignalValue(a.Demographics.DOBExactMatch),
			BirthYearMatch:      domain.ParseSignalValue(a.Demographics.BirthYearMatch),
			AgeDiscrepancyYears: a.Demographics.AgeDiscrepancyYears,
		},
	}
}

// PersonMatch converts the analysis of entity into a scored match.
func (a Analysis) PersonMatch(entity domain.Entity) domain.PersonMatch {
	return domain.PersonMatch{
		EntityID:             entity.ID,
		EntityName:           entity.Name,
		Decision:             domain.ParseMatchDecision(a.Decision),
		Confidence:           a.Confidence,
		Signals:              a.Signals(),
		Reasoning:            a.Reasoning,
		EvidenceForMatch:     a.EvidenceForMatch,
		EvidenceAgainstMatch: a.EvidenceAgainstMatch,
	}
}
