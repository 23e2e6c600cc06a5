package domain

import (
	"strconv"
	"strings"

	"AdverseScreener/internal/names"
)

// QueryPerson is the analyst-supplied subject of a screening.
// Only Name and DateOfBirth are input; the rest is derived by Normalise.
type QueryPerson struct {
	Name              string   `json:"name"`
	DateOfBirth       string   `json:"date_of_birth,omitempty"`
	NormalisedName    string   `json:"normalised_name,omitempty"`
	PossibleNicknames []string `json:"possible_nicknames"`
	BirthYear         *int     `json:"birth_year,omitempty"`
}

// QueryPromptFields are the query person fields handed to the matching prompt.
type QueryPromptFields struct {
	QueryName           string
	QueryNormalisedName string
	QueryNicknames      string
	QueryDOB            string
	QueryBirthYear      string
}

// Normalise derives the normalised name, nickname variations and birth year in place.
// Re-running it with unchanged inputs overwrites the derived fields with identical values.
func (q *QueryPerson) Normalise(provider names.VariationProvider) {
	q.NormalisedName = names.Normalise(q.Name)
	q.PossibleNicknames = names.Variations(q.NormalisedName, provider)

	q.BirthYear = nil
	if q.DateOfBirth != "" {
		if year, ok := names.ExtractYear(q.DateOfBirth); ok {
			q.BirthYear = &year
		}
	}
}

// PromptFields renders the query person with the placeholders the matching prompt expects.
func (q QueryPerson) PromptFields() QueryPromptFields {
	fields := QueryPromptFields{
		QueryName:           q.Name,
		QueryNormalisedName: q.NormalisedName,
		QueryNicknames:      "None",
		QueryDOB:            "Unknown",
		QueryBirthYear:      "Unknown",
	}

	if fields.QueryNormalisedName == "" {
		fields.QueryNormalisedName = q.Name
	}
	if len(q.PossibleNicknames) > 0 {
		fields.QueryNicknames = strings.Join(q.PossibleNicknames, ", ")
	}
	if q.DateOfBirth != "" {
		fields.QueryDOB = q.DateOfBirth
	}
	if q.BirthYear != nil {
		fields.QueryBirthYear = strconv.Itoa(*q.BirthYear)
	}

	return fields
}
