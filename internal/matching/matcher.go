// Package matching scores extracted entities against the person being screened.
package matching

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/names"
	"AdverseScreener/internal/ports"
)

// Matcher implements ports.PersonMatcher. It leans towards manual review over
// discarding a possible true match.
type Matcher struct {
	oracle    ports.Oracle[Request, Analysis]
	nicknames names.VariationProvider
	info      domain.ModelInfo
	logger    *slog.Logger
	now       func() time.Time
}

var _ ports.PersonMatcher = (*Matcher)(nil)

// NewMatcher wires the oracle and the nickname source used to normalise the query.
func NewMatcher(o ports.Oracle[Request, Analysis], nicknames names.VariationProvider, info domain.ModelInfo, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Matcher{
		oracle:    o,
		nicknames: nicknames,
		info:      info,
		logger:    logger,
		now:       time.Now,
	}
}

// Match normalises query in place and compares it with every entity.
// A failed comparison for any entity fails the whole call.
func (m *Matcher) Match(ctx context.Context, query *domain.QueryPerson, entities []domain.Entity) (domain.MatchingResult, error) {
	if query == nil {
		return domain.MatchingResult{}, fmt.Errorf("match: query person is nil")
	}

	query.Normalise(m.nicknames)
	started := m.now()

	analysed := make([]string, 0, len(entities))
	for _, e := range entities {
		analysed = append(analysed, e.ID)
	}

	fields := query.PromptFields()
	var matches []domain.PersonMatch
	for _, entity := range entities {
		analysis, err := m.oracle.Invoke(ctx, request(fields, entity))
		if err != nil {
			m.logger.Error("matching entity failed", "entity", entity.Name, "entity_id", entity.ID, "error", err)
			return domain.MatchingResult{}, fmt.Errorf("match entity %s: %w", entity.ID, err)
		}

		match := analysis.PersonMatch(entity)
		m.logger.Debug("entity compared",
			"entity", entity.Name,
			"decision", match.Decision,
			"confidence", match.Confidence,
		)
		if match.Decision == domain.DecisionNoMatch {
			continue
		}
		matches = append(matches, match)
	}

	result := Aggregate(*query, analysed, matches)
	result.Metadata = domain.NewAnalyserMetadata(m.info, AnalyserVersion, PromptVersion, started, m.now())

	m.logger.Info("matching finished",
		"entities", len(entities),
		"matches", len(result.Matches),
		"definite", result.HasDefiniteMatch,
		"manual_review", result.RequiresManualReview,
	)

	return result, nil
}

// Aggregate ranks the retained matches and derives the result flags and summary.
// Matches must already exclude NO_MATCH decisions.
func Aggregate(query domain.QueryPerson, analysed []string, matches []domain.PersonMatch) domain.MatchingResult {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})

	var hasDefinite, needsReview bool
	for i := range matches {
		matches[i].IsPrimaryMatch = i == 0
		switch matches[i].Decision {
		case domain.DecisionDefiniteMatch:
			hasDefinite = true
		case domain.DecisionUncertain, domain.DecisionPossibleMatch:
			needsReview = true
		}
	}

	result := domain.MatchingResult{
		QueryPerson:          query,
		EntitiesAnalysed:     analysed,
		Matches:              matches,
		HasDefiniteMatch:     hasDefinite,
		HasAnyMatch:          len(matches) > 0,
		RequiresManualReview: !hasDefinite && needsReview,
		Summary:              domain.MatchSummary(matches, query.Name),
	}
	if len(matches) > 0 {
		primary := matches[0]
		result.PrimaryMatch = &primary
	}

	return result
}

func request(fields domain.QueryPromptFields, entity domain.Entity) Request {
	req := Request{
		QueryName:           fields.QueryName,
		QueryNormalisedName: fields.QueryNormalisedName,
		QueryNicknames:      fields.QueryNicknames,
		QueryDOB:            fields.QueryDOB,
		QueryBirthYear:      fields.QueryBirthYear,
		EntityName:          entity.Name,
		EntityAliases:       "None",
		EntityBirthYear:     "Unknown",
		EntityDOB:           "Unknown",
	}
	if len(entity.Aliases) > 0 {
		req.EntityAliases = strings.Join(entity.Aliases, ", ")
	}
	if entity.BirthYear != "" {
		req.EntityBirthYear = entity.BirthYear
	}
	if entity.DateOfBirth != "" {
		req.EntityDOB = entity.DateOfBirth
	}
	return req
}
