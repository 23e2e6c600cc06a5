package domain

import "fmt"

// ScreeningResult is the immutable top-level verdict. Article and entities are stored
// once here and referenced by id everywhere below.
type ScreeningResult struct {
	Article            Article            `json:"article"`
	ArticleCredibility *CredibilityResult `json:"article_credibility"`
	QueryPerson        QueryPerson        `json:"query_person"`
	Entities           []Entity           `json:"entities"`
	Matching           MatchingResult     `json:"matching"`
	Sentiment          *SentimentResult   `json:"sentiment"`
}

// Validate checks that every entity id referenced by matching or sentiment exists in Entities.
func (r ScreeningResult) Validate() error {
	known := make(map[string]struct{}, len(r.Entities))
	for _, e := range r.Entities {
		known[e.ID] = struct{}{}
	}

	check := func(where, id string) error {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%s references unknown entity %s", where, id)
		}
		return nil
	}

	for _, id := range r.Matching.EntitiesAnalysed {
		if err := check("entities_analysed", id); err != nil {
			return err
		}
	}
	for _, m := range r.Matching.Matches {
		if err := check("matches", m.EntityID); err != nil {
			return err
		}
	}
	if r.Sentiment != nil {
		for _, a := range r.Sentiment.Assessments {
			if err := check("sentiment", a.EntityID); err != nil {
				return err
			}
		}
	}

	return nil
}
