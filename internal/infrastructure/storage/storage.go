// Package storage persists screening results behind ports.ResultStore.
package storage

import (
	"sort"
	"time"

	"AdverseScreener/internal/domain"
)

// createdAtLayout is fixed width so stored timestamps also sort as strings.
const createdAtLayout = "2006-01-02T15:04:05.000000Z07:00"

func formatCreatedAt(t time.Time) string {
	return t.UTC().Format(createdAtLayout)
}

func metadataFor(id string, result domain.ScreeningResult, createdAt time.Time, schemaVersion string) domain.ResultMetadata {
	return domain.ResultMetadata{
		ID:            id,
		DisplayName:   domain.DisplayName(result.QueryPerson.Name, result.Article.Title),
		PersonName:    result.QueryPerson.Name,
		ArticleURL:    result.Article.URL,
		ArticleTitle:  result.Article.Title,
		CreatedAt:     formatCreatedAt(createdAt),
		SchemaVersion: schemaVersion,
	}
}

// currentNewestFirst keeps entries written under schemaVersion, newest first.
func currentNewestFirst(entries []domain.ResultMetadata, schemaVersion string) []domain.ResultMetadata {
	out := make([]domain.ResultMetadata, 0, len(entries))
	for _, e := range entries {
		if e.SchemaVersion == schemaVersion {
			out = append(out, e)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return createdAtAfter(out[i].CreatedAt, out[j].CreatedAt)
	})
	return out
}

func createdAtAfter(a, b string) bool {
	ta, errA := time.Parse(time.RFC3339Nano, a)
	tb, errB := time.Parse(time.RFC3339Nano, b)
	if errA != nil || errB != nil {
		return a > b
	}
	return ta.After(tb)
}
