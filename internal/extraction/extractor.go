// Package extraction pulls person entities, with their evidence, out of an article.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/oracle"
	"AdverseScreener/internal/ports"
)

const defaultConfidence = 1.0

// Output is the Oracle answer for one article.
type Output struct {
	Entities []EntityPayload `json:"entities"`
}

// EntityPayload is an entity as the model returns it. Fields the model tends to get
// loosely typed are shadowed here and normalised in postprocessing.
type EntityPayload struct {
	domain.Entity
	Age                  looseString `json:"age"`
	BirthYear            looseString `json:"birth_year"`
	ExtractionConfidence *float64    `json:"extraction_confidence"`
}

// Validate rejects nameless entities and confidence outside [0,1].
func (o *Output) Validate() error {
	for i, e := range o.Entities {
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("entities[%d]: name is empty", i)
		}
		if e.ExtractionConfidence != nil {
			if err := oracle.RangeCheck(fmt.Sprintf("entities[%d].extraction_confidence", i), *e.ExtractionConfidence); err != nil {
				return err
			}
		}
	}
	return nil
}

// looseString accepts a JSON string, number or null.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return errors.New("expected string or number")
		}
		*s = looseString(n.String())
	}
	return nil
}

// Extractor implements ports.EntityExtractor.
type Extractor struct {
	oracle ports.Oracle[Request, Output]
	info   domain.ModelInfo
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

var _ ports.EntityExtractor = (*Extractor)(nil)

// NewExtractor wires the oracle that answers extraction prompts.
func NewExtractor(o ports.Oracle[Request, Output], info domain.ModelInfo, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{
		oracle: o,
		info:   info,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Extract returns every person the article mentions, each with a fresh id.
func (e *Extractor) Extract(ctx context.Context, article domain.Article) (domain.ExtractionResult, error) {
	e.logger.Info("extracting entities", "title", article.Title)
	started := e.now()

	out, err := e.oracle.Invoke(ctx, Request{
		Title:       article.Title,
		URL:         article.URL,
		ArticleText: article.Content,
	})
	if err != nil {
		e.logger.Error("entity extraction failed", "url", article.URL, "error", err)
		return domain.ExtractionResult{}, fmt.Errorf("extract entities: %w", err)
	}

	entities := make([]domain.Entity, 0, len(out.Entities))
	for _, payload := range out.Entities {
		entities = append(entities, e.postprocess(payload))
	}

	e.logger.Info("entities extracted", "count", len(entities))

	return domain.ExtractionResult{
		Entities: entities,
		Metadata: domain.NewAnalyserMetadata(e.info, AnalyserVersion, PromptVersion, started, e.now()),
	}, nil
}

func (e *Extractor) postprocess(payload EntityPayload) domain.Entity {
	entity := payload.Entity
	entity.ID = e.newID()
	entity.Name = strings.TrimSpace(entity.Name)
	entity.Age = string(payload.Age)
	entity.BirthYear = string(payload.BirthYear)

	entity.ExtractionConfidence = defaultConfidence
	if payload.ExtractionConfidence != nil {
		entity.ExtractionConfidence = *payload.ExtractionConfidence
	}
	entity.MentionCount = len(entity.MentionSentences)

	return entity
}
