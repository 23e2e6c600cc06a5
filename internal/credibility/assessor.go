// Package credibility scores the journalistic reliability of an article.
package credibility

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/oracle"
	"AdverseScreener/internal/ports"
)

// Output is the Oracle answer for one article.
type Output domain.CredibilityAssessment

// Validate enforces the score range.
func (o *Output) Validate() error {
	return oracle.RangeCheck("credibility_score", o.CredibilityScore)
}

// Assessor implements ports.CredibilityAssessor.
type Assessor struct {
	oracle ports.Oracle[Request, Output]
	info   domain.ModelInfo
	logger *slog.Logger
	now    func() time.Time
}

var _ ports.CredibilityAssessor = (*Assessor)(nil)

// NewAssessor wires the oracle that answers credibility prompts.
func NewAssessor(o ports.Oracle[Request, Output], info domain.ModelInfo, logger *slog.Logger) *Assessor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assessor{oracle: o, info: info, logger: logger, now: time.Now}
}

// Assess asks the Oracle to rate the article. Errors are returned unchanged in kind.
func (a *Assessor) Assess(ctx context.Context, article domain.Article) (domain.CredibilityResult, error) {
	a.logger.Info("assessing credibility", "title", article.Title)
	started := a.now()

	out, err := a.oracle.Invoke(ctx, Request{
		Title:   article.Title,
		URL:     article.URL,
		Content: article.Content,
	})
	if err != nil {
		a.logger.Error("credibility assessment failed", "url", article.URL, "error", err)
		return domain.CredibilityResult{}, fmt.Errorf("assess credibility: %w", err)
	}

	assessment := domain.CredibilityAssessment(out)
	finished := a.now()

	a.logger.Info("credibility assessed",
		"score", assessment.CredibilityScore,
		"recommendation", assessment.Recommendation,
		"red_flags", len(assessment.HardRedFlags),
	)

	return domain.CredibilityResult{
		Assessment: assessment,
		Metadata:   domain.NewAnalyserMetadata(a.info, AnalyserVersion, PromptVersion, started, finished),
	}, nil
}
