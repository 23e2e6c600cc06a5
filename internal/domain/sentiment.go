package domain

// Risk categories and polarities an assessment may carry.
const (
	RiskHigh             = "high_risk"
	RiskMedium           = "medium_risk"
	RiskLow              = "low_risk"
	RiskNoAdverseContent = "no_adverse_content"

	PolarityAdverse  = "adverse"
	PolarityNeutral  = "neutral"
	PolarityPositive = "positive"
)

// EvidenceSpan is a quoted sentence, optionally located in the article text.
type EvidenceSpan struct {
	Quote      string `json:"quote"`
	StartIndex *int   `json:"start_index,omitempty"`
	EndIndex   *int   `json:"end_index,omitempty"`
}

// Allegation is one distinct adverse claim about an entity.
type Allegation struct {
	Category        string         `json:"category"`
	Description     string         `json:"description"`
	Status          string         `json:"status"`
	Severity        string         `json:"severity"`
	MonetaryAmount  string         `json:"monetary_amount,omitempty"`
	Timeframe       string         `json:"timeframe,omitempty"`
	Jurisdiction    string         `json:"jurisdiction,omitempty"`
	EvidenceSpans   []EvidenceSpan `json:"evidence_spans"`
	SubjectResponse string         `json:"subject_response,omitempty"`
}

// ToneSignals separate stated fact from hedged allegation.
type ToneSignals struct {
	CertaintyLevel        string `json:"certainty_level"`
	HedgingLanguage       bool   `json:"hedging_language"`
	AttributionQuality    string `json:"attribution_quality"`
	TemporalContext       string `json:"temporal_context,omitempty"`
	SubjectDenial         bool   `json:"subject_denial"`
	ContradictoryEvidence bool   `json:"contradictory_evidence"`
}

// SentimentAssessment is the adverse-content verdict for one matched entity.
type SentimentAssessment struct {
	EntityID                 string       `json:"entity_id"`
	EntityName               string       `json:"entity_name"`
	Allegations              []Allegation `json:"allegations"`
	ToneSignals              ToneSignals  `json:"tone_signals"`
	OverallPolarity          string       `json:"overall_polarity"`
	RiskScore                float64      `json:"risk_score"`
	RiskCategory             string       `json:"risk_category"`
	RelatedEntitiesMentioned []string     `json:"related_entities_mentioned"`
	Rationale                string       `json:"rationale"`
	RequiresManualReview     bool         `json:"requires_manual_review"`
}

// SentimentResult groups the assessments of one batch.
type SentimentResult struct {
	Assessments []SentimentAssessment `json:"assessments"`
	Metadata    AnalyserMetadata      `json:"metadata"`
}

// MaxRisk returns the highest risk score in the batch.
func (r SentimentResult) MaxRisk() float64 {
	var highest float64
	for _, a := range r.Assessments {
		if a.RiskScore > highest {
			highest = a.RiskScore
		}
	}
	return highest
}
