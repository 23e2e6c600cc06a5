package sentiment

import (
	"strings"

	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/oracle"
)

const (
	PromptVersion   = "0.1.1"
	AnalyserVersion = "0.1.0"
)

const noMentions = "No specific mentions extracted"

// Request carries one entity's context plus the full article for disambiguation.
type Request struct {
	Name                 string
	Aliases              []string
	Employments          []domain.EmploymentRecord
	Relationships        []domain.EntityRelationship
	MentionSentencesText string
	FullArticle          string
}

func newRequest(entity domain.Entity, article domain.Article) Request {
	mentions := noMentions
	if len(entity.MentionSentences) > 0 {
		mentions = strings.Join(entity.MentionSentences, "\n")
	}
	return Request{
		Name:                 entity.Name,
		Aliases:              entity.Aliases,
		Employments:          entity.Employments,
		Relationships:        entity.Relationships,
		MentionSentencesText: mentions,
		FullArticle:          article.Content,
	}
}

const systemPrompt = `You are an adverse media analyst supporting regulatory compliance screening.
Separate what is stated as fact from what is alleged, and never attribute to the subject what the
article says about someone else. Reply with one JSON object and nothing else.`

const userPrompt = `Assess the adverse content the article carries about this person.

PERSON
- Name: {{.Name}}
- Aliases: {{if .Aliases}}{{join .Aliases ", "}}{{else}}None{{end}}
- Employments:{{range .Employments}}
  - {{.Role}}{{if .Organization}} at {{.Organization}}{{end}}{{if .Timeframe}} ({{.Timeframe}}){{end}}{{else}} None{{end}}
- Relationships:{{range .Relationships}}
  - {{.RelationshipType}} of {{.RelatedEntityName}}{{if .Description}}: {{.Description}}{{end}}{{else}} None{{end}}

SENTENCES MENTIONING THE PERSON
{{.MentionSentencesText}}

Return:
- allegations: one per distinct claim with category (financial_crime, fraud, corruption, sanctions,
  regulatory, violent_crime, other), description, status (alleged, charged, convicted, acquitted,
  settled, dismissed), severity (high, medium, low), monetary_amount, timeframe, jurisdiction,
  evidence_spans ([{"quote": "..."}], verbatim) and subject_response
- tone_signals: certainty_level (stated_as_fact, alleged, speculative), hedging_language,
  attribution_quality (strong, moderate, weak), temporal_context, subject_denial, contradictory_evidence
- overall_polarity: adverse, neutral or positive
- risk_score: 0.0 to 1.0
- risk_category: high_risk, medium_risk, low_risk or no_adverse_content
- related_entities_mentioned, rationale, requires_manual_review

Output schema:
{"allegations": [], "tone_signals": {}, "overall_polarity": "", "risk_score": 0.0, "risk_category": "",
 "related_entities_mentioned": [], "rationale": "", "requires_manual_review": false}

FULL ARTICLE
{{.FullArticle}}
`

var prompt = oracle.NewPrompt[Request]("sentiment", PromptVersion, systemPrompt, userPrompt)

// Prompt exposes the prompt so callers can bind it to an oracle backend.
func Prompt() oracle.Prompt[Request] {
	return prompt
}
