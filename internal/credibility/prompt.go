package credibility

import "AdverseScreener/internal/oracle"

const (
	PromptVersion   = "0.1.0"
	AnalyserVersion = "0.1.0"
)

// Request is the data the credibility prompt is rendered from.
type Request struct {
	Title   string
	URL     string
	Content string
}

const systemPrompt = `You are a credibility assessment expert analysing news articles for regulatory compliance.
Assess journalistic quality, not political stance. Reply with one JSON object and nothing else.`

const userPrompt = `For EACH signal answer "yes", "no" or "unsure".

Positive signals:
- has_attribution: named sources such as court documents, regulators or named officials
- has_multiple_sources: serious claims backed by more than one independent source
- distinguishes_fact_allegation: allegations are clearly marked as such
- has_named_quotes: direct quotes attributed to named persons or institutions
- has_balanced_coverage: subject responses, defences or contrary views are included
- is_internally_consistent: no contradictions, timeline errors or logical gaps
- has_technical_detail: specific dates, amounts, jurisdictions or legal references
- uses_hedging_language: "allegedly", "reportedly" used where uncertainty exists

Negative signals:
- has_sensational_language, has_excessive_anonymous_sources, lacks_substantiating_detail,
  has_poor_grammar, has_conspiratorial_framing, has_vague_institutions, has_meta_claims,
  has_emotional_tone

Then provide credibility_score (0.0 unreliable to 1.0 highly credible), recommendation
("reliable", "requires_verification" or "unreliable"), rationale, key_strengths, key_weaknesses
and hard_red_flags. Any hard red flag forces "requires_verification".

Output schema:
{"signals": {"<signal>": "yes|no|unsure", ...}, "credibility_score": 0.0, "recommendation": "",
 "rationale": "", "key_strengths": [], "key_weaknesses": [], "hard_red_flags": []}

Article title: {{.Title}}
Article URL: {{.URL}}
Article text:
{{.Content}}
`

var prompt = oracle.NewPrompt[Request]("credibility", PromptVersion, systemPrompt, userPrompt)

// Prompt exposes the prompt so callers can bind it to an oracle backend.
func Prompt() oracle.Prompt[Request] {
	return prompt
}
