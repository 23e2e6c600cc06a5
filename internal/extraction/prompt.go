package extraction

import "AdverseScreener/internal/oracle"

const (
	PromptVersion   = "0.2.0"
	AnalyserVersion = "0.2.0"
)

// Request is the data the extraction prompt is rendered from.
type Request struct {
	Title       string
	URL         string
	ArticleText string
}

const systemPrompt = `You are an expert at extracting information about people from news articles for compliance screening.
Extract every distinct natural person mentioned. Never invent facts that are not in the text.
Reply with one JSON object and nothing else.`

const userPrompt = `For each person mentioned in the article extract:
- name: the fullest form of the name used in the article
- aliases: other forms of the name used (surname only, nicknames, titles)
- age, birth_year, date_of_birth: only when stated or directly derivable
- employments: role, organization, location, timeframe and the evidence_quote supporting it
- locations: places the person is associated with
- allegations: category, description, status, amount, timeframe, jurisdiction, evidence_quote, subject_response
- overall_response: the person's response to the allegations, if any
- relationships: related_entity_name, relationship_type, description, evidence_quote
- mention_sentences: every sentence that mentions the person, copied verbatim
- extraction_confidence: 0.0 to 1.0, how sure you are this is a distinct real person
- roles, organization: short lists for quick reference

Merge mentions that clearly refer to the same person. Leave unknown scalar fields empty and unknown lists as [].

Output schema:
{"entities": [{"name": "", "aliases": [], "age": "", "birth_year": "", "date_of_birth": "",
  "employments": [], "locations": [], "allegations": [], "overall_response": "", "relationships": [],
  "mention_sentences": [], "extraction_confidence": 1.0, "roles": [], "organization": []}]}

Article title: {{.Title}}
Article URL: {{.URL}}
Article text:
{{.ArticleText}}
`

var prompt = oracle.NewPrompt[Request]("extraction", PromptVersion, systemPrompt, userPrompt)

// Prompt exposes the prompt so callers can bind it to an oracle backend.
func Prompt() oracle.Prompt[Request] {
	return prompt
}
