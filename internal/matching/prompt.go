package matching

import "AdverseScreener/internal/oracle"

const (
	PromptVersion   = "0.1.4"
	AnalyserVersion = "0.1.0"
)

// Request compares the query person with one extracted entity.
type Request struct {
	QueryName           string
	QueryNormalisedName string
	QueryNicknames      string
	QueryDOB            string
	QueryBirthYear      string
	EntityName          string
	EntityAliases       string
	EntityBirthYear     string
	EntityDOB           string
}

const systemPrompt = `You are an identity resolution analyst for adverse media screening.
Missing a true match is far worse than flagging a false one. Reply with one JSON object and nothing else.`

const userPrompt = `Decide whether the QUERY PERSON and the ARTICLE ENTITY are the same individual.

QUERY PERSON
- Name: {{.QueryName}}
- Normalised name: {{.QueryNormalisedName}}
- Possible nicknames: {{.QueryNicknames}}
- Date of birth: {{.QueryDOB}}
- Birth year: {{.QueryBirthYear}}

ARTICLE ENTITY
- Name: {{.EntityName}}
- Aliases: {{.EntityAliases}}
- Birth year: {{.EntityBirthYear}}
- Date of birth: {{.EntityDOB}}

1. Name signals ("name" object), each "match", "no_match" or "unknown" except fuzzy_similarity (0 to 1):
   exact_match, fuzzy_similarity, nickname_match (Bob/Robert), partial_match (first or last only),
   title_stripped_match (ignoring Dr., Mr., Sir, Prof.).
2. Demographic signals ("demographics" object), explicit data only:
   dob_exact_match, birth_year_match, age_discrepancy_years (integer when both birth years are known, else null).
   If only one side has a birth year the signal is "unknown".

Decisions and confidence:
- definite_match (0.85-1.0): name matches and DOB or birth year matches exactly
- probable_match (0.70-0.84): exact name with no DOB data, or birth years within 2 years
- possible_match (0.40-0.69): partial or fuzzy name match with no contradictions
- uncertain (0.20-0.39): name matches but birth years differ by 3-5 years
- no_match (0.0-0.19): name clearly different or birth years differ by more than 5

Middle names and initials may differ. When in doubt prefer "uncertain" or "possible_match".

Output schema:
{"decision": "", "confidence": 0.0,
 "name": {"exact_match": "", "fuzzy_similarity": 0.0, "nickname_match": "", "partial_match": "", "title_stripped_match": ""},
 "demographics": {"dob_exact_match": "", "birth_year_match": "", "age_discrepancy_years": null},
 "reasoning": "", "evidence_for_match": [], "evidence_against_match": []}
`

var prompt = oracle.NewPrompt[Request]("matching", PromptVersion, systemPrompt, userPrompt)

// Prompt exposes the prompt so callers can bind it to an oracle backend.
func Prompt() oracle.Prompt[Request] {
	return prompt
}
