package domain

// EmploymentRecord ties a role to the organisation and place it was held at.
type EmploymentRecord struct {
	Role          string `json:"role"`
	Organization  string `json:"organization,omitempty"`
	Location      string `json:"location,omitempty"`
	Timeframe     string `json:"timeframe,omitempty"`
	EvidenceQuote string `json:"evidence_quote"`
}

// EntityRelationship links an entity to another person named in the article.
type EntityRelationship struct {
	RelatedEntityName string `json:"related_entity_name"`
	RelationshipType  string `json:"relationship_type"`
	Description       string `json:"description"`
	EvidenceQuote     string `json:"evidence_quote"`
}

// ExtractedAllegation is an allegation as captured at extraction time.
type ExtractedAllegation struct {
	Category        string `json:"category"`
	Description     string `json:"description"`
	Status          string `json:"status"`
	Amount          string `json:"amount,omitempty"`
	Timeframe       string `json:"timeframe,omitempty"`
	Jurisdiction    string `json:"jurisdiction,omitempty"`
	EvidenceQuote   string `json:"evidence_quote"`
	SubjectResponse string `json:"subject_response,omitempty"`
}

// Entity is a person mentioned in an article. ID is assigned at extraction and stays
// stable for the lifetime of the screening result.
type Entity struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name"`
	Aliases              []string              `json:"aliases"`
	Age                  string                `json:"age,omitempty"`
	BirthYear            string                `json:"birth_year,omitempty"`
	DateOfBirth          string                `json:"date_of_birth,omitempty"`
	Employments          []EmploymentRecord    `json:"employments"`
	Locations            []string              `json:"locations"`
	Allegations          []ExtractedAllegation `json:"allegations"`
	OverallResponse      string                `json:"overall_response,omitempty"`
	Relationships        []EntityRelationship  `json:"relationships"`
	MentionSentences     []string              `json:"mention_sentences"`
	MentionCount         int                   `json:"mention_count"`
	ExtractionConfidence float64               `json:"extraction_confidence"`
	Roles                []string              `json:"roles"`
	Organization         []string              `json:"organization"`
}

// ExtractionResult is the output of entity extraction for one article.
type ExtractionResult struct {
	Entities []Entity         `json:"entities"`
	Metadata AnalyserMetadata `json:"metadata"`
}

// EntityByID looks up an extracted entity.
func (r ExtractionResult) EntityByID(id string) (Entity, bool) {
	for _, e := range r.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return Entity{}, false
}

// EntityIDs lists entity ids in extraction order.
func (r ExtractionResult) EntityIDs() []string {
	ids := make([]string, 0, len(r.Entities))
	for _, e := range r.Entities {
		ids = append(ids, e.ID)
	}
	return ids
}
