package storage

import "AdverseScreener/internal/domain"

func sampleResult(person, title string) domain.ScreeningResult {
	year := 1975
	gap := 2
	match := domain.PersonMatch{
		EntityID:   "entity-1",
		EntityName: "Robert Smith",
		Decision:   domain.DecisionProbableMatch,
		Confidence: 0.78,
		Signals: domain.MatchSignals{
			Name: domain.NameSignals{
				ExactMatch:         domain.SignalMatch,
				FuzzySimilarity:    1,
				NicknameMatch:      domain.SignalUnknown,
				PartialMatch:       domain.SignalMatch,
				TitleStrippedMatch: domain.SignalUnknown,
			},
			Demographics: domain.DemographicSignals{
				DOBExactMatch:       domain.SignalUnknown,
				BirthYearMatch:      domain.SignalNoMatch,
				AgeDiscrepancyYears: &gap,
			},
		},
		Reasoning:        "Exact name, birth years two apart.",
		EvidenceForMatch: []string{"same full name"},
		IsPrimaryMatch:   true,
	}
	primary := match

	return domain.ScreeningResult{
		Article: domain.Article{URL: "https://news.example/" + title, Title: title, Content: "Robert Smith was charged with fraud."},
		ArticleCredibility: &domain.CredibilityResult{
			Assessment: domain.CredibilityAssessment{
				Signals:          credibilitySignals(),
				CredibilityScore: 0.81,
				Recommendation:   domain.RecommendationReliable,
				Rationale:        "Court documents cited.",
				KeyStrengths:     []string{"named sources"},
			},
			Metadata: domain.AnalyserMetadata{ProcessedAt: "2026-01-02T03:04:05Z", ProcessingTimeSeconds: 1.25, LLMProvider: "openai", LLMModel: "gpt-4o", AnalyserVersion: "0.1.0", PromptVersion: "0.1.0"},
		},
		QueryPerson: domain.QueryPerson{
			Name:              person,
			DateOfBirth:       "1977-03-01",
			NormalisedName:    person,
			PossibleNicknames: []string{"bob", "robert"},
			BirthYear:         &year,
		},
		Entities: []domain.Entity{{
			ID:                   "entity-1",
			Name:                 "Robert Smith",
			Aliases:              []string{"Smith"},
			BirthYear:            "1975",
			Employments:          []domain.EmploymentRecord{{Role: "CEO", Organization: "Acme", EvidenceQuote: "Acme chief executive Robert Smith"}},
			MentionSentences:     []string{"Robert Smith was charged with fraud."},
			MentionCount:         1,
			ExtractionConfidence: 0.95,
		}},
		Matching: domain.MatchingResult{
			QueryPerson:      domain.QueryPerson{Name: person},
			EntitiesAnalysed: []string{"entity-1"},
			Matches:          []domain.PersonMatch{match},
			HasAnyMatch:      true,
			PrimaryMatch:     &primary,
			Summary:          domain.MatchSummary([]domain.PersonMatch{match}, person),
		},
		Sentiment: &domain.SentimentResult{
			Assessments: []domain.SentimentAssessment{{
				EntityID:   "entity-1",
				EntityName: "Robert Smith",
				Allegations: []domain.Allegation{{
					Category:      "fraud",
					Description:   "Charged with fraud",
					Status:        "charged",
					Severity:      "high",
					EvidenceSpans: []domain.EvidenceSpan{{Quote: "Robert Smith was charged with fraud."}},
				}},
				ToneSignals:     domain.ToneSignals{CertaintyLevel: "alleged", HedgingLanguage: true, AttributionQuality: "strong"},
				OverallPolarity: domain.PolarityAdverse,
				RiskScore:       0.8,
				RiskCategory:    domain.RiskHigh,
				Rationale:       "Criminal charge.",
			}},
		},
	}
}

// credibilitySignals sets every signal; an empty signal decodes as "unsure".
func credibilitySignals() domain.CredibilitySignals {
	yes, no := domain.CredibilityYes, domain.CredibilityNo
	return domain.CredibilitySignals{
		HasAttribution:               yes,
		HasMultipleSources:           yes,
		DistinguishesFactAllegation:  yes,
		HasNamedQuotes:               no,
		HasBalancedCoverage:          yes,
		IsInternallyConsistent:       yes,
		HasTechnicalDetail:           yes,
		UsesHedgingLanguage:          yes,
		HasSensationalLanguage:       no,
		HasExcessiveAnonymousSources: no,
		LacksSubstantiatingDetail:    no,
		HasPoorGrammar:               no,
		HasConspiratorialFraming:     no,
		HasVagueInstitutions:         no,
		HasMetaClaims:                no,
		HasEmotionalTone:             domain.CredibilityUnsure,
	}
}
