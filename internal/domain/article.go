package domain

import (
	"math"
	"time"
)

// Article is the fetched news item being screened. It is never persisted on its own.
type Article struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ModelInfo identifies the LLM backend that produced an analysis.
type ModelInfo struct {
	Provider string
	Model    string
}

// AnalyserMetadata is attached to every analysis stage result for audit purposes.
type AnalyserMetadata struct {
	ProcessedAt           string  `json:"processed_at"`
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
	LLMProvider           string  `json:"llm_provider,omitempty"`
	LLMModel              string  `json:"llm_model,omitempty"`
	AnalyserVersion       string  `json:"analyser_version,omitempty"`
	PromptVersion         string  `json:"prompt_version,omitempty"`
}

// NewAnalyserMetadata stamps a stage run that started at started and finished at finished.
func NewAnalyserMetadata(info ModelInfo, analyserVersion, promptVersion string, started, finished time.Time) AnalyserMetadata {
	elapsed := finished.Sub(started).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}

	return AnalyserMetadata{
		ProcessedAt:           finished.UTC().Format(time.RFC3339Nano),
		ProcessingTimeSeconds: math.Round(elapsed*100) / 100,
		LLMProvider:           info.Provider,
		LLMModel:              info.Model,
		AnalyserVersion:       analyserVersion,
		PromptVersion:         promptVersion,
	}
}
