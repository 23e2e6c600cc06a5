package domain

const (
	// SchemaVersion tags results with the application version whose ScreeningResult shape wrote them.
	// Bump it whenever that shape changes.
	SchemaVersion = "1.0.0"
	// IndexVersion is the format version of the index document itself.
	IndexVersion = "1.0.0"

	maxTitleLength = 50
)

// ResultMetadata summarises a stored result for listing without loading the payload.
type ResultMetadata struct {
	ID            string `json:"id"`
	DisplayName   string `json:"display_name"`
	PersonName    string `json:"person_name"`
	ArticleURL    string `json:"article_url"`
	ArticleTitle  string `json:"article_title"`
	CreatedAt     string `json:"created_at"`
	SchemaVersion string `json:"schema_version"`
}

// ResultIndex is the persisted list of every stored result.
type ResultIndex struct {
	Version string           `json:"version"`
	Results []ResultMetadata `json:"results"`
}

// DisplayName renders "Person - Title" with long titles truncated.
func DisplayName(personName, articleTitle string) string {
	return personName + " - " + TruncateTitle(articleTitle, maxTitleLength)
}

// TruncateTitle shortens title to maxLen runes, ending in "..." when cut.
func TruncateTitle(title string, maxLen int) string {
	runes := []rune(title)
	if len(runes) <= maxLen {
		return title
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
