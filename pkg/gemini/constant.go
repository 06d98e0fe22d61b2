package gemini

const (
	// DefaultModel is the default Gemini model for summarization.
	DefaultModel = "gemini-1.5-flash"

	// Generation settings for short, focused summaries.
	summaryTemperature     = 0.7
	summaryMaxOutputTokens = 100
)
