package gemini

import "fmt"

// SummarySystemInstruction frames the model as a release-notes writer.
const SummarySystemInstruction = "You are a technical writer who creates concise PR summaries for release notes."

// BuildPRSummaryPrompt builds the user prompt for a pull-request summary.
// When req.FilePath is set the model is asked about that file's change.
func BuildPRSummaryPrompt(req SummaryRequest) string {
	if req.FilePath != "" {
		return fmt.Sprintf(`Generate a 1-2 line summary of how this pull request changes the file %s. Focus on the main changes and impact.

Title: %s
Description: %s

Respond with ONLY the summary, no additional text or formatting.`, req.FilePath, req.Title, req.Description)
	}

	return fmt.Sprintf(`Generate a 1-2 line summary of this pull request. Focus on the main changes and impact.

Title: %s
Description: %s

Respond with ONLY the summary, no additional text or formatting.`, req.Title, req.Description)
}
