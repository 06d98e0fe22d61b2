package model

import "time"

// MergeRecord is one row of the github_pr_merge table: a pull request merged
// into a trunk branch. Summary and FilePath stay nil when the enrichment is
// unavailable; the row is written with explicit nulls.
type MergeRecord struct {
	PRNumber  int       `json:"pr_number"`
	Title     string    `json:"title"`
	Creator   string    `json:"creator"`
	CreatedAt time.Time `json:"created_at"` // always UTC
	HTMLURL   string    `json:"html_url"`
	RepoOwner string    `json:"repo_owner"`
	RepoName  string    `json:"repo_name"`
	Summary   *string   `json:"summary"`
	FilePath  *string   `json:"file_path"` // legacy: archived payload path
}

// ModelChangeRecord is one row of the dbt_model_changes table: a tracked dbt
// model file touched by a merged pull request.
type ModelChangeRecord struct {
	ModelName   string    `json:"dbt_model_name"`
	PRHTMLURL   string    `json:"pr_html_url"`
	AISummary   *string   `json:"ai_summary"`
	PRCreatedAt time.Time `json:"pr_created_at"`
	PRCreator   string    `json:"pr_creator"`
}
