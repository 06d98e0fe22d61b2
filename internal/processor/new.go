package processor

import (
	"dbt-change-tracker/internal/record/repository"
	"dbt-change-tracker/pkg/gemini"
	"dbt-change-tracker/pkg/githubapi"
	pkgLog "dbt-change-tracker/pkg/log"
)

// Config is the processing policy, fixed at startup.
type Config struct {
	ModelDir         string // tracked path prefix, e.g. "models/"
	ModelExt         string // tracked extension, e.g. ".sql"
	PerFileSummaries bool   // one summary per tracked file instead of one per PR
}

func New(
	lister githubapi.IClient,
	summarizer gemini.ISummarizer,
	recordRepo repository.RecordRepository,
	cfg Config,
	l pkgLog.Logger,
) UseCase {
	return &usecase{
		lister:     lister,
		summarizer: summarizer,
		recordRepo: recordRepo,
		cfg:        cfg,
		l:          l,
	}
}
