package webhook

import (
	"dbt-change-tracker/internal/processor"
	pkgLog "dbt-change-tracker/pkg/log"
)

type Handler struct {
	processorUC  processor.UseCase
	security     *SecurityValidator
	githubParser *GitHubWebhookParser
	archive      ArchiveConfig
	l            pkgLog.Logger
}

func NewHandler(
	processorUC processor.UseCase,
	securityConfig SecurityConfig,
	archiveConfig ArchiveConfig,
	l pkgLog.Logger,
) *Handler {
	return &Handler{
		processorUC:  processorUC,
		security:     NewSecurityValidator(securityConfig),
		githubParser: NewGitHubParser(),
		archive:      archiveConfig,
		l:            l,
	}
}
