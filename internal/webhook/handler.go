package webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"dbt-change-tracker/internal/processor"
	pkgResponse "dbt-change-tracker/pkg/response"
)

// HandleGitHubWebhook processes GitHub webhook events. Processing is
// synchronous so the delivery response carries the real outcome; GitHub
// re-delivers on non-2xx, which is the only retry mechanism in play.
func (h *Handler) HandleGitHubWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	// Read body
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.l.Errorf(ctx, "Failed to read webhook body: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	// Verify signature
	signature := c.GetHeader("X-Hub-Signature-256")
	if err := h.security.ValidateGitHubSignature(body, signature); err != nil {
		h.l.Errorf(ctx, "GitHub signature verification failed: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	// Check IP whitelist
	if err := h.security.ValidateIPAddress(c.Request); err != nil {
		h.l.Errorf(ctx, "GitHub webhook IP rejected: %v", err)
		c.JSON(http.StatusForbidden, gin.H{"error": "source not allowed"})
		return
	}

	// Check rate limit
	if err := h.security.CheckRateLimit("github"); err != nil {
		h.l.Warnf(ctx, "Rate limit exceeded: %v", err)
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	// Only pull_request events carry merge information
	eventType := c.GetHeader("X-GitHub-Event")
	if eventType != "pull_request" {
		h.l.Infof(ctx, "Unsupported GitHub event type: %s", eventType)
		pkgResponse.OK(c, gin.H{"status": "ignored", "reason": "unsupported event type"})
		return
	}

	// Parse event
	event, err := h.githubParser.ParsePullRequestEvent(body)
	if err != nil {
		h.l.Errorf(ctx, "Failed to parse GitHub event: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	event.PayloadPath = h.archivePayload(ctx, body)

	output, err := h.processorUC.ProcessEvent(ctx, processor.ProcessEventInput{Event: *event})
	if err != nil {
		var malformed *processor.MalformedEventError
		if errors.As(err, &malformed) {
			pkgResponse.Error(c, err, nil)
			return
		}
		h.l.Errorf(ctx, "Webhook processing failed: %v", err)
		pkgResponse.InternalError(c)
		return
	}

	h.l.Infof(ctx, "Webhook processed: %s", output.Message)
	pkgResponse.OK(c, gin.H{
		"status":      string(output.Outcome),
		"reason":      output.Reason,
		"persisted":   output.Persisted,
		"warnings":    output.Warnings,
		"model_count": len(output.ModelChanges),
		"message":     output.Message,
	})
}
