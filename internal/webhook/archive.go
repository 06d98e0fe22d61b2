package webhook

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const payloadFileMode = 0o644

// archivePayload writes the raw webhook body to disk for later replay and
// returns the file path. Archiving is best effort; a write failure is logged
// and processing continues without a recorded path.
func (h *Handler) archivePayload(ctx context.Context, body []byte) string {
	if !h.archive.Enabled {
		return ""
	}

	if err := os.MkdirAll(h.archive.Dir, 0o755); err != nil {
		h.l.Warnf(ctx, "Failed to create payload dir %s: %v", h.archive.Dir, err)
		return ""
	}

	name := fmt.Sprintf("webhook_payload_%s.json", time.Now().UTC().Format("20060102T150405.000000000Z"))
	path := filepath.Join(h.archive.Dir, name)

	if err := os.WriteFile(path, body, payloadFileMode); err != nil {
		h.l.Warnf(ctx, "Failed to archive payload to %s: %v", path, err)
		return ""
	}

	h.l.Debugf(ctx, "Archived webhook payload to %s", path)
	return path
}
