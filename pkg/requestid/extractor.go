package requestid

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/sessionguard/pkg/logger"
)

// LoggerExtractor adds request_id to log records written with a request
// context.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id := FromContext(ctx)
		return logger.RequestID(id), id != ""
	}
}
