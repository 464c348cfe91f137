package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"

	"timetracker/internal/shared/contextutil"
)

// StdoutAuditLogger writes audit events to the process log. Deployments
// that ship audit trails elsewhere swap in their own AuditLogger.
type StdoutAuditLogger struct {
	logger *zap.Logger
}

func NewStdoutAuditLogger(logger ...*zap.Logger) *StdoutAuditLogger {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &StdoutAuditLogger{logger: l}
}

// Log stamps each entry with the acting principal and request taken
// from the context, so audit lines answer who did what.
func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	l.logger.Info("audit event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("actor_id", contextutil.GetUserID(ctx)),
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}
