package fold

import (
	"time"

	"go.uber.org/zap"
)

// Logger wraps zap.Logger with command level structured logging.
type Logger struct {
	logger *zap.Logger
}

// NewLogger creates a new Logger. If logger is nil, uses a no-op logger.
func NewLogger(logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{logger: logger.Named("fold")}
}

// CommandPlanned logs the directives a command is about to issue.
func (l *Logger) CommandPlanned(command string, line int, directives int) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Debug("command planned",
		zap.String("command", command),
		zap.Int("line", line),
		zap.Int("directives", directives),
	)
}

// CommandCompleted logs a command whose directives all settled.
func (l *Logger) CommandCompleted(command string, directives int, duration time.Duration) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Info("command completed",
		zap.String("command", command),
		zap.Int("directives", directives),
		zap.Duration("duration", duration),
	)
}

// CommandFailed logs a command aborted by an error.
func (l *Logger) CommandFailed(command string, err error) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Warn("command failed",
		zap.String("command", command),
		zap.Error(err),
	)
}
