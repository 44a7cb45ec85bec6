// Package notify carries user-facing notifications out of the mutation
// path. The store layer emits one notification per mutating operation;
// what happens to it (toast, log line, test capture) is the sink's call.
package notify

import "rentbook/internal/log"

// Severity classifies a notification for presentation.
type Severity string

const (
	Success Severity = "success"
	Info    Severity = "info"
	Error   Severity = "error"
)

// Notifier receives user-facing messages emitted by mutating operations.
type Notifier interface {
	Notify(message string, severity Severity)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.WithComponent(log.ComponentNotify)}
}

func (n *LogNotifier) Notify(message string, severity Severity) {
	switch severity {
	case Error:
		n.logger.Error(message, log.FieldSeverity, string(severity))
	default:
		n.logger.Info(message, log.FieldSeverity, string(severity))
	}
}

// Nop discards all notifications.
type Nop struct{}

func (Nop) Notify(string, Severity) {}
