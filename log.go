package ldbc

import "github.com/sirupsen/logrus"

// LogrusHandler is the default, swappable LogHandler implementation,
// rendering each LogEvent as a structured logrus entry the way
// stdpool.OpenMySQLAsTarget reports connection-lifecycle events
// (log.WithError(err).Info/Warn, field-structured rather than
// string-formatted). The interpreter itself only depends on the
// LogHandler capability interface in capability.go; this type is wired in
// at the edge by whoever constructs a Connection.
type LogrusHandler struct {
	Logger *logrus.Logger
}

// NewLogrusHandler wraps logger, or logrus.StandardLogger() if nil.
func NewLogrusHandler(logger *logrus.Logger) LogrusHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return LogrusHandler{Logger: logger}
}

func (h LogrusHandler) Log(event LogEvent) {
	entry := h.Logger.WithFields(logrus.Fields{
		"sql":    event.SQL,
		"params": event.Params,
	})
	switch event.Kind {
	case LogSuccess:
		entry.Debug("statement executed")
	case LogExecFailure:
		entry.WithError(event.Cause).Warn("statement execution failed")
	case LogProcessingFailure:
		entry.WithError(event.Cause).Warn("statement result processing failed")
	}
}
