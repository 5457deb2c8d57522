// Package logger provides a structured logging facility based on Zap.
//
// The level and encoding come from configuration. The "auto" format writes
// colored console output when stderr is a terminal and JSON otherwise, so the
// same binary logs readably in a shell and machine-parseably under a supervisor.
//
// WithRayID attaches the request's ray id from a Fiber context so that all log
// lines of one API request can be correlated.
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Sync started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Lookup failed", zap.Error(err))
package logger
