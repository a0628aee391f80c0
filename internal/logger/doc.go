// Package logger provides structured JSON logging and in-process metrics for
// the box score pipeline.
//
// Every log line is a single JSON object with a timestamp, level, message,
// optional fields and optional error. Child loggers created with With carry
// fields such as the component name or game id into every entry they write.
//
// Metrics are counters, gauges and timings kept in memory for the life of
// the process. The CLI and the HTTP server report a snapshot of them; the
// metric names used by the pipeline are declared as constants here.
//
// Example usage:
//
//	log := logger.With(logger.Fields{"component": "pipeline"})
//	log.Info("analyzed box score", logger.Fields{
//	    "game_id": id,
//	    "achievements": len(messages),
//	})
//
//	logger.IncrCounter(logger.MetricGamesAnalyzed)
//	defer logger.Time(logger.MetricAnalyze)()
package logger
