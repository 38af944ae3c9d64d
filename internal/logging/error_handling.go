package logging

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
)

// SafeCloseWithLogging closes a resource and logs any errors that occur
func SafeCloseWithLogging(closer io.Closer, logger *slog.Logger, operation string) {
	if closer == nil {
		return
	}

	if err := closer.Close(); err != nil {
		LogError(logger, "failed to close resource", err,
			slog.String("operation", operation),
			slog.String("component", "resource_management"))
	}
}

// SafeRollbackWithLogging rolls back a transaction and logs any errors that occur.
// "Already committed" errors are expected when the rollback is deferred.
func SafeRollbackWithLogging(tx interface{ Rollback() error }, logger *slog.Logger, operation string) {
	if tx == nil {
		return
	}

	if err := tx.Rollback(); err != nil {
		if err.Error() == "sql: transaction has already been committed or rolled back" {
			return
		}

		LogError(logger, "failed to rollback transaction", err,
			slog.String("operation", operation),
			slog.String("component", "database"))
	}
}

// RecoverAndLog turns a panic in a background task into an error log entry.
// It must be deferred directly. It reports whether a panic was recovered.
func RecoverAndLog(logger *slog.Logger, operation string, recovered *bool) {
	r := recover()
	if r == nil {
		return
	}
	if recovered != nil {
		*recovered = true
	}

	LogError(logger, "recovered from panic", fmt.Errorf("%v", r),
		slog.String("operation", operation),
		slog.String("stack", string(debug.Stack())))
}
