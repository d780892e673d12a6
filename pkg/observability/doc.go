// Package observability provides structured logging for the generation
// pipeline.
//
// The Logger wraps log/slog with a JSON handler so that build logs can be
// collected and filtered by CI systems. Generation runs are correlated via a
// run ID carried on the context.
package observability
