// Package slog provides logging decorators for the pressroom service
// interfaces. Each decorator logs one line per call with the call's
// duration and error.
package slog
