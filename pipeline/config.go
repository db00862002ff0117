package pipeline

import (
	"time"

	"github.com/fwojciec/pressroom"
)

// DefaultJobTimeout bounds a job's processing once it starts running.
const DefaultJobTimeout = 180 * time.Second

// DefaultEventBuffer is the subscriber channel size used when Subscribe is
// called with a non-positive buffer.
const DefaultEventBuffer = 64

// Config controls job execution.
type Config struct {
	// JobTimeout bounds a job from the moment it starts running. Time spent
	// waiting for a concurrency slot is not counted.
	JobTimeout time.Duration

	// MaxConcurrentJobs caps the jobs running at once. Zero means no cap.
	MaxConcurrentJobs int64

	// TargetLanguages lists the languages each article is translated into.
	// The article's own language is skipped.
	TargetLanguages []string

	// ParsingOptions is passed to the extractor for URL submissions.
	ParsingOptions pressroom.ParsingOptions

	// EventBuffer is the default subscriber channel size.
	EventBuffer int
}

// DefaultConfig returns the default job configuration.
func DefaultConfig() Config {
	return Config{
		JobTimeout:     DefaultJobTimeout,
		ParsingOptions: pressroom.DefaultParsingOptions(),
		EventBuffer:    DefaultEventBuffer,
	}
}

// Job progress reported at each stage.
const (
	progressParsing     = 10
	progressExtracted   = 40
	progressReviewing   = 50
	progressReviewed    = 70
	progressTranslating = 75
	progressTranslated  = 88
	progressImages      = 90
	progressReady       = 100
)
