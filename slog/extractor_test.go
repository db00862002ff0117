package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/pressroom"
	"github.com/fwojciec/pressroom/mock"
	psslog "github.com/fwojciec/pressroom/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs start and success", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.ContentExtractor{
			ExtractFn: func(ctx context.Context, url string, opts pressroom.ParsingOptions) (*pressroom.ExtractedContent, error) {
				return &pressroom.ExtractedContent{Title: "Chip", Content: "Body text", Language: "en", Source: "example.com", Strategy: "goquery"}, nil
			},
		}

		e := psslog.NewLoggingExtractor(inner, logger)
		got, err := e.Extract(context.Background(), "https://example.com/a", pressroom.ParsingOptions{AllowReaderFallback: true})

		require.NoError(t, err)
		assert.Equal(t, "Body text", got.Content)
		output := buf.String()
		assert.Contains(t, output, "extract start")
		assert.Contains(t, output, "reader_fallback=true")
		assert.Contains(t, output, "extract success")
		assert.Contains(t, output, "title=Chip")
		assert.Contains(t, output, "source=example.com")
		assert.Contains(t, output, "strategy=goquery")
		assert.Contains(t, output, "chars=9")
		assert.Contains(t, output, "language=en")
	})

	t.Run("logs failure with code at warn level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ContentExtractor{
			ExtractFn: func(ctx context.Context, url string, opts pressroom.ParsingOptions) (*pressroom.ExtractedContent, error) {
				return nil, pressroom.Errorf(pressroom.ETIMEOUT, "fetch timed out")
			},
		}

		e := psslog.NewLoggingExtractor(inner, logger)
		_, err := e.Extract(context.Background(), "https://example.com/a", pressroom.ParsingOptions{})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "extract failure")
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "code=timeout")
		assert.NotContains(t, output, "extract start")
	})
}

func TestLoggingReader_Read(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Reader{
		ReadFn: func(ctx context.Context, url string) (*pressroom.ExtractedContent, error) {
			return &pressroom.ExtractedContent{Content: "Привет"}, nil
		},
	}

	r := psslog.NewLoggingReader(inner, logger)
	_, err := r.Read(context.Background(), "https://example.com/a")

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "reader fallback")
	assert.Contains(t, output, "chars=6")
}
