package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/econ-calendar-service/internal/domain"
)

// Result carries the unfiltered extraction alongside the filtered events.
type Result struct {
	domain.Extraction
	Filtered []domain.Event
}

// CalendarTransformer implements Transformer using the domain extractor and its filter.
type CalendarTransformer struct {
	extractor *domain.Extractor
	logger    *slog.Logger
}

// NewTransformer creates a CalendarTransformer around extractor.
func NewTransformer(extractor *domain.Extractor, logger *slog.Logger) *CalendarTransformer {
	return &CalendarTransformer{
		extractor: extractor,
		logger:    logger,
	}
}

func (t *CalendarTransformer) Transform(_ context.Context, markup string) (Result, error) {
	extraction, err := t.extractor.ExtractAll(markup)
	if err != nil {
		return Result{}, err
	}

	filtered := t.extractor.Filter().Apply(extraction.Events)
	t.logger.Debug("calendar transformed",
		"rows", extraction.Rows,
		"events", len(extraction.Events),
		"dropped", extraction.Dropped,
		"failed", extraction.Failed,
		"filtered", len(filtered),
	)

	return Result{Extraction: extraction, Filtered: filtered}, nil
}
