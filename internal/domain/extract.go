package domain

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// tagRe matches the start of any element, comment, doctype or end tag.
// Input without one is plain text and is rejected rather than parsed into an
// empty document.
var tagRe = regexp.MustCompile(`<[!/?a-zA-Z]`)

// Extractor turns calendar markup into events using configurable selector
// chains and a filter.
type Extractor struct {
	selectors Selectors
	filter    Filter
	logger    *slog.Logger
}

// NewExtractor creates an Extractor. Row failures are logged to logger.
func NewExtractor(selectors Selectors, filter Filter, logger *slog.Logger) *Extractor {
	return &Extractor{
		selectors: selectors,
		filter:    filter,
		logger:    logger,
	}
}

// Filter returns the filter applied by Extract.
func (e *Extractor) Filter() Filter {
	return e.filter
}

// Extract parses markup and returns the filtered events in document order.
func (e *Extractor) Extract(markup string) ([]Event, error) {
	result, err := e.ExtractAll(markup)
	if err != nil {
		return nil, err
	}
	return e.filter.Apply(result.Events), nil
}

// ExtractAll parses markup and returns every valid row before filtering,
// along with row counts. It fails only when markup cannot be parsed; a row
// that cannot be read is counted and skipped.
func (e *Extractor) ExtractAll(markup string) (Extraction, error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return Extraction{}, err
	}

	var result Extraction
	doc.Find(e.selectors.rowQuery()).Each(func(i int, row *goquery.Selection) {
		result.Rows++

		event, ok, err := e.extractRow(i, row)
		switch {
		case err != nil:
			result.Failed++
			e.logger.Warn("row extraction failed, skipping row", "row", i, "error", err)
		case !ok:
			result.Dropped++
			e.logger.Debug("row missing title or currency", "row", i)
		default:
			result.Events = append(result.Events, event)
		}
	})

	return result, nil
}

// extractRow builds an Event from one row. It returns ok=false when the row
// lacks a title or currency, and an error when a field strategy panics.
func (e *Extractor) extractRow(i int, row *goquery.Selection) (event Event, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			event, ok, err = Event{}, false, fmt.Errorf("row %d: %v", i, r)
		}
	}()

	s := e.selectors
	timeText := s.Time.Resolve(row)
	title := s.Title.Resolve(row)
	currency := s.Currency.Resolve(row)
	impact := collapseWhitespace(s.Impact.Resolve(row))
	forecast := s.Forecast.Resolve(row)
	actual := s.Actual.Resolve(row)
	previous := s.Previous.Resolve(row)

	if title == "" || currency == "" {
		return Event{}, false, nil
	}

	return Event{
		ID:       eventID(currency, title, timeText, i),
		Title:    title,
		Time:     timeText,
		Currency: currency,
		Impact:   impact,
		Forecast: optionalString(forecast),
		Actual:   optionalString(actual),
		Previous: optionalString(previous),
	}, true, nil
}

func parseDocument(markup string) (*goquery.Document, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, fmt.Errorf("%w: empty input", ErrUnparseable)
	}
	if !tagRe.MatchString(markup) {
		return nil, fmt.Errorf("%w: no markup tags found", ErrUnparseable)
	}

	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

func eventID(currency, title, timeText string, row int) string {
	return currency + "|" + title + "|" + timeText + "|" + strconv.Itoa(row)
}

// collapseWhitespace replaces runs of whitespace with a single space and trims.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
